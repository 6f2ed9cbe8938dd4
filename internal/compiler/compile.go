package compiler

import (
	"fmt"

	"github.com/aretw0/pagedform"
	"github.com/aretw0/pagedform/internal/dto"
	"github.com/aretw0/pagedform/internal/validator"
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/page"
	"github.com/aretw0/pagedform/pkg/render"
	"github.com/aretw0/pagedform/pkg/schema"
)

// Compile validates def and builds a Blueprint from it. opts are applied after
// the settings carried by the definition itself.
func (p *Parser) Compile(def *dto.FormDefinition, opts ...pagedform.Option) (*pagedform.Blueprint, error) {
	if err := validator.ValidateDefinition(def, p.registry); err != nil {
		return nil, fmt.Errorf("invalid definition %q: %w", def.Name, err)
	}

	specs := make([]pagedform.PageSpec, 0, len(def.Pages))
	for _, pd := range def.Pages {
		fields := make([]page.Field, 0, len(pd.Fields))
		for _, fd := range pd.Fields {
			f, err := p.compileField(fd)
			if err != nil {
				return nil, fmt.Errorf("page %q: field %q: %w", pd.Key, fd.Name, err)
			}
			fields = append(fields, f)
		}

		title, description := pd.Title, pd.Description
		specs = append(specs, pagedform.PageSpec{
			Key:   pd.Key,
			Title: title,
			New: func() domain.Page {
				return page.New(
					page.WithTitle(title),
					page.WithDescription(description),
					page.WithFields(fields...),
				)
			},
		})
	}

	all := []pagedform.Option{
		pagedform.WithLabels(pagedform.Labels{
			Continue: def.Labels.Continue,
			Final:    def.Labels.Final,
			Back:     def.Labels.Back,
		}),
	}
	if def.ValidationGate {
		all = append(all, pagedform.WithValidationGate())
	}
	all = append(all, opts...)

	return pagedform.NewBlueprint(def.Name, specs, all...), nil
}

// Load parses, validates and compiles the definition at path.
func (p *Parser) Load(path string, opts ...pagedform.Option) (*pagedform.Blueprint, error) {
	def, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return p.Compile(def, opts...)
}

func (p *Parser) compileField(fd dto.FieldDefinition) (page.Field, error) {
	f := page.Field{
		Name:     fd.Name,
		Label:    fd.Label,
		Help:     fd.Help,
		Widget:   fd.Widget,
		Required: fd.Required,
		Default:  fd.Default,
		Equals:   fd.Equals,
	}
	for _, opt := range fd.Options {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		f.Options = append(f.Options, render.Option{Value: opt.Value, Label: label})
	}

	if fd.Type == "" && fd.Pattern == "" && fd.MinLength == 0 && fd.MaxLength == 0 {
		return f, nil
	}

	var base schema.Type
	if fd.Type != "" {
		t, err := p.registry.Resolve(fd.Type)
		if err != nil {
			return f, err
		}
		if schema.IsRequired(t) {
			f.Required = true
			t = t.(*schema.RequiredType).Unwrap()
		}
		base = t
	} else if f.Multi() {
		base = schema.Slice(schema.String())
	} else {
		base = schema.String()
	}

	parts := []schema.Type{base}
	if fd.Pattern != "" {
		parts = append(parts, schema.Pattern(fd.Pattern))
	}
	if fd.MinLength > 0 || fd.MaxLength > 0 {
		parts = append(parts, schema.Length(fd.MinLength, fd.MaxLength))
	}
	if len(parts) == 1 {
		f.Type = base
	} else {
		f.Type = schema.All(parts...)
	}
	return f, nil
}
