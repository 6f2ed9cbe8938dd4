package dsl

import (
	"fmt"

	"github.com/aretw0/pagedform/pkg/page"
	"github.com/aretw0/pagedform/pkg/render"
	"github.com/aretw0/pagedform/pkg/schema"
)

// PageBuilder provides a fluent API for configuring a page.
// Field modifiers (Label, Help, Required, ...) apply to the last added field.
type PageBuilder struct {
	key         string
	title       string
	description string
	fields      []page.Field
	checks      []page.Check
	object      any
	builder     *Builder
}

// Title sets the page heading.
func (p *PageBuilder) Title(title string) *PageBuilder {
	p.title = title
	return p
}

// Description sets the introductory text.
func (p *PageBuilder) Description(text string) *PageBuilder {
	p.description = text
	return p
}

// Field adds a fully specified field.
func (p *PageBuilder) Field(f page.Field) *PageBuilder {
	p.fields = append(p.fields, f)
	return p
}

// Text adds a single-line text field.
func (p *PageBuilder) Text(name string) *PageBuilder {
	return p.Field(page.Field{Name: name, Widget: render.WidgetText})
}

// TextArea adds a multi-line text field.
func (p *PageBuilder) TextArea(name string) *PageBuilder {
	return p.Field(page.Field{Name: name, Widget: render.WidgetTextArea})
}

// Email adds a text field validated as an e-mail address.
func (p *PageBuilder) Email(name string) *PageBuilder {
	return p.Field(page.Field{Name: name, Widget: render.WidgetText, Type: schema.Email()})
}

// Password adds a masked text field.
func (p *PageBuilder) Password(name string) *PageBuilder {
	return p.Field(page.Field{Name: name, Widget: render.WidgetPassword})
}

// Number adds a text field validated as an integer.
func (p *PageBuilder) Number(name string) *PageBuilder {
	return p.Field(page.Field{Name: name, Widget: render.WidgetText, Type: schema.Int()})
}

// Checkbox adds a single boolean checkbox.
func (p *PageBuilder) Checkbox(name string) *PageBuilder {
	return p.Field(page.Field{Name: name, Widget: render.WidgetCheckbox, Type: schema.Bool()})
}

// Select adds a drop-down with the given options.
func (p *PageBuilder) Select(name string, options ...string) *PageBuilder {
	return p.Field(page.Field{Name: name, Widget: render.WidgetSelect, Options: page.Options(options...)})
}

// Radio adds a radio group with the given options.
func (p *PageBuilder) Radio(name string, options ...string) *PageBuilder {
	return p.Field(page.Field{Name: name, Widget: render.WidgetRadio, Options: page.Options(options...)})
}

// Checkboxes adds a multi-select checkbox group.
func (p *PageBuilder) Checkboxes(name string, options ...string) *PageBuilder {
	return p.Field(page.Field{Name: name, Widget: render.WidgetCheckboxes, Options: page.Options(options...)})
}

// Label sets the caption of the last field.
func (p *PageBuilder) Label(label string) *PageBuilder {
	return p.last(func(f *page.Field) { f.Label = label })
}

// Help sets the hint of the last field.
func (p *PageBuilder) Help(help string) *PageBuilder {
	return p.last(func(f *page.Field) { f.Help = help })
}

// Required marks the last field as required.
func (p *PageBuilder) Required() *PageBuilder {
	return p.last(func(f *page.Field) { f.Required = true })
}

// Default sets the initial value of the last field.
func (p *PageBuilder) Default(v any) *PageBuilder {
	return p.last(func(f *page.Field) { f.Default = v })
}

// Type replaces the validator of the last field.
func (p *PageBuilder) Type(t schema.Type) *PageBuilder {
	return p.last(func(f *page.Field) { f.Type = t })
}

// Equals requires the last field to match another field of the page.
func (p *PageBuilder) Equals(other string) *PageBuilder {
	return p.last(func(f *page.Field) { f.Equals = other })
}

// Check adds a page-level validation rule.
func (p *PageBuilder) Check(c page.Check) *PageBuilder {
	p.checks = append(p.checks, c)
	return p
}

// Bind declares the business object type the page reads from and writes to.
func (p *PageBuilder) Bind(sample any) *PageBuilder {
	p.object = sample
	return p
}

// Page starts the next page of the form.
func (p *PageBuilder) Page(key string) *PageBuilder {
	return p.builder.Page(key)
}

// Done returns the form builder.
func (p *PageBuilder) Done() *Builder {
	return p.builder
}

func (p *PageBuilder) last(apply func(*page.Field)) *PageBuilder {
	if len(p.fields) > 0 {
		apply(&p.fields[len(p.fields)-1])
	}
	return p
}

func (p *PageBuilder) check() error {
	seen := make(map[string]bool, len(p.fields))
	for _, f := range p.fields {
		if f.Name == "" {
			return fmt.Errorf("page %q: field without name", p.key)
		}
		if seen[f.Name] {
			return fmt.Errorf("page %q: duplicate field %q", p.key, f.Name)
		}
		seen[f.Name] = true
	}
	for _, f := range p.fields {
		if f.Equals != "" && !seen[f.Equals] {
			return fmt.Errorf("page %q: field %q equals unknown field %q", p.key, f.Name, f.Equals)
		}
	}
	return nil
}

// options snapshots the page so later builder calls do not leak into built pages.
func (p *PageBuilder) options() []page.Option {
	fields := append([]page.Field(nil), p.fields...)
	opts := []page.Option{
		page.WithTitle(p.title),
		page.WithDescription(p.description),
		page.WithFields(fields...),
	}
	for _, c := range p.checks {
		opts = append(opts, page.WithCheck(c))
	}
	if p.object != nil {
		opts = append(opts, page.WithObject(p.object))
	}
	return opts
}
