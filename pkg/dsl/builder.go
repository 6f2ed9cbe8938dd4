package dsl

import (
	"fmt"

	"github.com/aretw0/pagedform"
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/page"
)

// Builder manages the form construction.
type Builder struct {
	name   string
	labels pagedform.Labels
	gate   bool
	pages  []*PageBuilder
	index  map[string]*PageBuilder
}

// New creates a new form builder.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		index: make(map[string]*PageBuilder),
	}
}

// Labels overrides the navigation captions.
func (b *Builder) Labels(continueLabel, finalLabel, backLabel string) *Builder {
	b.labels = pagedform.Labels{Continue: continueLabel, Final: finalLabel, Back: backLabel}
	return b
}

// Gate keeps users on the first invalid page.
func (b *Builder) Gate() *Builder {
	b.gate = true
	return b
}

// Page appends a page to the form.
// If the page already exists, it returns the existing builder.
func (b *Builder) Page(key string) *PageBuilder {
	if pb, ok := b.index[key]; ok {
		return pb
	}
	pb := &PageBuilder{key: key, builder: b}
	b.index[key] = pb
	b.pages = append(b.pages, pb)
	return pb
}

// Build compiles the form into a Blueprint.
func (b *Builder) Build(opts ...pagedform.Option) (*pagedform.Blueprint, error) {
	if len(b.pages) == 0 {
		return nil, fmt.Errorf("form %q has no pages", b.name)
	}

	specs := make([]pagedform.PageSpec, 0, len(b.pages))
	for _, pb := range b.pages {
		if err := pb.check(); err != nil {
			return nil, fmt.Errorf("form %q: %w", b.name, err)
		}
		pageOpts := pb.options()
		specs = append(specs, pagedform.PageSpec{
			Key:   pb.key,
			Title: pb.title,
			New: func() domain.Page {
				return page.New(pageOpts...)
			},
		})
	}

	all := []pagedform.Option{pagedform.WithLabels(b.labels)}
	if b.gate {
		all = append(all, pagedform.WithValidationGate())
	}
	all = append(all, opts...)
	return pagedform.NewBlueprint(b.name, specs, all...), nil
}
