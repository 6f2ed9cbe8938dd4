package pagedform

import (
	"fmt"

	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/schema"
)

// PageSpec declares one page of a Blueprint. New must return a fresh page on
// every call.
type PageSpec struct {
	Key   string
	Title string
	New   func() domain.Page
}

// Blueprint is an immutable form definition. It builds a new Controller for
// every request and is safe for concurrent use.
type Blueprint struct {
	name  string
	pages []PageSpec
	opts  []Option
}

// NewBlueprint creates a Blueprint. opts apply to every Controller it builds,
// after the name.
func NewBlueprint(name string, pages []PageSpec, opts ...Option) *Blueprint {
	if name == "" {
		name = DefaultName
	}
	return &Blueprint{
		name:  name,
		pages: append([]PageSpec(nil), pages...),
		opts:  append([]Option(nil), opts...),
	}
}

// Name returns the form name.
func (b *Blueprint) Name() string {
	return b.name
}

// Pages returns the page declarations in order.
func (b *Blueprint) Pages() []PageSpec {
	return append([]PageSpec(nil), b.pages...)
}

// With returns a copy of the Blueprint with extra options applied after the
// existing ones.
func (b *Blueprint) With(opts ...Option) *Blueprint {
	next := &Blueprint{name: b.name, pages: b.pages}
	next.opts = append(append([]Option(nil), b.opts...), opts...)
	return next
}

// Controller builds a Controller with freshly created pages.
func (b *Blueprint) Controller(opts ...Option) (*Controller, error) {
	all := make([]Option, 0, len(b.opts)+len(opts)+1)
	all = append(all, WithName(b.name))
	all = append(all, b.opts...)
	all = append(all, opts...)

	ctrl := New(all...)
	for _, spec := range b.pages {
		if spec.New == nil {
			return nil, fmt.Errorf("blueprint %q: page %q has no constructor", b.name, spec.Key)
		}
		if err := ctrl.AddPage(spec.Key, spec.New()); err != nil {
			return nil, fmt.Errorf("blueprint %q: %w", b.name, err)
		}
	}
	return ctrl, nil
}

// PageSchema describes the field types of one page. Fields is nil for pages
// that do not expose them.
type PageSchema struct {
	Key    string        `json:"key"`
	Fields schema.Schema `json:"fields,omitempty"`
}

// Schema lists the field types of every page, in order.
func (b *Blueprint) Schema() ([]PageSchema, error) {
	ctrl, err := b.Controller()
	if err != nil {
		return nil, err
	}
	keys := ctrl.Keys()
	out := make([]PageSchema, 0, len(keys))
	for i, p := range ctrl.Pages() {
		entry := PageSchema{Key: keys[i]}
		if sp, ok := p.(interface{ Schema() schema.Schema }); ok {
			entry.Fields = sp.Schema()
		}
		out = append(out, entry)
	}
	return out, nil
}
