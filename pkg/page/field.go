package page

import (
	"strings"

	"github.com/aretw0/pagedform/pkg/render"
	"github.com/aretw0/pagedform/pkg/schema"
)

// Field declares one control of a page.
type Field struct {
	Name  string
	Label string
	Help  string
	// Widget selects the control (see render.Widget*). Defaults to text, or
	// select when Options are present.
	Widget string
	// Type validates the value. Defaults to schema.String (schema.Slice of
	// strings for checkbox groups).
	Type     schema.Type
	Required bool
	Options  []render.Option
	Default  any
	// Equals names another field of the same page this one must match.
	Equals string
}

// Multi reports whether the field holds a list of values.
func (f Field) Multi() bool {
	return f.widget() == render.WidgetCheckboxes
}

func (f Field) widget() string {
	if w := strings.TrimSpace(f.Widget); w != "" {
		return w
	}
	if len(f.Options) > 0 {
		return render.WidgetSelect
	}
	return render.WidgetText
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return humanize(f.Name)
}

// schemaType returns the validator for the field, with requiredness and
// option membership folded in.
func (f Field) schemaType() schema.Type {
	t := f.Type
	if t == nil {
		t = schema.String()
		if f.Multi() {
			t = schema.Slice(schema.String())
		}
	}
	if len(f.Options) > 0 {
		allowed := make([]string, 0, len(f.Options))
		for _, opt := range f.Options {
			allowed = append(allowed, opt.Value)
		}
		t = schema.All(t, schema.OneOf(allowed...))
	}
	if f.Required {
		t = schema.Required(t)
	}
	return t
}

// Options builds select options where every value is also its label.
func Options(values ...string) []render.Option {
	out := make([]render.Option, 0, len(values))
	for _, v := range values {
		out = append(out, render.Option{Value: v, Label: v})
	}
	return out
}

func humanize(name string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(name)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
