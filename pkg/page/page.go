// Package page provides the default field-based domain.Page.
package page

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/spf13/cast"

	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/render"
	"github.com/aretw0/pagedform/pkg/schema"
)

// Check is a page-level validation rule over all values of the page.
// Returning a *schema.ValidationError attaches the message to that field;
// any other error is reported for the page as a whole.
type Check func(values map[string]any) error

// Page is the default domain.Page: a list of declared fields, their values,
// and the rules that validate them.
type Page struct {
	key         string
	ns          domain.Namespace
	title       string
	description string
	fields      []Field
	index       map[string]int
	values      map[string]any
	checks      []Check
	object      reflect.Type
	submitted   bool
}

var _ domain.Page = (*Page)(nil)

// Option configures a Page.
type Option func(*Page)

// WithTitle sets the heading shown above the fields.
func WithTitle(title string) Option {
	return func(p *Page) {
		p.title = title
	}
}

// WithDescription sets the introductory text of the page.
func WithDescription(description string) Option {
	return func(p *Page) {
		p.description = description
	}
}

// WithField declares a field. Later declarations with the same name replace earlier ones.
func WithField(f Field) Option {
	return func(p *Page) {
		if i, ok := p.index[f.Name]; ok {
			p.fields[i] = f
			return
		}
		p.index[f.Name] = len(p.fields)
		p.fields = append(p.fields, f)
	}
}

// WithFields declares several fields in order.
func WithFields(fields ...Field) Option {
	return func(p *Page) {
		for _, f := range fields {
			WithField(f)(p)
		}
	}
}

// WithCheck adds a page-level validation rule.
func WithCheck(c Check) Option {
	return func(p *Page) {
		if c != nil {
			p.checks = append(p.checks, c)
		}
	}
}

// WithObject declares the business object type the page binds to.
// sample may be a value or a pointer; both bind to the same type.
func WithObject(sample any) Option {
	return func(p *Page) {
		p.object = indirectType(reflect.TypeOf(sample))
	}
}

// New creates a page. Field defaults are applied immediately.
func New(opts ...Option) *Page {
	p := &Page{
		index:  make(map[string]int),
		values: make(map[string]any),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, f := range p.fields {
		if f.Default != nil {
			p.values[f.Name] = f.Default
		} else if f.Multi() {
			p.values[f.Name] = []string{}
		}
	}
	return p
}

// Key returns the identity assigned at registration.
func (p *Page) Key() string {
	return p.key
}

// Attach assigns the page key and request namespace.
func (p *Page) Attach(key string, ns domain.Namespace) {
	p.key = key
	p.ns = ns
}

// Namespace returns the request-key prefix of the page.
func (p *Page) Namespace() domain.Namespace {
	return p.ns
}

// Title returns the page heading.
func (p *Page) Title() string {
	return p.title
}

// Fields returns the declared fields in order.
func (p *Page) Fields() []Field {
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Submitted reports whether the page read live values in this cycle.
func (p *Page) Submitted() bool {
	return p.submitted
}

// ReadFromRequest binds the live fields submitted for this page.
// Checkbox groups use every submitted value when r is a domain.ListReader.
// Browsers omit unchecked boxes, so a missing checkbox reads as cleared; any
// other field missing from a domain.PresenceReader keeps its value.
func (p *Page) ReadFromRequest(r domain.RequestReader) {
	p.submitted = true
	pr, _ := r.(domain.PresenceReader)
	for _, f := range p.fields {
		key := p.ns.Key(f.Name)
		if pr != nil && !pr.Has(key) && !f.Multi() && f.widget() != render.WidgetCheckbox {
			continue
		}
		if !f.Multi() {
			p.values[f.Name] = r.Str(key)
			continue
		}
		list := []string{}
		if lr, ok := r.(domain.ListReader); ok {
			list = append(list, lr.Strs(key)...)
		} else if s := r.Str(key); s != "" {
			list = append(list, s)
		}
		p.values[f.Name] = list
	}
}

// ReadSerializedValues restores the values emitted by SerializedValues.
// Fields missing from a domain.PresenceReader keep their current value.
func (p *Page) ReadSerializedValues(r domain.RequestReader) {
	pr, _ := r.(domain.PresenceReader)
	for _, f := range p.fields {
		key := p.ns.Key(f.Name)
		if pr != nil && !pr.Has(key) {
			continue
		}
		raw := r.Str(key)
		if !f.Multi() {
			p.values[f.Name] = raw
			continue
		}
		list := []string{}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &list); err != nil {
				list = []string{raw}
			}
		}
		p.values[f.Name] = list
	}
}

// SerializedValues returns one hidden field per declared field.
// Checkbox groups are encoded as a JSON array.
func (p *Page) SerializedValues() map[string]string {
	out := make(map[string]string, len(p.fields))
	for _, f := range p.fields {
		value := p.values[f.Name]
		if f.Multi() {
			encoded, err := json.Marshal(cast.ToStringSlice(value))
			if err != nil {
				encoded = []byte("[]")
			}
			out[p.ns.Key(f.Name)] = string(encoded)
			continue
		}
		out[p.ns.Key(f.Name)] = cast.ToString(value)
	}
	return out
}

// Valid reports whether the current values pass every rule.
func (p *Page) Valid() bool {
	return p.Validate() == nil
}

// Schema returns the field types the page validates against.
func (p *Page) Schema() schema.Schema {
	s := make(schema.Schema, len(p.fields))
	for _, f := range p.fields {
		s[f.Name] = f.schemaType()
	}
	return s
}

// Validate runs field types, Equals constraints and page checks.
// The result is a *schema.AggregateError or nil.
func (p *Page) Validate() error {
	s := p.Schema()
	names := make([]string, 0, len(p.fields))
	for _, f := range p.fields {
		names = append(names, f.Name)
	}

	var errs []error
	if len(names) > 0 {
		errs = append(errs, schema.ValidationErrors(schema.ValidateFields(s, p.values, names...))...)
	}

	for _, f := range p.fields {
		if f.Equals == "" {
			continue
		}
		if cast.ToString(p.values[f.Name]) != cast.ToString(p.values[f.Equals]) {
			other := f.Equals
			if i, ok := p.index[f.Equals]; ok {
				other = p.fields[i].label()
			}
			errs = append(errs, &schema.ValidationError{
				Key:    f.Name,
				Reason: fmt.Sprintf("must match %s", other),
			})
		}
	}

	for _, check := range p.checks {
		if err := check(p.Values()); err != nil {
			if nested := schema.ValidationErrors(err); nested != nil {
				errs = append(errs, nested...)
				continue
			}
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &schema.AggregateError{Errors: errs}
}

// Errors returns validation messages grouped by field name.
// Page-level messages are grouped under the empty key.
func (p *Page) Errors() map[string][]string {
	return schema.Messages(p.Validate())
}

// Value returns the value stored under name, or def when absent.
func (p *Page) Value(name string, def any) any {
	if v, ok := p.values[name]; ok {
		return v
	}
	return def
}

// SetValue stores a value under name.
func (p *Page) SetValue(name string, value any) {
	p.values[name] = value
}

// Values returns a copy of every stored value.
func (p *Page) Values() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
