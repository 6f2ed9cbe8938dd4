package page

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/schema"
)

// ReadFromObject copies the declared fields found in obj into the page.
// obj may be a struct, a pointer to a struct or a map with string keys;
// struct fields are matched by their mapstructure tag or, failing that, by
// case-insensitive field name.
func (p *Page) ReadFromObject(obj any) error {
	if err := p.checkShape(obj, false); err != nil {
		return err
	}

	var flat map[string]any
	if err := mapstructure.Decode(obj, &flat); err != nil {
		return fmt.Errorf("page %q: read object: %w", p.key, err)
	}

	lower := make(map[string]string, len(flat))
	for k := range flat {
		lower[strings.ToLower(k)] = k
	}
	for _, f := range p.fields {
		v, ok := flat[f.Name]
		if !ok {
			orig, found := lower[strings.ToLower(f.Name)]
			if !found {
				continue
			}
			v = flat[orig]
		}
		p.values[f.Name] = v
	}
	return nil
}

// WriteToResponse writes the page values into resp.
// resp must be a map[string]any or a non-nil pointer to the declared object
// type. Strings are converted to the destination field types; fields the page
// does not own are left untouched.
func (p *Page) WriteToResponse(resp any) (any, error) {
	if m, ok := resp.(map[string]any); ok && p.object == nil {
		if m == nil {
			m = make(map[string]any, len(p.values))
		}
		for k, v := range p.values {
			m[k] = v
		}
		return m, nil
	}

	if err := p.checkShape(resp, true); err != nil {
		return resp, err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       boolHook,
		WeaklyTypedInput: true,
		Result:           resp,
	})
	if err != nil {
		return resp, fmt.Errorf("page %q: write response: %w", p.key, err)
	}
	if err := dec.Decode(p.Values()); err != nil {
		return resp, fmt.Errorf("page %q: write response: %w", p.key, err)
	}
	return resp, nil
}

func (p *Page) checkShape(v any, pointer bool) error {
	expected := "struct or map"
	if p.object != nil {
		expected = p.object.String()
	}
	if pointer {
		expected = "*" + expected
	}
	mismatch := &domain.TypeMismatchError{Page: p.key, Expected: expected, Got: fmt.Sprintf("%T", v)}

	if v == nil {
		mismatch.Got = "nil"
		return mismatch
	}

	t := reflect.TypeOf(v)
	if pointer {
		rv := reflect.ValueOf(v)
		if t.Kind() != reflect.Ptr || rv.IsNil() {
			return mismatch
		}
	}
	base := indirectType(t)

	if p.object != nil {
		if base != p.object {
			return mismatch
		}
		return nil
	}

	switch base.Kind() {
	case reflect.Struct:
		return nil
	case reflect.Map:
		if base.Key().Kind() == reflect.String {
			return nil
		}
	}
	return mismatch
}

// boolHook accepts checkbox-style strings ("on", "yes") for bool fields.
func boolHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	s := data.(string)
	if strings.TrimSpace(s) == "" {
		return false, nil
	}
	return schema.ToBool(s)
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
