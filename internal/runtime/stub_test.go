package runtime_test

import (
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/render"
)

// stubPage is a single-field page whose validity is set by the test.
type stubPage struct {
	key   string
	ns    domain.Namespace
	value string
	valid bool
	live  bool
}

func newStub(valid bool) *stubPage {
	return &stubPage{valid: valid}
}

func (s *stubPage) Key() string { return s.key }

func (s *stubPage) Attach(key string, ns domain.Namespace) {
	s.key = key
	s.ns = ns
}

func (s *stubPage) ReadFromRequest(r domain.RequestReader) {
	s.live = true
	s.value = r.Str(s.ns.Key("v"))
}

func (s *stubPage) ReadSerializedValues(r domain.RequestReader) {
	s.live = false
	s.value = r.Str(s.ns.Key("v"))
}

func (s *stubPage) SerializedValues() map[string]string {
	return map[string]string{s.ns.Key("v"): s.value}
}

func (s *stubPage) Valid() bool { return s.valid }

func (s *stubPage) Value(name string, def any) any {
	if name != "v" {
		return def
	}
	return s.value
}

func (s *stubPage) SetValue(name string, value any) {
	if name == "v" {
		s.value, _ = value.(string)
	}
}

func (s *stubPage) ReadFromObject(obj any) error {
	m, ok := obj.(map[string]string)
	if !ok {
		return &domain.TypeMismatchError{Page: s.key, Expected: "map[string]string", Got: "other"}
	}
	s.value = m[s.key]
	return nil
}

func (s *stubPage) WriteToResponse(resp any) (any, error) {
	m, ok := resp.(map[string]string)
	if !ok {
		return resp, &domain.TypeMismatchError{Page: s.key, Expected: "map[string]string", Got: "other"}
	}
	m[s.key] = s.value
	return m, nil
}

func (s *stubPage) Render() (render.Fragment, error) {
	return render.Fragment{Title: s.key}, nil
}

type request map[string]string

func (r request) Str(key string) string { return r[key] }
