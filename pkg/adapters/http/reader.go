package http

import (
	"net/url"

	"github.com/aretw0/pagedform/pkg/runner"
)

// ValuesReader adapts submitted form values to domain.ListReader.
// Every value is passed through runner.SanitizeInputLimit; values that fail
// sanitisation read as empty.
type ValuesReader struct {
	values url.Values
	limit  int
}

// NewValuesReader wraps values. A nil map reads as an empty request. limit
// caps each value in bytes; zero uses runner.MaxInputSize.
func NewValuesReader(values url.Values, limit int) *ValuesReader {
	if values == nil {
		values = url.Values{}
	}
	return &ValuesReader{values: values, limit: limit}
}

// Str returns the first value submitted under key.
func (r *ValuesReader) Str(key string) string {
	clean, err := runner.SanitizeInputLimit(r.values.Get(key), r.limit)
	if err != nil {
		return ""
	}
	return clean
}

// Strs returns every value submitted under key, dropping the ones that fail
// sanitisation.
func (r *ValuesReader) Strs(key string) []string {
	raw := r.values[key]
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		clean, err := runner.SanitizeInputLimit(v, r.limit)
		if err != nil {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// Has reports whether key was submitted, even empty.
func (r *ValuesReader) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Values exposes the underlying map.
func (r *ValuesReader) Values() url.Values {
	return r.values
}
