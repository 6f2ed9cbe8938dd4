package runner

// MapReader is an in-memory request. It implements domain.ListReader and
// domain.PresenceReader.
type MapReader map[string][]string

// Str returns the first value stored under key.
func (m MapReader) Str(key string) string {
	if vs := m[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Strs returns every value stored under key.
func (m MapReader) Strs(key string) []string {
	return append([]string(nil), m[key]...)
}

// Set replaces the values stored under key.
func (m MapReader) Set(key string, values ...string) {
	m[key] = append([]string(nil), values...)
}

// Has reports whether key was set.
func (m MapReader) Has(key string) bool {
	_, ok := m[key]
	return ok
}
