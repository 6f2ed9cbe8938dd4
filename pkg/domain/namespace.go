package domain

import "strings"

// Separator joins the segments of a request key: <form>:<page>:<field>.
const Separator = ":"

// Namespace is the request-key prefix handed to a page at registration.
type Namespace string

// Join builds a namespace from segments.
func Join(segments ...string) Namespace {
	return Namespace(strings.Join(segments, Separator))
}

// Key returns the request key for a field inside the namespace.
func (n Namespace) Key(field string) string {
	if n == "" {
		return field
	}
	return string(n) + Separator + field
}

// Field strips the namespace prefix from a request key.
// The boolean is false when key does not belong to the namespace.
func (n Namespace) Field(key string) (string, bool) {
	prefix := string(n) + Separator
	if n == "" || !strings.HasPrefix(key, prefix) {
		return "", false
	}
	return strings.TrimPrefix(key, prefix), true
}

func (n Namespace) String() string {
	return string(n)
}
