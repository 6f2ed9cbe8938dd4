package domain

import "github.com/aretw0/pagedform/pkg/render"

// RequestReader is the key/value view of an inbound request.
// Missing keys read as the empty string.
type RequestReader interface {
	Str(key string) string
}

// ListReader is implemented by readers that can return every value submitted
// under a key (e.g. a group of checkboxes).
type ListReader interface {
	RequestReader
	Strs(key string) []string
}

// PresenceReader is implemented by readers that can tell a missing key from
// one submitted empty.
type PresenceReader interface {
	Has(key string) bool
}

// Page is one segment of a paged form.
//
// A page is registered once with a controller, which hands it its key and the
// namespace all of its request keys must live under. Pages never navigate; the
// controller decides which page is shown.
type Page interface {
	// Key returns the identity assigned at registration.
	Key() string

	// Attach assigns the page key and request namespace. Called by the controller.
	Attach(key string, ns Namespace)

	// ReadFromRequest binds the live fields submitted for this page.
	ReadFromRequest(r RequestReader)

	// ReadSerializedValues restores the values previously emitted by SerializedValues.
	// Keys a PresenceReader reports missing leave the current value alone.
	ReadSerializedValues(r RequestReader)

	// SerializedValues returns the hidden fields needed to rebuild this page on the
	// next request, keyed exactly as ReadSerializedValues expects them.
	SerializedValues() map[string]string

	// Valid reports whether the current values pass validation. It has no side effects.
	Valid() bool

	// Value returns the value stored under name, or def when absent.
	Value(name string, def any) any

	// SetValue stores a value under name.
	SetValue(name string, value any)

	// ReadFromObject binds values from the business object the form targets.
	// Returns a *TypeMismatchError when obj has the wrong shape.
	ReadFromObject(obj any) error

	// WriteToResponse writes values into resp and returns the (possibly new) response.
	// Returns a *TypeMismatchError when resp has the wrong shape.
	WriteToResponse(resp any) (any, error)

	// Render produces the page content without running any navigation logic.
	Render() (render.Fragment, error)
}
