package domain

// Reserved request keys.
const (
	// SubmitKey carries the "continue"/"save" control.
	SubmitKey = "__submit__"
	// BackKey carries the "back" control.
	BackKey = "__back__"
	// PageField is the field (inside the form namespace) naming the active page.
	PageField = "page"
)

// Intent is the navigation requested by one request.
// It is computed once and passed through processing; it is never stored.
type Intent struct {
	// Page is the key of the page that was on screen. May be empty or unknown.
	Page string
	// Next asks to advance one page (or to complete on the last page).
	Next bool
	// Back asks to retreat one page. Takes precedence over Next.
	Back bool
}

// ReadIntent extracts the navigation intent of a request for the form namespace ns.
func ReadIntent(r RequestReader, ns Namespace) Intent {
	return Intent{
		Page: r.Str(ns.Key(PageField)),
		Next: Truthy(r.Str(SubmitKey)),
		Back: Truthy(r.Str(BackKey)),
	}
}

// Truthy reports whether a submitted control value counts as pressed.
// Empty strings and "0" do not.
func Truthy(s string) bool {
	return s != "" && s != "0"
}
