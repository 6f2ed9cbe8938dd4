package render

// Widget names understood by the bundled adapters.
const (
	WidgetText       = "text"
	WidgetTextArea   = "textarea"
	WidgetPassword   = "password"
	WidgetSelect     = "select"
	WidgetRadio      = "radio"
	WidgetCheckbox   = "checkbox"
	WidgetCheckboxes = "checkboxes"
	WidgetHidden     = "hidden"
)

// Form is the renderable output of one request cycle: the selected page plus
// everything the client must send back to rebuild the other pages.
type Form struct {
	Name     string        `json:"name"`
	Page     string        `json:"page"`
	Index    int           `json:"index"`
	Count    int           `json:"count"`
	Hidden   []HiddenField `json:"hidden"`
	Controls Controls      `json:"controls"`
	Body     Fragment      `json:"body"`
}

// HiddenValues returns the hidden fields as a map.
func (f *Form) HiddenValues() map[string]string {
	return MergeHiddenFields(nil, f.Hidden...)
}

// Controls describes the navigation buttons of a form.
type Controls struct {
	// Back is false on the first page.
	Back       bool   `json:"back"`
	BackName   string `json:"back_name"`
	BackLabel  string `json:"back_label"`
	SubmitName string `json:"submit_name"`
	// SubmitLabel reads "Save" on the last page and "Continue" elsewhere unless overridden.
	SubmitLabel string `json:"submit_label"`
	// Final is true on the last page.
	Final bool `json:"final"`
}

// Fragment is the content produced by a single page.
type Fragment struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Fields      []FieldView `json:"fields"`
	// Errors holds page-level messages that do not belong to one field.
	Errors []string `json:"errors,omitempty"`
}

// FieldView is one control of a page, ready to be rendered.
type FieldView struct {
	// Name is the namespaced request key.
	Name     string   `json:"name"`
	Field    string   `json:"field"`
	Label    string   `json:"label"`
	Help     string   `json:"help,omitempty"`
	Widget   string   `json:"widget"`
	Value    string   `json:"value"`
	Values   []string `json:"values,omitempty"`
	Options  []Option `json:"options,omitempty"`
	Required bool     `json:"required,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Option is one choice of a select, radio or checkbox group.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// HasErrors reports whether any field or page-level error is present.
func (f Fragment) HasErrors() bool {
	if len(f.Errors) > 0 {
		return true
	}
	for _, field := range f.Fields {
		if len(field.Errors) > 0 {
			return true
		}
	}
	return false
}
