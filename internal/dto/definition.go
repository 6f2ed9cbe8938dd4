// Package dto holds the decoded shape of form definition files.
package dto

// FormDefinition is the root of a definition file.
// It uses "mapstructure" tags so YAML and JSON decode through the same path.
type FormDefinition struct {
	Name           string           `json:"name" mapstructure:"name"`
	Labels         LabelsDefinition `json:"labels" mapstructure:"labels"`
	ValidationGate bool             `json:"validation_gate" mapstructure:"validation_gate"`
	Pages          []PageDefinition `json:"pages" mapstructure:"pages"`
}

type LabelsDefinition struct {
	Continue string `json:"continue" mapstructure:"continue"`
	Final    string `json:"final" mapstructure:"final"`
	Back     string `json:"back" mapstructure:"back"`
}

type PageDefinition struct {
	Key         string            `json:"key" mapstructure:"key"`
	Title       string            `json:"title" mapstructure:"title"`
	Description string            `json:"description" mapstructure:"description"`
	Fields      []FieldDefinition `json:"fields" mapstructure:"fields"`
}

type FieldDefinition struct {
	Name     string `json:"name" mapstructure:"name"`
	Label    string `json:"label" mapstructure:"label"`
	Help     string `json:"help" mapstructure:"help"`
	Type     string `json:"type" mapstructure:"type"`
	Widget   string `json:"widget" mapstructure:"widget"`
	Required bool   `json:"required" mapstructure:"required"`
	Default  any    `json:"default" mapstructure:"default"`
	Equals   string `json:"equals" mapstructure:"equals"`

	// Options accept either plain strings or {value, label} objects.
	Options []OptionDefinition `json:"options" mapstructure:"options"`

	// Extra constraints on string values.
	Pattern   string `json:"pattern" mapstructure:"pattern"`
	MinLength int    `json:"min_length" mapstructure:"min_length"`
	MaxLength int    `json:"max_length" mapstructure:"max_length"`
}

type OptionDefinition struct {
	Value string `json:"value" mapstructure:"value"`
	Label string `json:"label" mapstructure:"label"`
}
