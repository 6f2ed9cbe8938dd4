package schema

import (
	"encoding/json"
	"fmt"
)

// FieldSchema is the client-facing description of a field type.
type FieldSchema struct {
	Type      string   `json:"type"`
	Required  bool     `json:"required,omitempty"`
	Enum      []string `json:"enum,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	MinLength int      `json:"min_length,omitempty"`
	MaxLength int      `json:"max_length,omitempty"`
}

// Describe flattens a composed type into a FieldSchema. The base type name is
// the first non-constraint type found; constraints contribute their bounds.
func Describe(t Type) FieldSchema {
	var fs FieldSchema
	describe(t, &fs)
	if fs.Type == "" {
		fs.Type = "string"
	}
	return fs
}

func describe(t Type, fs *FieldSchema) {
	switch v := t.(type) {
	case nil:
	case *RequiredType:
		fs.Required = true
		describe(v.inner, fs)
	case *AllType:
		for _, inner := range v.types {
			describe(inner, fs)
		}
	case *OneOfType:
		fs.Enum = append([]string(nil), v.allowed...)
	case *PatternType:
		fs.Pattern = v.re.String()
	case *LengthType:
		fs.MinLength, fs.MaxLength = v.min, v.max
	default:
		if fs.Type == "" {
			fs.Type = t.Name()
		}
	}
}

// MarshalJSON encodes the schema as field name to FieldSchema.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	out := make(map[string]FieldSchema, len(s))
	for name, typ := range s {
		if typ == nil {
			return nil, fmt.Errorf("field %s: type is nil", name)
		}
		out[name] = Describe(typ)
	}
	return json.Marshal(out)
}
