// Package schema provides validation for form field values.
//
// It defines a small type system with built-in types (string, int, float, bool,
// email) plus slices, patterns, enumerations, length bounds and custom
// validators. Form values usually arrive as strings, so numeric and boolean
// types accept their string spellings. Schemas map field names to types:
//
//	s := schema.Schema{
//	    "email": schema.Required(schema.Email()),
//	    "age":   schema.Int(),
//	    "tags":  schema.Slice(schema.String()),
//	}
//
//	data := map[string]any{
//	    "email": "ada@example.com",
//	    "age":   "36",
//	    "tags":  []string{"math"},
//	}
//
//	if err := schema.Validate(s, data); err != nil {
//	    messages := schema.Messages(err) // field -> reasons
//	}
//
// Schemas can also be parsed from type strings, where a trailing "!" marks a
// required field:
//
//	s, err := schema.ParseTypeMap(map[string]string{"email": "email!", "age": "int"})
//
// Describe flattens a type into a FieldSchema for clients, and a Schema
// marshals to JSON as a map of them.
package schema
