package schema

import "sort"

// Schema is a map of field names to their expected types.
// Example: {"email": Required(Email()), "age": Int(), "tags": Slice(String())}
type Schema map[string]Type

// Validate checks if data conforms to the schema.
// Empty values (see IsEmpty) are only rejected by required types; optional
// fields left blank are not type-checked. Fields are checked in name order so
// the returned errors are deterministic.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	return validateNames(schema, data, names)
}

// ValidateFields validates only specific fields from data against the schema.
// Fields not defined in the schema are reported as errors.
func ValidateFields(schema Schema, data map[string]any, fields ...string) error {
	if len(fields) == 0 {
		// No fields to validate
		return nil
	}
	return validateNames(schema, data, fields)
}

func validateNames(schema Schema, data map[string]any, names []string) error {
	var errs []error

	for _, fieldName := range names {
		fieldType, defined := schema[fieldName]
		if !defined || fieldType == nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "not defined in schema",
			})
			continue
		}

		value := data[fieldName]
		if IsEmpty(value) {
			if IsRequired(fieldType) {
				errs = append(errs, &ValidationError{
					Key:    fieldName,
					Reason: "required",
				})
			}
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}
