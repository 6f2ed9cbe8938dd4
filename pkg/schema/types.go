package schema

import (
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
// Form values usually arrive as strings, so every built-in type accepts the
// string spelling of its values ("42" is a valid int).
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Built-in Type Implementations ---

// StringType validates scalar values that have a string form.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if isList(value) {
		return fmt.Errorf("expected string, got %T", value)
	}
	if _, err := cast.ToStringE(value); err != nil {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	_, err := ToInt(value)
	return err
}

// FloatType validates floating-point values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	_, err := ToFloat(value)
	return err
}

// BoolType validates boolean values, including checkbox spellings ("on", "off").
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	_, err := ToBool(value)
	return err
}

// EmailType validates a bare e-mail address (no display name).
type EmailType struct{}

func (t *EmailType) Name() string { return "email" }

func (t *EmailType) Validate(value any) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Errorf("expected email, got %T", value)
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != strings.TrimSpace(s) {
		return fmt.Errorf("not a valid email address")
	}
	return nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}

	// Validate each element
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// RequiredType marks a field that must not be empty.
type RequiredType struct {
	inner Type
}

func (t *RequiredType) Name() string { return t.inner.Name() + "!" }

func (t *RequiredType) Validate(value any) error {
	if IsEmpty(value) {
		return fmt.Errorf("required")
	}
	return t.inner.Validate(value)
}

// Unwrap returns the wrapped type.
func (t *RequiredType) Unwrap() Type { return t.inner }

// PatternType validates the string form of a value against a regular expression.
type PatternType struct {
	re *regexp.Regexp
}

func (t *PatternType) Name() string { return "pattern" }

func (t *PatternType) Validate(value any) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Errorf("expected string, got %T", value)
	}
	if !t.re.MatchString(s) {
		return fmt.Errorf("does not match %s", t.re.String())
	}
	return nil
}

// OneOfType validates that a value (or every element of a list) is one of a fixed set.
type OneOfType struct {
	allowed []string
}

func (t *OneOfType) Name() string { return "enum" }

func (t *OneOfType) Validate(value any) error {
	if isList(value) {
		for _, item := range cast.ToStringSlice(value) {
			if err := t.check(item); err != nil {
				return err
			}
		}
		return nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Errorf("expected string, got %T", value)
	}
	return t.check(s)
}

func (t *OneOfType) check(s string) error {
	for _, allowed := range t.allowed {
		if s == allowed {
			return nil
		}
	}
	return fmt.Errorf("%q is not one of %s", s, strings.Join(t.allowed, ", "))
}

// LengthType bounds the rune count of a string. A bound of 0 disables it.
type LengthType struct {
	min, max int
}

func (t *LengthType) Name() string { return "length" }

func (t *LengthType) Validate(value any) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Errorf("expected string, got %T", value)
	}
	n := utf8.RuneCountInString(s)
	if t.min > 0 && n < t.min {
		return fmt.Errorf("must be at least %d characters", t.min)
	}
	if t.max > 0 && n > t.max {
		return fmt.Errorf("must be at most %d characters", t.max)
	}
	return nil
}

// AllType requires every inner type to accept the value.
type AllType struct {
	types []Type
}

func (t *AllType) Name() string {
	if len(t.types) == 0 {
		return "any"
	}
	return t.types[0].Name()
}

func (t *AllType) Validate(value any) error {
	for _, typ := range t.types {
		if err := typ.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Email creates an e-mail address validator.
func Email() Type { return &EmailType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Required wraps a type so empty values are rejected.
func Required(t Type) Type {
	if IsRequired(t) {
		return t
	}
	return &RequiredType{inner: t}
}

// Pattern creates a regular-expression validator. It panics on an invalid expression.
func Pattern(expr string) Type {
	return &PatternType{re: regexp.MustCompile(expr)}
}

// OneOf creates a validator accepting only the listed values.
func OneOf(values ...string) Type {
	return &OneOfType{allowed: values}
}

// Length creates a string length validator.
func Length(min, max int) Type {
	return &LengthType{min: min, max: max}
}

// All combines validators; the first failure wins.
func All(types ...Type) Type {
	return &AllType{types: types}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// IsRequired reports whether t rejects empty values.
func IsRequired(t Type) bool {
	_, ok := t.(*RequiredType)
	return ok
}

// ParseType converts a string type name to a Type.
// Supports basic types: "string", "int", "float", "bool", "email", "[string]", "[int]", etc.
// A trailing "!" marks the field as required ("email!").
func ParseType(typeStr string) (Type, error) {
	if strings.HasSuffix(typeStr, "!") {
		inner, err := ParseType(strings.TrimSuffix(typeStr, "!"))
		if err != nil {
			return nil, err
		}
		return Required(inner), nil
	}

	// Handle slice types: [string], [int], etc.
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemTypeStr := typeStr[1 : len(typeStr)-1]
		elemType, err := ParseType(elemTypeStr)
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	// Handle built-in types
	switch typeStr {
	case "string", "":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "email":
		return Email(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of field names to type strings into a Schema.
// Example: {"email": "email!", "age": "int"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema)
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}

// --- Coercion helpers ---

// ToInt converts a form value to an int64. Strings are parsed in base 10.
func ToInt(value any) (int64, error) {
	if s, ok := value.(string); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected int, got %q", s)
		}
		return n, nil
	}
	switch v := value.(type) {
	case float32, float64:
		f := cast.ToFloat64(v)
		if f != float64(int64(f)) {
			return 0, fmt.Errorf("expected int, got float (not a whole number)")
		}
		return int64(f), nil
	case bool, nil:
		return 0, fmt.Errorf("expected int, got %T", value)
	}
	n, err := cast.ToInt64E(value)
	if err != nil {
		return 0, fmt.Errorf("expected int, got %T", value)
	}
	return n, nil
}

// ToFloat converts a form value to a float64.
func ToFloat(value any) (float64, error) {
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("expected float, got %q", s)
		}
		return f, nil
	}
	switch value.(type) {
	case bool, nil:
		return 0, fmt.Errorf("expected float, got %T", value)
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, fmt.Errorf("expected float, got %T", value)
	}
	return f, nil
}

// ToBool converts a form value to a bool. Checkbox values "on"/"off" and
// "yes"/"no" are accepted alongside strconv spellings.
func ToBool(value any) (bool, error) {
	if s, ok := value.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "on", "yes", "y":
			return true, nil
		case "off", "no", "n":
			return false, nil
		}
	}
	if value == nil {
		return false, fmt.Errorf("expected bool, got %T", value)
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return false, fmt.Errorf("expected bool, got %v", value)
	}
	return b, nil
}

// IsEmpty reports whether a value counts as "not provided":
// nil, a blank string, or an empty list.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer:
		return rv.IsNil()
	}
	return false
}

func isList(value any) bool {
	if value == nil {
		return false
	}
	kind := reflect.ValueOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}
