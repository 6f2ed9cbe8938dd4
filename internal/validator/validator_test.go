package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pagedform/internal/dto"
	"github.com/aretw0/pagedform/pkg/registry"
	"github.com/aretw0/pagedform/pkg/schema"
)

func validDefinition() *dto.FormDefinition {
	return &dto.FormDefinition{
		Name: "signup",
		Pages: []dto.PageDefinition{
			{Key: "info", Fields: []dto.FieldDefinition{
				{Name: "email", Type: "email", Required: true},
				{Name: "plan", Widget: "select", Default: "free", Options: []dto.OptionDefinition{{Value: "free"}, {Value: "pro"}}},
			}},
			{Key: "confirm", Fields: []dto.FieldDefinition{
				{Name: "password", Widget: "password", Required: true},
				{Name: "password_again", Widget: "password", Equals: "password"},
			}},
		},
	}
}

func TestValidateDefinition_Valid(t *testing.T) {
	assert.NoError(t, ValidateDefinition(validDefinition(), nil))
}

func TestValidateDefinition_CustomType(t *testing.T) {
	def := validDefinition()
	def.Pages[0].Fields[0].Type = "phone"
	require.Error(t, ValidateDefinition(def, nil))

	reg := registry.NewRegistry()
	reg.Register("phone", schema.Pattern(`^\+?[0-9 ]+$`))
	assert.NoError(t, ValidateDefinition(def, reg))
}

func TestValidateDefinition_ReportsEveryProblem(t *testing.T) {
	def := &dto.FormDefinition{
		Name: "bad:name",
		Pages: []dto.PageDefinition{
			{Key: "a", Fields: []dto.FieldDefinition{
				{Name: "x", Widget: "slider"},
				{Name: "x"},
				{Name: "y", Widget: "radio"},
				{Name: "z", Equals: "nope", Pattern: "("},
				{Name: "w", Type: "uuid"},
				{Name: "v", MinLength: 5, MaxLength: 2},
				{Name: "u", Options: []dto.OptionDefinition{{Value: "a"}}, Default: "b"},
			}},
			{Key: "a"},
			{},
		},
	}

	err := ValidateDefinition(def, nil)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"form name \"bad:name\"",
		"unknown widget \"slider\"",
		"duplicate field \"x\"",
		"widget \"radio\" needs options",
		"equals refers to unknown field \"nope\"",
		"invalid pattern",
		"field type not found: uuid",
		"min_length 5 exceeds max_length 2",
		"default b is not one of the options",
		"page \"a\": duplicate key",
		"page 2: missing key",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateDefinition_NoPages(t *testing.T) {
	err := ValidateDefinition(&dto.FormDefinition{Name: "empty"}, nil)
	assert.ErrorContains(t, err, "has no pages")
}
