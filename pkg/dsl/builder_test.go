package dsl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/page"
	"github.com/aretw0/pagedform/pkg/render"
)

func signup() *Builder {
	b := New("signup").Labels("Next", "Create account", "")

	b.Page("info").
		Title("About you").
		Email("email").Label("E-mail").Required().
		Select("plan", "free", "pro").Default("free").
		Checkboxes("topics", "go", "sql")

	b.Page("confirm").
		Password("password").Required().
		Password("password_again").Equals("password")

	return b
}

func TestBuilder_SimpleForm(t *testing.T) {
	bp, err := signup().Build()
	require.NoError(t, err)
	assert.Equal(t, "signup", bp.Name())
	require.Len(t, bp.Pages(), 2)
	assert.Equal(t, "About you", bp.Pages()[0].Title)

	ctrl, err := bp.Controller()
	require.NoError(t, err)
	assert.Equal(t, []string{"info", "confirm"}, ctrl.Keys())

	info, err := ctrl.Page("info")
	require.NoError(t, err)
	fields := info.(*page.Page).Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "E-mail", fields[0].Label)
	assert.True(t, fields[0].Required)
	assert.Equal(t, "free", info.Value("plan", nil))
	assert.Equal(t, render.WidgetCheckboxes, fields[2].Widget)
}

func TestBuilder_ControllersAreIndependent(t *testing.T) {
	b := signup()
	bp, err := b.Build()
	require.NoError(t, err)

	// Changes after Build do not leak into the blueprint.
	b.Page("info").Text("late")

	ctrl, err := bp.Controller()
	require.NoError(t, err)
	info, _ := ctrl.Page("info")
	assert.Len(t, info.(*page.Page).Fields(), 3)
}

func TestBuilder_LabelsAndCompletion(t *testing.T) {
	bp, err := signup().Build()
	require.NoError(t, err)
	ctrl, err := bp.Controller()
	require.NoError(t, err)

	require.NoError(t, ctrl.SetValue("info", "email", "ada@example.com"))
	_, err = ctrl.Process(context.Background(), domain.Intent{Page: "confirm"})
	require.NoError(t, err)
	form, err := ctrl.Form()
	require.NoError(t, err)
	assert.Equal(t, "Create account", form.Controls.SubmitLabel)
	assert.Equal(t, "« Back", form.Controls.BackLabel, "empty labels keep their default")

	require.NoError(t, ctrl.SetValue("confirm", "password", "pw"))
	require.NoError(t, ctrl.SetValue("confirm", "password_again", "pw"))
	_, err = ctrl.Process(context.Background(), domain.Intent{Page: "confirm", Next: true})
	require.NoError(t, err)
	assert.True(t, ctrl.IsComplete())
}

func TestBuilder_ChecksAndGate(t *testing.T) {
	b := New("booking").Gate()
	b.Page("dates").
		Number("nights").Required().
		Check(func(v map[string]any) error {
			if v["nights"] == "0" {
				return errors.New("at least one night")
			}
			return nil
		})
	b.Page("pay").Text("card")

	bp, err := b.Build()
	require.NoError(t, err)
	ctrl, err := bp.Controller()
	require.NoError(t, err)

	require.NoError(t, ctrl.SetValue("dates", "nights", "0"))
	out, err := ctrl.Process(context.Background(), domain.Intent{Page: "pay", Next: true})
	require.NoError(t, err)
	assert.Equal(t, "dates", out.Selected)
}

func TestBuilder_Errors(t *testing.T) {
	_, err := New("empty").Build()
	assert.ErrorContains(t, err, "no pages")

	b := New("dup")
	b.Page("a").Text("x").Text("x")
	_, err = b.Build()
	assert.ErrorContains(t, err, "duplicate field")

	b = New("equals")
	b.Page("a").Password("p").Equals("missing")
	_, err = b.Build()
	assert.ErrorContains(t, err, "unknown field")
}

func TestBuilder_Bind(t *testing.T) {
	type account struct {
		Email string
	}
	b := New("bind")
	b.Page("a").Email("email").Bind(account{})
	bp, err := b.Build()
	require.NoError(t, err)

	ctrl, err := bp.Controller()
	require.NoError(t, err)
	_, err = ctrl.ReadFromObject(context.Background(), &account{Email: "x@y.z"})
	require.NoError(t, err)
	v, _ := ctrl.Value("a", "email", nil)
	assert.Equal(t, "x@y.z", v)

	_, err = ctrl.ReadFromObject(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
}
