package compiler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pagedform/internal/compiler"
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/page"
	"github.com/aretw0/pagedform/pkg/registry"
	"github.com/aretw0/pagedform/pkg/render"
	"github.com/aretw0/pagedform/pkg/schema"
)

type request map[string]string

func (r request) Str(key string) string { return r[key] }

func TestParser_ParseYAML(t *testing.T) {
	def, err := compiler.NewParser().ParseFile("testdata/signup.yaml")
	require.NoError(t, err)

	assert.Equal(t, "signup", def.Name)
	assert.Equal(t, "Create account", def.Labels.Final)
	require.Len(t, def.Pages, 2)

	plan := def.Pages[0].Fields[1]
	assert.Equal(t, "free", plan.Default)
	require.Len(t, plan.Options, 2)
	assert.Equal(t, "pro", plan.Options[1].Value)
	assert.Equal(t, "pro", plan.Options[1].Label)

	topics := def.Pages[0].Fields[2]
	assert.Equal(t, "SQL", topics.Options[1].Label)
	assert.Equal(t, 8, def.Pages[1].Fields[0].MinLength)
}

func TestParser_RejectsUnknownKeys(t *testing.T) {
	_, err := compiler.NewParser().Parse([]byte("name: x\npages: []\ncolour: red\n"))
	assert.ErrorContains(t, err, "colour")

	_, err = compiler.NewParser().Parse([]byte("   "))
	assert.ErrorContains(t, err, "empty document")

	_, err = compiler.NewParser().Parse([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestParser_LoadBuildsWorkingBlueprint(t *testing.T) {
	bp, err := compiler.NewParser().Load("testdata/signup.yaml")
	require.NoError(t, err)
	assert.Equal(t, "signup", bp.Name())
	assert.Equal(t, "About you", bp.Pages()[0].Title)

	ctrl, err := bp.Controller()
	require.NoError(t, err)

	ctx := context.Background()
	_, err = ctrl.ReadFromRequest(ctx, request{
		"signup:page":       "info",
		"signup:info:email": "ada@example.com",
		"signup:info:plan":  "pro",
		domain.SubmitKey:    "1",
	})
	require.NoError(t, err)

	form, err := ctrl.Form()
	require.NoError(t, err)
	assert.Equal(t, "confirm", form.Page)
	assert.Equal(t, "Create account", form.Controls.SubmitLabel)
	assert.Equal(t, "Back", form.Controls.BackLabel)
	assert.Equal(t, "pro", form.HiddenValues()["signup:info:plan"])

	_, err = ctrl.ReadFromRequest(ctx, mergeHidden(form, request{
		"signup:confirm:password":       "short",
		"signup:confirm:password_again": "short",
		domain.SubmitKey:                "1",
	}))
	require.NoError(t, err)
	assert.False(t, ctrl.IsComplete(), "min_length applies")

	form, err = ctrl.Form()
	require.NoError(t, err)
	assert.NotEmpty(t, form.Body.Fields[0].Errors)
}

func TestParser_JSONDefinition(t *testing.T) {
	bp, err := compiler.NewParser().Load("testdata/contact.json")
	require.NoError(t, err)

	ctrl, err := bp.Controller()
	require.NoError(t, err)
	_, err = ctrl.Process(context.Background(), domain.Intent{Page: "what", Next: true})
	require.NoError(t, err)
	assert.Equal(t, "who", ctrl.Outcome().Selected, "validation_gate is honoured")

	who, err := ctrl.Page("who")
	require.NoError(t, err)
	fields := who.(*page.Page).Fields()
	assert.True(t, fields[0].Required, "the ! suffix marks the field required")
}

func TestParser_RegistryTypes(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register("zip", schema.Pattern(`^[0-9]{5}$`))
	p := compiler.NewParser(compiler.WithRegistry(reg))

	def, err := p.Parse([]byte(`
name: address
pages:
  - key: where
    fields:
      - {name: zip, type: zip}
`))
	require.NoError(t, err)
	bp, err := p.Compile(def)
	require.NoError(t, err)

	ctrl, err := bp.Controller()
	require.NoError(t, err)
	require.NoError(t, ctrl.SetValue("where", "zip", "abc"))
	_, err = ctrl.Process(context.Background(), domain.Intent{Page: "where", Next: true})
	require.NoError(t, err)
	assert.False(t, ctrl.IsComplete())

	require.NoError(t, ctrl.SetValue("where", "zip", "12345"))
	_, err = ctrl.Process(context.Background(), domain.Intent{Page: "where", Next: true})
	require.NoError(t, err)
	assert.True(t, ctrl.IsComplete())
}

func TestParser_CompileRejectsInvalid(t *testing.T) {
	p := compiler.NewParser()
	def, err := p.Parse([]byte("name: broken\npages:\n  - key: a\n    fields:\n      - {name: x, widget: slider}\n"))
	require.NoError(t, err)
	_, err = p.Compile(def)
	assert.ErrorContains(t, err, "unknown widget")
}

func mergeHidden(form *render.Form, r request) request {
	for k, v := range form.HiddenValues() {
		if _, ok := r[k]; !ok {
			r[k] = v
		}
	}
	return r
}
