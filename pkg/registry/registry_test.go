package registry_test

import (
	"testing"

	"github.com/aretw0/pagedform/pkg/registry"
	"github.com/aretw0/pagedform/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register("zip", schema.Pattern(`^\d{5}$`))

	zip, err := reg.Resolve("zip")
	require.NoError(t, err)
	assert.NoError(t, zip.Validate("12345"))
	assert.Error(t, zip.Validate("1234"))

	required, err := reg.Resolve("zip!")
	require.NoError(t, err)
	assert.True(t, schema.IsRequired(required))

	builtin, err := reg.Resolve("email")
	require.NoError(t, err)
	assert.Equal(t, "email", builtin.Name())

	_, err = reg.Resolve("phone")
	assert.EqualError(t, err, "field type not found: phone")

	assert.Equal(t, []string{"zip"}, reg.Names())
}

func TestRegistry_NilFallsBackToBuiltins(t *testing.T) {
	var reg *registry.Registry
	typ, err := reg.Resolve("int")
	require.NoError(t, err)
	assert.Equal(t, "int", typ.Name())
}
