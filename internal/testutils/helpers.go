package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

// WriteForm writes a definition file named name into a temporary directory
// and returns its absolute path. It fails the test immediately on error.
func WriteForm(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "Failed to write form definition")
	return path
}

// StartRedis runs an in-memory redis server for the duration of the test.
func StartRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)
	return mr
}
