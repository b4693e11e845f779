package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	assert.NoError(t, os.WriteFile(path, []byte("GEOSTAMP_TEST_PREFIX=trip\nGEOSTAMP_TEST_SSL=true\n"), 0o644))

	t.Setenv("GEOSTAMP_TEST_PREFIX", "")
	os.Unsetenv("GEOSTAMP_TEST_PREFIX")
	t.Setenv("GEOSTAMP_TEST_SSL", "")
	os.Unsetenv("GEOSTAMP_TEST_SSL")

	assert.NoError(t, LoadEnv(path))
	assert.Equal(t, "trip", Get("GEOSTAMP_TEST_PREFIX", "geostamp"))
	assert.True(t, Bool("GEOSTAMP_TEST_SSL", false))

	assert.Error(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestGet(t *testing.T) {
	t.Setenv("GEOSTAMP_TEST_BLANK", "  ")
	assert.Equal(t, "def", Get("GEOSTAMP_TEST_BLANK", "def"))
	assert.Equal(t, "def", Get("GEOSTAMP_TEST_UNSET_VAR", "def"))

	t.Setenv("GEOSTAMP_TEST_BOOL", "nope")
	assert.True(t, Bool("GEOSTAMP_TEST_BOOL", true))
	assert.False(t, Bool("GEOSTAMP_TEST_UNSET_VAR", false))
}
