package emissions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFactorFileFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factors.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"diesel": 2.7, "biodiesel": 1.9}`), 0644))

	table := DefaultFactors()
	require.NoError(t, table.LoadFactorFile(path))

	assert.Equal(t, 2.7, table.Factor("diesel"))
	assert.Equal(t, 1.9, table.Factor("biodiesel"))
	// Untouched entries keep their defaults
	assert.Equal(t, 2.31, table.Factor("petrol"))
}

func TestLoadFactorFileEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factors.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"diesel": 2.7}`), 0644))
	t.Setenv("EMISSION_FACTOR_DIESEL", "2.9")
	t.Setenv("EMISSION_FACTOR_CNG", "2.0")

	table := DefaultFactors()
	require.NoError(t, table.LoadFactorFile(path))

	assert.Equal(t, 2.9, table.Factor("diesel"))
	assert.Equal(t, 2.0, table.Factor("cng"))
}

func TestLoadFactorFileNoPath(t *testing.T) {
	// An empty path means env-only; with no overrides set, nothing changes
	table := DefaultFactors()
	require.NoError(t, table.LoadFactorFile(""))
	assert.Equal(t, DefaultFactors(), table)
}

func TestLoadFactorFileMissingFile(t *testing.T) {
	table := DefaultFactors()
	assert.Error(t, table.LoadFactorFile(filepath.Join(t.TempDir(), "absent.json")))
}
