package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/volcans/core/dataset"
	verrors "github.com/adalundhe/volcans/core/errors"
	"github.com/adalundhe/volcans/core/storage"
)

// =============================================================================
// Dataset Command Tests
// =============================================================================

func TestDatasetCmd_Definition(t *testing.T) {
	assert.Equal(t, "dataset", datasetCmd.Use)

	names := make([]string, 0, len(datasetCmd.Commands()))
	for _, c := range datasetCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"import", "info"}, names)
}

func TestDatasetImport(t *testing.T) {
	dir := writeTestDataset(t)
	bundle := filepath.Join(t.TempDir(), "nested", "volcans.db")

	stdout, _, err := execute(t, "dataset", "import", dir, "--bundle", bundle)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Imported 5 volcanoes from %s into %s\n", dir, bundle), stdout)

	_, err = os.Stat(bundle)
	require.NoError(t, err)

	t.Run("user directories exist", func(t *testing.T) {
		dirs, err := storage.ResolveDirs()
		require.NoError(t, err)
		for _, d := range []string{dirs.Config, dirs.Data, dirs.Cache} {
			info, err := os.Stat(d)
			require.NoError(t, err, d)
			assert.True(t, info.IsDir(), d)
		}
	})

	t.Run("analogues read the bundle", func(t *testing.T) {
		// The CSV directory is gone, so only the bundle can serve the query.
		missing := filepath.Join(t.TempDir(), "missing")
		stdout, stderr, err := execute(t, "analogues", "Fuego", "-c", "1", "-v", "--data", missing, "--bundle", bundle)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Agua")
		assert.Contains(t, stderr, "source=bundle")
	})

	t.Run("info reports the bundle", func(t *testing.T) {
		stdout, _, err := execute(t, "dataset", "info", "--bundle", bundle)
		require.NoError(t, err)
		assert.Contains(t, stdout, string(dataset.SourceBundle))
		assert.Contains(t, stdout, bundle)
	})
}

func TestDatasetInfo_DataFlagSkipsDefaultBundle(t *testing.T) {
	dir := writeTestDataset(t)

	// Import into the default bundle, then ask for the CSV directory only.
	_, _, err := execute(t, "dataset", "import", dir)
	require.NoError(t, err)

	stdout, _, err := execute(t, "dataset", "info", "--data", dir)
	require.NoError(t, err)
	lines := strings.Split(stdout, "\n")
	assert.Equal(t, []string{"Source:", "csv"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Path:", dir}, strings.Fields(lines[1]))
}

func TestDatasetImport_Invalid(t *testing.T) {
	dir := writeTestDataset(t)
	require.NoError(t, os.Remove(filepath.Join(dir, dataset.NamesFile)))
	bundle := filepath.Join(t.TempDir(), "volcans.db")

	_, _, err := execute(t, "dataset", "import", dir, "--bundle", bundle)
	require.Error(t, err)
	assert.Equal(t, verrors.KindDataset, verrors.GetKind(err))

	_, statErr := os.Stat(bundle)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDatasetInfo(t *testing.T) {
	dir := writeTestDataset(t)

	stdout, _, err := execute(t, append([]string{"dataset", "info"}, datasetArgs(t, dir)...)...)
	require.NoError(t, err)

	fields := func(prefix string) []string {
		for _, line := range strings.Split(stdout, "\n") {
			if strings.HasPrefix(line, prefix) {
				return strings.Fields(line)
			}
		}
		return nil
	}

	assert.Equal(t, []string{"Source:", "csv"}, fields("Source:"))
	assert.Equal(t, []string{"Volcanoes:", "5"}, fields("Volcanoes:"))
	assert.Equal(t, []string{"CRITERION", "COLUMN", "NO", "DATA"}, fields("CRITERION"))
	assert.Equal(t, []string{"tectonic_setting", "ATs", "0"}, fields("tectonic_setting"))
	assert.Equal(t, []string{"eruption_style", "ASt", "0"}, fields("eruption_style"))
}
