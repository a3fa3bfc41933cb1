package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/adalundhe/volcans/core/errors"
)

func writeJobFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// =============================================================================
// Job File Tests
// =============================================================================

func TestReadJobFile(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeJobFile(t, `
jobs:
  - volcano: Fuego
    count: 2
    weights:
      tectonic_setting: "0.5"
      eruption_style: 1/2
    apriori: [Hekla, 211060]
  - volcano: 372070
`)
		f, err := readJobFile(path)
		require.NoError(t, err)
		require.Len(t, f.Jobs, 2)

		assert.Equal(t, "Fuego", f.Jobs[0].Volcano)
		assert.Equal(t, 2, f.Jobs[0].Count)
		assert.Equal(t, map[string]string{"tectonic_setting": "0.5", "eruption_style": "1/2"}, f.Jobs[0].Weights)
		assert.Equal(t, []string{"Hekla", "211060"}, f.Jobs[0].Apriori)

		assert.Equal(t, "372070", f.Jobs[1].Volcano)
		assert.Zero(t, f.Jobs[1].Count)
		assert.Empty(t, f.Jobs[1].Weights)
	})

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"no jobs", "jobs: []\n"},
		{"unknown key", "jobs:\n  - volcano: Fuego\n    top: 3\n"},
		{"missing volcano", "jobs:\n  - count: 3\n"},
		{"negative count", "jobs:\n  - volcano: Fuego\n    count: -1\n"},
		{"not yaml", "jobs: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readJobFile(writeJobFile(t, tt.content))
			require.Error(t, err)
			assert.Equal(t, verrors.KindInvalidInput, verrors.GetKind(err))
		})
	}

	t.Run("duplicate weight", func(t *testing.T) {
		path := writeJobFile(t, `
jobs:
  - volcano: Fuego
  - volcano: Etna
    weights:
      morphology: "0.5"
      eruption_size: "0.25"
      morphology: "0.25"
`)
		_, err := readJobFile(path)
		require.Error(t, err)
		assert.Equal(t, verrors.KindDuplicateWeight, verrors.GetKind(err))

		var ve *verrors.VolcansError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "2", ve.Context["job"])
		assert.Equal(t, "morphology", ve.Context["criterion"])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readJobFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}

// =============================================================================
// Batch Execution Tests
// =============================================================================

func TestBatch(t *testing.T) {
	dir := writeTestDataset(t)

	t.Run("every job prints its table", func(t *testing.T) {
		jobs := writeJobFile(t, `
jobs:
  - volcano: Fuego
    count: 1
  - volcano: "372070"
    count: 2
    apriori: [Agung]
`)
		stdout, _, err := execute(t, append([]string{"batch", jobs}, datasetArgs(t, dir)...)...)
		require.NoError(t, err)

		assert.Contains(t, stdout, "== Job 1/2: Fuego ==")
		assert.Contains(t, stdout, "Top 1 analogue volcanoes for Fuego, Guatemala (342090):")
		assert.Contains(t, stdout, "== Job 2/2: 372070 ==")
		assert.Contains(t, stdout, "Top 2 analogue volcanoes for Hekla, Iceland (372070):")
		assert.Contains(t, stdout, "Agung (264020):")
		assert.Equal(t, 1, strings.Count(stdout, "WARNING: All top analogue volcanoes have the same value"))
	})

	t.Run("repeated jobs hit the cache", func(t *testing.T) {
		jobs := writeJobFile(t, `
jobs:
  - volcano: Fuego
    count: 1
  - volcano: "342090"
    count: 3
`)
		_, stderr, err := execute(t, append([]string{"batch", jobs, "-v"}, datasetArgs(t, dir)...)...)
		require.NoError(t, err)
		assert.Contains(t, stderr, `msg="analogy cache" hits=1 misses=1 entries=1`)
	})

	t.Run("failing jobs do not stop the run", func(t *testing.T) {
		jobs := writeJobFile(t, `
jobs:
  - volcano: Atlantis
  - volcano: Fuego
    count: 1
  - volcano: Etna
    weights:
      morphology: "0.7"
`)
		stdout, stderr, err := execute(t, append([]string{"batch", jobs}, datasetArgs(t, dir)...)...)
		require.Error(t, err)
		assert.Equal(t, "2 of 3 jobs failed", err.Error())

		assert.Contains(t, stdout, "Top 1 analogue volcanoes for Fuego")
		assert.NotContains(t, stdout, "analogue volcanoes for Etna")
		assert.Equal(t, 2, strings.Count(stderr, `msg="job failed"`))
	})

	t.Run("duplicate weight rejects the file", func(t *testing.T) {
		jobs := writeJobFile(t, "jobs:\n  - volcano: Fuego\n    weights:\n      geochemistry: \"1\"\n      geochemistry: \"1\"\n")
		stdout, _, err := execute(t, append([]string{"batch", jobs}, datasetArgs(t, dir)...)...)
		require.Error(t, err)
		assert.Equal(t, verrors.KindDuplicateWeight, verrors.GetKind(err))
		assert.Empty(t, stdout)
	})

	t.Run("unknown criterion", func(t *testing.T) {
		jobs := writeJobFile(t, `
jobs:
  - volcano: Fuego
    weights:
      altitude: "1"
`)
		_, stderr, err := execute(t, append([]string{"batch", jobs}, datasetArgs(t, dir)...)...)
		require.Error(t, err)
		assert.Contains(t, stderr, "Unknown criterion")
	})
}
