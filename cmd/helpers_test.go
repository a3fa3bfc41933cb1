package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/volcans/core/dataset"
	"github.com/adalundhe/volcans/core/weights"
)

// =============================================================================
// Fixtures
// =============================================================================

var testVolcanoes = [][]string{
	{"Fuego", "Guatemala", "342090"},
	{"Agua", "Guatemala", "342100"},
	{"Hekla", "Iceland", "372070"},
	{"Etna", "Italy", "211060"},
	{"Agung", "Indonesia", "264020"},
}

// testMatrix is used for every criterion, so the total analogy equals it
// under any weighting scheme. The top analogues of Fuego are Agua, Etna and
// Agung.
var testMatrix = [][]float64{
	{1, 0.9, 0.3, 0.6, 0.5},
	{0.9, 1, 0.2, 0.4, 0.7},
	{0.3, 0.2, 1, 0.1, 0.35},
	{0.6, 0.4, 0.1, 1, 0.8},
	{0.5, 0.7, 0.35, 0.8, 1},
}

func writeRecords(t *testing.T, path string, records [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(records))
}

// writeTestDataset writes the five-volcano CSV dataset and returns its
// directory.
func writeTestDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeRecords(t, filepath.Join(dir, dataset.NamesFile), testVolcanoes)

	records := make([][]string, len(testMatrix))
	for i, row := range testMatrix {
		for _, v := range row {
			records[i] = append(records[i], strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	for _, c := range weights.Criteria {
		writeRecords(t, filepath.Join(dir, dataset.MatrixFile(c)), records)
	}
	return dir
}

// =============================================================================
// Command Harness
// =============================================================================

// resetFlags restores every flag of cmd and its subcommands to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// isolate points the user directories and VOLCANS_ variables away from the
// real environment.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("NO_COLOR", "1")
	for _, name := range []string{
		"VOLCANS_DATA_DIR", "VOLCANS_BUNDLE", "VOLCANS_COUNT",
		"VOLCANS_SUGGESTION_LIMIT", "VOLCANS_CACHE_SIZE", "VOLCANS_COLOR",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

// execute runs the root command in-process and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	isolate(t)
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// datasetArgs selects the CSV dataset at dir and a bundle path that does not
// exist.
func datasetArgs(t *testing.T, dir string) []string {
	t.Helper()
	return []string{"--data", dir, "--bundle", filepath.Join(t.TempDir(), "absent.db"), "--color", "never"}
}
