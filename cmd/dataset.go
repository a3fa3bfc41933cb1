package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adalundhe/volcans/core/catalogue"
	"github.com/adalundhe/volcans/core/dataset"
	verrors "github.com/adalundhe/volcans/core/errors"
	"github.com/adalundhe/volcans/core/weights"
)

// =============================================================================
// Dataset Commands
// =============================================================================

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage the volcano dataset",
	Long: `Manage the volcano dataset used by every other command.

A dataset is either a directory holding volc_names.csv and one CSV analogy
matrix per criterion, or a SQLite bundle imported from such a directory.
The bundle is used when it exists, unless --data is given without --bundle.`,
}

var datasetImportCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import a CSV dataset directory into the SQLite bundle",
	Long: `Validate a CSV dataset directory and write it to the SQLite bundle
(data.bundle, or --bundle). An existing bundle is replaced.

Examples:
  volcans dataset import ./VOLCANS_DATA
  volcans dataset import ./VOLCANS_DATA --bundle /tmp/volcans.db`,
	Args: cobra.ExactArgs(1),
	RunE: runDatasetImport,
}

var datasetInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the loaded dataset",
	Args:  cobra.NoArgs,
	RunE:  runDatasetInfo,
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetImportCmd)
	datasetCmd.AddCommand(datasetInfoCmd)
}

func runDatasetImport(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if env.cfg.Data.Bundle == "" {
		return verrors.New(verrors.KindInvalidInput, "no bundle path configured. Set data.bundle or pass --bundle")
	}

	dir := args[0]
	ds, err := dataset.LoadDir(dir,
		catalogue.WithSuggestionLimit(env.cfg.Analogy.SuggestionLimit),
		catalogue.WithLogger(env.logger))
	if err != nil {
		return err
	}

	if err := env.dirs.EnsureAll(); err != nil {
		return verrors.Wrap(verrors.KindDataset, "failed to create volcans directories", err)
	}
	if err := dataset.WriteBundle(cmd.Context(), env.cfg.Data.Bundle, ds); err != nil {
		return err
	}
	env.logger.Debug("wrote bundle", "path", env.cfg.Data.Bundle, "volcanoes", ds.Len())

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d volcanoes from %s into %s\n", ds.Len(), dir, env.cfg.Data.Bundle)
	return nil
}

func runDatasetInfo(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	ds, err := env.openDataset(cmd.Context())
	if err != nil {
		return err
	}

	info := ds.Info()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Source:\t%s\n", info.Source)
	fmt.Fprintf(tw, "Path:\t%s\n", info.Path)
	fmt.Fprintf(tw, "Volcanoes:\t%d\n", info.Volcanoes)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CRITERION\tCOLUMN\tNO DATA")
	for _, c := range weights.Criteria {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c, c.Column(), info.NoData[c])
	}
	return tw.Flush()
}
