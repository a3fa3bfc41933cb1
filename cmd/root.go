// Package cmd provides the volcans command line interface.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X github.com/adalundhe/volcans/cmd.version=...".
var version = "dev"

// =============================================================================
// Global Flags
// =============================================================================

var (
	verbose    bool
	configPath string
	dataDir    string
	bundlePath string
	colorMode  string
)

var rootCmd = &cobra.Command{
	Use:   "volcans",
	Short: "VOLCANS - find analogue volcanoes",
	Long: `VOLCANS ranks the volcanoes of the Global Volcanism Program catalogue by
their analogy with a target volcano. Total analogy is a weighted combination
of five criteria: tectonic setting, geochemistry, morphology, eruption size and
eruption style.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose output: debug logging and single-criterion analogy columns")
	flags.StringVar(&configPath, "config", "", "Additional config file, applied after every other config layer")
	flags.StringVar(&dataDir, "data", "", "CSV dataset directory (overrides data.dir)")
	flags.StringVar(&bundlePath, "bundle", "", "SQLite dataset bundle (overrides data.bundle)")
	flags.StringVar(&colorMode, "color", "", "Colour output: auto, always or never (overrides output.color)")
}

// setupLogging installs a text handler on the command's stderr.
func setupLogging(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// Execute runs the root command and logs the error that ends it.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		slog.Error(err.Error())
	}
	return err
}
