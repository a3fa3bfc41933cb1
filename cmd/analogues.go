package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/adalundhe/volcans/core/analogy"
	"github.com/adalundhe/volcans/core/catalogue"
	"github.com/adalundhe/volcans/core/gvp"
	verrors "github.com/adalundhe/volcans/core/errors"
	"github.com/adalundhe/volcans/core/report"
	"github.com/adalundhe/volcans/core/weights"
)

// =============================================================================
// Analogues Command Flags
// =============================================================================

var (
	analoguesApriori   []string
	analoguesWeights   [weights.NumCriteria][]string
	analoguesCount     int
	analoguesWriteCSV  bool
	analoguesWriteJSON bool
	analoguesWebsite   bool
	analoguesOutputDir string
)

// openURL is swapped out in tests.
var openURL gvp.Opener = gvp.Browser

// =============================================================================
// Analogues Command
// =============================================================================

var analoguesCmd = &cobra.Command{
	Use:   "analogues <volcano>",
	Short: "List the top analogue volcanoes of a target volcano",
	Long: `List the volcanoes with the highest total analogy to a target volcano.

The target is a volcano name, matched exactly, or a six-digit Smithsonian
volcano number (VNUM). Weights are decimals or fractions and must sum to 1;
criteria without a weight get 0, and all five default to 0.2 when none is given.

Examples:
  volcans analogues Fuego
  volcans analogues 342090 --count 5 -v
  volcans analogues Hekla -t 0.5 -g 1/4 -s 0.25 --write-csv
  volcans analogues Fuego --apriori Agung --apriori 372070`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalogues,
}

func init() {
	rootCmd.AddCommand(analoguesCmd)

	flags := analoguesCmd.Flags()
	flags.StringArrayVar(&analoguesApriori, "apriori", nil, "A priori analogue volcano (name or VNUM); repeatable")
	flags.StringArrayVarP(&analoguesWeights[weights.TectonicSetting], "tectonic-setting", "t", nil, "Weight of tectonic setting")
	flags.StringArrayVarP(&analoguesWeights[weights.Geochemistry], "geochemistry", "g", nil, "Weight of rock geochemistry")
	flags.StringArrayVarP(&analoguesWeights[weights.Morphology], "morphology", "m", nil, "Weight of volcano morphology")
	flags.StringArrayVarP(&analoguesWeights[weights.EruptionSize], "eruption-size", "z", nil, "Weight of eruption size")
	flags.StringArrayVarP(&analoguesWeights[weights.EruptionStyle], "eruption-style", "s", nil, "Weight of eruption style")
	flags.IntVarP(&analoguesCount, "count", "c", analogy.DefaultCount, "Number of top analogues (default from analogy.count)")
	flags.BoolVarP(&analoguesWriteCSV, "write-csv", "w", false, "Write the top analogues to a CSV file")
	flags.BoolVarP(&analoguesWriteJSON, "write-json", "j", false, "Write the top analogues to a JSON file")
	flags.BoolVarP(&analoguesWebsite, "website", "W", false, "Open the GVP page of the top analogue")
	flags.StringVar(&analoguesOutputDir, "output-dir", ".", "Directory for CSV and JSON files")
}

// =============================================================================
// Analogues Execution
// =============================================================================

func runAnalogues(cmd *cobra.Command, args []string) error {
	scheme, err := schemeFromFlags()
	if err != nil {
		return err
	}

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	env.logger.Debug("supplied weights", "weights", scheme.String())

	ds, err := env.openDataset(cmd.Context())
	if err != nil {
		return err
	}
	eng, err := ds.Engine(env.logger)
	if err != nil {
		return err
	}

	count := intFlag(cmd, "count", analoguesCount, env.cfg.Analogy.Count)
	a, err := analyse(ds.Catalogue, eng, catalogue.ParseIdentifier(args[0]), scheme, count, env.logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := report.Options{
		Verbose:   verbose,
		Precision: env.cfg.Output.Precision,
		Color:     report.ColorEnabled(env.cfg.Output.Color, out),
	}
	if err := report.WriteTable(out, a.top, opts); err != nil {
		return err
	}
	report.WriteAdvisories(out, a.advisories, opts.Color)

	if analoguesWebsite {
		openTopAnalogue(env, a.top)
	}

	if analoguesWriteCSV {
		path, err := report.WriteFile(analoguesOutputDir, report.OutputFilename(a.top, scheme, "csv"),
			func(w io.Writer) error { return report.WriteCSV(w, a.top, verbose) })
		if err != nil {
			return err
		}
		env.logger.Info("wrote top analogues", "path", path)
	}

	records, err := writeBetterAnalogues(out, eng, a, parseIdentifiers(analoguesApriori))
	if err != nil {
		return err
	}

	if analoguesWriteJSON {
		doc := report.NewDocument(a.top, scheme, a.advisories, records)
		path, err := report.WriteFile(analoguesOutputDir, report.OutputFilename(a.top, scheme, "json"),
			func(w io.Writer) error { return report.WriteJSON(w, doc) })
		if err != nil {
			return err
		}
		env.logger.Info("wrote report", "path", path, "report_id", doc.ReportID)
	}

	return nil
}

// schemeFromFlags validates the weight flags. Duplicates are rejected before
// any value is parsed.
func schemeFromFlags() (weights.Scheme, error) {
	raw := make(map[weights.Criterion][]string)
	for _, c := range weights.Criteria {
		if len(analoguesWeights[c]) > 0 {
			raw[c] = analoguesWeights[c]
		}
	}
	partial, err := weights.FromStrings(raw)
	if err != nil {
		return weights.Scheme{}, err
	}
	return weights.Validate(partial)
}

// openTopAnalogue opens the GVP page of the best analogue. Failure is only
// logged.
func openTopAnalogue(env *environment, top *analogy.Top) {
	best, ok := top.Best()
	if !ok {
		return
	}
	client := gvp.New(env.cfg.Website.BaseURL, gvp.WithOpener(openURL), gvp.WithLogger(env.logger))
	if _, err := client.Open(best.VolcanoNumber); err != nil {
		if verrors.IsFatal(err) {
			env.logger.Error(err.Error())
			return
		}
		env.logger.Warn(err.Error())
	}
}
