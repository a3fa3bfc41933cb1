package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adalundhe/volcans/core/catalogue"
	"github.com/adalundhe/volcans/core/report"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// =============================================================================
// Search Command Flags
// =============================================================================

var (
	searchLimit     int
	searchFuzziness int
	searchJSON      bool
)

// =============================================================================
// Search Command
// =============================================================================

// searchCmd represents the search command.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search volcano names and countries",
	Long: `Search the volcano catalogue by name, country or volcano number. Name
matches tolerate typos up to the configured edit distance.

Examples:
  volcans search fuego
  volcans search --fuzziness 2 "nevado del rui"
  volcans search --json Colombia | jq '.hits[].smithsonian_id'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", catalogue.DefaultSearchLimit, "Maximum number of results (default from search.limit)")
	searchCmd.Flags().IntVarP(&searchFuzziness, "fuzziness", "f", catalogue.DefaultSearchFuzziness, "Maximum edit distance for name matches, 0 to 2 (default from search.fuzziness)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output results as JSON")
}

// =============================================================================
// Search Execution
// =============================================================================

// searchOutput is the JSON form of a search.
type searchOutput struct {
	Query string      `json:"query"`
	Total int         `json:"total"`
	Hits  []hitOutput `json:"hits"`
}

type hitOutput struct {
	Name          string  `json:"name"`
	Country       string  `json:"country"`
	SmithsonianID int     `json:"smithsonian_id"`
	Score         float64 `json:"score"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	ds, err := env.openDataset(cmd.Context())
	if err != nil {
		return err
	}

	index, err := catalogue.NewSearchIndex(ds.Catalogue)
	if err != nil {
		return err
	}
	defer index.Close()

	limit := intFlag(cmd, "limit", searchLimit, env.cfg.Search.Limit)
	fuzziness := intFlag(cmd, "fuzziness", searchFuzziness, env.cfg.Search.Fuzziness)
	hits, err := index.Search(query, limit, fuzziness)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if searchJSON {
		return outputJSONResults(out, newSearchOutput(query, hits))
	}
	return outputRichResults(out, query, hits, report.ColorEnabled(env.cfg.Output.Color, out))
}

func newSearchOutput(query string, hits []catalogue.SearchHit) *searchOutput {
	out := &searchOutput{Query: query, Total: len(hits), Hits: make([]hitOutput, 0, len(hits))}
	for _, h := range hits {
		out.Hits = append(out.Hits, hitOutput{
			Name:          h.Name,
			Country:       h.Country,
			SmithsonianID: h.VolcanoNumber,
			Score:         h.Score,
		})
	}
	return out
}

// outputJSONResults outputs search results as JSON.
func outputJSONResults(w io.Writer, output *searchOutput) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// outputRichResults outputs search results with optional terminal colours.
func outputRichResults(w io.Writer, query string, hits []catalogue.SearchHit, color bool) error {
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + colorReset
	}

	fmt.Fprintln(w, paint(colorBold+colorCyan, "Search Results"))
	fmt.Fprintf(w, "%s %s\n", paint(colorGray, "Query:"), query)
	fmt.Fprintf(w, "%s %d volcanoes\n", paint(colorGray, "Found:"), len(hits))
	fmt.Fprintln(w)

	if len(hits) == 0 {
		fmt.Fprintln(w, paint(colorYellow, "No volcanoes found."))
		return nil
	}

	for i, h := range hits {
		fmt.Fprintf(w, "%s %s\n", paint(colorYellow, fmt.Sprintf("%d.", i+1)), paint(colorBold, h.Name))
		fmt.Fprintf(w, "   %s %s  %s %d  %s %.4f\n",
			paint(colorGray, "Country:"), h.Country,
			paint(colorGray, "VNUM:"), h.VolcanoNumber,
			paint(colorGray, "Score:"), h.Score)
	}
	return nil
}
