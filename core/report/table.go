// Package report renders analogy results for people and files: the terminal
// table, CSV and JSON exports, and the better-analogue text.
package report

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/adalundhe/volcans/core/analogy"
	"github.com/adalundhe/volcans/core/weights"
)

// DefaultPrecision is the number of decimals printed for analogy values.
const DefaultPrecision = 5

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// Options controls table rendering.
type Options struct {
	// Verbose adds the weighted single-criterion columns.
	Verbose bool

	// Precision is the number of decimals; negative selects DefaultPrecision.
	Precision int

	Color bool
}

// ColorEnabled resolves an auto|always|never mode for w. Auto colours only
// terminals, and never when NO_COLOR is set.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Columns returns the table and CSV column names.
func Columns(verbose bool) []string {
	cols := []string{"name", "country", "smithsonian_id", "total_analogy"}
	if verbose {
		for _, c := range weights.Criteria {
			cols = append(cols, c.Column())
		}
	}
	return cols
}

// Header returns the line printed above the table.
func Header(top *analogy.Top) string {
	return fmt.Sprintf("Top %d analogue volcanoes for %s, %s (%d):",
		top.Count, top.Target.Name, top.Target.Country, top.Target.VolcanoNumber)
}

// WriteTable prints the header line and the top analogues.
func WriteTable(w io.Writer, top *analogy.Top, opts Options) error {
	precision := opts.Precision
	if precision < 0 {
		precision = DefaultPrecision
	}

	if opts.Color {
		fmt.Fprintf(w, "%s%s%s%s\n", colorBold, colorCyan, Header(top), colorReset)
	} else {
		fmt.Fprintln(w, Header(top))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, col := range Columns(opts.Verbose) {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)

	for _, row := range top.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.*f", row.Name, row.Country, row.VolcanoNumber, precision, row.Total)
		if opts.Verbose {
			for _, c := range weights.Criteria {
				fmt.Fprintf(tw, "\t%.*f", precision, row.Score(c))
			}
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

// WriteAdvisories prints each advisory on its own line.
func WriteAdvisories(w io.Writer, advisories []analogy.Advisory, color bool) {
	for _, a := range advisories {
		if color {
			fmt.Fprintf(w, "%sWARNING:%s %s\n", colorYellow, colorReset, a.Message)
		} else {
			fmt.Fprintf(w, "WARNING: %s\n", a.Message)
		}
	}
}
