package report

import (
	"fmt"
	"io"

	"github.com/adalundhe/volcans/core/analogy"
	"github.com/adalundhe/volcans/core/catalogue"
)

// WriteBetterAnalogues prints, for each a priori analogue in input order, the
// percentage of catalogue volcanoes that are better analogues to target.
func WriteBetterAnalogues(w io.Writer, target catalogue.Entity, records []analogy.PercentileRecord) {
	fmt.Fprintf(w, "\nAccording to VOLCANS, the following percentage of volcanoes in the GVP database "+
		"are better analogues to %s than the 'a priori' analogues reported below:\n\n", target.Name)
	for _, r := range records {
		fmt.Fprintf(w, "%s (%d): %d%%\n", r.Entity.Name, r.Entity.VolcanoNumber, r.BetterPercentage)
	}
}
