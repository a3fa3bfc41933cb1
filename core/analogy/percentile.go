package analogy

import (
	"math"
	"sort"

	"github.com/viterin/vek"

	"github.com/adalundhe/volcans/core/catalogue"
)

// NumBreakpoints is the number of percentile breakpoints, 0 through 100.
const NumBreakpoints = 101

// PercentileRecord places one a priori analogue within the target's
// distribution of total analogy.
type PercentileRecord struct {
	Identifier catalogue.Identifier
	Entity     catalogue.Entity
	Percentile int

	// BetterPercentage is 100 - Percentile: the share of volcanoes that are
	// better analogues to the target than this one.
	BetterPercentage int
}

// Breakpoints returns the 0th through 100th percentiles of values. When a
// percentile falls between two ranks it is their midpoint.
func Breakpoints(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	bps := make([]float64, NumBreakpoints)
	if len(sorted) == 0 {
		return bps
	}
	last := float64(len(sorted) - 1)
	for q := range bps {
		pos := last * (float64(q) / 100)
		lo, hi := int(math.Floor(pos)), int(math.Ceil(pos))
		bps[q] = (sorted[lo] + sorted[hi]) / 2
	}
	return bps
}

// Percentile returns the breakpoint (0-100) closest to value; the first one
// wins ties.
func Percentile(breakpoints []float64, value float64) int {
	return vek.ArgMin(vek.Abs(vek.SubNumber(breakpoints, value)))
}

// Percentiles resolves every identifier and places it within result, in
// input order.
func (e *Engine) Percentiles(result *Result, ids []catalogue.Identifier) ([]PercentileRecord, error) {
	bps := Breakpoints(result.Totals())

	records := make([]PercentileRecord, 0, len(ids))
	for _, id := range ids {
		idx, err := e.cat.Resolve(id)
		if err != nil {
			return nil, err
		}
		p := Percentile(bps, result.Rows[idx].Total)
		records = append(records, PercentileRecord{
			Identifier:       id,
			Entity:           e.cat.Entity(idx),
			Percentile:       p,
			BetterPercentage: 100 - p,
		})
	}
	return records, nil
}
