package analogy

import (
	"github.com/adalundhe/volcans/core/catalogue"
	"github.com/adalundhe/volcans/core/weights"
)

// Row is the analogy between the target and one catalogue volcano.
// Total is the sum of Scores, each already multiplied by its weight.
type Row struct {
	catalogue.Entity
	Total  float64
	Scores [weights.NumCriteria]float64
}

// Score returns the weighted single-criterion analogy for c.
func (r Row) Score(c weights.Criterion) float64 {
	return r.Scores[c]
}

// Result is the full analogy table for one target and weighting scheme, one
// row per catalogue volcano in matrix order. Results may be shared through a
// Cache and must not be modified.
type Result struct {
	Target  catalogue.Entity
	Weights weights.Scheme
	Rows    []Row

	// NoData lists the criteria with no data for the target, whatever their weight.
	NoData []weights.Criterion
}

// Totals returns the total analogy column in matrix order.
func (r *Result) Totals() []float64 {
	totals := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		totals[i] = row.Total
	}
	return totals
}

// MissingWeighted lists the no-data criteria that carry a positive weight.
func (r *Result) MissingWeighted() []weights.Criterion {
	var out []weights.Criterion
	for _, c := range r.NoData {
		if r.Weights.Weight(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}
