package analogy

import (
	"sort"

	"github.com/adalundhe/volcans/core/catalogue"
	verrors "github.com/adalundhe/volcans/core/errors"
)

// DefaultCount is the default number of top analogues.
const DefaultCount = 10

// Top is the ranked list of analogue volcanoes for one target.
type Top struct {
	Target catalogue.Entity
	Count  int
	Rows   []Row

	// TargetRanked is false when the target was not among the Count+1 highest
	// rows; Rows then holds Count+1 volcanoes.
	TargetRanked bool
}

// TopAnalogues returns the count rows with the highest total analogy,
// excluding the target, in descending order.
//
// Rows are stably sorted ascending by total analogy and the last count+1 are
// taken and reversed, so volcanoes tied on total analogy appear in descending
// catalogue order. The target is removed from that slice wherever it sits;
// if it is absent (ties at the top or missing data) nothing is removed.
func TopAnalogues(result *Result, count int) (*Top, error) {
	if count < 1 {
		return nil, verrors.Newf(verrors.KindInvalidInput,
			"Number of top analogue volcanoes must be a positive integer, got %d", count)
	}

	n := len(result.Rows)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return result.Rows[order[a]].Total < result.Rows[order[b]].Total
	})

	take := min(count+1, n)
	top := &Top{
		Target: result.Target,
		Count:  count,
		Rows:   make([]Row, 0, take),
	}
	for k := n - 1; k >= n-take; k-- {
		row := result.Rows[order[k]]
		if row.Index == result.Target.Index {
			top.TargetRanked = true
			continue
		}
		top.Rows = append(top.Rows, row)
	}

	return top, nil
}

// Best returns the highest-ranked analogue.
func (t *Top) Best() (Row, bool) {
	if len(t.Rows) == 0 {
		return Row{}, false
	}
	return t.Rows[0], true
}
