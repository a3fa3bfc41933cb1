package weights

import (
	"fmt"
	"math"
	"strings"

	verrors "github.com/adalundhe/volcans/core/errors"
)

// SumTolerance is the absolute tolerance allowed between the weight sum and 1.
const SumTolerance = 1e-9

// EqualWeight is the default weight of every criterion when none is supplied.
const EqualWeight = 0.2

// Scheme holds one validated weight per criterion. Every weight is >= 0 and
// the weights sum to 1 within SumTolerance.
type Scheme [NumCriteria]float64

// Equal returns the default scheme with every criterion weighted 0.2.
func Equal() Scheme {
	return Scheme{EqualWeight, EqualWeight, EqualWeight, EqualWeight, EqualWeight}
}

// Weight returns the weight of c.
func (s Scheme) Weight(c Criterion) float64 {
	return s[c]
}

// Sum returns the sum of all weights.
func (s Scheme) Sum() float64 {
	var sum float64
	for _, w := range s {
		sum += w
	}
	return sum
}

// String renders the scheme as criterion: weight pairs in canonical order.
func (s Scheme) String() string {
	parts := make([]string, 0, NumCriteria)
	for _, c := range Criteria {
		parts = append(parts, fmt.Sprintf("'%s': %v", c, formatWeight(s[c])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// formatWeight always shows a decimal point so 1 prints as 1.0.
func formatWeight(w float64) string {
	if w == math.Trunc(w) {
		return fmt.Sprintf("%.1f", w)
	}
	return fmt.Sprintf("%v", w)
}

// Partial is a weighting scheme as supplied by a user: nil means the
// criterion weight was not given.
type Partial [NumCriteria]*float64

// Set records weight w for criterion c.
func (p *Partial) Set(c Criterion, w float64) {
	p[c] = &w
}

// Empty reports whether no weight has been supplied.
func (p Partial) Empty() bool {
	for _, w := range p {
		if w != nil {
			return false
		}
	}
	return true
}

// Validate turns a partial scheme into a Scheme.
//
// With no weights supplied every criterion gets EqualWeight. Otherwise
// missing weights become 0, negative weights are rejected (negative zero is
// read as zero) and the sum must be within SumTolerance of 1.
func Validate(p Partial) (Scheme, error) {
	if p.Empty() {
		return Equal(), nil
	}

	var scheme Scheme
	for _, c := range Criteria {
		if p[c] == nil {
			continue
		}
		w := *p[c]
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return Scheme{}, verrors.Newf(verrors.KindInvalidWeight,
				"Weight for %s (%v) is not a finite number! Please revise your weighting scheme.", c, w).
				WithContext("criterion", c.String())
		}
		if w < 0 {
			return Scheme{}, verrors.Newf(verrors.KindInvalidWeight,
				"Weight for %s (%v) is negative! Please revise your weighting scheme.", c, w).
				WithContext("criterion", c.String())
		}
		// Adding zero turns -0 into +0.
		scheme[c] = w + 0
	}

	sum := scheme.Sum()
	if math.Abs(sum-1) > SumTolerance {
		return Scheme{}, verrors.Newf(verrors.KindInvalidWeight,
			"Sum of weights (%.9f) is different from 1! Please revise your weighting scheme.", sum)
	}

	return scheme, nil
}
