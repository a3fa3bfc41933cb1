package analogy

import (
	"math"

	"gonum.org/v1/gonum/mat"

	verrors "github.com/adalundhe/volcans/core/errors"
	"github.com/adalundhe/volcans/core/weights"
)

// Matrices holds the five single-criterion analogy matrices, indexed by
// weights.Criterion. Entry (i, j) is the analogy between volcanoes i and j;
// a zero on the diagonal means the volcano has no data for that criterion.
type Matrices [weights.NumCriteria]*mat.Dense

// Validate checks that every matrix is n x n with finite values in [0, 1].
func (m Matrices) Validate(n int) error {
	for _, c := range weights.Criteria {
		d := m[c]
		if d == nil {
			return verrors.Newf(verrors.KindDataset, "missing %s analogy matrix", c)
		}
		r, cols := d.Dims()
		if r != n || cols != n {
			return verrors.Newf(verrors.KindDataset,
				"%s analogy matrix is %dx%d, expected %dx%d", c, r, cols, n, n)
		}
		for i := 0; i < n; i++ {
			for j, v := range d.RawRowView(i) {
				if math.IsNaN(v) || v < 0 || v > 1 {
					return verrors.Newf(verrors.KindDataset,
						"%s analogy matrix has value %v at row %d, column %d outside [0, 1]", c, v, i, j)
				}
			}
		}
	}
	return nil
}

// HasData reports whether volcano i has data for criterion c.
func (m Matrices) HasData(c weights.Criterion, i int) bool {
	return m[c].At(i, i) != 0
}

// MissingCriteria lists the criteria volcano i has no data for.
func (m Matrices) MissingCriteria(i int) []weights.Criterion {
	var missing []weights.Criterion
	for _, c := range weights.Criteria {
		if !m.HasData(c, i) {
			missing = append(missing, c)
		}
	}
	return missing
}
