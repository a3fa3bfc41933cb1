package analogy

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/adalundhe/volcans/core/catalogue"
	"github.com/adalundhe/volcans/core/weights"
)

func testCatalogue(t *testing.T, n int) *catalogue.Catalogue {
	t.Helper()
	rows := make([]catalogue.Entity, n)
	for i := range rows {
		rows[i] = catalogue.Entity{
			Name:          fmt.Sprintf("Volcano %02d", i),
			Country:       "Iceland",
			VolcanoNumber: 370000 + i,
		}
	}
	cat, err := catalogue.New(rows)
	require.NoError(t, err)
	return cat
}

// randomMatrices returns n x n matrices with a unit diagonal and seeded
// off-diagonal values in [0, 0.9).
func randomMatrices(n int, seed uint64) Matrices {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	var m Matrices
	for _, c := range weights.Criteria {
		data := make([]float64, n*n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					data[i*n+j] = 1
				} else {
					data[i*n+j] = rng.Float64() * 0.9
				}
			}
		}
		m[c] = mat.NewDense(n, n, data)
	}
	return m
}

func newTestEngine(t *testing.T, n int, m Matrices) *Engine {
	t.Helper()
	e, err := NewEngine(EngineConfig{Catalogue: testCatalogue(t, n), Matrices: m})
	require.NoError(t, err)
	return e
}

// resultWithTotals builds a result whose rows carry the given totals.
func resultWithTotals(target int, totals ...float64) *Result {
	r := &Result{Rows: make([]Row, len(totals))}
	for i, v := range totals {
		r.Rows[i] = Row{
			Entity: catalogue.Entity{Index: i, Name: fmt.Sprintf("Volcano %02d", i), VolcanoNumber: 370000 + i},
			Total:  v,
		}
	}
	r.Target = r.Rows[target].Entity
	return r
}

func rowIndices(rows []Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Index
	}
	return out
}
