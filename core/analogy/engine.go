// Package analogy combines single-criterion analogy matrices into total
// analogy, ranks analogue volcanoes and places a priori analogues within the
// distribution of total analogy values.
package analogy

import (
	"log/slog"

	"github.com/viterin/vek"

	"github.com/adalundhe/volcans/core/catalogue"
	verrors "github.com/adalundhe/volcans/core/errors"
	"github.com/adalundhe/volcans/core/weights"
)

// Engine computes analogy results over a fixed catalogue and its matrices.
// Neither is modified after construction, so an Engine is safe for
// concurrent use.
type Engine struct {
	cat      *catalogue.Catalogue
	matrices Matrices
	logger   *slog.Logger
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	Catalogue *catalogue.Catalogue
	Matrices  Matrices
	Logger    *slog.Logger // Optional, uses slog.Default() if nil
}

// NewEngine validates that the matrices are aligned with the catalogue.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Catalogue == nil {
		return nil, verrors.New(verrors.KindDataset, "engine requires a catalogue")
	}
	if err := cfg.Matrices.Validate(cfg.Catalogue.Len()); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		cat:      cfg.Catalogue,
		matrices: cfg.Matrices,
		logger:   cfg.Logger,
	}, nil
}

// Catalogue returns the engine's catalogue.
func (e *Engine) Catalogue() *catalogue.Catalogue {
	return e.cat
}

// Matrices returns the engine's analogy matrices.
func (e *Engine) Matrices() Matrices {
	return e.matrices
}

// Combine weights the target's row of every matrix and sums them into total
// analogy. Only the target row is computed since no other row is read.
func (e *Engine) Combine(target int, scheme weights.Scheme) (*Result, error) {
	n := e.cat.Len()
	if target < 0 || target >= n {
		return nil, verrors.Newf(verrors.KindInvalidInput, "volcano index %d out of range [0, %d)", target, n)
	}

	var scores [weights.NumCriteria][]float64
	for _, c := range weights.Criteria {
		scores[c] = vek.MulNumber(e.matrices[c].RawRowView(target), scheme.Weight(c))
	}

	// Summed in criterion order so total equals the weighted sum exactly.
	total := make([]float64, n)
	copy(total, scores[weights.TectonicSetting])
	for _, c := range weights.Criteria[1:] {
		vek.Add_Inplace(total, scores[c])
	}

	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{Entity: e.cat.Entity(i), Total: total[i]}
		for _, c := range weights.Criteria {
			rows[i].Scores[c] = scores[c][i]
		}
	}

	result := &Result{
		Target:  e.cat.Entity(target),
		Weights: scheme,
		Rows:    rows,
		NoData:  e.matrices.MissingCriteria(target),
	}

	e.logger.Debug("combined analogy matrices",
		"target", result.Target.Name,
		"weights", scheme.String(),
		"no_data", criteriaNames(result.NoData))

	return result, nil
}

// CombineFor resolves id and combines for it.
func (e *Engine) CombineFor(id catalogue.Identifier, scheme weights.Scheme) (*Result, error) {
	target, err := e.cat.Resolve(id)
	if err != nil {
		return nil, err
	}
	return e.Combine(target, scheme)
}

func criteriaNames(cs []weights.Criterion) []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.String()
	}
	return names
}
