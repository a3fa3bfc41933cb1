// Package dataset loads the immutable volcano context: the catalogue and the
// five single-criterion analogy matrices. A dataset comes either from a
// directory of CSV files or from a SQLite bundle produced by WriteBundle.
package dataset

import (
	"context"
	"log/slog"
	"os"

	"github.com/adalundhe/volcans/core/analogy"
	"github.com/adalundhe/volcans/core/catalogue"
	verrors "github.com/adalundhe/volcans/core/errors"
	"github.com/adalundhe/volcans/core/weights"
)

// Source identifies where a dataset was loaded from.
type Source string

const (
	SourceDir    Source = "csv"
	SourceBundle Source = "bundle"
	SourceMemory Source = "memory"
)

// Dataset is a validated catalogue with its aligned matrices.
type Dataset struct {
	Catalogue *catalogue.Catalogue
	Matrices  analogy.Matrices
	Source    Source
	Path      string
}

// New validates that m is aligned with cat.
func New(cat *catalogue.Catalogue, m analogy.Matrices) (*Dataset, error) {
	return newDataset(cat, m, SourceMemory, "")
}

func newDataset(cat *catalogue.Catalogue, m analogy.Matrices, source Source, path string) (*Dataset, error) {
	if cat == nil {
		return nil, verrors.New(verrors.KindDataset, "dataset has no catalogue")
	}
	if err := m.Validate(cat.Len()); err != nil {
		return nil, err
	}
	return &Dataset{Catalogue: cat, Matrices: m, Source: source, Path: path}, nil
}

// Len returns the number of volcanoes.
func (d *Dataset) Len() int {
	return d.Catalogue.Len()
}

// Engine builds an analogy engine over the dataset.
func (d *Dataset) Engine(logger *slog.Logger) (*analogy.Engine, error) {
	return analogy.NewEngine(analogy.EngineConfig{
		Catalogue: d.Catalogue,
		Matrices:  d.Matrices,
		Logger:    logger,
	})
}

// Info summarises a dataset.
type Info struct {
	Volcanoes int
	Source    Source
	Path      string

	// NoData counts, per criterion, the volcanoes without data.
	NoData [weights.NumCriteria]int
}

// Info returns the dataset summary.
func (d *Dataset) Info() Info {
	info := Info{Volcanoes: d.Len(), Source: d.Source, Path: d.Path}
	for i := 0; i < d.Len(); i++ {
		for _, c := range d.Matrices.MissingCriteria(i) {
			info.NoData[c]++
		}
	}
	return info
}

// Location names the candidate dataset sources. The bundle wins when it
// exists.
type Location struct {
	Dir    string
	Bundle string
}

// Open loads the dataset from loc.
func Open(ctx context.Context, loc Location, opts ...catalogue.Option) (*Dataset, error) {
	if loc.Bundle != "" {
		if _, err := os.Stat(loc.Bundle); err == nil {
			return OpenBundle(ctx, loc.Bundle, opts...)
		}
	}
	if loc.Dir != "" {
		if _, err := os.Stat(loc.Dir); err == nil {
			return LoadDir(loc.Dir, opts...)
		}
	}
	return nil, verrors.New(verrors.KindDataset,
		"no volcano dataset found. Import one with 'volcans dataset import <dir>' or set data.dir").
		WithContext("dir", loc.Dir).
		WithContext("bundle", loc.Bundle)
}
