package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/adalundhe/volcans/core/analogy"
	"github.com/adalundhe/volcans/core/catalogue"
	verrors "github.com/adalundhe/volcans/core/errors"
	"github.com/adalundhe/volcans/core/weights"
)

// NamesFile lists the catalogue as name,country,vnum rows without a header.
const NamesFile = "volc_names.csv"

// MatrixFile returns the file name of the analogy matrix for c.
func MatrixFile(c weights.Criterion) string {
	return c.String() + ".csv"
}

// LoadDir reads a CSV dataset directory.
func LoadDir(dir string, opts ...catalogue.Option) (*Dataset, error) {
	rows, err := readNames(filepath.Join(dir, NamesFile))
	if err != nil {
		return nil, err
	}
	cat, err := catalogue.New(rows, opts...)
	if err != nil {
		return nil, err
	}

	var m analogy.Matrices
	for _, c := range weights.Criteria {
		d, err := readMatrix(filepath.Join(dir, MatrixFile(c)), cat.Len())
		if err != nil {
			return nil, err
		}
		m[c] = d
	}

	return newDataset(cat, m, SourceDir, dir)
}

func readNames(path string) ([]catalogue.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, verrors.Wrap(verrors.KindDataset, "failed to open volcano names", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3

	var rows []catalogue.Entity
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, verrors.Wrap(verrors.KindDataset, "malformed "+NamesFile, err)
		}

		vnum, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			line, _ := r.FieldPos(2)
			return nil, verrors.Newf(verrors.KindDataset,
				"%s line %d: invalid volcano number %q", NamesFile, line, record[2])
		}
		rows = append(rows, catalogue.Entity{
			Name:          strings.TrimSpace(record[0]),
			Country:       strings.TrimSpace(record[1]),
			VolcanoNumber: vnum,
		})
	}
	return rows, nil
}

func readMatrix(path string, n int) (*mat.Dense, error) {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, verrors.Wrap(verrors.KindDataset, "failed to open analogy matrix", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = n
	r.ReuseRecord = true

	data := make([]float64, 0, n*n)
	row := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, verrors.Wrap(verrors.KindDataset,
				"malformed "+name+": expected "+strconv.Itoa(n)+" columns per row", err)
		}
		if row == n {
			return nil, verrors.Newf(verrors.KindDataset, "%s has more than %d rows", name, n)
		}
		for col, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, verrors.Newf(verrors.KindDataset,
					"%s row %d, column %d: invalid value %q", name, row, col, field)
			}
			data = append(data, v)
		}
		row++
	}
	if row != n {
		return nil, verrors.Newf(verrors.KindDataset, "%s has %d rows, expected %d", name, row, n)
	}

	return mat.NewDense(n, n, data), nil
}
