package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/adalundhe/volcans/core/catalogue"
	verrors "github.com/adalundhe/volcans/core/errors"
	"github.com/adalundhe/volcans/core/weights"
)

// =============================================================================
// Fixtures
// =============================================================================

var fixtureNames = [][]string{
	{"Tolima, Nevado del", "Colombia", "351030"},
	{"Ruiz, Nevado del", "Colombia", "351020"},
	{"Fuego", "Guatemala", "342090"},
	{"Hekla", "Iceland", "372070"},
}

// fixtureMatrix returns a symmetric matrix whose value at (i, j) encodes the
// criterion and both indices. Volcano 3 has no eruption style data.
func fixtureMatrix(c weights.Criterion, n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i == j {
				m[i][j] = 1
			} else {
				m[i][j] = float64(int(c)+1)/10 + float64(i+j)/100
			}
		}
	}
	if c == weights.EruptionStyle {
		m[3][3] = 0
	}
	return m
}

func writeCSV(t *testing.T, path string, records [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(records))
}

func matrixRecords(m [][]float64) [][]string {
	records := make([][]string, len(m))
	for i, row := range m {
		records[i] = make([]string, len(row))
		for j, v := range row {
			records[i][j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return records
}

// writeFixtureDir writes a complete four-volcano CSV dataset.
func writeFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, NamesFile), fixtureNames)
	for _, c := range weights.Criteria {
		writeCSV(t, filepath.Join(dir, MatrixFile(c)), matrixRecords(fixtureMatrix(c, len(fixtureNames))))
	}
	return dir
}

// =============================================================================
// CSV Directory Tests
// =============================================================================

func TestLoadDir(t *testing.T) {
	dir := writeFixtureDir(t)

	d, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, 4, d.Len())
	assert.Equal(t, SourceDir, d.Source)
	assert.Equal(t, dir, d.Path)

	tolima := d.Catalogue.Entity(0)
	assert.Equal(t, "Tolima, Nevado del", tolima.Name)
	assert.Equal(t, "Colombia", tolima.Country)
	assert.Equal(t, 351030, tolima.VolcanoNumber)

	idx, err := d.Catalogue.Resolve(catalogue.Number(372070))
	require.NoError(t, err)
	assert.Equal(t, 3, idx)

	for _, c := range weights.Criteria {
		expected := fixtureMatrix(c, 4)
		for i := 0; i < 4; i++ {
			assert.Equal(t, expected[i], d.Matrices[c].RawRowView(i), "%s row %d", c, i)
		}
	}
}

func TestLoadDir_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(t *testing.T, dir string)
		contains string
	}{
		{
			name: "missing names file",
			mutate: func(t *testing.T, dir string) {
				require.NoError(t, os.Remove(filepath.Join(dir, NamesFile)))
			},
			contains: "volcano names",
		},
		{
			name: "missing matrix",
			mutate: func(t *testing.T, dir string) {
				require.NoError(t, os.Remove(filepath.Join(dir, MatrixFile(weights.Morphology))))
			},
			contains: "analogy matrix",
		},
		{
			name: "invalid volcano number",
			mutate: func(t *testing.T, dir string) {
				names := append([][]string{}, fixtureNames...)
				names[2] = []string{"Fuego", "Guatemala", "abc"}
				writeCSV(t, filepath.Join(dir, NamesFile), names)
			},
			contains: "invalid volcano number",
		},
		{
			name: "duplicate volcano number",
			mutate: func(t *testing.T, dir string) {
				names := append([][]string{}, fixtureNames...)
				names[3] = []string{"Hekla", "Iceland", "342090"}
				writeCSV(t, filepath.Join(dir, NamesFile), names)
			},
			contains: "342090",
		},
		{
			name: "wrong number of names fields",
			mutate: func(t *testing.T, dir string) {
				writeCSV(t, filepath.Join(dir, NamesFile), [][]string{{"Fuego", "Guatemala"}})
			},
			contains: NamesFile,
		},
		{
			name: "too few matrix rows",
			mutate: func(t *testing.T, dir string) {
				m := fixtureMatrix(weights.Geochemistry, 4)
				writeCSV(t, filepath.Join(dir, MatrixFile(weights.Geochemistry)), matrixRecords(m[:3]))
			},
			contains: "has 3 rows, expected 4",
		},
		{
			name: "too many matrix rows",
			mutate: func(t *testing.T, dir string) {
				m := fixtureMatrix(weights.Geochemistry, 4)
				m = append(m, m[0])
				writeCSV(t, filepath.Join(dir, MatrixFile(weights.Geochemistry)), matrixRecords(m))
			},
			contains: "more than 4 rows",
		},
		{
			name: "non-square matrix",
			mutate: func(t *testing.T, dir string) {
				m := fixtureMatrix(weights.EruptionSize, 4)
				for i := range m {
					m[i] = m[i][:3]
				}
				writeCSV(t, filepath.Join(dir, MatrixFile(weights.EruptionSize)), matrixRecords(m))
			},
			contains: "expected 4 columns",
		},
		{
			name: "unparsable value",
			mutate: func(t *testing.T, dir string) {
				records := matrixRecords(fixtureMatrix(weights.TectonicSetting, 4))
				records[1][2] = "high"
				writeCSV(t, filepath.Join(dir, MatrixFile(weights.TectonicSetting)), records)
			},
			contains: "row 1, column 2",
		},
		{
			name: "value out of range",
			mutate: func(t *testing.T, dir string) {
				m := fixtureMatrix(weights.Morphology, 4)
				m[2][0] = 1.2
				writeCSV(t, filepath.Join(dir, MatrixFile(weights.Morphology)), matrixRecords(m))
			},
			contains: "morphology analogy matrix has value 1.2 at row 2, column 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFixtureDir(t)
			tt.mutate(t, dir)

			_, err := LoadDir(dir)
			require.Error(t, err)
			assert.True(t, errors.Is(err, verrors.ErrDataset), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadDir_EmptyCatalogue(t *testing.T) {
	dir := writeFixtureDir(t)
	writeCSV(t, filepath.Join(dir, NamesFile), nil)

	_, err := LoadDir(dir)
	assert.True(t, errors.Is(err, verrors.ErrDataset))
}

// =============================================================================
// Bundle Tests
// =============================================================================

func TestBundle_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src, err := LoadDir(writeFixtureDir(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "volcans.db")
	require.NoError(t, WriteBundle(ctx, path, src))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	got, err := OpenBundle(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, SourceBundle, got.Source)
	assert.Equal(t, path, got.Path)
	assert.Equal(t, src.Catalogue.Entities(), got.Catalogue.Entities())
	for _, c := range weights.Criteria {
		assert.True(t, mat.Equal(src.Matrices[c], got.Matrices[c]), "%s differs", c)
	}
	assert.Equal(t, src.Info().NoData, got.Info().NoData)
}

func TestBundle_Overwrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "volcans.db")

	first, err := LoadDir(writeFixtureDir(t))
	require.NoError(t, err)
	require.NoError(t, WriteBundle(ctx, path, first))

	dir := writeFixtureDir(t)
	names := append([][]string{}, fixtureNames...)
	names[0] = []string{"Santa Isabel", "Colombia", "351050"}
	writeCSV(t, filepath.Join(dir, NamesFile), names)
	second, err := LoadDir(dir)
	require.NoError(t, err)
	require.NoError(t, WriteBundle(ctx, path, second))

	got, err := OpenBundle(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Santa Isabel", got.Catalogue.NameOf(0))
	assert.Equal(t, 4, got.Len())
}

func TestOpenBundle_Missing(t *testing.T) {
	_, err := OpenBundle(context.Background(), filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, verrors.ErrDataset))
	assert.Contains(t, err.Error(), "not found")
}

func TestOpenBundle_NotABundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := OpenBundle(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, verrors.ErrDataset))
}

func TestRowEncoding(t *testing.T) {
	values := []float64{0, 1, 0.123456789, 1e-300}
	got, err := decodeRow(encodeRow(values), len(values))
	require.NoError(t, err)
	assert.Equal(t, values, got)

	_, err = decodeRow(encodeRow(values), 5)
	assert.Error(t, err)
}

// =============================================================================
// Open and Info Tests
// =============================================================================

func TestOpen_PrefersBundle(t *testing.T) {
	ctx := context.Background()
	dir := writeFixtureDir(t)
	bundle := filepath.Join(t.TempDir(), "volcans.db")

	d, err := Open(ctx, Location{Dir: dir, Bundle: bundle})
	require.NoError(t, err)
	assert.Equal(t, SourceDir, d.Source)

	require.NoError(t, WriteBundle(ctx, bundle, d))

	d, err = Open(ctx, Location{Dir: dir, Bundle: bundle})
	require.NoError(t, err)
	assert.Equal(t, SourceBundle, d.Source)
}

func TestOpen_NothingFound(t *testing.T) {
	root := t.TempDir()
	_, err := Open(context.Background(), Location{
		Dir:    filepath.Join(root, "data"),
		Bundle: filepath.Join(root, "volcans.db"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, verrors.ErrDataset))
	assert.Contains(t, err.Error(), "dataset import")
}

func TestOpen_PassesCatalogueOptions(t *testing.T) {
	d, err := Open(context.Background(), Location{Dir: writeFixtureDir(t)}, catalogue.WithSuggestionLimit(1))
	require.NoError(t, err)

	_, err = d.Catalogue.Resolve(catalogue.Name("Fuegu"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Fuego")
	assert.NotContains(t, err.Error(), "Hekla")
}

func TestInfo(t *testing.T) {
	d, err := LoadDir(writeFixtureDir(t))
	require.NoError(t, err)

	info := d.Info()
	assert.Equal(t, 4, info.Volcanoes)
	assert.Equal(t, SourceDir, info.Source)
	assert.Equal(t, [weights.NumCriteria]int{0, 0, 0, 0, 1}, info.NoData)
}

func TestDatasetEngine(t *testing.T) {
	d, err := LoadDir(writeFixtureDir(t))
	require.NoError(t, err)

	e, err := d.Engine(nil)
	require.NoError(t, err)

	result, err := e.CombineFor(catalogue.Name("Hekla"), weights.Equal())
	require.NoError(t, err)
	assert.Equal(t, []weights.Criterion{weights.EruptionStyle}, result.NoData)
}

func TestNew(t *testing.T) {
	d, err := LoadDir(writeFixtureDir(t))
	require.NoError(t, err)

	mem, err := New(d.Catalogue, d.Matrices)
	require.NoError(t, err)
	assert.Equal(t, SourceMemory, mem.Source)

	_, err = New(nil, d.Matrices)
	assert.True(t, errors.Is(err, verrors.ErrDataset))
}
