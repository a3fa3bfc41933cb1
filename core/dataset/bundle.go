package dataset

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite"

	"github.com/adalundhe/volcans/core/analogy"
	"github.com/adalundhe/volcans/core/catalogue"
	verrors "github.com/adalundhe/volcans/core/errors"
	"github.com/adalundhe/volcans/core/weights"
)

// BundleFormatVersion is written to every bundle and checked on open.
const BundleFormatVersion = 1

const bundleSchema = `
CREATE TABLE IF NOT EXISTS volcanoes (
	idx INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	country TEXT NOT NULL,
	vnum INTEGER NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS analogy (
	criterion TEXT NOT NULL,
	row_idx INTEGER NOT NULL,
	data BLOB NOT NULL,
	PRIMARY KEY (criterion, row_idx)
);

CREATE TABLE IF NOT EXISTS metadata (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// WriteBundle stores d in a SQLite file at path, replacing any existing
// bundle. The file is built next to path and renamed into place.
func WriteBundle(ctx context.Context, path string, d *Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create bundle directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale bundle: %w", err)
	}

	if err := writeBundleFile(ctx, tmp, d); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move bundle into place: %w", err)
	}
	return nil
}

func writeBundleFile(ctx context.Context, path string, d *Dataset) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open bundle: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, bundleSchema); err != nil {
		return fmt.Errorf("failed to create bundle schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertVolcanoes(ctx, tx, d.Catalogue); err != nil {
		return err
	}
	if err := insertMatrices(ctx, tx, d.Matrices, d.Len()); err != nil {
		return err
	}
	if err := insertMetadata(ctx, tx, d); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bundle: %w", err)
	}
	return nil
}

func insertVolcanoes(ctx context.Context, tx *sql.Tx, cat *catalogue.Catalogue) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO volcanoes (idx, name, country, vnum) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare volcano insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range cat.Entities() {
		if _, err := stmt.ExecContext(ctx, e.Index, e.Name, e.Country, e.VolcanoNumber); err != nil {
			return fmt.Errorf("failed to insert volcano %s: %w", e.Name, err)
		}
	}
	return nil
}

func insertMatrices(ctx context.Context, tx *sql.Tx, m analogy.Matrices, n int) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO analogy (criterion, row_idx, data) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare analogy insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range weights.Criteria {
		for i := 0; i < n; i++ {
			if _, err := stmt.ExecContext(ctx, c.String(), i, encodeRow(m[c].RawRowView(i))); err != nil {
				return fmt.Errorf("failed to insert %s row %d: %w", c, i, err)
			}
		}
	}
	return nil
}

func insertMetadata(ctx context.Context, tx *sql.Tx, d *Dataset) error {
	meta := map[string]string{
		"format_version": strconv.Itoa(BundleFormatVersion),
		"volcanoes":      strconv.Itoa(d.Len()),
		"source":         string(d.Source),
		"source_path":    d.Path,
		"created_at":     time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("failed to insert metadata %s: %w", k, err)
		}
	}
	return nil
}

// OpenBundle loads a dataset written by WriteBundle.
func OpenBundle(ctx context.Context, path string, opts ...catalogue.Option) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, verrors.Wrap(verrors.KindDataset, "dataset bundle "+path+" not found", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, verrors.Wrap(verrors.KindDataset, "failed to open dataset bundle", err)
	}
	defer db.Close()

	if err := checkFormatVersion(ctx, db); err != nil {
		return nil, err
	}

	rows, err := readVolcanoes(ctx, db)
	if err != nil {
		return nil, err
	}
	cat, err := catalogue.New(rows, opts...)
	if err != nil {
		return nil, err
	}

	var m analogy.Matrices
	for _, c := range weights.Criteria {
		d, err := readBundleMatrix(ctx, db, c, cat.Len())
		if err != nil {
			return nil, err
		}
		m[c] = d
	}

	return newDataset(cat, m, SourceBundle, path)
}

func checkFormatVersion(ctx context.Context, db *sql.DB) error {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'format_version'`).Scan(&value)
	if err != nil {
		return verrors.Wrap(verrors.KindDataset, "not a volcans dataset bundle", err)
	}
	if value != strconv.Itoa(BundleFormatVersion) {
		return verrors.Newf(verrors.KindDataset,
			"unsupported bundle format version %s, expected %d", value, BundleFormatVersion)
	}
	return nil
}

func readVolcanoes(ctx context.Context, db *sql.DB) ([]catalogue.Entity, error) {
	rows, err := db.QueryContext(ctx, `SELECT idx, name, country, vnum FROM volcanoes ORDER BY idx`)
	if err != nil {
		return nil, verrors.Wrap(verrors.KindDataset, "failed to read volcanoes", err)
	}
	defer rows.Close()

	var out []catalogue.Entity
	for rows.Next() {
		var e catalogue.Entity
		if err := rows.Scan(&e.Index, &e.Name, &e.Country, &e.VolcanoNumber); err != nil {
			return nil, verrors.Wrap(verrors.KindDataset, "failed to scan volcano", err)
		}
		if e.Index != len(out) {
			return nil, verrors.Newf(verrors.KindDataset, "volcano index %d missing from bundle", len(out))
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, verrors.Wrap(verrors.KindDataset, "failed to read volcanoes", err)
	}
	return out, nil
}

func readBundleMatrix(ctx context.Context, db *sql.DB, c weights.Criterion, n int) (*mat.Dense, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT row_idx, data FROM analogy WHERE criterion = ? ORDER BY row_idx`, c.String())
	if err != nil {
		return nil, verrors.Wrap(verrors.KindDataset, "failed to read "+c.String()+" analogy", err)
	}
	defer rows.Close()

	data := make([]float64, 0, n*n)
	next := 0
	for rows.Next() {
		var idx int
		var blob []byte
		if err := rows.Scan(&idx, &blob); err != nil {
			return nil, verrors.Wrap(verrors.KindDataset, "failed to scan "+c.String()+" analogy", err)
		}
		if idx != next || idx >= n {
			return nil, verrors.Newf(verrors.KindDataset, "%s analogy row %d missing from bundle", c, next)
		}
		row, err := decodeRow(blob, n)
		if err != nil {
			return nil, verrors.Wrap(verrors.KindDataset, fmt.Sprintf("%s analogy row %d", c, idx), err)
		}
		data = append(data, row...)
		next++
	}
	if err := rows.Err(); err != nil {
		return nil, verrors.Wrap(verrors.KindDataset, "failed to read "+c.String()+" analogy", err)
	}
	if next != n {
		return nil, verrors.Newf(verrors.KindDataset, "%s analogy has %d rows, expected %d", c, next, n)
	}

	return mat.NewDense(n, n, data), nil
}

// encodeRow packs values as little-endian IEEE 754 doubles.
func encodeRow(values []float64) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeRow(buf []byte, n int) ([]float64, error) {
	if len(buf) != 8*n {
		return nil, fmt.Errorf("row has %d bytes, expected %d", len(buf), 8*n)
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return values, nil
}
