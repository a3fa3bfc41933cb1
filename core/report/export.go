package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adalundhe/volcans/core/analogy"
	"github.com/adalundhe/volcans/core/catalogue"
	"github.com/adalundhe/volcans/core/weights"
)

// FormatVolcanoName makes a volcano name safe for file names:
// "Tolima, Nevado del", 351030 becomes "Tolima_Nevado_del_351030".
func FormatVolcanoName(name string, vnum int) string {
	clean := strings.NewReplacer("'", "", ",", "", ".", "").Replace(name)
	parts := append(strings.Fields(clean), strconv.Itoa(vnum))
	return strings.Join(parts, "_")
}

// OutputFilename names an export of top for the weighting scheme, e.g.
// Fuego_342090_top10analogues_Ts0200G0200M0200Sz0200St0200.csv.
func OutputFilename(top *analogy.Top, scheme weights.Scheme, ext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s_top%danalogues_",
		FormatVolcanoName(top.Target.Name, top.Target.VolcanoNumber), top.Count)
	for _, c := range weights.Criteria {
		b.WriteString(c.Label())
		b.WriteString(strings.Replace(fmt.Sprintf("%.3f", scheme.Weight(c)), ".", "", 1))
	}
	b.WriteString(".")
	b.WriteString(ext)
	return b.String()
}

// WriteCSV writes the top analogues with a header row and five-decimal values.
func WriteCSV(w io.Writer, top *analogy.Top, verbose bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns(verbose)); err != nil {
		return err
	}
	for _, row := range top.Rows {
		record := []string{
			row.Name,
			row.Country,
			strconv.Itoa(row.VolcanoNumber),
			formatValue(row.Total),
		}
		if verbose {
			for _, c := range weights.Criteria {
				record = append(record, formatValue(row.Score(c)))
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', DefaultPrecision, 64)
}

// Document is the JSON export of one analogue run.
type Document struct {
	ReportID        string             `json:"report_id"`
	CreatedAt       time.Time          `json:"created_at"`
	Target          catalogue.Entity   `json:"target"`
	Weights         map[string]float64 `json:"weights"`
	Count           int                `json:"count"`
	TargetRanked    bool               `json:"target_ranked"`
	Analogues       []AnalogueRecord   `json:"analogues"`
	Advisories      []AdvisoryRecord   `json:"advisories,omitempty"`
	BetterAnalogues []BetterRecord     `json:"better_analogues,omitempty"`
}

// AnalogueRecord is one row of the top analogue table.
type AnalogueRecord struct {
	Name          string  `json:"name"`
	Country       string  `json:"country"`
	SmithsonianID int     `json:"smithsonian_id"`
	TotalAnalogy  float64 `json:"total_analogy"`
	ATs           float64 `json:"ATs"`
	AG            float64 `json:"AG"`
	AM            float64 `json:"AM"`
	ASz           float64 `json:"ASz"`
	ASt           float64 `json:"ASt"`
}

type AdvisoryRecord struct {
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Criteria []string `json:"criteria,omitempty"`
}

type BetterRecord struct {
	Name             string `json:"name"`
	SmithsonianID    int    `json:"smithsonian_id"`
	Percentile       int    `json:"percentile"`
	BetterPercentage int    `json:"better_percentage"`
}

// NewDocument assembles the JSON export. percentiles may be nil.
func NewDocument(top *analogy.Top, scheme weights.Scheme, advisories []analogy.Advisory, percentiles []analogy.PercentileRecord) *Document {
	doc := &Document{
		ReportID:     uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Target:       top.Target,
		Weights:      make(map[string]float64, weights.NumCriteria),
		Count:        top.Count,
		TargetRanked: top.TargetRanked,
		Analogues:    make([]AnalogueRecord, 0, len(top.Rows)),
	}
	for _, c := range weights.Criteria {
		doc.Weights[c.String()] = scheme.Weight(c)
	}
	for _, row := range top.Rows {
		doc.Analogues = append(doc.Analogues, AnalogueRecord{
			Name:          row.Name,
			Country:       row.Country,
			SmithsonianID: row.VolcanoNumber,
			TotalAnalogy:  row.Total,
			ATs:           row.Score(weights.TectonicSetting),
			AG:            row.Score(weights.Geochemistry),
			AM:            row.Score(weights.Morphology),
			ASz:           row.Score(weights.EruptionSize),
			ASt:           row.Score(weights.EruptionStyle),
		})
	}
	for _, a := range advisories {
		rec := AdvisoryRecord{Kind: a.Kind.String(), Message: a.Message}
		for _, c := range a.Criteria {
			rec.Criteria = append(rec.Criteria, c.String())
		}
		doc.Advisories = append(doc.Advisories, rec)
	}
	for _, p := range percentiles {
		doc.BetterAnalogues = append(doc.BetterAnalogues, BetterRecord{
			Name:             p.Entity.Name,
			SmithsonianID:    p.Entity.VolcanoNumber,
			Percentile:       p.Percentile,
			BetterPercentage: p.BetterPercentage,
		})
	}
	return doc
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteFile creates dir/name and fills it with write.
func WriteFile(dir, name string, write func(io.Writer) error) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}
