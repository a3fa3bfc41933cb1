// Package weights defines the five volcanological criteria and validates the
// weighting schemes used to combine them into total analogy.
package weights

// Criterion is one of the five fixed similarity dimensions.
type Criterion int

const (
	TectonicSetting Criterion = iota
	Geochemistry
	Morphology
	EruptionSize
	EruptionStyle
)

// NumCriteria is the number of criteria in every weighting scheme.
const NumCriteria = 5

// Criteria lists every criterion in canonical order.
var Criteria = [NumCriteria]Criterion{
	TectonicSetting,
	Geochemistry,
	Morphology,
	EruptionSize,
	EruptionStyle,
}

var criterionNames = [NumCriteria]string{
	"tectonic_setting",
	"geochemistry",
	"morphology",
	"eruption_size",
	"eruption_style",
}

// Column headings for single-criterion analogy values.
var criterionColumns = [NumCriteria]string{"ATs", "AG", "AM", "ASz", "ASt"}

// Short labels used in output file names.
var criterionLabels = [NumCriteria]string{"Ts", "G", "M", "Sz", "St"}

func (c Criterion) valid() bool {
	return c >= 0 && int(c) < NumCriteria
}

func (c Criterion) String() string {
	if !c.valid() {
		return "unknown"
	}
	return criterionNames[c]
}

// Column returns the single-criterion analogy column name, e.g. "ATs".
func (c Criterion) Column() string {
	if !c.valid() {
		return ""
	}
	return criterionColumns[c]
}

// Label returns the short label used in file names, e.g. "Ts".
func (c Criterion) Label() string {
	if !c.valid() {
		return ""
	}
	return criterionLabels[c]
}

// ParseCriterion parses a criterion name ("morphology") or label ("M").
func ParseCriterion(s string) (Criterion, bool) {
	for _, c := range Criteria {
		if s == criterionNames[c] || s == criterionLabels[c] {
			return c, true
		}
	}
	// The geochemistry flag has historically been called rock_geochemistry.
	if s == "rock_geochemistry" {
		return Geochemistry, true
	}
	return 0, false
}
