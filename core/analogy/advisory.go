package analogy

import (
	"fmt"
	"strings"

	"github.com/adalundhe/volcans/core/weights"
)

// AdvisoryKind identifies a non-fatal condition found after a successful
// computation.
type AdvisoryKind int

const (
	// PerfectAnalogues: every top analogue has the same total analogy.
	PerfectAnalogues AdvisoryKind = iota

	// NoData: the target lacks data for positively weighted criteria.
	NoData

	// TargetNotRanked: the target is missing from its own top analogues.
	TargetNotRanked
)

var advisoryNames = map[AdvisoryKind]string{
	PerfectAnalogues: "perfect_analogues",
	NoData:           "no_data",
	TargetNotRanked:  "target_not_ranked",
}

func (k AdvisoryKind) String() string {
	if name, ok := advisoryNames[k]; ok {
		return name
	}
	return "unknown"
}

// Advisory is a warning for the user. It never aborts a run.
type Advisory struct {
	Kind     AdvisoryKind
	Message  string
	Criteria []weights.Criterion
}

// CheckPerfectAnalogues flags a top list whose rows all share one total analogy.
func CheckPerfectAnalogues(top *Top) (Advisory, bool) {
	if len(top.Rows) == 0 {
		return Advisory{}, false
	}
	first := top.Rows[0].Total
	for _, row := range top.Rows[1:] {
		if row.Total != first {
			return Advisory{}, false
		}
	}
	return Advisory{
		Kind: PerfectAnalogues,
		Message: "All top analogue volcanoes have the same value of total analogy. " +
			"Please be aware of possible data deficiencies and/or the use of a simplified " +
			"weighting scheme (see Tierz et al., 2019 for more details).",
	}, true
}

// CheckNoData flags positively weighted criteria the target has no data for.
func CheckNoData(result *Result) (Advisory, bool) {
	missing := result.MissingWeighted()
	if len(missing) == 0 {
		return Advisory{}, false
	}
	return Advisory{
		Kind: NoData,
		Message: fmt.Sprintf("There are no data available to characterise the following criteria for %s: %s. "+
			"Their single-criterion analogy values are zero, which lowers the total analogy "+
			"for every volcano. Please consider setting their weights to zero.",
			result.Target.Name, strings.Join(criteriaNames(missing), ", ")),
		Criteria: missing,
	}, true
}

// CheckTargetRanked flags a top list the target could not be removed from.
func CheckTargetRanked(top *Top) (Advisory, bool) {
	if top.TargetRanked {
		return Advisory{}, false
	}
	return Advisory{
		Kind: TargetNotRanked,
		Message: fmt.Sprintf("%s is not among its own %d highest analogy values, which hints at data "+
			"deficiencies for the target volcano. %d analogue volcanoes are listed.",
			top.Target.Name, top.Count+1, len(top.Rows)),
	}, true
}

// Advisories runs every check in order: no data, perfect analogues, target
// not ranked.
func Advisories(result *Result, top *Top) []Advisory {
	var out []Advisory
	if a, ok := CheckNoData(result); ok {
		out = append(out, a)
	}
	if a, ok := CheckPerfectAnalogues(top); ok {
		out = append(out, a)
	}
	if a, ok := CheckTargetRanked(top); ok {
		out = append(out, a)
	}
	return out
}
