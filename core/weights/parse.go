package weights

import (
	"math/big"
	"strings"

	verrors "github.com/adalundhe/volcans/core/errors"
)

// ParseWeight converts a decimal ("0.2") or fractional ("1/5") string into a
// float64.
func ParseWeight(value string) (float64, error) {
	s := strings.TrimSpace(value)

	var r *big.Rat
	if numerator, denominator, ok := strings.Cut(s, "/"); ok {
		num, okNum := new(big.Rat).SetString(strings.TrimSpace(numerator))
		den, okDen := new(big.Rat).SetString(strings.TrimSpace(denominator))
		if !okNum || !okDen || den.Sign() == 0 {
			return 0, unparsable(value)
		}
		r = num.Quo(num, den)
	} else {
		var ok bool
		r, ok = new(big.Rat).SetString(s)
		if !ok {
			return 0, unparsable(value)
		}
	}

	f, _ := r.Float64()
	return f, nil
}

func unparsable(value string) error {
	return verrors.Newf(verrors.KindInvalidWeight,
		"Unable to convert given weight (%s) to number", value).
		WithContext("value", value)
}

// FromStrings builds a Partial scheme from raw flag values. A criterion
// with more than one value fails with a duplicate-weight error before any
// value is parsed.
func FromStrings(raw map[Criterion][]string) (Partial, error) {
	var p Partial

	for _, c := range Criteria {
		if len(raw[c]) > 1 {
			return Partial{}, verrors.New(verrors.KindDuplicateWeight,
				"Some criterion weights are duplicated! Please revise your weighting scheme.").
				WithContext("criterion", c.String())
		}
	}

	for _, c := range Criteria {
		values := raw[c]
		if len(values) == 0 {
			continue
		}
		w, err := ParseWeight(values[0])
		if err != nil {
			return Partial{}, err
		}
		p.Set(c, w)
	}

	return p, nil
}

// FromMap builds a Partial scheme from criterion-name keys, as found in batch
// job files. Unknown criterion names are rejected.
func FromMap(raw map[string]string) (Partial, error) {
	byCriterion := make(map[Criterion][]string, len(raw))
	for name, value := range raw {
		c, ok := ParseCriterion(name)
		if !ok {
			return Partial{}, verrors.Newf(verrors.KindInvalidWeight,
				"Unknown criterion %q in weighting scheme", name)
		}
		byCriterion[c] = append(byCriterion[c], value)
	}
	return FromStrings(byCriterion)
}
