package cmd

import (
	"io"
	"log/slog"

	"github.com/adalundhe/volcans/core/analogy"
	"github.com/adalundhe/volcans/core/catalogue"
	"github.com/adalundhe/volcans/core/report"
	"github.com/adalundhe/volcans/core/weights"
)

// combiner is satisfied by *analogy.Engine and *analogy.Cache.
type combiner interface {
	Combine(target int, scheme weights.Scheme) (*analogy.Result, error)
}

// analysis is one ranked analogue query.
type analysis struct {
	result     *analogy.Result
	top        *analogy.Top
	advisories []analogy.Advisory
}

// analyse resolves the target, combines the matrices and ranks the analogues.
// Advisories are kept for the caller to print and logged at debug level.
func analyse(cat *catalogue.Catalogue, comb combiner, target catalogue.Identifier, scheme weights.Scheme, count int, logger *slog.Logger) (*analysis, error) {
	idx, err := cat.Resolve(target)
	if err != nil {
		return nil, err
	}
	result, err := comb.Combine(idx, scheme)
	if err != nil {
		return nil, err
	}
	top, err := analogy.TopAnalogues(result, count)
	if err != nil {
		return nil, err
	}

	a := &analysis{result: result, top: top, advisories: analogy.Advisories(result, top)}
	for _, adv := range a.advisories {
		logger.Debug("advisory", "kind", adv.Kind.String())
	}
	return a, nil
}

// parseIdentifiers turns a priori arguments into identifiers; digits are
// volcano numbers.
func parseIdentifiers(args []string) []catalogue.Identifier {
	ids := make([]catalogue.Identifier, len(args))
	for i, a := range args {
		ids[i] = catalogue.ParseIdentifier(a)
	}
	return ids
}

// writeBetterAnalogues places the a priori analogues and prints the result.
func writeBetterAnalogues(w io.Writer, eng *analogy.Engine, a *analysis, apriori []catalogue.Identifier) ([]analogy.PercentileRecord, error) {
	if len(apriori) == 0 {
		return nil, nil
	}
	records, err := eng.Percentiles(a.result, apriori)
	if err != nil {
		return nil, err
	}
	report.WriteBetterAnalogues(w, a.result.Target, records)
	return records, nil
}
