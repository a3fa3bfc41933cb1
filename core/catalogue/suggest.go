package catalogue

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// Suggestion is a catalogue entry whose name resembles a query.
type Suggestion struct {
	Entity
	Score int
}

// Suggest returns up to limit entries ordered by descending name similarity
// to query. Equal scores keep catalogue order.
func (c *Catalogue) Suggest(query string, limit int) []Suggestion {
	if limit <= 0 {
		limit = c.suggestionLimit
	}

	q := processName(query)
	scored := make([]Suggestion, len(c.entities))
	for i, e := range c.entities {
		scored[i] = Suggestion{Entity: e, Score: nameRatio(q, processName(e.Name))}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > len(scored) {
		limit = len(scored)
	}
	return scored[:limit]
}

// processName lowercases s and replaces every run of characters other than
// letters, digits and underscores with a single space.
func processName(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		space = true
	}
	return b.String()
}

// nameRatio scores two processed names from 0 to 100 using the matching-block
// ratio of a sequence matcher over their characters.
func nameRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	m := difflib.NewMatcher(runes(a), runes(b))
	return int(math.RoundToEven(100 * m.Ratio()))
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// FormatSuggestions renders suggestions as an aligned name/country/number
// listing.
func FormatSuggestions(suggestions []Suggestion) string {
	nameWidth, countryWidth := len("name"), len("country")
	for _, s := range suggestions {
		nameWidth = max(nameWidth, len(s.Name))
		countryWidth = max(countryWidth, len(s.Country))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s %*s %14s", nameWidth, "name", countryWidth, "country", "smithsonian_id")
	for _, s := range suggestions {
		fmt.Fprintf(&b, "\n%*s %*s %14d", nameWidth, s.Name, countryWidth, s.Country, s.VolcanoNumber)
	}
	return b.String()
}
