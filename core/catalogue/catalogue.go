// Package catalogue holds the immutable volcano catalogue and resolves
// user-supplied identifiers to dense matrix indices.
package catalogue

import (
	"fmt"
	"log/slog"

	verrors "github.com/adalundhe/volcans/core/errors"
)

// DefaultSuggestionLimit is the number of similar names offered when a name
// cannot be resolved.
const DefaultSuggestionLimit = 10

// Entity is one catalogue row. Index is the row/column of the volcano in
// every analogy matrix.
type Entity struct {
	Index         int    `json:"-"`
	Name          string `json:"name"`
	Country       string `json:"country"`
	VolcanoNumber int    `json:"smithsonian_id"`
}

func (e Entity) String() string {
	return fmt.Sprintf("%s, %s (%d)", e.Name, e.Country, e.VolcanoNumber)
}

// Catalogue is the fixed, ordered list of volcanoes. It is never mutated
// after New returns, so it can be shared freely between goroutines.
type Catalogue struct {
	entities []Entity
	byNumber map[int]int
	byName   map[string][]int

	suggestionLimit int
	logger          *slog.Logger
}

// Option configures a Catalogue.
type Option func(*Catalogue)

// WithSuggestionLimit sets how many fuzzy suggestions errors carry.
func WithSuggestionLimit(limit int) Option {
	return func(c *Catalogue) {
		if limit > 0 {
			c.suggestionLimit = limit
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalogue) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a catalogue from rows in matrix order. The Index field of each
// row is overwritten with its position.
func New(rows []Entity, opts ...Option) (*Catalogue, error) {
	if len(rows) == 0 {
		return nil, verrors.New(verrors.KindDataset, "volcano catalogue is empty")
	}

	c := &Catalogue{
		entities:        make([]Entity, len(rows)),
		byNumber:        make(map[int]int, len(rows)),
		byName:          make(map[string][]int, len(rows)),
		suggestionLimit: DefaultSuggestionLimit,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	for i, row := range rows {
		if row.Name == "" {
			return nil, verrors.Newf(verrors.KindDataset, "catalogue row %d has no volcano name", i)
		}
		if row.VolcanoNumber <= 0 {
			return nil, verrors.Newf(verrors.KindDataset,
				"catalogue row %d (%s) has invalid volcano number %d", i, row.Name, row.VolcanoNumber)
		}
		if prev, dup := c.byNumber[row.VolcanoNumber]; dup {
			return nil, verrors.Newf(verrors.KindDataset,
				"volcano number %d is used by rows %d and %d", row.VolcanoNumber, prev, i)
		}
		row.Index = i
		c.entities[i] = row
		c.byNumber[row.VolcanoNumber] = i
		c.byName[row.Name] = append(c.byName[row.Name], i)
	}

	return c, nil
}

// Len returns the number of volcanoes.
func (c *Catalogue) Len() int {
	return len(c.entities)
}

// Entity returns the row at index. Index must be in [0, Len()).
func (c *Catalogue) Entity(index int) Entity {
	return c.entities[index]
}

// Entities returns a copy of all rows in matrix order.
func (c *Catalogue) Entities() []Entity {
	out := make([]Entity, len(c.entities))
	copy(out, c.entities)
	return out
}

// Names returns every volcano name in matrix order.
func (c *Catalogue) Names() []string {
	names := make([]string, len(c.entities))
	for i, e := range c.entities {
		names[i] = e.Name
	}
	return names
}

// NameOf returns the name of the volcano at index. Index must be in [0, Len()).
func (c *Catalogue) NameOf(index int) string {
	return c.entities[index].Name
}
