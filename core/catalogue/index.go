package catalogue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	verrors "github.com/adalundhe/volcans/core/errors"
)

const (
	// DefaultSearchLimit is the number of hits returned when no limit is given.
	DefaultSearchLimit = 10

	// DefaultSearchFuzziness is the edit distance allowed per name term.
	DefaultSearchFuzziness = 1
)

// SearchHit is a catalogue entry matched by a text search.
type SearchHit struct {
	Entity
	Score float64
}

// SearchIndex is an in-memory full-text index over volcano names and
// countries.
type SearchIndex struct {
	cat   *Catalogue
	index bleve.Index
}

type volcanoDocument struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Number  string `json:"vnum"`
}

// NewSearchIndex indexes every catalogue entry. The index lives in memory
// and must be closed.
func NewSearchIndex(cat *Catalogue) (*SearchIndex, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create name index: %w", err)
	}

	batch := idx.NewBatch()
	for _, e := range cat.entities {
		doc := volcanoDocument{
			Name:    e.Name,
			Country: e.Country,
			Number:  strconv.Itoa(e.VolcanoNumber),
		}
		if err := batch.Index(strconv.Itoa(e.Index), doc); err != nil {
			idx.Close()
			return nil, fmt.Errorf("failed to index %s: %w", e.Name, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("failed to build name index: %w", err)
	}

	return &SearchIndex{cat: cat, index: idx}, nil
}

// Search returns up to limit entries whose name or country matches text.
// Name terms match within the given edit distance.
func (s *SearchIndex) Search(text string, limit, fuzziness int) ([]SearchHit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, verrors.New(verrors.KindInvalidInput, "search query is empty")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	req := bleve.NewSearchRequestOptions(s.buildQuery(text, fuzziness), limit, 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("name search failed: %w", err)
	}

	hits := make([]SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		i, err := strconv.Atoi(h.ID)
		if err != nil || i < 0 || i >= s.cat.Len() {
			continue
		}
		hits = append(hits, SearchHit{Entity: s.cat.Entity(i), Score: h.Score})
	}
	return hits, nil
}

func (s *SearchIndex) buildQuery(text string, fuzziness int) query.Query {
	name := bleve.NewMatchQuery(text)
	name.SetField("name")
	name.SetFuzziness(fuzziness)
	name.SetBoost(2)

	country := bleve.NewMatchQuery(text)
	country.SetField("country")

	queries := []query.Query{name, country}
	if _, err := strconv.Atoi(text); err == nil {
		vnum := bleve.NewTermQuery(text)
		vnum.SetField("vnum")
		queries = append(queries, vnum)
	}

	return bleve.NewDisjunctionQuery(queries...)
}

// Close releases the index.
func (s *SearchIndex) Close() error {
	return s.index.Close()
}
