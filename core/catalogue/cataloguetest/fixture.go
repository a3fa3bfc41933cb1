// Package cataloguetest provides a catalogue shaped like the reference volcano
// catalogue for tests.
package cataloguetest

import (
	"fmt"
	"testing"

	"github.com/adalundhe/volcans/core/catalogue"
)

// Size is the number of volcanoes in the reference catalogue.
const Size = 1439

// Reference rows placed at their reference indices.
var (
	WestEifel    = catalogue.Entity{Index: 0, Name: "West Eifel Volcanic Field", Country: "Germany", VolcanoNumber: 210010}
	Santorini    = catalogue.Entity{Index: 21, Name: "Santorini", Country: "Greece", VolcanoNumber: 212040}
	KorathRange  = catalogue.Entity{Index: 120, Name: "Korath Range", Country: "Ethiopia", VolcanoNumber: 221260}
	SantaIsabel  = catalogue.Entity{Index: 1033, Name: "Santa Isabel", Country: "Colombia", VolcanoNumber: 351050}
	Tolima       = catalogue.Entity{Index: 1040, Name: "Tolima, Nevado del", Country: "Colombia", VolcanoNumber: 351030}
	Ruiz         = catalogue.Entity{Index: 1041, Name: "Ruiz, Nevado del", Country: "Colombia", VolcanoNumber: 351020}
	Fuego        = catalogue.Entity{Index: 1071, Name: "Fuego", Country: "Guatemala", VolcanoNumber: 342090}
	SantaIsabel2 = catalogue.Entity{Index: 1290, Name: "Santa Isabel", Country: "Ecuador", VolcanoNumber: 352031}
	Hekla        = catalogue.Entity{Index: 1362, Name: "Hekla", Country: "Iceland", VolcanoNumber: 372070}
)

// References lists every reference row.
var References = []catalogue.Entity{
	WestEifel, Santorini, KorathRange, SantaIsabel, Tolima, Ruiz, Fuego, SantaIsabel2, Hekla,
}

// Rows returns Size rows: the reference rows at their indices and numbered
// filler volcanoes everywhere else.
func Rows() []catalogue.Entity {
	rows := make([]catalogue.Entity, Size)
	for i := range rows {
		rows[i] = catalogue.Entity{
			Index:         i,
			Name:          fmt.Sprintf("Volcano %04d", i),
			Country:       "Atlantis",
			VolcanoNumber: 400000 + i,
		}
	}
	for _, ref := range References {
		rows[ref.Index] = ref
	}
	return rows
}

// Catalogue builds the reference-shaped catalogue or fails the test.
func Catalogue(t testing.TB, opts ...catalogue.Option) *catalogue.Catalogue {
	t.Helper()
	cat, err := catalogue.New(Rows(), opts...)
	if err != nil {
		t.Fatalf("building fixture catalogue: %v", err)
	}
	return cat
}

// Small builds a catalogue from the given rows or fails the test.
func Small(t testing.TB, rows ...catalogue.Entity) *catalogue.Catalogue {
	t.Helper()
	cat, err := catalogue.New(rows)
	if err != nil {
		t.Fatalf("building catalogue: %v", err)
	}
	return cat
}
