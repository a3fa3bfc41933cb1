package catalogue

import (
	"strconv"
	"strings"
)

type identifierKind int

const (
	byName identifierKind = iota
	byNumber
)

// Identifier names a volcano either by its catalogue name or by its
// Smithsonian volcano number (VNUM).
type Identifier struct {
	kind   identifierKind
	name   string
	number int
}

// Name identifies a volcano by exact, case-sensitive name.
func Name(name string) Identifier {
	return Identifier{kind: byName, name: name}
}

// Number identifies a volcano by its Smithsonian volcano number.
func Number(vnum int) Identifier {
	return Identifier{kind: byNumber, number: vnum}
}

// ParseIdentifier reads command-line input: integer-like text is a volcano
// number, anything else a name.
func ParseIdentifier(s string) Identifier {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return Number(n)
	}
	return Name(s)
}

// IsNumber reports whether the identifier is a volcano number.
func (id Identifier) IsNumber() bool {
	return id.kind == byNumber
}

// NameValue returns the name of a name identifier.
func (id Identifier) NameValue() string {
	return id.name
}

// NumberValue returns the volcano number of a number identifier.
func (id Identifier) NumberValue() int {
	return id.number
}

func (id Identifier) String() string {
	if id.kind == byNumber {
		return strconv.Itoa(id.number)
	}
	return id.name
}
