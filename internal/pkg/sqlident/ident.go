// Package sqlident is the only way a name discovered at runtime (a table or
// column found in a catalog, or read from a mapping file) reaches SQL text.
package sqlident

import (
	"regexp"
	"strings"

	"gym-booking/internal/pkg/errs"
)

const maxLen = 128

var (
	ErrInvalidIdentifier = errs.New("invalid sql identifier")

	// Letters, digits, underscore and inner spaces ("Employee ID" is a real
	// column name in the directory stores). Quotes and brackets never pass.
	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*( [A-Za-z0-9_]+)*$`)
)

type Ident struct {
	name string
}

func New(name string) (Ident, error) {
	if len(name) == 0 || len(name) > maxLen || !identPattern.MatchString(name) {
		return Ident{}, errs.Mark(errs.Newf("%q is not an acceptable identifier", name), ErrInvalidIdentifier)
	}
	return Ident{name: name}, nil
}

func MustNew(name string) Ident {
	id, err := New(name)
	if err != nil {
		panic(err)
	}
	return id
}

func (i Ident) String() string {
	return i.name
}

func (i Ident) IsZero() bool {
	return i.name == ""
}

func (i Ident) EqualFold(name string) bool {
	return strings.EqualFold(i.name, name)
}

// ANSI renders "name", as PostgreSQL expects.
func (i Ident) ANSI() string {
	return `"` + strings.ReplaceAll(i.name, `"`, `""`) + `"`
}

// Bracket renders [name], as SQL Server expects.
func (i Ident) Bracket() string {
	return "[" + strings.ReplaceAll(i.name, "]", "]]") + "]"
}
