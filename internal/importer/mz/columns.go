package mz

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/covidwaw/internal/extract"
)

// column lists the header names a field has had across schema revisions,
// newest first. The list is known to be incomplete: a rename upstream shows
// up as an exhausted column and has to be added here.
type column struct {
	Field    string
	Aliases  []string
	Optional bool
}

var (
	districtCol = column{Field: "district", Aliases: []string{"Powiat/Miasto", "powiat_miasto", "powiat"}}
	positiveCol = column{Field: "positive", Aliases: []string{"liczba_przypadkow", "liczba_wszystkich_zakazen"}}
	deathsCol   = column{Field: "deaths", Aliases: []string{"zgony"}}
	testsCol    = column{Field: "tests", Aliases: []string{"liczba_wykonanych_testow"}, Optional: true}
)

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func newColIndex(header []string) colIndex {
	cols := make(colIndex, len(header))

	for i, cell := range header {
		name := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		if _, dup := cols[name]; name != "" && !dup {
			cols[name] = i
		}
	}

	return cols
}

// resolve returns the index of the first alias present in the header, or -1
// for an optional column that is missing.
func (c column) resolve(cols colIndex) (int, error) {
	for _, alias := range c.Aliases {
		if idx, ok := cols[alias]; ok {
			return idx, nil
		}
	}

	if c.Optional {
		return -1, nil
	}

	return -1, fmt.Errorf("column %s (tried %s): %w", c.Field, strings.Join(c.Aliases, ", "), extract.ErrExhausted)
}
