// Package psse reads the daily bulletins of the Warsaw sanitary inspectorate
// (Powiatowa Stacja Sanitarno-Epidemiologiczna).
package psse

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	"github.com/MrJamesThe3rd/covidwaw/internal/extract"
)

// Parser reads the plain text of a bulletin. The PDF layer is handled by
// the archive, which caches the extracted text.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(day time.Time, r io.Reader) (*covid.DailyRecord, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read bulletin: %w", err)
	}

	values, err := extract.Apply(normalize(string(raw)), rules)
	if err != nil {
		return nil, fmt.Errorf("bulletin %s: %w", day.Format(covid.DayLayout), err)
	}

	quarantined := values[fieldQuarantined]
	isolated := values[fieldIsolated]

	return &covid.DailyRecord{
		Day:         day,
		Positive:    new(values[fieldPositive].Value()),
		Deaths:      new(values[fieldDeaths].Value()),
		Quarantined: new(quarantined.Value()),
		Isolated:    new(isolated.Value()),
		Recovered:   new(values[fieldRecovered].Value()),
		Daily: covid.Deltas{
			Quarantined: quarantined.Delta(),
			Isolated:    isolated.Delta(),
		},
	}, nil
}

// normalize collapses the line breaks and runs of spaces left by PDF text
// extraction so that patterns can use single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
