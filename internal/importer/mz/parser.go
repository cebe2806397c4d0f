// Package mz reads the district CSV files published by the Ministry of Health
// (Ministerstwo Zdrowia), both on gov.pl and on ArcGIS.
package mz

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	enc "github.com/MrJamesThe3rd/covidwaw/internal/encoding"
)

var ErrDistrictNotFound = errors.New("district not found")

// Parser picks the row of one district out of a ministry CSV file and reads
// its daily counters.
type Parser struct {
	district string
}

func NewParser(district string) *Parser {
	return &Parser{district: district}
}

func (p *Parser) Parse(day time.Time, r io.Reader) (*covid.DailyRecord, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty csv", day.Format(covid.DayLayout))
	}

	cols := newColIndex(rows[0])

	idx, err := p.resolve(cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", day.Format(covid.DayLayout), err)
	}

	for i, row := range rows[1:] {
		if cellValue(row, idx.district) != p.district {
			continue
		}

		rec, err := parseRow(day, row, idx)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", day.Format(covid.DayLayout), i+2, err)
		}

		return rec, nil
	}

	return nil, fmt.Errorf("%s: %s: %w", day.Format(covid.DayLayout), p.district, ErrDistrictNotFound)
}

type indexes struct {
	district int
	positive int
	deaths   int
	tests    int
}

// resolve checks the header against the alias table before any row is read,
// so a schema change fails the day even if the district row is missing.
func (p *Parser) resolve(cols colIndex) (indexes, error) {
	var (
		idx indexes
		err error
	)

	if idx.district, err = districtCol.resolve(cols); err != nil {
		return idx, err
	}

	if idx.positive, err = positiveCol.resolve(cols); err != nil {
		return idx, err
	}

	if idx.deaths, err = deathsCol.resolve(cols); err != nil {
		return idx, err
	}

	if idx.tests, err = testsCol.resolve(cols); err != nil {
		return idx, err
	}

	return idx, nil
}

func parseRow(day time.Time, row []string, idx indexes) (*covid.DailyRecord, error) {
	positive, err := parseCount(cellValue(row, idx.positive))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", positiveCol.Field, err)
	}

	deaths, err := parseCount(cellValue(row, idx.deaths))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", deathsCol.Field, err)
	}

	rec := &covid.DailyRecord{
		Day: day,
		Daily: covid.Deltas{
			Positive: positive,
			Deaths:   deaths,
		},
	}

	// An empty tests cell means the figure was not reported that day.
	if s := cellValue(row, idx.tests); s != "" {
		tests, err := parseCount(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", testsCol.Field, err)
		}

		rec.Daily.Tests = &tests
	}

	return rec, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
