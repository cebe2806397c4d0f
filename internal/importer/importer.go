package importer

import (
	"io"
	"time"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
)

// Importer turns one day's source document into a daily record.
type Importer interface {
	Parse(day time.Time, r io.Reader) (*covid.DailyRecord, error)
}
