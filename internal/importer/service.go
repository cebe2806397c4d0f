package importer

import (
	"fmt"
	"io"
	"time"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	"github.com/MrJamesThe3rd/covidwaw/internal/importer/mz"
	"github.com/MrJamesThe3rd/covidwaw/internal/importer/psse"
)

type Service struct {
	bulletinImporter Importer
	csvImporter      Importer
}

func NewService(district string) *Service {
	return &Service{
		bulletinImporter: psse.NewParser(),
		csvImporter:      mz.NewParser(district),
	}
}

// Import parses a document with the importer of the given regime. Both CSV
// eras share one parser; their schema differences live in its alias table.
func (s *Service) Import(regime covid.Regime, day time.Time, r io.Reader) (*covid.DailyRecord, error) {
	var importer Importer

	switch regime {
	case covid.RegimeBulletin:
		importer = s.bulletinImporter
	case covid.RegimeMinistry, covid.RegimeArcGIS:
		importer = s.csvImporter
	default:
		return nil, fmt.Errorf("no importer for %s regime", regime)
	}

	return importer.Parse(day, r)
}
