package psse

import "github.com/MrJamesThe3rd/covidwaw/internal/extract"

const (
	fieldQuarantined = "quarantined"
	fieldIsolated    = "isolated"
	fieldPositive    = "positive"
	fieldDeaths      = "deaths"
	fieldRecovered   = "recovered"
)

// rules follow the wording of the PSSE Warszawa bulletins. Within a field the
// newer wording comes first; the order must not change.
var rules = []extract.Rule{
	{
		Field: fieldQuarantined,
		Patterns: extract.Patterns(
			`kwarantanną domową / \(ostatnia doba\): (\d+) / \((\d+)\)`,
			`kwarantanną domową na podstawie decyzji inspektora sanitarnego: (\d+)`,
		),
	},
	{
		Field:    fieldIsolated,
		Patterns: extract.Patterns(`izolacją domową / \(ostatnia doba\): (\d+) / \((\d+)\)`),
		Default:  new(0),
	},
	{
		Field: fieldPositive,
		Patterns: extract.Patterns(
			`z wynikiem dodatnim / \(ostatnia doba\): (\d+) /`,
			`wynikiem dodatnim: (\d+)`,
		),
	},
	{
		Field: fieldDeaths,
		Patterns: extract.Patterns(
			`zgonów związanych z COVID-19 / \(ostatnia doba\): (\d+) /`,
			`zgonów powiązanych z COVID-19: (\d+)`,
		),
		Default: new(0),
	},
	{
		Field:    fieldRecovered,
		Patterns: extract.Patterns(`ozdrowieńców / \(ostatnia doba\): (\d+)`),
		Default:  new(0),
	},
}
