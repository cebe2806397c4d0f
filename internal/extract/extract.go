// Package extract pulls numeric counters out of free text using ordered
// fallback patterns.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrExhausted is returned when no pattern of a mandatory field matches.
// It means the source format changed and someone has to look at it.
var ErrExhausted = errors.New("no extraction pattern matched")

// Rule describes how to find one field. Patterns are tried in order, most
// recent document format first, and the first match wins.
type Rule struct {
	Field    string
	Patterns []*regexp.Regexp
	Default  *int
}

// Match holds the integer capture groups of the pattern that matched.
type Match []int

// Value is the first captured number.
func (m Match) Value() int {
	if len(m) == 0 {
		return 0
	}

	return m[0]
}

// Delta is the second captured number, if the pattern had one.
func (m Match) Delta() *int {
	if len(m) < 2 {
		return nil
	}

	return new(m[1])
}

// Values maps field names to their matches.
type Values map[string]Match

// Apply runs the rule against text.
func (r Rule) Apply(text string) (Match, error) {
	for _, p := range r.Patterns {
		groups := p.FindStringSubmatch(text)
		if groups == nil {
			continue
		}

		m := make(Match, 0, len(groups)-1)

		for _, g := range groups[1:] {
			n, err := strconv.Atoi(g)
			if err != nil {
				return nil, fmt.Errorf("field %s: parse %q: %w", r.Field, g, err)
			}

			m = append(m, n)
		}

		return m, nil
	}

	if r.Default != nil {
		return Match{*r.Default}, nil
	}

	return nil, fmt.Errorf("field %s: %w", r.Field, ErrExhausted)
}

// Apply runs every rule against text. It fails on the first mandatory
// field that cannot be found.
func Apply(text string, rules []Rule) (Values, error) {
	values := make(Values, len(rules))

	for _, r := range rules {
		m, err := r.Apply(text)
		if err != nil {
			return nil, err
		}

		values[r.Field] = m
	}

	return values, nil
}

// Patterns compiles the given expressions, panicking on a bad one.
// Meant for package-level rule tables.
func Patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}

	return out
}
