package game

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	// ErrInvalidFormat: empty input, or input that is neither a
	// two-letter code nor a known place name.
	ErrInvalidFormat = errors.New("guess is not a country code or a known country name")
	// ErrNotTarget: a well-formed code that is not one of the stage's
	// target countries.
	ErrNotTarget = errors.New("not a target country for this stage")
)

var (
	isoPattern  = regexp.MustCompile(`^[A-Za-z]{2}$`)
	icaoPattern = regexp.MustCompile(`^[A-Za-z]{4}$`)
)

// Validation is a successfully resolved guess.
type Validation struct {
	ISO  string
	ICAO string
	Name string
}

// Validate normalizes a raw guess against the stage's place table.
// Two-letter alphabetic input is treated as an ISO country code;
// anything else must match a place's full name case-insensitively.
// If explicitAirport is a well-formed four-letter code it overrides
// the place's representative airport. Pure function, no side effects.
func Validate(input string, places map[string]Place, explicitAirport string) (Validation, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Validation{}, ErrInvalidFormat
	}

	var iso string
	if isoPattern.MatchString(input) {
		iso = strings.ToUpper(input)
	} else {
		for code, p := range places {
			if strings.EqualFold(p.Name, input) {
				iso = code
				break
			}
		}
		if iso == "" {
			return Validation{}, ErrInvalidFormat
		}
	}

	p, ok := places[iso]
	if !ok {
		return Validation{}, ErrNotTarget
	}

	icao := p.ICAO
	if icaoPattern.MatchString(explicitAirport) {
		icao = strings.ToUpper(explicitAirport)
	}

	return Validation{ISO: iso, ICAO: icao, Name: p.Name}, nil
}

// ClosestPlaceName suggests the stage place name nearest to a
// misspelled guess. Used only to soften InvalidFormat messages; it
// never changes a validation outcome.
func ClosestPlaceName(input string, places map[string]Place) (string, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", false
	}

	names := make([]string, 0, len(places))
	for _, p := range places {
		names = append(names, p.Name)
	}
	sort.Strings(names)

	best, bestDist := "", 4
	for _, name := range names {
		d := levenshtein.ComputeDistance(input, strings.ToLower(name))
		if d < bestDist {
			best, bestDist = name, d
		}
	}
	return best, best != ""
}
