package caserank

import (
	"errors"
	"log"
	"strings"
)

// ErrCountryNotFound is returned by a PopulationLookup for unknown names.
var ErrCountryNotFound = errors.New("country not found")

// PopulationLookup resolves a country name to its population.
type PopulationLookup interface {
	Population(name string) (int64, error)
}

// StaticLookup is a PopulationLookup backed by a fixed table.
type StaticLookup map[string]int64

// Population implements PopulationLookup.
func (s StaticLookup) Population(name string) (int64, error) {
	if n, ok := s[name]; ok {
		return n, nil
	}
	return 0, ErrCountryNotFound
}

// NoRedirect marks a NameMapping entry whose source name has no usable
// equivalent in the lookup service.
const NoRedirect = ""

// NameMapping redirects source country names to the names expected by the
// lookup service.
type NameMapping map[string]string

// PopulationOverrides holds literal populations keyed by source country name.
type PopulationOverrides map[string]int64

// DefaultNameMapping returns the redirects needed for the Johns Hopkins CSSE
// country names. Targets are ISO 3166 codes so they resolve however the
// lookup service spells the country name.
func DefaultNameMapping() NameMapping {
	return NameMapping{
		"Andorra":               NoRedirect,
		"Bahamas":               "BS",
		"Cabo Verde":            "CV",
		"Congo (Brazzaville)":   "CG",
		"Congo (Kinshasa)":      "CD",
		"Cote d'Ivoire":         "CI",
		"Diamond Princess":      NoRedirect,
		"Czechia":               "CZ",
		"Eswatini":              "SZ",
		"Gambia":                "GM",
		"Holy See":              NoRedirect,
		"Korea, South":          "KR",
		"Montenegro":            NoRedirect,
		"North Macedonia":       "MK",
		"Serbia":                NoRedirect,
		"Taiwan*":               "TW",
		"US":                    "USA",
		"Timor-Leste":           NoRedirect,
		"West Bank and Gaza":    NoRedirect,
		"Kosovo":                NoRedirect,
		"Burma":                 NoRedirect,
		"MS Zaandam":            NoRedirect,
		"Sao Tome and Principe": "ST",
	}
}

// DefaultPopulationOverrides returns populations for source names that no
// lookup service resolves reliably. Cruise ships are left out on purpose:
// their headcount changed daily.
func DefaultPopulationOverrides() PopulationOverrides {
	return PopulationOverrides{
		"Andorra":            77543,
		"Montenegro":         622359,
		"Timor-Leste":        1183643,
		"West Bank and Gaza": 2939418,
		"Kosovo":             1810463,
		"Burma":              53582855,
		"Holy See":           825,
		"Serbia":             6963764,
	}
}

// Enricher attaches populations to countries. Its tables are copied on
// construction and never modified.
type Enricher struct {
	lookup    PopulationLookup
	names     NameMapping
	overrides PopulationOverrides
}

// NewEnricher returns an Enricher. lookup may be nil, in which case only the
// overrides can supply populations.
func NewEnricher(lookup PopulationLookup, names NameMapping, overrides PopulationOverrides) *Enricher {
	e := &Enricher{
		lookup:    lookup,
		names:     make(NameMapping, len(names)),
		overrides: make(PopulationOverrides, len(overrides)),
	}
	for k, v := range names {
		e.names[k] = v
	}
	for k, v := range overrides {
		e.overrides[k] = v
	}
	return e
}

// Population resolves the population for a source country name. It tries
// the lookup service with the name itself, then with its mapped name, then
// the literal override table. A NoRedirect mapping skips the second step.
func (e *Enricher) Population(name string) (int64, bool) {
	if n, ok := e.resolve(name); ok {
		return n, true
	}
	if mapped, ok := e.names[name]; ok && mapped != NoRedirect {
		if n, ok := e.resolve(mapped); ok {
			return n, true
		}
	}
	if n, ok := e.overrides[name]; ok {
		return n, true
	}
	return 0, false
}

func (e *Enricher) resolve(name string) (int64, bool) {
	if e.lookup == nil {
		return 0, false
	}
	n, err := e.lookup.Population(name)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Enrich sets the population of every country it can resolve and returns the
// names of those it could not, in insertion order.
func (e *Enricher) Enrich(cm *CountryMap) []string {
	var missing []string
	for _, c := range cm.All() {
		n, ok := e.Population(c.Name)
		if !ok {
			c.Population = nil
			missing = append(missing, c.Name)
			continue
		}
		c.SetPopulation(n)
	}
	if len(missing) > 0 {
		log.Printf("info: no population for %d countries: %s", len(missing), strings.Join(missing, ", "))
	}
	return missing
}
