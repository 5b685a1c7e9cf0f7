package caserank

import (
	"sort"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
)

// CaseType identifies one of the three reported series.
type CaseType string

const (
	Deaths    CaseType = "deaths"
	Confirmed CaseType = "confirmed"
	Recovered CaseType = "recovered"
)

// CaseTypes lists the case types in the order their sources are processed.
var CaseTypes = []CaseType{Deaths, Confirmed, Recovered}

// Mainland is the province name used for rows with a blank province.
const Mainland = "mainland"

// Territory is a province or state level subdivision of a country.
type Territory struct {
	Province    string                   `json:"province"`
	Latitude    float64                  `json:"lat"`
	Longitude   float64                  `json:"lon"`
	HasLocation bool                     `json:"has_location"`
	Series      map[CaseType]*CaseSeries `json:"series"`
}

// Country holds every territory reported for a country and their totals.
// Territories is nil once a single-territory country has been collapsed
// into its totals.
type Country struct {
	Name        string                   `json:"name"`
	Territories map[string]*Territory    `json:"territories,omitempty"`
	Totals      map[CaseType]*CaseSeries `json:"totals,omitempty"`
	Population  *int64                   `json:"population,omitempty"`
	Latitude    float64                  `json:"lat"`
	Longitude   float64                  `json:"lon"`
	HasLocation bool                     `json:"has_location"`
}

func newCountry(name string) *Country {
	return &Country{
		Name:        name,
		Territories: make(map[string]*Territory),
	}
}

// PopulationValue returns the enriched population, if any.
func (c *Country) PopulationValue() (int64, bool) {
	if c.Population == nil {
		return 0, false
	}
	return *c.Population, true
}

// SetPopulation records the country population.
func (c *Country) SetPopulation(n int64) {
	c.Population = &n
}

// provinces returns the territory names in sorted order.
func (c *Country) provinces() []string {
	names := lo.Keys(c.Territories)
	sort.Strings(names)
	return names
}

// CountryMap is a name-keyed set of countries that remembers the order in
// which countries were first seen.
type CountryMap struct {
	order  []string
	byName map[string]*Country
}

// NewCountryMap returns an empty map.
func NewCountryMap() *CountryMap {
	return &CountryMap{byName: make(map[string]*Country)}
}

// Get returns the named country.
func (m *CountryMap) Get(name string) (*Country, bool) {
	c, ok := m.byName[name]
	return c, ok
}

// Put adds c, replacing any country with the same name in place.
func (m *CountryMap) Put(c *Country) {
	if _, ok := m.byName[c.Name]; !ok {
		m.order = append(m.order, c.Name)
	}
	m.byName[c.Name] = c
}

// Len returns the number of countries.
func (m *CountryMap) Len() int { return len(m.order) }

// Names returns the country names in insertion order.
func (m *CountryMap) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// All returns the countries in insertion order.
func (m *CountryMap) All() []*Country {
	out := make([]*Country, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.byName[name])
	}
	return out
}

// TerritoryCount returns the number of territories across all countries
// that have not been collapsed.
func (m *CountryMap) TerritoryCount() int {
	n := 0
	for _, c := range m.byName {
		n += len(c.Territories)
	}
	return n
}

// MarshalJSON encodes the map as a list of countries in insertion order.
func (m *CountryMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.All())
}

// UnmarshalJSON decodes a list written by MarshalJSON.
func (m *CountryMap) UnmarshalJSON(data []byte) error {
	var countries []*Country
	if err := json.Unmarshal(data, &countries); err != nil {
		return err
	}
	*m = CountryMap{byName: make(map[string]*Country, len(countries))}
	for _, c := range countries {
		m.Put(c)
	}
	return nil
}
