package caserank

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/samber/lo"
)

// Metric names a derived per-country statistic.
type Metric string

const (
	Mortality              Metric = "mortality"                // deaths per million inhabitants
	Lethality              Metric = "lethality"                // deaths per confirmed case, %
	ActivePerUnknown       Metric = "active_per_unknown"       // active per not-yet-confirmed inhabitant
	ActivePerPopulation    Metric = "active_per_population"    // active cases per population, %
	ConfirmedPerPopulation Metric = "confirmed_per_population" // confirmed cases per population, %
)

// RankedMetrics lists the metrics that get a top table, in print order.
var RankedMetrics = []Metric{Mortality, Lethality, ActivePerPopulation, ActivePerUnknown, ConfirmedPerPopulation}

var (
	// ErrDivisionByZero marks a metric whose denominator is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrDateMissing marks a country without a count for the requested date.
	ErrDateMissing = errors.New("date missing")
	// ErrNoReferenceDate is returned when no default date can be determined.
	ErrNoReferenceDate = errors.New("no reference date")
)

// Rating holds the metrics of one country for one date.
type Rating struct {
	Country                string  `json:"country"`
	Mortality              float64 `json:"mortality"`
	Lethality              float64 `json:"lethality"`
	ActivePerUnknown       float64 `json:"active_per_unknown"`
	ActivePerPopulation    float64 `json:"active_per_population"`
	ConfirmedPerPopulation float64 `json:"confirmed_per_population"`
	Deaths                 int64   `json:"deaths"`
	Confirmed              int64   `json:"confirmed"`
	Active                 int64   `json:"active"`
	Population             int64   `json:"population"`
}

// Value returns the value of m, or 0 for a metric Rating does not carry.
func (r Rating) Value(m Metric) float64 {
	switch m {
	case Mortality:
		return r.Mortality
	case Lethality:
		return r.Lethality
	case ActivePerUnknown:
		return r.ActivePerUnknown
	case ActivePerPopulation:
		return r.ActivePerPopulation
	case ConfirmedPerPopulation:
		return r.ConfirmedPerPopulation
	}
	return 0
}

// MetricFault records a country left out of the ratings.
type MetricFault struct {
	Country string `json:"country"`
	Reason  string `json:"reason"`
}

// Ratings is the set of ratings computed for one date.
type Ratings struct {
	Date          string        `json:"date"`
	Latest        bool          `json:"latest"`
	MinPopulation int64         `json:"min_population,omitempty"`
	Items         []Rating      `json:"items,omitempty"`
	Faults        []MetricFault `json:"faults,omitempty"`
}

// Get returns the rating of the named country.
func (r *Ratings) Get(country string) (Rating, bool) {
	return lo.Find(r.Items, func(it Rating) bool {
		return it.Country == country
	})
}

// CalcOptions controls Calculate.
type CalcOptions struct {
	Date             string // empty: latest date of the reference country
	MinPopulation    int64  // countries below are left out; 0 disables
	ReferenceCountry string // country whose deaths series supplies the default date
}

// Calculate computes the ratings of every country with a known population.
// A country whose metrics cannot be computed is recorded in Faults and left
// out; the other countries are still rated.
func Calculate(cm *CountryMap, opts CalcOptions) (*Ratings, error) {
	r := &Ratings{Date: opts.Date, MinPopulation: opts.MinPopulation}
	if r.Date == "" {
		date, err := LatestDate(cm, opts.ReferenceCountry)
		if err != nil {
			return nil, err
		}
		r.Date = date
		r.Latest = true
		log.Printf("info: using data %s (latest downloaded)", r.Date)
	} else {
		log.Printf("info: using data %s", r.Date)
	}
	if opts.MinPopulation > 1 {
		log.Printf("info: omitting countries with less than %s inhabitants", DescribePopulation(opts.MinPopulation))
	}

	for _, c := range cm.All() {
		population, ok := c.PopulationValue()
		if !ok {
			continue
		}
		if opts.MinPopulation > 0 && population < opts.MinPopulation {
			continue
		}

		rating, err := rateCountry(c, r.Date, population)
		if err != nil {
			log.Printf("warning: %s not rated: %v", c.Name, err)
			r.Faults = append(r.Faults, MetricFault{Country: c.Name, Reason: err.Error()})
			continue
		}
		r.Items = append(r.Items, rating)
	}
	return r, nil
}

func rateCountry(c *Country, date string, population int64) (Rating, error) {
	var counts [3]int64
	for i, ct := range CaseTypes {
		n, ok := c.Totals[ct].Get(date)
		if !ok {
			return Rating{}, fmt.Errorf("%w: no %s count for %s", ErrDateMissing, ct, date)
		}
		counts[i] = n
	}
	return ComputeRating(c.Name, counts[0], counts[1], counts[2], population)
}

// ComputeRating derives the metrics of a country from its counts. Ratios are
// rounded to three decimals.
func ComputeRating(country string, deaths, confirmed, recovered, population int64) (Rating, error) {
	if population == 0 {
		return Rating{}, fmt.Errorf("%w: population is zero", ErrDivisionByZero)
	}
	if confirmed == 0 {
		return Rating{}, fmt.Errorf("%w: no confirmed cases", ErrDivisionByZero)
	}
	active := confirmed - recovered - deaths
	unknown := population - confirmed
	if unknown == 0 {
		return Rating{}, fmt.Errorf("%w: every inhabitant is a confirmed case", ErrDivisionByZero)
	}

	pop := float64(population)
	return Rating{
		Country:                country,
		Mortality:              round3(float64(deaths) / pop * 1000000),
		Lethality:              round3(float64(deaths) / float64(confirmed) * 100),
		ActivePerUnknown:       round3(float64(active) / float64(unknown)),
		ActivePerPopulation:    round3(float64(active) / pop * 100),
		ConfirmedPerPopulation: round3(float64(confirmed) / pop * 100),
		Deaths:                 deaths,
		Confirmed:              confirmed,
		Active:                 active,
		Population:             population,
	}, nil
}

// round3 rounds x to three decimals using the exact binary value of x, so
// 0.0065 (stored as 0.00649999...) rounds down to 0.006.
func round3(x float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 3, 64), 64)
	return v
}

// LatestDate returns the last date of the reference country's deaths totals.
// When the reference country is unknown the first country with a non-empty
// deaths series is used.
func LatestDate(cm *CountryMap, reference string) (string, error) {
	if c, ok := cm.Get(reference); ok {
		if d, _, ok := c.Totals[Deaths].Last(); ok {
			return d, nil
		}
	}
	for _, c := range cm.All() {
		if d, _, ok := c.Totals[Deaths].Last(); ok {
			return d, nil
		}
	}
	return "", ErrNoReferenceDate
}

// DescribePopulation renders n in words, e.g. "1 million" or "500 thousand".
func DescribePopulation(n int64) string {
	f := float64(n)
	switch {
	case n < 1000:
		return strconv.FormatInt(n, 10)
	case n < 1000000:
		return strconv.FormatFloat(f/1000, 'f', -1, 64) + " thousand"
	default:
		return strconv.FormatFloat(f/1000000, 'f', -1, 64) + " million"
	}
}
