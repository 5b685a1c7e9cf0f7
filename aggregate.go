package caserank

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Aggregator merges the per-territory rows of the three case-type sources
// into a single country map.
type Aggregator struct {
	countries *CountryMap
	progress  io.Writer
}

// NewAggregator returns an empty aggregator. Progress counts are written to
// progress; pass nil to discard them.
func NewAggregator(progress io.Writer) *Aggregator {
	if progress == nil {
		progress = io.Discard
	}
	return &Aggregator{
		countries: NewCountryMap(),
		progress:  progress,
	}
}

// Countries returns the aggregated countries.
func (a *Aggregator) Countries() *CountryMap {
	return a.countries
}

// Add reads one case-type CSV source. The first row is the header.
func (a *Aggregator) Add(caseType CaseType, r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("reading %s: empty source", caseType)
	}
	if err != nil {
		return fmt.Errorf("reading %s header: %w", caseType, err)
	}

	seen := make(map[string]bool)
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("reading %s line %d: %w", caseType, line, err)
		}

		rec, err := ParseRecord(row, header, caseType)
		if err != nil {
			return fmt.Errorf("reading %s line %d: %w", caseType, line, err)
		}
		a.merge(caseType, rec)

		if !seen[rec.Country] {
			seen[rec.Country] = true
			fmt.Fprintf(a.progress, "\rImporting %s: %d countries", caseType, len(seen))
		}
	}
	fmt.Fprintln(a.progress)
	return nil
}

// merge adds rec to its country. An already known territory only receives the
// series for caseType; its other series are left untouched.
func (a *Aggregator) merge(caseType CaseType, rec Record) {
	c, ok := a.countries.Get(rec.Country)
	if !ok {
		c = newCountry(rec.Country)
		a.countries.Put(c)
	}

	province := rec.Territory.Province
	if t, ok := c.Territories[province]; ok {
		t.Series[caseType] = rec.Territory.Series[caseType]
		return
	}
	c.Territories[province] = rec.Territory
}
