package caserank

import (
	"github.com/goccy/go-json"
)

// CaseSeries is a date-ordered series of case counts. Dates keep the order in
// which they were first set, which for CSV sources is the column order.
type CaseSeries struct {
	dates  []string
	counts map[string]int64
}

// seriesPoint is the cache representation of a single CaseSeries entry.
type seriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// NewCaseSeries returns an empty series.
func NewCaseSeries() *CaseSeries {
	return &CaseSeries{counts: make(map[string]int64)}
}

// Set stores n for date, appending date if it is new.
func (s *CaseSeries) Set(date string, n int64) {
	if _, ok := s.counts[date]; !ok {
		s.dates = append(s.dates, date)
	}
	s.counts[date] = n
}

// Add initializes date with n, or adds n to the existing count.
func (s *CaseSeries) Add(date string, n int64) {
	if cur, ok := s.counts[date]; ok {
		s.counts[date] = cur + n
		return
	}
	s.Set(date, n)
}

// Get returns the count stored for date.
func (s *CaseSeries) Get(date string) (int64, bool) {
	if s == nil {
		return 0, false
	}
	n, ok := s.counts[date]
	return n, ok
}

// Dates returns the series dates in insertion order.
func (s *CaseSeries) Dates() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.dates))
	copy(out, s.dates)
	return out
}

// Len returns the number of dates in the series.
func (s *CaseSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dates)
}

// Last returns the most recent date and its count.
func (s *CaseSeries) Last() (string, int64, bool) {
	if s.Len() == 0 {
		return "", 0, false
	}
	d := s.dates[len(s.dates)-1]
	return d, s.counts[d], true
}

// Clone returns an independent copy of the series.
func (s *CaseSeries) Clone() *CaseSeries {
	c := NewCaseSeries()
	if s == nil {
		return c
	}
	for _, d := range s.dates {
		c.Set(d, s.counts[d])
	}
	return c
}

// MarshalJSON encodes the series as an ordered list of date/count pairs.
func (s *CaseSeries) MarshalJSON() ([]byte, error) {
	points := make([]seriesPoint, 0, s.Len())
	if s != nil {
		for _, d := range s.dates {
			points = append(points, seriesPoint{Date: d, Count: s.counts[d]})
		}
	}
	return json.Marshal(points)
}

// UnmarshalJSON decodes a list written by MarshalJSON.
func (s *CaseSeries) UnmarshalJSON(data []byte) error {
	var points []seriesPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return err
	}
	*s = CaseSeries{counts: make(map[string]int64, len(points))}
	for _, p := range points {
		s.Set(p.Date, p.Count)
	}
	return nil
}
