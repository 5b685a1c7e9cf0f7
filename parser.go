package caserank

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// fixedColumns is the number of leading columns before the dated counts:
// province, country, latitude, longitude.
const fixedColumns = 4

// ErrMalformedRow is returned for rows that cannot be turned into a territory.
var ErrMalformedRow = errors.New("malformed row")

// Record is a single parsed CSV row.
type Record struct {
	Country   string
	Territory *Territory
}

// ParseRecord converts a CSV data row into a territory carrying the series for
// caseType. Columns from index 4 onward are keyed by the matching header cell;
// a row shorter than the header only contributes the overlapping columns.
func ParseRecord(row, header []string, caseType CaseType) (Record, error) {
	if len(row) < fixedColumns {
		return Record{}, fmt.Errorf("%w: %d columns, want at least %d", ErrMalformedRow, len(row), fixedColumns)
	}

	province := row[0]
	if province == "" {
		province = Mainland
	}
	t := &Territory{
		Province: province,
		Series:   make(map[CaseType]*CaseSeries, len(CaseTypes)),
	}

	// Coordinates are informational only; some sources leave them blank.
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if errLat == nil && errLng == nil {
		t.Latitude = lat
		t.Longitude = lng
		t.HasLocation = true
	}

	series := NewCaseSeries()
	n := min(len(row), len(header))
	for i := fixedColumns; i < n; i++ {
		count, err := strconv.ParseInt(strings.TrimSpace(row[i]), 10, 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %s/%s at %s: %v", ErrMalformedRow, row[1], province, header[i], err)
		}
		series.Set(header[i], count)
	}
	t.Series[caseType] = series

	return Record{Country: row[1], Territory: t}, nil
}
