package caserank

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRecord(t *testing.T) {
	header := []string{"Province/State", "Country/Region", "Lat", "Long", "1/22/20", "1/23/20", "1/24/20"}

	tests := []struct {
		name         string
		row          []string
		wantCountry  string
		wantProvince string
		wantDates    []string
		wantCounts   []int64
		wantLocation bool
	}{
		{
			name:         "full row",
			row:          []string{"Hubei", "China", "30.97", "112.27", "444", "444", "549"},
			wantCountry:  "China",
			wantProvince: "Hubei",
			wantDates:    []string{"1/22/20", "1/23/20", "1/24/20"},
			wantCounts:   []int64{444, 444, 549},
			wantLocation: true,
		},
		{
			name:         "blank province becomes mainland",
			row:          []string{"", "Italy", "41.87", "12.56", "0", "0", "2"},
			wantCountry:  "Italy",
			wantProvince: Mainland,
			wantDates:    []string{"1/22/20", "1/23/20", "1/24/20"},
			wantCounts:   []int64{0, 0, 2},
			wantLocation: true,
		},
		{
			name:         "short row keeps overlapping columns",
			row:          []string{"", "Chad", "15.45", "18.73", "1"},
			wantCountry:  "Chad",
			wantProvince: Mainland,
			wantDates:    []string{"1/22/20"},
			wantCounts:   []int64{1},
			wantLocation: true,
		},
		{
			name:         "blank coordinates",
			row:          []string{"Recovered", "Canada", "", "", "0", "1", "3"},
			wantCountry:  "Canada",
			wantProvince: "Recovered",
			wantDates:    []string{"1/22/20", "1/23/20", "1/24/20"},
			wantCounts:   []int64{0, 1, 3},
			wantLocation: false,
		},
		{
			name:         "fixed columns only",
			row:          []string{"", "Nowhere", "0", "0"},
			wantCountry:  "Nowhere",
			wantProvince: Mainland,
			wantDates:    []string{},
			wantCounts:   []int64{},
			wantLocation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord(tt.row, header, Confirmed)
			if err != nil {
				t.Fatalf("ParseRecord() error = %v, want nil", err)
			}
			if rec.Country != tt.wantCountry {
				t.Errorf("Country = %q, want %q", rec.Country, tt.wantCountry)
			}
			if rec.Territory.Province != tt.wantProvince {
				t.Errorf("Province = %q, want %q", rec.Territory.Province, tt.wantProvince)
			}
			if rec.Territory.HasLocation != tt.wantLocation {
				t.Errorf("HasLocation = %v, want %v", rec.Territory.HasLocation, tt.wantLocation)
			}
			if len(rec.Territory.Series) != 1 {
				t.Fatalf("Series has %d case types, want 1", len(rec.Territory.Series))
			}

			s := rec.Territory.Series[Confirmed]
			dates := s.Dates()
			if len(dates) != len(tt.wantDates) || (len(dates) > 0 && !reflect.DeepEqual(dates, tt.wantDates)) {
				t.Fatalf("Dates() = %v, want %v", dates, tt.wantDates)
			}
			for i, d := range tt.wantDates {
				got, ok := s.Get(d)
				if !ok || got != tt.wantCounts[i] {
					t.Errorf("Get(%q) = %d, %v, want %d, true", d, got, ok, tt.wantCounts[i])
				}
			}
		})
	}
}

func TestParseRecord_Malformed(t *testing.T) {
	header := []string{"Province/State", "Country/Region", "Lat", "Long", "1/22/20"}

	tests := []struct {
		name string
		row  []string
	}{
		{"empty row", []string{}},
		{"three columns", []string{"", "France", "46.2"}},
		{"non numeric count", []string{"", "France", "46.2", "2.2", "n/a"}},
		{"fractional count", []string{"", "France", "46.2", "2.2", "1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord(tt.row, header, Deaths)
			if !errors.Is(err, ErrMalformedRow) {
				t.Errorf("ParseRecord() error = %v, want ErrMalformedRow", err)
			}
		})
	}
}
