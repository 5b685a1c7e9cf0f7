package caserank

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteTable(t *testing.T) {
	rows := [][]string{
		{"N", "Country", "Deaths"},
		{" 1 ", "Czechia", "7"},
		{" 2 ", "Curaçao", "12345"},
	}
	var buf bytes.Buffer
	if err := WriteTable(&buf, rows, TableStyle{Header: AlignLeft, Data: AlignRight, Column2: AlignLeft}); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	want := "N   Country Deaths \n" +
		" 1  Czechia      7 \n" +
		" 2  Curaçao  12345 \n"
	if got := buf.String(); got != want {
		t.Errorf("WriteTable() =\n%q\nwant\n%q", got, want)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		s     string
		size  int
		align Align
		want  string
	}{
		{"ab", 4, AlignLeft, "ab  "},
		{"ab", 4, AlignRight, "  ab"},
		{"ab", 4, AlignDefault, "  ab"},
		{"abcdef", 4, AlignLeft, "abcdef"},
		{"ü", 2, AlignLeft, "ü "},
	}
	for _, tt := range tests {
		if got := fit(tt.s, tt.size, tt.align); got != tt.want {
			t.Errorf("fit(%q, %d, %v) = %q, want %q", tt.s, tt.size, tt.align, got, tt.want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{15, "15.0"},
		{0, "0.0"},
		{0.006, "0.006"},
		{-0.5, "-0.5"},
		{5000, "5000.0"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	for in, want := range map[string]string{
		"population": "Population",
		"deaths":     "Deaths",
		"APU":        "APU",
		"":           "",
	} {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteTops(t *testing.T) {
	r := &Ratings{Date: "1/23/20", Items: []Rating{
		{Country: "B", Mortality: 1.0, Lethality: 5.0, ActivePerPopulation: 0.002, ConfirmedPerPopulation: 0.002, Deaths: 2, Confirmed: 40, Active: 30, Population: 2000000},
		{Country: "A", Mortality: 15.0, Lethality: 10.0, ActivePerPopulation: 0.006, ConfirmedPerPopulation: 0.015, Deaths: 15, Confirmed: 150, Active: 65, Population: 1000000},
	}}
	var buf bytes.Buffer
	if err := WriteTops(&buf, r); err != nil {
		t.Fatalf("WriteTops() error = %v", err)
	}
	out := buf.String()

	for _, tbl := range rankingTables {
		if !strings.Contains(out, "\n"+tbl.title+":\n") {
			t.Errorf("output has no %s table", tbl.title)
		}
	}
	if !strings.Contains(out, "Mort[/1M]") || !strings.Contains(out, "APU[ratio]") {
		t.Errorf("output lacks value column headers:\n%s", out)
	}

	// A leads mortality: the first data row after the MORTALITY header.
	mortality := out[strings.Index(out, "MORTALITY:"):]
	lines := strings.Split(mortality, "\n")
	if len(lines) < 4 {
		t.Fatalf("MORTALITY table too short:\n%s", mortality)
	}
	if !strings.HasPrefix(lines[2], " 1  A ") || !strings.Contains(lines[2], "15.0") {
		t.Errorf("first mortality row = %q, want A with 15.0", lines[2])
	}
	if !strings.HasPrefix(lines[3], " 2  B ") {
		t.Errorf("second mortality row = %q, want B", lines[3])
	}
}

func TestWriteCountry(t *testing.T) {
	cm := aggregateFixture(t)
	Totalize(cm)
	a, _ := cm.Get("A")
	rating, err := ComputeRating("A", 15, 150, 70, 1000000)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteCountry(&buf, a, rating, "1/23/20"); err != nil {
		t.Fatalf("WriteCountry() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"[A]\n",
		"Date: 1/23/20\n",
		"Mortality [per 1M]: 15.0\n",
		"Lethality [%]: 10.0\n",
		"Active: 65\n",
		"Population: 1000000\n",
		"Location: ",
		"Territory",
		"region2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteCountry() output lacks %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteCountry(&buf, nil, rating, "1/23/20"); err != nil {
		t.Fatalf("WriteCountry(nil) error = %v", err)
	}
	if strings.Contains(buf.String(), "Territory") {
		t.Error("WriteCountry(nil) printed a territory table")
	}
}
