package caserank

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Align selects how a table cell is padded.
type Align int

const (
	AlignDefault Align = iota
	AlignLeft
	AlignRight
)

// fit pads s with spaces to size runes.
func fit(s string, size int, align Align) string {
	pad := size - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	if align == AlignLeft {
		return s + strings.Repeat(" ", pad)
	}
	return strings.Repeat(" ", pad) + s
}

// TableStyle controls WriteTable alignment. Column2 overrides Data for the
// second column unless it is AlignDefault.
type TableStyle struct {
	Header  Align
	Data    Align
	Column2 Align
}

// WriteTable writes rows as space separated columns sized to their widest
// cell. The first row is the header.
func WriteTable(w io.Writer, rows [][]string, style TableStyle) error {
	var sizes []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(sizes) {
				sizes = append(sizes, 0)
			}
			if n := utf8.RuneCountInString(cell); n > sizes[i] {
				sizes[i] = n
			}
		}
	}

	for r, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			align := style.Data
			switch {
			case r == 0:
				align = style.Header
			case i == 1 && style.Column2 != AlignDefault:
				align = style.Column2
			}
			b.WriteString(fit(cell, sizes[i], align))
			b.WriteByte(' ')
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// rankingTable describes one printed ranking.
type rankingTable struct {
	title  string
	metric Metric
	label  string // value column header
	unit   string
	cols   []string
}

var rankingTables = []rankingTable{
	{"MORTALITY", Mortality, "Mort", "/1M", []string{"population", "deaths"}},
	{"KNOWN LETHALITY", Lethality, "Let", "%", []string{"confirmed", "deaths"}},
	{"KNOWN ACTIVE PER POPULATION", ActivePerPopulation, "APP", "%", []string{"active", "population"}},
	{"ACTIVE PER UNKNOWN", ActivePerUnknown, "APU", "ratio", []string{"active", "population"}},
	{"CONFIRMED PER POPULATION", ConfirmedPerPopulation, "CPP", "%", []string{"confirmed", "population"}},
}

func column(r Rating, name string) string {
	switch name {
	case "population":
		return strconv.FormatInt(r.Population, 10)
	case "deaths":
		return strconv.FormatInt(r.Deaths, 10)
	case "confirmed":
		return strconv.FormatInt(r.Confirmed, 10)
	case "active":
		return strconv.FormatInt(r.Active, 10)
	}
	return ""
}

// WriteTops writes the top TopN table of every ranked metric.
func WriteTops(w io.Writer, r *Ratings) error {
	tops := Tops(r)
	for _, tbl := range rankingTables {
		if _, err := fmt.Fprintf(w, "\n%s:\n", tbl.title); err != nil {
			return err
		}

		header := []string{"N", "Country"}
		for _, col := range tbl.cols {
			header = append(header, titleCase(col))
		}
		header = append(header, tbl.label+"["+tbl.unit+"]")
		rows := [][]string{header}

		for i, name := range tops[tbl.metric] {
			rating, _ := r.Get(name)
			row := []string{fmt.Sprintf("%2d ", i+1), name}
			for _, col := range tbl.cols {
				row = append(row, column(rating, col))
			}
			row = append(row, formatFloat(rating.Value(tbl.metric)))
			rows = append(rows, row)
		}

		style := TableStyle{Header: AlignLeft, Data: AlignRight, Column2: AlignLeft}
		if err := WriteTable(w, rows, style); err != nil {
			return err
		}
	}
	return nil
}

// WriteCountry writes the full rating of one country, followed by where its
// figures were reported.
func WriteCountry(w io.Writer, c *Country, r Rating, date string) error {
	lines := []struct {
		label string
		value string
	}{
		{"Date", date},
		{"Mortality [per 1M]", formatFloat(r.Mortality)},
		{"Lethality [%]", formatFloat(r.Lethality)},
		{"Active per unknown", formatFloat(r.ActivePerUnknown)},
		{"Deaths", strconv.FormatInt(r.Deaths, 10)},
		{"Confirmed", strconv.FormatInt(r.Confirmed, 10)},
		{"Active", strconv.FormatInt(r.Active, 10)},
		{"Active per population [%]", formatFloat(r.ActivePerPopulation)},
		{"Confirmed per population [%]", formatFloat(r.ConfirmedPerPopulation)},
		{"Population", strconv.FormatInt(r.Population, 10)},
	}

	if _, err := fmt.Fprintf(w, "[%s]\n", r.Country); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", l.label, l.value); err != nil {
			return err
		}
	}
	if c == nil {
		return nil
	}

	if c.HasLocation {
		if _, err := fmt.Fprintf(w, "Location: %.4f, %.4f (%s)\n", c.Latitude, c.Longitude, c.Geohash()); err != nil {
			return err
		}
	}
	if len(c.Territories) == 0 {
		return nil
	}

	rows := [][]string{{"Territory", "Geohash", "Deaths", "Confirmed", "Recovered"}}
	for _, p := range c.provinces() {
		t := c.Territories[p]
		row := []string{p, t.Geohash()}
		for _, ct := range CaseTypes {
			n, ok := t.Series[ct].Get(date)
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, strconv.FormatInt(n, 10))
		}
		rows = append(rows, row)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return WriteTable(w, rows, TableStyle{Header: AlignLeft, Data: AlignRight, Column2: AlignLeft})
}

// titleCase capitalizes s unless it is already all upper case.
func titleCase(s string) string {
	if s == "" || strings.ToUpper(s) == s {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + strings.ToLower(s[size:])
}

// formatFloat prints the shortest representation of f, keeping a decimal
// point on whole numbers ("15.0").
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
