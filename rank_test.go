package caserank

import (
	"fmt"

	. "gopkg.in/check.v1"
)

type RankSuite struct{}

var _ = Suite(&RankSuite{})

// ratingsOf builds ratings whose mortality equals the given values.
func ratingsOf(values ...float64) *Ratings {
	r := &Ratings{}
	for i, v := range values {
		r.Items = append(r.Items, Rating{Country: fmt.Sprintf("C%02d", i), Mortality: v, Lethality: -v})
	}
	return r
}

func (s *RankSuite) TestDescending(c *C) {
	top := Rank(ratingsOf(3, 9, 1, 7), Mortality, TopN)
	c.Assert(top, DeepEquals, []string{"C01", "C03", "C00", "C02"})

	top = Rank(ratingsOf(3, 9, 1, 7), Lethality, TopN)
	c.Assert(top, DeepEquals, []string{"C02", "C00", "C03", "C01"})
}

func (s *RankSuite) TestTiesInReverseInsertionOrder(c *C) {
	top := Rank(ratingsOf(1, 2, 1, 2, 1), Mortality, TopN)
	c.Assert(top, DeepEquals, []string{"C03", "C01", "C04", "C02", "C00"})
}

func (s *RankSuite) TestTiesAtCutoffKeepLatest(c *C) {
	values := make([]float64, 25)
	for i := range values {
		values[i] = 1
	}
	top := Rank(ratingsOf(values...), Mortality, TopN)

	want := make([]string, 0, TopN)
	for i := 24; i >= 5; i-- {
		want = append(want, fmt.Sprintf("C%02d", i))
	}
	c.Assert(top, DeepEquals, want)
}

func (s *RankSuite) TestTieBelowCutoff(c *C) {
	// Two countries share 20th place; the later one is kept.
	values := make([]float64, 21)
	for i := range values {
		values[i] = float64(100 - i)
	}
	values[20] = values[19]
	top := Rank(ratingsOf(values...), Mortality, TopN)
	c.Assert(top, HasLen, TopN)
	c.Assert(top[0], Equals, "C00")
	c.Assert(top[TopN-1], Equals, "C20")
	c.Assert(top[TopN-2], Equals, "C18")
}

func (s *RankSuite) TestSizeBound(c *C) {
	for _, n := range []int{0, 1, 19, 20, 21, 45} {
		values := make([]float64, n)
		for i := range values {
			values[i] = float64(i % 7)
		}
		r := ratingsOf(values...)
		for m, top := range Tops(r) {
			c.Check(top, HasLen, min(TopN, n), Commentf("metric %s with %d countries", m, n))
		}
	}
}

func (s *RankSuite) TestKeepsHighest(c *C) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i)
	}
	top := Rank(ratingsOf(values...), Mortality, TopN)
	c.Assert(top, HasLen, TopN)
	c.Assert(top[0], Equals, "C29")
	c.Assert(top[TopN-1], Equals, "C10")
}

func (s *RankSuite) TestIdempotent(c *C) {
	values := make([]float64, 23)
	for i := range values {
		values[i] = float64((i * 7) % 23)
	}
	r := ratingsOf(values...)
	first := Rank(r, Mortality, TopN)

	ranked := &Ratings{}
	for _, name := range first {
		rating, ok := r.Get(name)
		c.Assert(ok, Equals, true)
		ranked.Items = append(ranked.Items, rating)
	}
	c.Assert(Rank(ranked, Mortality, TopN), DeepEquals, first)
}

func (s *RankSuite) TestDoesNotReorderInput(c *C) {
	r := ratingsOf(1, 3, 2)
	Rank(r, Mortality, TopN)
	c.Assert(r.Items[0].Country, Equals, "C00")
	c.Assert(r.Items[2].Country, Equals, "C02")
}

func (s *RankSuite) TestUnknownMetric(c *C) {
	// Every value is 0, so the input order is reversed.
	top := Rank(ratingsOf(3, 1, 2), Metric("nope"), TopN)
	c.Assert(top, DeepEquals, []string{"C02", "C01", "C00"})
}
