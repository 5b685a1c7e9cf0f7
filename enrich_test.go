package caserank

import (
	"regexp"

	. "gopkg.in/check.v1"
)

type EnricherSuite struct {
	enricher *Enricher
}

var _ = Suite(&EnricherSuite{})

func (s *EnricherSuite) SetUpTest(c *C) {
	lookup := StaticLookup{
		"France":        67000000,
		"United States": 331000000,
		"Serbia":        7000000,
	}
	names := NameMapping{
		"US":        "United States",
		"Serbia":    NoRedirect,
		"Atlantis":  "Lost City",
		"Ghostland": NoRedirect,
	}
	overrides := PopulationOverrides{
		"Kosovo":   1810463,
		"Atlantis": 42,
		"Serbia":   6963764,
	}
	s.enricher = NewEnricher(lookup, names, overrides)
}

func (s *EnricherSuite) TestDirectLookup(c *C) {
	n, ok := s.enricher.Population("France")
	c.Assert(ok, Equals, true)
	c.Assert(n, Equals, int64(67000000))
}

func (s *EnricherSuite) TestRenamedLookup(c *C) {
	n, ok := s.enricher.Population("US")
	c.Assert(ok, Equals, true)
	c.Assert(n, Equals, int64(331000000))
}

func (s *EnricherSuite) TestDirectLookupWinsOverOverride(c *C) {
	// The override only applies once the lookup service fails.
	n, ok := s.enricher.Population("Serbia")
	c.Assert(ok, Equals, true)
	c.Assert(n, Equals, int64(7000000))
}

func (s *EnricherSuite) TestOverrideWithoutMapping(c *C) {
	n, ok := s.enricher.Population("Kosovo")
	c.Assert(ok, Equals, true)
	c.Assert(n, Equals, int64(1810463))
}

func (s *EnricherSuite) TestOverrideAfterFailedRedirect(c *C) {
	n, ok := s.enricher.Population("Atlantis")
	c.Assert(ok, Equals, true)
	c.Assert(n, Equals, int64(42))
}

func (s *EnricherSuite) TestNoRedirectWithoutOverride(c *C) {
	_, ok := s.enricher.Population("Ghostland")
	c.Assert(ok, Equals, false)
}

func (s *EnricherSuite) TestTablesAreCopied(c *C) {
	overrides := PopulationOverrides{"Kosovo": 1}
	e := NewEnricher(nil, nil, overrides)
	overrides["Kosovo"] = 2

	n, ok := e.Population("Kosovo")
	c.Assert(ok, Equals, true)
	c.Assert(n, Equals, int64(1))
}

func (s *EnricherSuite) TestEnrichReportsMissing(c *C) {
	cm := NewCountryMap()
	for _, name := range []string{"France", "Ghostland", "US", "Nowhere"} {
		cm.Put(newCountry(name))
	}

	missing := s.enricher.Enrich(cm)
	c.Assert(missing, DeepEquals, []string{"Ghostland", "Nowhere"})

	us, _ := cm.Get("US")
	n, ok := us.PopulationValue()
	c.Assert(ok, Equals, true)
	c.Assert(n, Equals, int64(331000000))

	ghost, _ := cm.Get("Ghostland")
	_, ok = ghost.PopulationValue()
	c.Assert(ok, Equals, false)
}

func (s *EnricherSuite) TestDefaultTablesAgree(c *C) {
	names := DefaultNameMapping()
	for name := range DefaultPopulationOverrides() {
		target, ok := names[name]
		c.Check(ok, Equals, true, Commentf("override %q has no mapping entry", name))
		c.Check(target, Equals, NoRedirect, Commentf("override %q is redirected", name))
	}
}

func (s *EnricherSuite) TestDefaultRedirectsAreCountryCodes(c *C) {
	code := regexp.MustCompile(`^[A-Z]{2,3}$`)
	for name, target := range DefaultNameMapping() {
		if target == NoRedirect {
			continue
		}
		c.Check(code.MatchString(target), Equals, true, Commentf("%q redirects to %q", name, target))
	}
}
