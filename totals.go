package caserank

// Totalize computes the per-country totals for every case type.
//
// Countries with several territories get the date-wise sum over the
// territories that report a case type; a territory lacking a case type adds
// nothing to it. Countries with a single territory take that territory's
// series as their totals and drop the territory map.
func Totalize(cm *CountryMap) {
	for _, c := range cm.All() {
		c.totalize()
	}
}

func (c *Country) totalize() {
	// Already collapsed.
	if len(c.Territories) == 0 {
		return
	}
	c.locate()
	c.Totals = make(map[CaseType]*CaseSeries, len(CaseTypes))

	if len(c.Territories) > 1 {
		provinces := c.provinces()
		for _, ct := range CaseTypes {
			total := NewCaseSeries()
			for _, p := range provinces {
				s, ok := c.Territories[p].Series[ct]
				if !ok {
					continue
				}
				for _, d := range s.dates {
					total.Add(d, s.counts[d])
				}
			}
			c.Totals[ct] = total
		}
		return
	}

	for _, t := range c.Territories {
		for _, ct := range CaseTypes {
			// Clone of a nil series is empty.
			c.Totals[ct] = t.Series[ct].Clone()
		}
	}
	c.Territories = nil
}
