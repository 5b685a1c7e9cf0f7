// Package caserank ranks countries by per-capita statistics derived from the
// Johns Hopkins CSSE COVID-19 global time series.
//
// A run reads the deaths, confirmed and recovered CSV files, merges province
// rows into country totals, attaches populations, computes the metrics for a
// single date and caches the result under the git revision of the data tree.
package caserank

import (
	"fmt"
	"io"
	"log"
	"os"
)

// DefaultMinPopulation is the population below which countries are not rated.
const DefaultMinPopulation = 1000000

// Config contains configuration options for a run.
type Config struct {
	DataRoot         string // CSSE clone or its parent (default: ".")
	CacheDir         string // Directory for snapshot files (default: ".")
	Revision         string // Data revision; discovered with git when empty
	Date             string // Rating date; latest when empty
	MinPopulation    int64  // Countries below are not rated (default: 1 million)
	ReferenceCountry string // Country supplying the latest date (default: "US")
	Progress         io.Writer
	Lookup           PopulationLookup
	Names            NameMapping
	Overrides        PopulationOverrides
}

// Option is a functional option for configuring a run.
type Option func(*Config)

// WithDataRoot sets the directory searched for the CSSE data tree.
func WithDataRoot(dir string) Option {
	return func(c *Config) {
		c.DataRoot = dir
	}
}

// WithCacheDir sets the directory for snapshot files.
func WithCacheDir(dir string) Option {
	return func(c *Config) {
		c.CacheDir = dir
	}
}

// WithRevision fixes the data revision instead of asking git.
func WithRevision(rev string) Option {
	return func(c *Config) {
		c.Revision = rev
	}
}

// WithDate sets the rating date.
func WithDate(date string) Option {
	return func(c *Config) {
		c.Date = date
	}
}

// WithMinPopulation sets the population cutoff; 0 rates every country.
func WithMinPopulation(n int64) Option {
	return func(c *Config) {
		c.MinPopulation = n
	}
}

// WithReferenceCountry sets the country whose series supplies the latest date.
func WithReferenceCountry(name string) Option {
	return func(c *Config) {
		c.ReferenceCountry = name
	}
}

// WithProgress sets the writer receiving import progress.
func WithProgress(w io.Writer) Option {
	return func(c *Config) {
		c.Progress = w
	}
}

// WithLookup sets the population lookup service.
func WithLookup(l PopulationLookup) Option {
	return func(c *Config) {
		c.Lookup = l
	}
}

// WithNameMapping replaces the default name redirects.
func WithNameMapping(m NameMapping) Option {
	return func(c *Config) {
		c.Names = m
	}
}

// WithPopulationOverrides replaces the default literal populations.
func WithPopulationOverrides(o PopulationOverrides) Option {
	return func(c *Config) {
		c.Overrides = o
	}
}

func defaultConfig() *Config {
	return &Config{
		DataRoot:         ".",
		CacheDir:         ".",
		MinPopulation:    DefaultMinPopulation,
		ReferenceCountry: "US",
		Progress:         io.Discard,
		Names:            DefaultNameMapping(),
		Overrides:        DefaultPopulationOverrides(),
	}
}

func newConfig(opts []Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *Config) calcOptions() CalcOptions {
	return CalcOptions{
		Date:             c.Date,
		MinPopulation:    c.MinPopulation,
		ReferenceCountry: c.ReferenceCountry,
	}
}

// matches reports whether r was computed with the date and cutoff of c.
func (c *Config) matches(r *Ratings) bool {
	if r.MinPopulation != c.MinPopulation {
		return false
	}
	if c.Date == "" {
		return r.Latest
	}
	return r.Date == c.Date
}

// Rate returns the snapshot for the current data revision, from the cache when
// possible. Stale cache files are removed first.
func Rate(opts ...Option) (*Snapshot, error) {
	cfg := newConfig(opts)

	files, repo, err := LocateSources(cfg.DataRoot)
	if err != nil {
		return nil, err
	}
	rev := cfg.Revision
	if rev == "" {
		if rev, err = GitRevision(repo); err != nil {
			return nil, err
		}
	}
	if _, err := CacheFileName(rev); err != nil {
		return nil, err
	}

	store := NewCacheStore(cfg.CacheDir)
	removed, err := store.Prune(rev)
	if err != nil {
		log.Printf("warning: pruning cache: %v", err)
	}
	for _, name := range removed {
		log.Printf("info: removed outdated cache %s", name)
	}

	if snap, ok := store.Load(rev); ok {
		if cfg.matches(snap.Ratings) {
			return snap, nil
		}
		snap.Ratings, err = Calculate(snap.Countries, cfg.calcOptions())
		if err != nil {
			return nil, err
		}
		return snap, nil
	}

	snap, err := Build(files, opts...)
	if err != nil {
		return nil, err
	}
	snap.Revision = rev
	if err := store.Save(snap); err != nil {
		log.Printf("warning: failed to store cache: %v", err)
	}
	return snap, nil
}

// Build runs the whole pipeline over files without touching the cache. The
// returned snapshot has no revision.
func Build(files SourceFiles, opts ...Option) (*Snapshot, error) {
	cfg := newConfig(opts)

	agg := NewAggregator(cfg.Progress)
	for _, ct := range CaseTypes {
		if err := addSource(agg, ct, files[ct]); err != nil {
			return nil, err
		}
	}
	cm := agg.Countries()
	log.Printf("info: imported %d countries with %d territories from CSV", cm.Len(), cm.TerritoryCount())

	Totalize(cm)
	missing := NewEnricher(cfg.Lookup, cfg.Names, cfg.Overrides).Enrich(cm)

	ratings, err := Calculate(cm, cfg.calcOptions())
	if err != nil {
		return nil, err
	}
	return &Snapshot{Countries: cm, Ratings: ratings, Missing: missing}, nil
}

func addSource(agg *Aggregator, ct CaseType, path string) error {
	if path == "" {
		return fmt.Errorf("no %s source configured", ct)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s source: %w", ct, err)
	}
	defer f.Close()
	return agg.Add(ct, f)
}
