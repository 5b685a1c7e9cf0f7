package caserank

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"embed"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
)

// countryInfoURL is the Geonames country table, which carries populations.
const countryInfoURL = "https://download.geonames.org/export/dump/countryInfo.txt"

const (
	countryInfoFile  = "countryInfo.txt"
	countryCacheFile = "countries.dmp"
	bundledCacheDir  = "geonames-cache"
)

//go:embed geonames-cache
var cacheData embed.FS

// bundledCache is searched for the country cache after the cache directory,
// so a binary built with a regenerated geonames-cache works offline.
var bundledCache fs.FS = cacheData

// CountryInfo contains metadata about a country from Geonames.
type CountryInfo struct {
	Country            string
	Capital            string
	Area               int32
	Population         int64
	GeonameId          int32
	ISONumeric         int16
	ISO                string
	ISO3               string
	Fips               string
	Continent          string
	Tld                string
	CurrencyCode       string
	CurrencyName       string
	Phone              string
	PostalCodeFormat   string
	PostalCodeRegex    string
	Languages          string
	Neighbours         string
	EquivalentFipsCode string
}

// DirectoryConfig contains configuration options for Directory initialization.
type DirectoryConfig struct {
	DataDir   string // Directory for the raw countryInfo.txt (default: "./geonames-data")
	CacheDir  string // Directory for the gob cache (default: "./geonames-cache")
	SourceURL string // Download URL for countryInfo.txt
}

// DirectoryOption is a functional option for configuring a Directory.
type DirectoryOption func(*DirectoryConfig)

// WithGeonamesDataDir sets the directory for the raw Geonames file.
func WithGeonamesDataDir(dir string) DirectoryOption {
	return func(c *DirectoryConfig) {
		c.DataDir = dir
	}
}

// WithGeonamesCacheDir sets the directory for the gob cache.
func WithGeonamesCacheDir(dir string) DirectoryOption {
	return func(c *DirectoryConfig) {
		c.CacheDir = dir
	}
}

// WithGeonamesURL sets the download URL of countryInfo.txt.
func WithGeonamesURL(url string) DirectoryOption {
	return func(c *DirectoryConfig) {
		c.SourceURL = url
	}
}

func defaultDirectoryConfig() *DirectoryConfig {
	return &DirectoryConfig{
		DataDir:   "./geonames-data",
		CacheDir:  "./geonames-cache",
		SourceURL: countryInfoURL,
	}
}

// Directory is a PopulationLookup backed by the Geonames country table.
// Names are matched case-insensitively; ISO-2 and ISO-3 codes are accepted too.
// Safe for concurrent use after initialization.
type Directory struct {
	Countries []CountryInfo
	index     map[string]int // lowercase name or code -> Countries index
	config    *DirectoryConfig
}

// downloadMu serializes downloads and cache writes across Directory instances.
var downloadMu sync.Mutex

// NewDirectory loads the country table from the gob cache in the cache
// directory or the copy bundled into the binary, falling back to the raw
// file, which is downloaded first when missing.
//
//	d, err := NewDirectory(WithGeonamesDataDir("/var/lib/geonames"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n, err := d.Population("France")
func NewDirectory(opts ...DirectoryOption) (*Directory, error) {
	cfg := defaultDirectoryConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	d := &Directory{config: cfg}

	var err error
	d.Countries, err = loadCountryCache(cfg.CacheDir)
	if err != nil || len(d.Countries) == 0 {
		d.Countries = nil
		if err := d.download(); err != nil {
			return nil, fmt.Errorf("failed to download country info: %w", err)
		}
		if err := d.loadRaw(); err != nil {
			return nil, fmt.Errorf("failed to load country info: %w", err)
		}
		if err := d.store(); err != nil {
			log.Printf("warning: failed to store cache: %v", err)
		}
	}

	d.buildIndex()
	return d, nil
}

// RegenerateDirectoryCache reloads the raw country table and rewrites the gob
// cache. The raw file is downloaded when it is not present.
func RegenerateDirectoryCache(opts ...DirectoryOption) (int, error) {
	cfg := defaultDirectoryConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	d := &Directory{config: cfg}

	if err := d.download(); err != nil {
		return 0, fmt.Errorf("failed to download country info: %w", err)
	}
	if err := d.loadRaw(); err != nil {
		return 0, fmt.Errorf("failed to load country info: %w", err)
	}
	if err := d.store(); err != nil {
		return 0, fmt.Errorf("failed to store cache: %w", err)
	}
	return len(d.Countries), nil
}

func (d *Directory) buildIndex() {
	d.index = make(map[string]int, len(d.Countries)*3)
	for i, c := range d.Countries {
		for _, key := range []string{c.Country, c.ISO, c.ISO3} {
			if key == "" {
				continue
			}
			k := toLower(key)
			if _, dup := d.index[k]; !dup {
				d.index[k] = i
			}
		}
	}
}

// Lookup returns the country matching name, an ISO-2 or an ISO-3 code.
func (d *Directory) Lookup(name string) (CountryInfo, bool) {
	i, ok := d.index[toLower(strings.TrimSpace(name))]
	if !ok {
		return CountryInfo{}, false
	}
	return d.Countries[i], true
}

// Population implements PopulationLookup. Countries without a population in
// Geonames (uninhabited territories) are reported as not found.
func (d *Directory) Population(name string) (int64, error) {
	c, ok := d.Lookup(name)
	if !ok || c.Population <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrCountryNotFound, name)
	}
	return c.Population, nil
}

// ErrCountryNotInData is returned by Resolve for a country the directory
// knows but the case data does not report.
var ErrCountryNotInData = errors.New("country not in case data")

// Resolve maps arg to the name a country carries in cm. arg may be that name
// or anything the directory recognizes for the same country (name, ISO-2 or
// ISO-3 code). Source names the directory does not know are matched through
// their redirect in names.
func (d *Directory) Resolve(cm *CountryMap, names NameMapping, arg string) (string, error) {
	if _, ok := cm.Get(arg); ok {
		return arg, nil
	}
	want, ok := d.Lookup(arg)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrCountryNotFound, arg)
	}
	for _, name := range cm.Names() {
		for _, candidate := range []string{name, names[name]} {
			if candidate == NoRedirect {
				continue
			}
			if info, ok := d.Lookup(candidate); ok && info.ISO == want.ISO {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrCountryNotInData, want.Country)
}

// Names returns every country name in the directory.
func (d *Directory) Names() []string {
	names := make([]string, len(d.Countries))
	for i, c := range d.Countries {
		names[i] = c.Country
	}
	return names
}

// Suggest returns the candidates within maxDist edits of query, closest first.
func Suggest(query string, candidates []string, maxDist int) []string {
	type scored struct {
		name string
		dist int
	}
	q := toLower(query)
	var hits []scored
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(q, toLower(c))
		if dist <= maxDist {
			hits = append(hits, scored{c, dist})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].name < hits[j].name
	})

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

func (d *Directory) rawPath() string {
	return filepath.Join(d.config.DataDir, countryInfoFile)
}

// download fetches countryInfo.txt unless it, or a bzip2 copy, already exists.
func (d *Directory) download() error {
	downloadMu.Lock()
	defer downloadMu.Unlock()

	if err := os.MkdirAll(d.config.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	path := d.rawPath()
	for _, p := range []string{path, path + ".bz2"} {
		if _, err := os.Stat(p); err == nil {
			return nil
		}
	}
	return downloadFile(d.config.SourceURL, path)
}

// httpClient is a shared HTTP client with reasonable timeouts.
var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

func downloadFile(url, path string) error {
	resp, err := httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP GET %s: status %d", url, resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}

	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(path)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing file %s: %w", path, err)
	}
	success = true
	return nil
}

func (d *Directory) loadRaw() error {
	fh, cleanup, err := openOptionallyBzippedFile(os.DirFS(d.config.DataDir), countryInfoFile)
	if err != nil {
		return err
	}
	defer cleanup()

	d.Countries, err = ParseCountryInfo(fh)
	return err
}

// ParseCountryInfo reads the tab separated Geonames country table. Comment
// lines and lines without the full 19 columns are skipped.
func ParseCountryInfo(r io.Reader) ([]CountryInfo, error) {
	var countries []CountryInfo

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)

	for scanner.Scan() {
		t := scanner.Text()
		if len(t) == 0 || t[0] == '#' {
			continue
		}

		fields := strings.SplitN(t, "\t", 19)
		if len(fields) != 19 || fields[0] == "" || fields[0] == "0" {
			continue
		}

		isoNumeric, _ := strconv.Atoi(fields[2])
		area, _ := strconv.ParseFloat(fields[6], 64)
		pop, _ := strconv.ParseInt(fields[7], 10, 64)
		gid, _ := strconv.Atoi(fields[16])

		countries = append(countries, CountryInfo{
			ISO:                fields[0],
			ISO3:               fields[1],
			ISONumeric:         int16(isoNumeric),
			Fips:               fields[3],
			Country:            fields[4],
			Capital:            fields[5],
			Area:               int32(area),
			Population:         pop,
			Continent:          fields[8],
			Tld:                fields[9],
			CurrencyCode:       fields[10],
			CurrencyName:       fields[11],
			Phone:              fields[12],
			PostalCodeFormat:   fields[13],
			PostalCodeRegex:    fields[14],
			Languages:          fields[15],
			GeonameId:          int32(gid),
			Neighbours:         fields[17],
			EquivalentFipsCode: fields[18],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning country info: %w", err)
	}
	return countries, nil
}

// store saves the parsed country table to the gob cache.
func (d *Directory) store() error {
	downloadMu.Lock()
	defer downloadMu.Unlock()

	if err := os.MkdirAll(d.config.CacheDir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	b := new(bytes.Buffer)
	if err := gob.NewEncoder(b).Encode(d.Countries); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.config.CacheDir, countryCacheFile), b.Bytes(), 0644)
}

func openOptionallyBzippedFile(fsys fs.FS, file string) (io.Reader, func() error, error) {
	fh, err := fsys.Open(file + ".bz2")
	if err != nil {
		fh, err = fsys.Open(file)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", file, err)
		}
		return fh, fh.Close, nil
	}
	return bzip2.NewReader(fh), fh.Close, nil
}

// loadCountryCache reads the gob cache from dir, then from the bundled copy.
func loadCountryCache(dir string) ([]CountryInfo, error) {
	co, err := decodeCountryCache(os.DirFS(dir))
	if err == nil {
		return co, nil
	}
	bundled, subErr := fs.Sub(bundledCache, bundledCacheDir)
	if subErr != nil {
		return nil, err
	}
	if co, bundledErr := decodeCountryCache(bundled); bundledErr == nil {
		log.Printf("info: using bundled country table (%d countries)", len(co))
		return co, nil
	}
	return nil, err
}

func decodeCountryCache(fsys fs.FS) ([]CountryInfo, error) {
	fh, cleanup, err := openOptionallyBzippedFile(fsys, countryCacheFile)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var co []CountryInfo
	if err := gob.NewDecoder(fh).Decode(&co); err != nil {
		return nil, err
	}
	return co, nil
}

// toLower folds names for matching. Geonames and CSSE names contain non-ASCII
// letters (e.g. "Curaçao"), so this must stay Unicode aware.
func toLower(s string) string {
	return strings.ToLower(s)
}
