package caserank

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// CacheSuffix is appended to the revision to name a cache file.
const CacheSuffix = ".cache.json"

// RevisionLength is the length of a full git commit hash.
const RevisionLength = 40

// ErrInvalidRevision is returned for revisions that cannot name a cache file.
var ErrInvalidRevision = errors.New("invalid revision")

// Snapshot is everything a run computes for one data revision.
type Snapshot struct {
	Revision  string      `json:"revision"`
	Countries *CountryMap `json:"countries"`
	Ratings   *Ratings    `json:"ratings"`
	Missing   []string    `json:"missing,omitempty"`
}

// CacheFileName returns the cache file name for rev.
func CacheFileName(rev string) (string, error) {
	if len(rev) != RevisionLength {
		return "", fmt.Errorf("%w: %q is %d characters, want %d", ErrInvalidRevision, rev, len(rev), RevisionLength)
	}
	return rev + CacheSuffix, nil
}

// CacheStore keeps one snapshot file per revision in a directory.
type CacheStore struct {
	Dir string
}

// NewCacheStore returns a store rooted at dir.
func NewCacheStore(dir string) *CacheStore {
	return &CacheStore{Dir: dir}
}

// Path returns the cache file path for rev.
func (s *CacheStore) Path(rev string) (string, error) {
	name, err := CacheFileName(rev)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, name), nil
}

// Load returns the snapshot cached for rev. A missing or unreadable file is
// a miss, not an error.
func (s *CacheStore) Load(rev string) (*Snapshot, bool) {
	path, err := s.Path(rev)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("warning: reading cache %s: %v", path, err)
		}
		return nil, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("info: ignoring corrupt cache %s: %v", path, err)
		return nil, false
	}
	if snap.Revision != rev || snap.Countries == nil || snap.Ratings == nil {
		log.Printf("info: ignoring incomplete cache %s", path)
		return nil, false
	}
	log.Printf("info: loaded %s", path)
	return &snap, true
}

// Save writes snap under its revision.
func (s *CacheStore) Save(snap *Snapshot) error {
	path, err := s.Path(snap.Revision)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	// Write to a temporary file first so a crash never leaves a truncated
	// cache under the final name.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	log.Printf("info: wrote %s", path)
	return nil
}

// Prune deletes every cache file except the one for keep and returns the
// removed names. An empty keep removes them all.
func (s *CacheStore) Prune(keep string) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.Dir, err)
	}

	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, CacheSuffix) {
			continue
		}
		if keep != "" && name == keep+CacheSuffix {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, name)); err != nil {
			return removed, fmt.Errorf("removing %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}
