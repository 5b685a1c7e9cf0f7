package caserank

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrDataNotFound is returned when no CSSE data directory can be located.
var ErrDataNotFound = errors.New("could not find data")

const (
	dataFolder       = "csse_covid_19_data"
	timeSeriesFolder = "csse_covid_19_time_series"
	upstreamFolder   = "COVID-19"
)

// sourceFileNames are the global time series of the CSSE repository.
var sourceFileNames = map[CaseType]string{
	Deaths:    "time_series_covid19_deaths_global.csv",
	Confirmed: "time_series_covid19_confirmed_global.csv",
	Recovered: "time_series_covid19_recovered_global.csv",
}

// SourceFiles maps each case type to its CSV path.
type SourceFiles map[CaseType]string

// LocateSources finds the CSSE data tree either in root itself or in a
// sibling COVID-19 clone, and returns the source files together with the
// repository directory that holds them.
func LocateSources(root string) (SourceFiles, string, error) {
	candidates := []string{root, filepath.Join(root, "..", upstreamFolder)}
	for _, prefix := range candidates {
		fi, err := os.Stat(filepath.Join(prefix, dataFolder))
		if err != nil || !fi.IsDir() {
			continue
		}
		files := make(SourceFiles, len(sourceFileNames))
		for ct, name := range sourceFileNames {
			files[ct] = filepath.Join(prefix, dataFolder, timeSeriesFolder, name)
		}
		return files, prefix, nil
	}
	return nil, "", fmt.Errorf("%w: looked in %s", ErrDataNotFound, strings.Join(candidates, ", "))
}

// GitRevision returns the commit hash checked out in dir.
func GitRevision(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse HEAD in %s: %w", dir, err)
	}
	return strings.TrimSpace(string(out)), nil
}
