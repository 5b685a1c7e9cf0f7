// Command update-populations regenerates the Geonames country cache used for
// population lookups.
//
// Usage:
//
//	go run ./cmd/update-populations [-data DIR] [-cache DIR]
//
// This reads ./geonames-data/countryInfo.txt, downloading it when missing,
// and writes ./geonames-cache/countries.dmp. To ship a compressed cache:
//
//	bzip2 -f geonames-cache/*.dmp
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/andreiashu/caserank"
)

func main() {
	dataDir := flag.String("data", "./geonames-data", "directory for countryInfo.txt")
	cacheDir := flag.String("cache", "./geonames-cache", "directory for the country cache")
	flag.Parse()

	fmt.Println("Regenerating country cache from raw data...")

	n, err := caserank.RegenerateDirectoryCache(
		caserank.WithGeonamesDataDir(*dataDir),
		caserank.WithGeonamesCacheDir(*cacheDir),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Cache regenerated successfully (%d countries).\n", n)
}
