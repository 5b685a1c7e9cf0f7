// Command caserank prints per-capita COVID-19 country rankings computed from
// a local clone of the Johns Hopkins CSSE repository.
//
// Usage:
//
//	caserank [flags]             print the top 20 tables
//	caserank [flags] COUNTRY     print the rating of one country
//	caserank [flags] invalidate  delete every cache file
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/andreiashu/caserank"
)

const invalidateCommand = "invalidate"

func main() {
	root := flag.String("root", ".", "CSSE COVID-19 clone, or the directory next to it")
	cacheDir := flag.String("cache", ".", "directory for cache files")
	date := flag.String("date", "", "rating date as it appears in the CSV header (default: latest)")
	minPopulation := flag.Int64("min-population", caserank.DefaultMinPopulation, "skip countries with fewer inhabitants")
	reference := flag.String("reference", "US", "country whose series supplies the latest date")
	geonamesData := flag.String("geonames-data", "./geonames-data", "directory for the Geonames country table")
	geonamesCache := flag.String("geonames-cache", "./geonames-cache", "directory for the Geonames country cache")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) > 1 {
		usage()
		os.Exit(2)
	}

	fmt.Println("[COVID-19 rating calculator]")

	if len(args) == 1 && args[0] == invalidateCommand {
		removed, err := caserank.NewCacheStore(*cacheDir).Prune("")
		for _, name := range removed {
			fmt.Printf("Removed cache %s\n", name)
		}
		if err != nil {
			fatal(err)
		}
		return
	}

	dir, err := caserank.NewDirectory(
		caserank.WithGeonamesDataDir(*geonamesData),
		caserank.WithGeonamesCacheDir(*geonamesCache),
	)
	if err != nil {
		fatal(err)
	}

	snap, err := caserank.Rate(
		caserank.WithDataRoot(*root),
		caserank.WithCacheDir(*cacheDir),
		caserank.WithDate(*date),
		caserank.WithMinPopulation(*minPopulation),
		caserank.WithReferenceCountry(*reference),
		caserank.WithProgress(os.Stdout),
		caserank.WithLookup(dir),
	)
	if err != nil {
		fatal(err)
	}
	if len(snap.Missing) > 0 {
		fmt.Printf("Impossible to process: %d\n%s\n", len(snap.Missing), strings.Join(snap.Missing, ", "))
	}

	if len(args) == 0 {
		if err := caserank.WriteTops(os.Stdout, snap.Ratings); err != nil {
			fatal(err)
		}
		return
	}

	name, err := dir.Resolve(snap.Countries, caserank.DefaultNameMapping(), args[0])
	if errors.Is(err, caserank.ErrCountryNotInData) {
		fmt.Printf("%s has no rating for %s (not reported in the case data)\n", args[0], snap.Ratings.Date)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown country or command %q\n", args[0])
		if s := caserank.Suggest(args[0], snap.Countries.Names(), 3); len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", strings.Join(s, ", "))
		}
		usage()
		os.Exit(2)
	}

	rating, ok := snap.Ratings.Get(name)
	if !ok {
		fmt.Printf("%s has no rating for %s (population unknown, below %s, or inconsistent data)\n",
			name, snap.Ratings.Date, caserank.DescribePopulation(snap.Ratings.MinPopulation))
		return
	}
	c, _ := snap.Countries.Get(name)
	if err := caserank.WriteCountry(os.Stdout, c, rating, snap.Ratings.Date); err != nil {
		fatal(err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] [%s | COUNTRY]\n", os.Args[0], invalidateCommand)
	flag.PrintDefaults()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
