// covsort simulates real-time nanopore data generation. It reads one
// compressed fastq archive of timestamped reads, sorts the reads
// chronologically, and re-emits them as cumulative archives cut at the
// requested coverage, sequencing-time, or base-count thresholds, plus a
// stats report recording when each threshold was reached.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/nanotick/covsort"
	"github.com/nanotick/covsort/buildinfo"
	"github.com/nanotick/covsort/partition"
)

func main() {
	var input, out, genome, coverages, times, sizes string

	flag.StringVar(&input, "input", "", "Path to the compressed fastq archive of timestamped nanopore reads.")
	flag.StringVar(&out, "out", "", "Output directory for the cumulative archives and the stats report. Created if absent.")
	flag.StringVar(&genome, "genome", "", "Genome size with optional K/M/G suffix (e.g. 5M). Required with -coverages.")
	flag.StringVar(&coverages, "coverages", "", "Comma-separated ascending coverage thresholds (e.g. 1,2,5,10). One output archive per threshold.")
	flag.StringVar(&times, "times", "", "Comma-separated ascending sequencing-time thresholds in minutes.")
	flag.StringVar(&sizes, "sizes", "", "Comma-separated ascending base-count thresholds with optional K/M/G suffix (e.g. 10M,20M).")
	flag.Parse()

	buildinfo.PrintToStderr()

	cfg, err := buildConfig(input, out, genome, coverages, times, sizes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.PrintDefaults()
		os.Exit(1)
	}

	if _, err := os.Stat(covsort.ExpandHome(cfg.InputPath)); err != nil {
		log.Fatalf("input file %s does not exist", cfg.InputPath)
	}

	if err := covsort.Run(cfg); err != nil {
		log.Fatalln(err)
	}

	log.Println("covsort completed")
}

// buildConfig validates the raw flag values and assembles the immutable
// run configuration. All argument errors are caught here, before the
// archive is touched.
func buildConfig(input, out, genome, coverages, times, sizes string) (covsort.Config, error) {
	cfg := covsort.Config{InputPath: input, OutputDir: out}

	if input == "" || out == "" {
		return cfg, errors.New("both -input and -out are required")
	}

	set := 0
	for _, list := range []string{coverages, times, sizes} {
		if list != "" {
			set++
		}
	}
	if set != 1 {
		return cfg, errors.New("supply exactly one of -coverages, -times, or -sizes")
	}

	var err error
	switch {
	case coverages != "":
		cfg.Mode = partition.Coverage
		if genome == "" {
			return cfg, errors.New("-coverages requires -genome")
		}
		cfg.GenomeSize, err = covsort.ParseSize(genome)
		if err != nil {
			return cfg, fmt.Errorf("-genome: %v", err)
		}
		if cfg.GenomeSize <= 0 {
			return cfg, fmt.Errorf("-genome %q must be positive", genome)
		}
		cfg.GenomeSizeRaw = genome
		cfg.Thresholds, err = parseIntList(coverages)
		if err != nil {
			return cfg, fmt.Errorf("-coverages: %v", err)
		}
	case times != "":
		cfg.Mode = partition.Time
		cfg.Thresholds, err = parseIntList(times)
		if err != nil {
			return cfg, fmt.Errorf("-times: %v", err)
		}
	default:
		cfg.Mode = partition.Size
		cfg.Thresholds, err = parseSizeList(sizes)
		if err != nil {
			return cfg, fmt.Errorf("-sizes: %v", err)
		}
	}

	if err := ascending(cfg.Thresholds); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func parseIntList(list string) ([]int64, error) {
	tokens := strings.Split(list, ",")
	vals := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("threshold %q is not an integer", tok)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func parseSizeList(list string) ([]int64, error) {
	tokens := strings.Split(list, ",")
	vals := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		v, err := covsort.ParseSize(tok)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// ascending rejects threshold lists that are out of order or carry
// duplicates; both would make the cumulative artifacts ambiguous.
func ascending(vals []int64) error {
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			return fmt.Errorf("thresholds must be strictly ascending (%d follows %d)", vals[i], vals[i-1])
		}
	}
	return nil
}
