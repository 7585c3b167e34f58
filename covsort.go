// Package covsort simulates incremental, time-ordered availability of
// nanopore sequencing data: it sorts the reads of a compressed fastq
// archive by their start_time timestamps and re-emits them as a series
// of cumulative archives cut at coverage, sequencing-time, or
// base-count thresholds, together with a stats report.
package covsort

import (
	"log"
	"os"

	"code.cloudfoundry.org/bytefmt"
	"github.com/carbocation/pfx"

	"github.com/nanotick/covsort/emit"
	"github.com/nanotick/covsort/fastq"
	"github.com/nanotick/covsort/partition"
	"github.com/nanotick/covsort/report"
)

// Config is the immutable argument-derived state for one run,
// constructed by the CLI layer and passed explicitly into Run.
type Config struct {
	InputPath     string
	OutputDir     string
	GenomeSizeRaw string // original command-line token, echoed in the report
	GenomeSize    int64  // parsed; coverage mode only
	Mode          partition.Mode
	Thresholds    []int64 // strictly ascending
}

// Run executes one covsort pass: parse, sort, partition, emit, report.
// Artifacts are written sequentially in ascending threshold order; a
// failure partway through leaves earlier artifacts in place.
func Run(cfg Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return pfx.Err(err)
	}

	in, err := OpenArchive(cfg.InputPath)
	if err != nil {
		return err
	}
	recs, totalBases, err := fastq.ReadAll(in)
	in.Close()
	if err != nil {
		return err
	}

	log.Printf("loaded %d reads (%s) from %s", len(recs), bytefmt.ByteSize(uint64(totalBases)), cfg.InputPath)

	fastq.SortByTime(recs)

	entries, err := partition.Partition(recs, partition.Params{
		Mode:       cfg.Mode,
		GenomeSize: cfg.GenomeSize,
		Thresholds: cfg.Thresholds,
	})
	if err != nil {
		return err
	}
	if len(entries) < len(cfg.Thresholds) {
		log.Printf("archive ends before %d of %d thresholds are reached", len(cfg.Thresholds)-len(entries), len(cfg.Thresholds))
	}

	sample, ext := SplitArchiveName(cfg.InputPath)
	width := emit.PadWidth(cfg.Mode, cfg.Thresholds)

	paths, err := emit.WriteArtifacts(cfg.OutputDir, sample, ext, cfg.Mode, width, entries, recs)
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.Println("wrote", p)
	}

	statsPath, err := report.Write(cfg.OutputDir, sample, report.Summary{
		InputPath:     cfg.InputPath,
		GenomeSizeRaw: cfg.GenomeSizeRaw,
		GenomeSize:    cfg.GenomeSize,
		Mode:          cfg.Mode,
		TotalBases:    totalBases,
		PadWidth:      width,
	}, recs, entries)
	if err != nil {
		return err
	}
	log.Println("wrote", statsPath)

	return nil
}
