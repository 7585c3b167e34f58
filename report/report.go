// Package report renders the per-run summary: overall sequencing
// statistics plus one marker line per threshold reached.
package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"

	"github.com/nanotick/covsort/fastq"
	"github.com/nanotick/covsort/partition"
)

// Summary carries the run-level inputs the report needs beyond the
// records themselves.
type Summary struct {
	InputPath     string
	GenomeSizeRaw string // as supplied on the command line; coverage mode
	GenomeSize    int64  // bases; coverage mode
	Mode          partition.Mode
	TotalBases    int64
	PadWidth      int
}

// Write renders the stats report to <sample>.<mode>_stats.txt under dir
// and returns the written path. recs must be in sorted (chronological)
// order and non-empty; entries are the thresholds actually reached.
func Write(dir, sample string, s Summary, recs []fastq.Record, entries []partition.Entry) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s.%s_stats.txt", sample, s.Mode))

	f, err := os.Create(path)
	if err != nil {
		return "", pfx.Err(err)
	}

	w := bufio.NewWriter(f)
	if err := render(w, s, recs, entries); err != nil {
		f.Close()
		return "", err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", pfx.Err(err)
	}

	return path, pfx.Err(f.Close())
}

func render(w *bufio.Writer, s Summary, recs []fastq.Record, entries []partition.Entry) error {
	first := recs[0].Time
	last := recs[len(recs)-1].Time

	fmt.Fprintf(w, "Input file: %s\n", s.InputPath)
	fmt.Fprintf(w, "Total sequencing time: %s\n", hms(last.Sub(first)))
	if s.Mode == partition.Coverage {
		fmt.Fprintf(w, "Genome size: %s\n", s.GenomeSizeRaw)
	}
	fmt.Fprintf(w, "Total reads: %d\n", len(recs))
	fmt.Fprintf(w, "Total bases in file: %d\n", s.TotalBases)
	if s.Mode == partition.Coverage {
		fmt.Fprintf(w, "Total coverage: %.2f\n", float64(s.TotalBases)/float64(s.GenomeSize))
	}

	if err := renderLengths(w, recs, s.TotalBases); err != nil {
		return err
	}

	switch s.Mode {
	case partition.Coverage:
		fmt.Fprintf(w, "Time to reach coverage (Coverage: Hours:Minutes:Seconds):\n")
		for _, e := range entries {
			fmt.Fprintf(w, "%0*d: %s\n", s.PadWidth, e.Value, hms(recs[e.Boundary].Time.Sub(first)))
		}
	case partition.Size:
		fmt.Fprintf(w, "Time to reach base count (Bases: Hours:Minutes:Seconds):\n")
		for _, e := range entries {
			fmt.Fprintf(w, "%0*d: %s\n", s.PadWidth, e.Value, hms(recs[e.Boundary].Time.Sub(first)))
		}
	case partition.Time:
		cum := prefixBases(recs)
		fmt.Fprintf(w, "Bases after sequencing time (Minutes: Megabases):\n")
		for _, e := range entries {
			var bases int64
			if e.Boundary >= 0 {
				bases = cum[e.Boundary]
			}
			fmt.Fprintf(w, "%0*d: %.2f\n", s.PadWidth, e.Value, float64(bases)/1e6)
		}
	}

	return nil
}

// renderLengths writes the read-length distribution block: mean, median,
// and N50.
func renderLengths(w *bufio.Writer, recs []fastq.Record, totalBases int64) error {
	lengths := make(stats.Float64Data, len(recs))
	for i, r := range recs {
		lengths[i] = float64(r.Bases)
	}

	mean, err := lengths.Mean()
	if err != nil {
		return pfx.Err(err)
	}
	median, err := lengths.Median()
	if err != nil {
		return pfx.Err(err)
	}

	fmt.Fprintf(w, "Mean read length: %.1f\n", mean)
	fmt.Fprintf(w, "Median read length: %.1f\n", median)
	fmt.Fprintf(w, "Read length N50: %d\n", n50(recs, totalBases))

	return nil
}

// n50 is the read length at which half of all sequenced bases sit in
// reads of that length or longer.
func n50(recs []fastq.Record, totalBases int64) int {
	lengths := make([]int, len(recs))
	for i, r := range recs {
		lengths[i] = r.Bases
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))

	var cum int64
	for _, l := range lengths {
		cum += int64(l)
		if 2*cum >= totalBases {
			return l
		}
	}

	return 0
}

// prefixBases returns the cumulative base count through each record.
func prefixBases(recs []fastq.Record) []int64 {
	cum := make([]int64, len(recs))
	var total int64
	for i, r := range recs {
		total += int64(r.Bases)
		cum[i] = total
	}
	return cum
}

// hms formats a duration as hours:minutes:seconds without wrapping at
// 24 hours.
func hms(d time.Duration) string {
	h := int64(d / time.Hour)
	m := int64(d/time.Minute) % 60
	s := int64(d/time.Second) % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
