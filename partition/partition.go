// Package partition locates, within a chronologically sorted read
// sequence, the boundary read for each caller-supplied threshold.
package partition

import (
	"errors"
	"fmt"
	"time"

	"github.com/nanotick/covsort/fastq"
)

// Mode selects the unit in which thresholds are expressed. The string
// value appears in artifact filenames.
type Mode string

const (
	Coverage Mode = "cov"
	Time     Mode = "time"
	Size     Mode = "size"
)

// Entry maps one threshold value to the index of the last read, in
// timestamp order, whose inclusion satisfies it. A Boundary of -1 means
// the threshold was crossed before any read could be included.
type Entry struct {
	Value    int64
	Boundary int
}

// Params is the immutable partitioning input derived from the command
// line.
type Params struct {
	Mode       Mode
	GenomeSize int64   // bases; coverage mode only
	Thresholds []int64 // strictly ascending, validated by the caller
}

// ErrGenomeSize means coverage partitioning was requested without a
// positive genome size.
var ErrGenomeSize = errors.New("coverage mode requires a positive genome size")

// Partition walks the sorted reads once and returns one Entry per
// threshold reached, in ascending threshold order. When the archive
// runs out before later thresholds are reached, those thresholds get no
// entry.
func Partition(recs []fastq.Record, p Params) ([]Entry, error) {
	if len(recs) == 0 || len(p.Thresholds) == 0 {
		return nil, nil
	}

	switch p.Mode {
	case Coverage:
		if p.GenomeSize <= 0 {
			return nil, ErrGenomeSize
		}
		return byBases(recs, p.Thresholds, p.GenomeSize), nil
	case Size:
		return byBases(recs, p.Thresholds, 1), nil
	case Time:
		return byElapsed(recs, p.Thresholds), nil
	}

	return nil, fmt.Errorf("unknown partition mode %q", p.Mode)
}

// byBases accumulates bases across reads and records the index at which
// the running total first strictly exceeds each target (threshold value
// times scale). The target list advances at most once per read, so a
// single read long enough to cross several targets binds only the
// current one; later targets bind to subsequent reads. The scan stops
// once the total exceeds the final target.
func byBases(recs []fastq.Record, thresholds []int64, scale int64) []Entry {
	entries := make([]Entry, 0, len(thresholds))
	final := thresholds[len(thresholds)-1] * scale

	var cum int64
	next := 0
	for i, r := range recs {
		cum += int64(r.Bases)

		if next < len(thresholds) && cum > thresholds[next]*scale {
			entries = append(entries, Entry{Value: thresholds[next], Boundary: i})
			next++
		}

		if cum > final {
			break
		}
	}

	return entries
}

// byElapsed records, for each threshold in minutes, the index of the
// last read whose elapsed time since the earliest read does not exceed
// it. Unlike byBases, the read that crosses a threshold is excluded:
// the boundary is the preceding read. Downstream consumers depend on
// this asymmetry, so it is deliberate.
func byElapsed(recs []fastq.Record, thresholds []int64) []Entry {
	entries := make([]Entry, 0, len(thresholds))
	start := recs[0].Time
	final := float64(thresholds[len(thresholds)-1])

	next := 0
	for i, r := range recs {
		mins := elapsedMinutes(start, r.Time)

		if next < len(thresholds) && mins > float64(thresholds[next]) {
			entries = append(entries, Entry{Value: thresholds[next], Boundary: i - 1})
			next++
		}

		if mins > final {
			break
		}
	}

	return entries
}

func elapsedMinutes(start, t time.Time) float64 {
	return t.Sub(start).Minutes()
}
