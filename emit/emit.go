// Package emit writes one cumulative compressed artifact per threshold
// entry. Each artifact extends the previous one on disk instead of being
// rebuilt from the first read, so total write work stays proportional to
// total output volume.
package emit

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/carbocation/pfx"

	"github.com/nanotick/covsort/fastq"
	"github.com/nanotick/covsort/partition"
)

// PadWidth returns the zero-pad width for threshold values in artifact
// names: the digit count of the largest caller-supplied value, floored
// at the widths downstream globs have historically relied on (3 for
// coverage, 4 for time). Padding keeps directory listings in threshold
// order.
func PadWidth(mode partition.Mode, thresholds []int64) int {
	w := 1
	if n := len(thresholds); n > 0 {
		w = len(strconv.FormatInt(thresholds[n-1], 10))
	}

	min := 1
	switch mode {
	case partition.Coverage:
		min = 3
	case partition.Time:
		min = 4
	}
	if w < min {
		w = min
	}

	return w
}

// Filename renders one artifact name, e.g. "sample.cov_005.fastq.gz".
func Filename(sample string, mode partition.Mode, value int64, width int, ext string) string {
	return fmt.Sprintf("%s.%s_%0*d.%s", sample, mode, width, value, ext)
}

// WriteArtifacts writes one artifact per entry, in ascending threshold
// order, and returns the written paths. Artifact 0 holds reads
// [0..Boundary_0]; artifact k is a byte copy of artifact k-1 with reads
// (Boundary_{k-1}..Boundary_k] appended as a fresh gzip member
// (concatenated gzip members decompress as a single stream). Each
// artifact is fully flushed before the next begins.
func WriteArtifacts(dir, sample, ext string, mode partition.Mode, width int, entries []partition.Entry, recs []fastq.Record) ([]string, error) {
	paths := make([]string, 0, len(entries))

	prev := -1
	for k, e := range entries {
		path := filepath.Join(dir, Filename(sample, mode, e.Value, width, ext))

		var err error
		if k == 0 {
			err = writeFirst(path, recs[:e.Boundary+1])
		} else {
			err = extend(paths[k-1], path, recs[prev+1:e.Boundary+1])
		}
		if err != nil {
			return nil, err
		}

		prev = e.Boundary
		paths = append(paths, path)
	}

	return paths, nil
}

func writeFirst(path string, recs []fastq.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	if err := appendMember(f, recs); err != nil {
		f.Close()
		return err
	}

	return pfx.Err(f.Close())
}

func extend(prevPath, path string, recs []fastq.Record) error {
	src, err := os.Open(prevPath)
	if err != nil {
		return pfx.Err(err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return pfx.Err(err)
	}

	if err := appendMember(dst, recs); err != nil {
		dst.Close()
		return err
	}

	return pfx.Err(dst.Close())
}

// appendMember compresses the verbatim bytes of recs as one gzip member
// at the writer's current position.
func appendMember(w io.Writer, recs []fastq.Record) error {
	gz := gzip.NewWriter(w)
	for _, r := range recs {
		if _, err := gz.Write(r.Raw); err != nil {
			gz.Close()
			return pfx.Err(err)
		}
	}
	return pfx.Err(gz.Close())
}
