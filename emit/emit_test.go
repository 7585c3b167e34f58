package emit

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nanotick/covsort/fastq"
	"github.com/nanotick/covsort/partition"
)

func TestPadWidth(t *testing.T) {
	cases := []struct {
		mode       partition.Mode
		thresholds []int64
		want       int
	}{
		{partition.Coverage, []int64{1, 5, 60}, 3},
		{partition.Coverage, []int64{100, 2000}, 4},
		{partition.Time, []int64{10, 20}, 4},
		{partition.Time, []int64{600, 86400}, 5},
		{partition.Size, []int64{10000000, 20000000}, 8},
		{partition.Size, nil, 1},
	}

	for _, c := range cases {
		if got := PadWidth(c.mode, c.thresholds); got != c.want {
			t.Errorf("PadWidth(%s, %v) = %d, want %d", c.mode, c.thresholds, got, c.want)
		}
	}
}

func TestFilename(t *testing.T) {
	got := Filename("CPO20160077.chop.q8", partition.Coverage, 5, 3, "fastq.gz")
	if want := "CPO20160077.chop.q8.cov_005.fastq.gz"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = Filename("sample", partition.Time, 10, 4, "fastq.gz")
	if want := "sample.time_0010.fastq.gz"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func testReads(n int) []fastq.Record {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := make([]fastq.Record, n)
	for i := range recs {
		raw := []byte{'@', byte('a' + i), '\n', 'A', 'C', 'G', 'T', '\n'}
		recs[i] = fastq.Record{Time: t0.Add(time.Duration(i) * time.Minute), Bases: 4, Raw: raw}
	}
	return recs
}

func gunzipFile(t *testing.T, path string) []byte {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	// Appended artifacts hold several gzip members; the reader
	// transparently concatenates them.
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer gz.Close()

	content, err := io.ReadAll(gz)
	if err != nil {
		t.Fatal(err)
	}
	return content
}

func TestWriteArtifactsNesting(t *testing.T) {
	dir := t.TempDir()
	recs := testReads(10)
	entries := []partition.Entry{
		{Value: 1, Boundary: 2},
		{Value: 2, Boundary: 5},
		{Value: 5, Boundary: 9},
	}

	paths, err := WriteArtifacts(dir, "sample", "fastq.gz", partition.Coverage, 3, entries, recs)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3", len(paths))
	}

	wantNames := []string{"sample.cov_001.fastq.gz", "sample.cov_002.fastq.gz", "sample.cov_005.fastq.gz"}
	for i, p := range paths {
		if filepath.Base(p) != wantNames[i] {
			t.Errorf("path %d = %s, want %s", i, filepath.Base(p), wantNames[i])
		}
	}

	// Artifact k decompresses to the raw bytes of reads [0..boundary_k].
	for i, p := range paths {
		var want []byte
		for _, r := range recs[:entries[i].Boundary+1] {
			want = append(want, r.Raw...)
		}
		if got := gunzipFile(t, p); !bytes.Equal(got, want) {
			t.Errorf("artifact %d content = %q, want %q", i, got, want)
		}
	}

	// Each artifact is a byte-prefix extension of the previous one.
	for i := 1; i < len(paths); i++ {
		prev, err := os.ReadFile(paths[i-1])
		if err != nil {
			t.Fatal(err)
		}
		cur, err := os.ReadFile(paths[i])
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(cur, prev) {
			t.Errorf("artifact %d is not a byte-prefix extension of artifact %d", i, i-1)
		}
	}
}

func TestWriteArtifactsSingleEntry(t *testing.T) {
	dir := t.TempDir()
	recs := testReads(4)

	paths, err := WriteArtifacts(dir, "s", "fastq.gz", partition.Size, 4, []partition.Entry{{Value: 12, Boundary: 3}}, recs)
	if err != nil {
		t.Fatal(err)
	}

	var want []byte
	for _, r := range recs {
		want = append(want, r.Raw...)
	}
	if got := gunzipFile(t, paths[0]); !bytes.Equal(got, want) {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestWriteArtifactsNoEntries(t *testing.T) {
	dir := t.TempDir()

	paths, err := WriteArtifacts(dir, "s", "fastq.gz", partition.Time, 4, nil, testReads(2))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Errorf("got %d paths, want 0", len(paths))
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 0 {
		t.Errorf("output directory not empty: %v", ents)
	}
}
