// Package fastq parses compressed nanopore read archives whose header
// lines carry basecaller start_time timestamps.
package fastq

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/carbocation/pfx"
)

// TimeLayout is the timestamp shape basecallers write into read headers:
// UTC at second resolution with a literal trailing Z.
const TimeLayout = "2006-01-02T15:04:05Z"

const timeMarker = "start_time"

var (
	// ErrNoHeader means the archive contained no header line with a
	// start_time field, so it cannot be ordered chronologically.
	ErrNoHeader = errors.New("no read header with a start_time field found")

	// ErrMalformedTimestamp means a header carried a start_time field
	// whose value did not parse under TimeLayout.
	ErrMalformedTimestamp = errors.New("malformed start_time timestamp")
)

// Record is one sequencing read: a timestamped header line plus its
// payload lines. Raw holds the verbatim archive bytes so reads can be
// re-emitted without modification.
type Record struct {
	Time  time.Time
	Bases int
	Raw   []byte
}

// ReadAll consumes a decompressed archive stream and returns its reads
// in input order, along with the total base count across all reads.
//
// A header line starts with '@' and contains a start_time field. The
// line immediately after a header is the read's sequence; its length,
// less the line terminator, is the read's base count. Any further lines
// before the next header (e.g. the '+' separator and quality scores of
// four-line fastq) are retained in Raw but not counted.
//
// The whitespace-token position of the start_time field differs between
// basecaller versions (Guppy and Albacore place it differently), so it
// is discovered once on the first qualifying header and then reused as
// a fixed offset for the rest of the archive.
func ReadAll(r io.Reader) ([]Record, int64, error) {
	br := bufio.NewReaderSize(r, 1<<20)

	var (
		recs       []Record
		totalBases int64
		timeField  = -1
		awaitSeq   bool
	)

	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			switch {
			case isHeader(line):
				if timeField < 0 {
					timeField = findTimeField(line)
				}
				ts, terr := headerTime(line, timeField)
				if terr != nil {
					return nil, 0, terr
				}
				recs = append(recs, Record{Time: ts})
				awaitSeq = true
			case len(recs) == 0:
				// Leading content before the first qualifying header
				// cannot be attributed to a read.
			case awaitSeq:
				n := lineBases(line)
				recs[len(recs)-1].Bases = n
				totalBases += int64(n)
				awaitSeq = false
			}

			if len(recs) > 0 {
				cur := &recs[len(recs)-1]
				cur.Raw = append(cur.Raw, line...)
			}
		}

		if err == io.EOF {
			break
		} else if err != nil {
			return nil, 0, pfx.Err(err)
		}
	}

	if len(recs) == 0 {
		return nil, 0, ErrNoHeader
	}

	return recs, totalBases, nil
}

func isHeader(line []byte) bool {
	return len(line) > 0 && line[0] == '@' && bytes.Contains(line, []byte(timeMarker))
}

// findTimeField returns the index of the whitespace-delimited token
// holding the start_time= assignment, or -1.
func findTimeField(line []byte) int {
	prefix := []byte(timeMarker + "=")
	for i, tok := range bytes.Fields(line) {
		if bytes.HasPrefix(tok, prefix) {
			return i
		}
	}
	return -1
}

// headerTime extracts and parses the timestamp from the token at the
// discovered field position.
func headerTime(line []byte, field int) (time.Time, error) {
	toks := bytes.Fields(line)
	prefix := []byte(timeMarker + "=")
	if field < 0 || field >= len(toks) || !bytes.HasPrefix(toks[field], prefix) {
		return time.Time{}, fmt.Errorf("%w: no %s= token at field %d of header %q",
			ErrMalformedTimestamp, timeMarker, field, bytes.TrimRight(line, "\n"))
	}

	val := string(toks[field][len(prefix):])
	ts, err := time.Parse(TimeLayout, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, val)
	}

	return ts, nil
}

// lineBases counts the bases on a sequence line, discounting a trailing
// line terminator if present.
func lineBases(line []byte) int {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		return n - 1
	}
	return len(line)
}
