package covsort

import (
	"path/filepath"
	"strings"
)

// SplitArchiveName derives the sample identifier and the archive
// extension from an input path. Nanopore archives conventionally carry
// two extension segments ("CPO20160077.chop.q8.fastq.gz" ->
// "CPO20160077.chop.q8" + "fastq.gz"); everything before those is kept
// as the sample name so output files group next to their source.
func SplitArchiveName(path string) (sample, ext string) {
	base := filepath.Base(path)
	parts := strings.Split(base, ".")

	switch {
	case len(parts) >= 3:
		return strings.Join(parts[:len(parts)-2], "."), strings.Join(parts[len(parts)-2:], ".")
	case len(parts) == 2:
		return parts[0], parts[1]
	}

	return base, "fastq.gz"
}
