package covsort

import (
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

// Compression identifies the on-disk encoding of a read archive.
type Compression byte

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionBzip2
)

// Magic byte signatures from https://stackoverflow.com/a/19127748/199475
var magicBytes = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionBzip2: {0x42, 0x5a, 0x68},
}

// SniffCompression reads the leading bytes of r and matches them against
// known compression signatures. Streams too short to hold any signature
// are reported as uncompressed.
func SniffCompression(r io.Reader) (Compression, error) {
	buff := make([]byte, 6)
	if _, err := io.ReadFull(r, buff); err == io.EOF || err == io.ErrUnexpectedEOF {
		return CompressionNone, nil
	} else if err != nil {
		return CompressionUnknown, pfx.Err(err)
	}

Outer:
	for c, sig := range magicBytes {
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return c, nil
	}

	return CompressionNone, nil
}

// OpenArchive opens the read archive at path and transparently
// decompresses it based on its leading magic bytes. Content with no
// recognized signature is passed through unmodified, so uncompressed
// fastq works too.
func OpenArchive(path string) (io.ReadCloser, error) {
	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, err
	}

	c, err := SniffCompression(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	switch c {
	case CompressionGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		return &chainedCloser{gz, f}, nil
	case CompressionZip:
		return &chainedCloser{io.NopCloser(zipstream.NewReader(f)), f}, nil
	case CompressionXZ:
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		return &chainedCloser{io.NopCloser(xzr), f}, nil
	case CompressionBzip2:
		return &chainedCloser{io.NopCloser(bzip2.NewReader(f)), f}, nil
	}

	return f, nil
}

// chainedCloser closes the decompressor before the file beneath it.
type chainedCloser struct {
	io.ReadCloser
	f *os.File
}

func (c *chainedCloser) Close() error {
	if err := c.ReadCloser.Close(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}
