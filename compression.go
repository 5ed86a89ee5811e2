package plink

import (
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// Compression indicates how (and whether) a .fam or .bim text file is
// compressed. The .bed file is always read uncompressed, since blocks are
// located by byte offset.
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionGZIP
	CompressionZStandard
	CompressionXZ
)

// textSuffixes lists, in lookup order, the suffixes tried after the plain
// filename when a text member of the trio is missing.
var textSuffixes = []string{".gz", ".zst", ".xz"}

func (c Compression) String() string {
	switch c {
	case CompressionDisabled:
		return "CompressionDisabled"
	case CompressionGZIP:
		return "CompressionGZIP"
	case CompressionZStandard:
		return "CompressionZStandard"
	case CompressionXZ:
		return "CompressionXZ"

	default:
		return "Illegal selection"
	}
}

// CompressionFor infers the compression of a file from its extension.
func CompressionFor(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CompressionGZIP
	case strings.HasSuffix(path, ".zst"):
		return CompressionZStandard
	case strings.HasSuffix(path, ".xz"):
		return CompressionXZ
	}

	return CompressionDisabled
}

// decompressor wraps r in a reader that undoes c. Closing the result closes
// the decompressor and the underlying reader.
func decompressor(c Compression, r io.ReadCloser) (io.ReadCloser, error) {
	switch c {
	case CompressionDisabled:
		return r, nil
	case CompressionGZIP:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, r}}, nil
	case CompressionZStandard:
		zr := NewZStandardReader(r)
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, r}}, nil
	case CompressionXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return &stackedCloser{Reader: xr, closers: []io.Closer{r}}, nil
	}

	return nil, pfx.Err(fmt.Errorf("Compression choice %s is not supported", c))
}

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
