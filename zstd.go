package plink

import (
	"io"

	"github.com/DataDog/zstd"
)

// NewZStandardReader streams the Zstd-compressed data in r. The returned
// reader must be closed to release the decompression context; it does not
// close r.
func NewZStandardReader(r io.Reader) io.ReadCloser {
	return zstd.NewReader(r)
}
