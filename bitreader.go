package plink

import (
	"io"
)

// codeReader yields the two-bit genotype codes of a .bed block in sample
// order. Within a byte the lowest bit pair comes first, which is the
// opposite of the usual most-significant-bit-first bit stream.
type codeReader struct {
	reader io.ByteReader
	byte   byte
	offset byte

	errCache error
}

func newCodeReader(r io.ByteReader) *codeReader {
	return &codeReader{r, 0, 0, nil}
}

func (r *codeReader) ReadCode() (byte, error) {
	if r.offset == 8 {
		r.offset = 0
	}
	if r.offset == 0 {
		if r.byte, r.errCache = r.reader.ReadByte(); r.errCache != nil {
			return 0, r.errCache
		}
	}
	code := (r.byte >> r.offset) & 0x3
	r.offset += 2
	return code, nil
}

