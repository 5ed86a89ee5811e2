package plink

import (
	"fmt"
	"io"

	"github.com/carbocation/pfx"
)

// Error returns the error that ended iteration, or nil if Read stopped
// because every variant was consumed.
func (p *PLINK) Error() error {
	return p.err
}

// Read decodes the next block. It returns nil once all variants in the .bim
// have been read or after an error, which is then available from Error.
// Errors are final: once Read fails it keeps returning nil.
func (p *PLINK) Read() *Genotypes {
	if p.err != nil || p.VariantsSeen >= len(p.variants) {
		return nil
	}
	if p.bed == nil {
		p.err = pfx.Err(fmt.Errorf("%s is closed", p.BedPath))
		return nil
	}

	idx := p.VariantsSeen
	n, err := io.ReadFull(p.reader, p.block)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			p.err = &TruncatedStreamError{
				File:    p.BedPath,
				Offset:  p.offset + int64(n),
				Variant: idx,
				Want:    len(p.block),
				Got:     n,
				Err:     err,
			}
		} else {
			p.err = pfx.Err(err)
		}
		return nil
	}

	g, err := p.decodeBlock(idx, p.block)
	if err != nil {
		p.err = err
		return nil
	}

	p.VariantsSeen++
	p.offset += int64(len(p.block))

	return g
}

// ReadAt decodes the block of the variant at position idx of the .bim
// without moving the Read cursor.
func (p *PLINK) ReadAt(idx int) (*Genotypes, error) {
	if idx < 0 || idx >= len(p.variants) {
		return nil, pfx.Err(fmt.Errorf("variant index %d is outside [0, %d)", idx, len(p.variants)))
	}
	if p.bed == nil {
		return nil, pfx.Err(fmt.Errorf("%s is closed", p.BedPath))
	}
	if p.bed.at == nil {
		return nil, pfx.Err(fmt.Errorf("%s does not support random access", p.BedPath))
	}

	offset := p.blockOffset(idx)
	block := make([]byte, p.decoder.BlockSize())
	n, err := p.bed.at.ReadAt(block, offset)
	if n < len(block) {
		if err == nil || err == io.EOF {
			return nil, &TruncatedStreamError{File: p.BedPath, Offset: offset + int64(n), Variant: idx, Want: len(block), Got: n, Err: err}
		}
		return nil, pfx.Err(err)
	}

	return p.decodeBlock(idx, block)
}

func (p *PLINK) blockOffset(idx int) int64 {
	return HeaderSize + int64(idx)*int64(p.decoder.BlockSize())
}

func (p *PLINK) decodeBlock(idx int, block []byte) (*Genotypes, error) {
	dosages, err := p.decoder.Decode(block, p.pool.get())
	if err != nil {
		if te, ok := err.(*TruncatedStreamError); ok {
			te.File = p.BedPath
			te.Offset = p.blockOffset(idx)
			te.Variant = idx
		}
		return nil, err
	}

	return &Genotypes{
		Variant: p.variants[idx],
		dosages: dosages,
		n:       len(dosages),
		pool:    p.pool,
	}, nil
}
