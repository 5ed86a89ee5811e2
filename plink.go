package plink

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
)

// PLINK is the main object used for reading a .bed/.bim/.fam trio. It holds
// the open .bed handle, the samples and variants parsed at Open, and a
// single read cursor. A PLINK is not safe for concurrent use; open one per
// goroutine instead, since independent instances over the same files do not
// interfere.
type PLINK struct {
	Prefix  string
	FamPath string
	BimPath string
	BedPath string
	Mode    Mode

	// VariantsSeen counts the blocks consumed by Read.
	VariantsSeen int

	samples  []Sample
	variants []Variant
	decoder  *BlockDecoder
	pool     *vectorPool

	opener *opener
	bed    *source
	reader *bufio.Reader
	offset int64
	err    error

	// Cached values
	block []byte
}

// Open reads the trio sharing prefix: prefix.fam, prefix.bim and
// prefix.bed. The prefix may be a local path or a gs://bucket/object-prefix
// URL. If successful, the samples and variants are fully loaded and the
// reader is positioned at the first variant.
func Open(prefix string) (*PLINK, error) {
	return OpenContext(context.Background(), prefix)
}

// OpenContext is like Open; ctx governs requests made to Google Storage for
// the lifetime of the returned PLINK.
func OpenContext(ctx context.Context, prefix string) (*PLINK, error) {
	p := &PLINK{
		Prefix:  prefix,
		FamPath: prefix + ".fam",
		BimPath: prefix + ".bim",
		BedPath: prefix + ".bed",
		opener:  newOpener(ctx),
	}

	if err := populatePLINK(p); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

func populatePLINK(p *PLINK) error {
	fam, err := p.opener.openText(p.FamPath)
	if err != nil {
		return err
	}
	defer fam.Close()
	p.FamPath = fam.path

	bim, err := p.opener.openText(p.BimPath)
	if err != nil {
		return err
	}
	defer bim.Close()
	p.BimPath = bim.path

	p.bed, err = p.opener.openBinary(p.BedPath)
	if err != nil {
		return err
	}

	if p.samples, err = ReadSamples(fam, fam.path); err != nil {
		return err
	}
	if p.variants, err = ReadCatalog(bim, bim.path); err != nil {
		return err
	}

	p.decoder = NewBlockDecoder(len(p.samples))
	p.pool = newVectorPool(len(p.samples))
	p.block = make([]byte, p.decoder.BlockSize())

	bufSize := 64 * 1024
	if p.decoder.BlockSize() > bufSize {
		bufSize = p.decoder.BlockSize()
	}
	p.reader = bufio.NewReaderSize(p.bed, bufSize)

	if err := p.readHeader(); err != nil {
		return err
	}

	return p.checkSize()
}

func (p *PLINK) readHeader() error {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(p.reader, header)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return &FormatMismatchError{File: p.BedPath, Offset: int64(n), Reason: fmt.Sprintf("file is %d bytes, shorter than the %d byte header", n, HeaderSize)}
		}
		return pfx.Err(err)
	}

	if header[0] != Magic[0] || header[1] != Magic[1] {
		return &FormatMismatchError{File: p.BedPath, Reason: fmt.Sprintf("magic number %#x %#x is not %#x %#x", header[0], header[1], Magic[0], Magic[1])}
	}

	p.Mode = Mode(header[2])
	if p.Mode != ModeVariantMajor {
		return &FormatMismatchError{File: p.BedPath, Offset: 2, Reason: fmt.Sprintf("mode %s (%#x) is not supported; only %s files can be streamed", p.Mode, header[2], ModeVariantMajor)}
	}

	p.offset = HeaderSize
	return nil
}

// checkSize compares the .bed size, when known, with the size implied by the
// .fam and .bim. A file that is too long, or whose payload divides evenly
// into one block per variant of the wrong length, means the files disagree
// on the sample or variant count. Any other shortfall is left for Read to
// report as a truncated stream.
func (p *PLINK) checkSize() error {
	if p.bed.size < 0 {
		return nil
	}

	blockSize := int64(p.decoder.BlockSize())
	nVariants := int64(len(p.variants))
	expected := HeaderSize + blockSize*nVariants
	payload := p.bed.size - HeaderSize

	mismatch := p.bed.size > expected
	if !mismatch && payload > 0 && payload%nVariants == 0 && payload/nVariants != blockSize {
		mismatch = true
	}
	if mismatch {
		return &FormatMismatchError{
			File:   p.BedPath,
			Offset: p.bed.size,
			Reason: fmt.Sprintf("file is %d bytes but %d samples (%s) and %d variants (%s) require %d", p.bed.size, len(p.samples), p.FamPath, len(p.variants), p.BimPath, expected),
		}
	}

	return nil
}

// Close releases the file handles. It is safe to call more than once.
func (p *PLINK) Close() error {
	var err error
	if p.bed != nil {
		err = p.bed.Close()
		p.bed = nil
	}
	if p.opener != nil {
		if cerr := p.opener.close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return pfx.Err(err)
	}
	return nil
}

// Samples returns the samples in .fam order, which is also the order of
// every dosage vector. The slice must not be modified.
func (p *PLINK) Samples() []Sample {
	return p.samples
}

// Variants returns the variants in .bim order. The slice must not be
// modified.
func (p *PLINK) Variants() []Variant {
	return p.variants
}

func (p *PLINK) NSamples() int {
	return len(p.samples)
}

func (p *PLINK) NVariants() int {
	return len(p.variants)
}
