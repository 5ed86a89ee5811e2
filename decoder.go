package plink

import (
	"bytes"
	"math"
)

// Two-bit genotype codes as stored in a .bed block.
const (
	codeHomozygous1  byte = 0x0
	codeMissing      byte = 0x1
	codeHeterozygous byte = 0x2
	codeHomozygous2  byte = 0x3
)

// codeDosage is the dosage of Allele2 for each two-bit code.
var codeDosage = [4]float64{
	codeHomozygous1:  0,
	codeMissing:      math.NaN(),
	codeHeterozygous: 1,
	codeHomozygous2:  2,
}

// byteDosages holds the four decoded dosages of every possible byte, lowest
// bit pair first.
var byteDosages [256][4]float64

func init() {
	for b := 0; b < 256; b++ {
		for j := 0; j < 4; j++ {
			byteDosages[b][j] = codeDosage[(b>>(2*j))&0x3]
		}
	}
}

// BlockSize returns the number of bytes one variant occupies in a
// variant-major .bed file with nSamples samples.
func BlockSize(nSamples int) int {
	return (nSamples + 3) / 4
}

// BlockDecoder turns packed .bed blocks into dosage vectors. It holds no
// state besides the sample count and is safe for concurrent use.
type BlockDecoder struct {
	nSamples  int
	blockSize int
}

func NewBlockDecoder(nSamples int) *BlockDecoder {
	return &BlockDecoder{
		nSamples:  nSamples,
		blockSize: BlockSize(nSamples),
	}
}

func (d *BlockDecoder) NSamples() int {
	return d.nSamples
}

func (d *BlockDecoder) BlockSize() int {
	return d.blockSize
}

// Decode writes one dosage per sample into dst and returns it. If dst has
// insufficient capacity a new slice is allocated. The stray bits padding the
// final byte are ignored.
func (d *BlockDecoder) Decode(block []byte, dst []float64) ([]float64, error) {
	if len(block) < d.blockSize {
		return nil, &TruncatedStreamError{Want: d.blockSize, Got: len(block)}
	}

	if cap(dst) < d.nSamples {
		dst = make([]float64, d.nSamples)
	}
	dst = dst[:d.nSamples]

	full := d.nSamples / 4
	for i := 0; i < full; i++ {
		copy(dst[4*i:4*i+4], byteDosages[block[i]][:])
	}
	if rem := d.nSamples - 4*full; rem > 0 {
		copy(dst[4*full:], byteDosages[block[full]][:rem])
	}

	return dst, nil
}

// GenotypeCounts tallies the calls of one variant.
type GenotypeCounts struct {
	Homozygous1  int
	Heterozygous int
	Homozygous2  int
	Missing      int
}

// NonMissing is the number of samples with a call.
func (c GenotypeCounts) NonMissing() int {
	return c.Homozygous1 + c.Heterozygous + c.Homozygous2
}

// Counts tallies the genotype codes of a block without decoding dosages.
func (d *BlockDecoder) Counts(block []byte) (GenotypeCounts, error) {
	var c GenotypeCounts
	if len(block) < d.blockSize {
		return c, &TruncatedStreamError{Want: d.blockSize, Got: len(block)}
	}

	cr := newCodeReader(bytes.NewReader(block[:d.blockSize]))
	for i := 0; i < d.nSamples; i++ {
		code, err := cr.ReadCode()
		if err != nil {
			return c, &TruncatedStreamError{Want: d.blockSize, Got: i / 4, Err: err}
		}
		c.add(code)
	}

	return c, nil
}

func (c *GenotypeCounts) add(code byte) {
	switch code {
	case codeHomozygous1:
		c.Homozygous1++
	case codeMissing:
		c.Missing++
	case codeHeterozygous:
		c.Heterozygous++
	case codeHomozygous2:
		c.Homozygous2++
	}
}
