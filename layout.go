package plink

// Magic is the two byte prefix every .bed file starts with.
var Magic = [2]byte{0x6c, 0x1b}

// HeaderSize is the length of the .bed header: the magic number followed by
// the mode byte.
const HeaderSize = 3

// Mode is the third header byte of a .bed file, indicating whether blocks
// hold one variant across all samples or one sample across all variants.
type Mode byte

const (
	ModeSampleMajor Mode = iota
	ModeVariantMajor
)

func (m Mode) String() string {
	switch m {
	case ModeSampleMajor:
		return "sample-major"
	case ModeVariantMajor:
		return "variant-major"

	default:
		return "Illegal selection"
	}
}
