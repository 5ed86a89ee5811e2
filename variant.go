package plink

import (
	"fmt"
	"strings"
)

// Allele is the allele code as it appears in the .bim file. It is usually a
// single nucleotide but may contain more than one character for indels.
type Allele string

func (a Allele) String() string {
	return string(a)
}

// Variant is the identity of one marker. Allele1 is the allele counted by a
// dosage of 0, Allele2 the allele counted by a dosage of 2.
type Variant struct {
	Name       string
	Chromosome string
	Position   uint32
	Allele1    Allele
	Allele2    Allele
}

// NewVariant accepts allele codes as opaque strings. Validating them is the
// job of whoever parses the marker file.
func NewVariant(name, chrom string, position uint32, allele1, allele2 string) *Variant {
	return &Variant{
		Name:       name,
		Chromosome: chrom,
		Position:   position,
		Allele1:    Allele(allele1),
		Allele2:    Allele(allele2),
	}
}

// ComplementAlleles replaces both alleles with their Watson-Crick complement.
// Applying it twice restores the original alleles. The allele order is kept,
// since it determines which allele a dosage counts.
func (v *Variant) ComplementAlleles() {
	v.Allele1 = Allele(Complement(string(v.Allele1)))
	v.Allele2 = Allele(Complement(string(v.Allele2)))
}

// AllelesAmbiguous reports whether the allele pair reads the same on both
// strands (A/T or C/G), in which case strand cannot be inferred from alleles.
func (v Variant) AllelesAmbiguous() bool {
	a1, a2 := upper(v.Allele1), upper(v.Allele2)
	switch a1 {
	case "A", "C", "G", "T":
		return Complement(a1) == a2
	}

	return false
}

// LocusEqual reports whether both variants sit at the same chromosome and
// position.
func (v Variant) LocusEqual(other Variant) bool {
	return Chromosome(v.Chromosome) == Chromosome(other.Chromosome) && v.Position == other.Position
}

// Equal reports whether other describes the same variant, allowing for
// swapped allele order and for other being reported on the opposite strand.
func (v Variant) Equal(other Variant) bool {
	if !v.LocusEqual(other) {
		return false
	}

	a1, a2 := upper(v.Allele1), upper(v.Allele2)
	o1, o2 := upper(other.Allele1), upper(other.Allele2)
	if sameAlleleSet(a1, a2, o1, o2) {
		return true
	}

	return sameAlleleSet(a1, a2, Complement(o1), Complement(o2))
}

func (v Variant) String() string {
	return fmt.Sprintf("%s %s:%d %s/%s", v.Name, v.Chromosome, v.Position, v.Allele1, v.Allele2)
}

// Complement maps each nucleotide of s to its complement. Characters other
// than A, C, G and T (for example the 0 missing-allele code, or N) are
// returned unchanged.
func Complement(s string) string {
	out := []byte(s)
	for i, c := range out {
		switch c {
		case 'A':
			out[i] = 'T'
		case 'T':
			out[i] = 'A'
		case 'C':
			out[i] = 'G'
		case 'G':
			out[i] = 'C'
		}
	}

	return string(out)
}

func sameAlleleSet(a1, a2, b1, b2 string) bool {
	return (a1 == b1 && a2 == b2) || (a1 == b2 && a2 == b1)
}

func upper(a Allele) string {
	return strings.ToUpper(string(a))
}
