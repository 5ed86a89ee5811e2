package plink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// packBlock packs two-bit genotype codes, one per sample, into a .bed block.
func packBlock(codes []byte) []byte {
	block := make([]byte, BlockSize(len(codes)))
	for i, c := range codes {
		block[i/4] |= (c & 0x3) << (2 * uint(i%4))
	}
	return block
}

func famText(samples []string) string {
	var sb strings.Builder
	for i, s := range samples {
		fmt.Fprintf(&sb, "FAM%d %s 0 0 %d -9\n", i, s, 1+i%2)
	}
	return sb.String()
}

func bimText(variants []Variant) string {
	var sb strings.Builder
	for _, v := range variants {
		fmt.Fprintf(&sb, "%s\t%s\t0\t%d\t%s\t%s\n", v.Chromosome, v.Name, v.Position, v.Allele1, v.Allele2)
	}
	return sb.String()
}

func bedBytes(codes [][]byte) []byte {
	out := []byte{Magic[0], Magic[1], byte(ModeVariantMajor)}
	for _, c := range codes {
		out = append(out, packBlock(c)...)
	}
	return out
}

// testTrio is a small dataset of 5 samples and 3 variants. Five samples
// leave three padding pairs in the last byte of every block.
type testTrio struct {
	samples  []string
	variants []Variant
	codes    [][]byte
}

func newTestTrio() testTrio {
	return testTrio{
		samples: []string{"s1", "s2", "s3", "s4", "s5"},
		variants: []Variant{
			{Name: "rs1", Chromosome: "1", Position: 1000, Allele1: "A", Allele2: "G"},
			{Name: "rs2", Chromosome: "1", Position: 2000, Allele1: "C", Allele2: "T"},
			{Name: "rs3", Chromosome: "23", Position: 500, Allele1: "A", Allele2: "T"},
		},
		codes: [][]byte{
			{0, 1, 2, 3, 0},
			{0, 0, 0, 0, 0},
			{1, 1, 1, 1, 1},
		},
	}
}

// dosages is the decoded form of tt.codes.
func (tt testTrio) dosages() [][]float64 {
	out := make([][]float64, len(tt.codes))
	for i, c := range tt.codes {
		out[i] = make([]float64, len(c))
		for j, code := range c {
			out[i][j] = codeDosage[code]
		}
	}
	return out
}

// write stores the trio under dir and returns the path prefix.
func (tt testTrio) write(t *testing.T, dir string) string {
	t.Helper()

	prefix := filepath.Join(dir, "cohort")
	require.NoError(t, os.WriteFile(prefix+".fam", []byte(famText(tt.samples)), 0644))
	require.NoError(t, os.WriteFile(prefix+".bim", []byte(bimText(tt.variants)), 0644))
	require.NoError(t, os.WriteFile(prefix+".bed", bedBytes(tt.codes), 0644))

	return prefix
}
