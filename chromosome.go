package plink

import "strings"

// Chromosome takes a chromosome code as written in a .bim file and returns
// its standard string translation. PLINK writes the sex chromosomes and the
// mitochondrion as the numeric codes 23 through 26; a leading "chr" is
// dropped and leading zeros on autosomes are removed, so that "chr01", "01"
// and "1" all resolve to "1".
func Chromosome(code string) string {
	chromosome := strings.TrimPrefix(strings.TrimPrefix(code, "chr"), "CHR")

	switch strings.ToUpper(chromosome) {
	case "23", "X":
		return "X"
	case "24", "Y":
		return "Y"
	case "25", "XY":
		return "XY"
	case "26", "M", "MT":
		return "MT"
	case "0", "":
		return "NA"
	}

	trimmed := strings.TrimLeft(chromosome, "0")
	if trimmed == "" {
		return "NA"
	}

	return trimmed
}
