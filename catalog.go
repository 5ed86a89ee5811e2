package plink

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/genomisc"
	"github.com/carbocation/pfx"
)

// bimColumns maps the fields of a .bim line to their positions. Six column
// files follow genomisc's layout; five column files omit the genetic
// distance.
type bimColumns struct {
	chromosome, variantID, coordinate, allele1, allele2 int
}

var (
	bimSixColumns = bimColumns{
		chromosome: genomisc.Chromosome,
		variantID:  genomisc.VariantID,
		coordinate: genomisc.Coordinate,
		allele1:    genomisc.Allele1,
		allele2:    genomisc.Allele2,
	}
	bimFiveColumns = bimColumns{
		chromosome: genomisc.Chromosome,
		variantID:  genomisc.VariantID,
		coordinate: genomisc.Coordinate - 1,
		allele1:    genomisc.Allele1 - 1,
		allele2:    genomisc.Allele2 - 1,
	}
)

// ReadCatalogFile parses the .bim file at path, which may be local,
// compressed, or a gs:// URL.
func ReadCatalogFile(path string) ([]Variant, error) {
	o := newOpener(context.Background())
	defer o.close()

	src, err := o.openText(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return ReadCatalog(src, src.path)
}

// ReadCatalog parses .bim formatted text from r into variants in file order.
// name identifies the input in errors.
func ReadCatalog(r io.Reader, name string) ([]Variant, error) {
	variants := make([]Variant, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++

		v, err := parseBIMLine(scanner.Text())
		if err != nil {
			err.File = name
			err.Line = line
			return nil, err
		}

		variants = append(variants, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, &MalformedFileError{File: name, Line: line + 1, Reason: "read failed", Err: pfx.Err(err)}
	}

	if len(variants) == 0 {
		return nil, &MalformedFileError{File: name, Reason: "file contains no variants"}
	}

	return variants, nil
}

func parseBIMLine(text string) (Variant, *MalformedFileError) {
	cols := strings.Fields(text)

	var idx bimColumns
	switch {
	case len(cols) >= genomisc.Allele2+1:
		idx = bimSixColumns
	case len(cols) == genomisc.Allele2:
		idx = bimFiveColumns
	default:
		return Variant{}, &MalformedFileError{Reason: "expected 6 columns (or 5 without genetic distance), found " + strconv.Itoa(len(cols))}
	}

	coord64, err := strconv.ParseUint(cols[idx.coordinate], 10, 32)
	if err != nil {
		return Variant{}, &MalformedFileError{Reason: "position " + strconv.Quote(cols[idx.coordinate]) + " is not a non-negative integer", Err: err}
	}

	return Variant{
		Name:       cols[idx.variantID],
		Chromosome: cols[idx.chromosome],
		Position:   uint32(coord64),
		Allele1:    Allele(cols[idx.allele1]),
		Allele2:    Allele(cols[idx.allele2]),
	}, nil
}
