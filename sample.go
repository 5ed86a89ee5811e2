package plink

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/carbocation/pfx"
)

// Map columns in the .fam file to their positions
const (
	famFamilyID int = iota
	famSampleID
	famFatherID
	famMotherID
	famSex
	famPhenotype
)

// Sample is one line of a .fam file. Only SampleID is required; the other
// columns are kept when present.
type Sample struct {
	FamilyID  string
	SampleID  string
	FatherID  string
	MotherID  string
	Sex       string
	Phenotype string
}

// ReadSamplesFile parses the .fam file at path, which may be local,
// compressed, or a gs:// URL.
func ReadSamplesFile(path string) ([]Sample, error) {
	o := newOpener(context.Background())
	defer o.close()

	src, err := o.openText(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return ReadSamples(src, src.path)
}

// ReadSamples parses .fam formatted text from r. name identifies the input in
// errors. The order of the returned samples is the column order of every
// decoded genotype vector.
func ReadSamples(r io.Reader, name string) ([]Sample, error) {
	samples := make([]Sample, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++

		cols := strings.Fields(scanner.Text())
		if len(cols) < famSampleID+1 {
			return nil, &MalformedFileError{
				File:   name,
				Line:   line,
				Reason: "expected at least family and sample ID columns",
			}
		}

		sample := Sample{
			FamilyID: cols[famFamilyID],
			SampleID: cols[famSampleID],
		}
		if len(cols) > famPhenotype {
			sample.FatherID = cols[famFatherID]
			sample.MotherID = cols[famMotherID]
			sample.Sex = cols[famSex]
			sample.Phenotype = cols[famPhenotype]
		}

		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, &MalformedFileError{File: name, Line: line + 1, Reason: "read failed", Err: pfx.Err(err)}
	}

	if len(samples) == 0 {
		return nil, &MalformedFileError{File: name, Reason: "file contains no samples"}
	}

	return samples, nil
}
