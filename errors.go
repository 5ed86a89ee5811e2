package plink

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound indicates that one of the trio files is missing or
	// unreadable.
	ErrFileNotFound = errors.New("plink: file not found")

	// ErrMalformedFile indicates that a line of a text file could not be
	// parsed into the expected fields.
	ErrMalformedFile = errors.New("plink: malformed file")

	// ErrFormatMismatch indicates an unsupported .bed header or a
	// disagreement between the sample and variant counts of the trio.
	ErrFormatMismatch = errors.New("plink: format mismatch")

	// ErrTruncatedStream indicates that the .bed stream ended before the
	// catalog was exhausted.
	ErrTruncatedStream = errors.New("plink: truncated stream")

	// ErrUseAfterRelease indicates access to a genotype vector that has
	// already been released or detached.
	ErrUseAfterRelease = errors.New("plink: use after release")
)

type FileNotFoundError struct {
	File string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("plink: cannot open %s: %v", e.File, e.Err)
}

func (e *FileNotFoundError) Is(target error) bool { return target == ErrFileNotFound }
func (e *FileNotFoundError) Unwrap() error { return e.Err }

// MalformedFileError reports the 1-based line of a .fam or .bim file that
// failed to parse. Line is 0 when the file as a whole is unusable (e.g. empty).
type MalformedFileError struct {
	File   string
	Line   int
	Reason string
	Err    error
}

func (e *MalformedFileError) Error() string {
	msg := fmt.Sprintf("plink: %s", e.File)
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *MalformedFileError) Is(target error) bool { return target == ErrMalformedFile }
func (e *MalformedFileError) Unwrap() error { return e.Err }

type FormatMismatchError struct {
	File   string
	Offset int64
	Reason string
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("plink: %s at byte %d: %s", e.File, e.Offset, e.Reason)
}

func (e *FormatMismatchError) Is(target error) bool { return target == ErrFormatMismatch }

// TruncatedStreamError reports where a block read came up short. Variant is
// the 0-based catalog index of the block being read.
type TruncatedStreamError struct {
	File    string
	Offset  int64
	Variant int
	Want    int
	Got     int
	Err     error
}

func (e *TruncatedStreamError) Error() string {
	return fmt.Sprintf("plink: %s truncated at byte %d (variant %d): wanted %d bytes, got %d", e.File, e.Offset, e.Variant, e.Want, e.Got)
}

func (e *TruncatedStreamError) Is(target error) bool { return target == ErrTruncatedStream }
func (e *TruncatedStreamError) Unwrap() error { return e.Err }
