package plink

import (
	"bytes"
	"io"
	"testing"
)

func TestCodeReader(t *testing.T) {
	// 0b11100100 holds the codes 00, 01, 10, 11 from the lowest pair up.
	data := []byte{0xE4, 0x1B}
	expected := []byte{0, 1, 2, 3, 3, 2, 1, 0}

	cr := newCodeReader(bytes.NewBuffer(data))
	for i, want := range expected {
		got, err := cr.ReadCode()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Code %d: got %d, expected %d", i, got, want)
		}
	}

	if _, err := cr.ReadCode(); err != io.EOF {
		t.Errorf("Got %v after the last byte, expected io.EOF", err)
	}
}
