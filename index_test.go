package plink

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRoundTrip(t *testing.T) {
	tt := newTestTrio()
	dir := t.TempDir()
	prefix := tt.write(t, dir)

	p, err := Open(prefix)
	require.NoError(t, err)
	defer p.Close()

	idxPath := filepath.Join(dir, "cohort.bimidx")
	built, err := BuildIndex(p, idxPath)
	require.NoError(t, err)
	require.NoError(t, built.Close())

	idx, err := OpenIndex(idxPath)
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, prefix+".bed", idx.Metadata.Filename)
	assert.Equal(t, uint(HeaderSize+3*2), idx.Metadata.FileSize)
	assert.Len(t, idx.Metadata.BimDigest, 64)

	ok, err := idx.Matches(p)
	require.NoError(t, err)
	assert.True(t, ok)

	vi, err := idx.Lookup(Variant{Chromosome: "chr1", Position: 2000, Allele1: "A", Allele2: "G"})
	require.NoError(t, err)
	assert.Equal(t, 1, vi.VariantIndex)
	assert.Equal(t, "rs2", vi.RSID)
	assert.Equal(t, uint(HeaderSize+2), vi.FileStartPosition)
	assert.Equal(t, uint(2), vi.SizeInBytes)

	// Chromosome 23 is stored as X.
	rows, err := idx.Region("X", 0, 1000)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "X", rows[0].Chromosome)
	assert.Equal(t, Allele("T"), rows[0].Allele2)

	_, err = idx.Lookup(Variant{Chromosome: "1", Position: 2000, Allele1: "A", Allele2: "C"})
	assert.True(t, errors.Is(err, ErrVariantNotFound))
}

func TestReadVariantAndRegion(t *testing.T) {
	tt := newTestTrio()
	dir := t.TempDir()
	prefix := tt.write(t, dir)

	p, err := Open(prefix)
	require.NoError(t, err)
	defer p.Close()

	idx, err := BuildIndex(p, filepath.Join(dir, "cohort.bimidx"))
	require.NoError(t, err)
	defer idx.Close()

	g, err := p.ReadVariant(idx, tt.variants[0])
	require.NoError(t, err)
	assert.Equal(t, "rs1", g.Variant.Name)
	maf, err := g.MAF()
	require.NoError(t, err)
	assert.InDelta(t, 3.0/8.0, maf, 1e-12)
	require.NoError(t, g.Release())

	region, err := p.ReadRegion(idx, "1", 1, 5000)
	require.NoError(t, err)
	require.Len(t, region, 2)
	assert.Equal(t, "rs1", region[0].Variant.Name)
	assert.Equal(t, "rs2", region[1].Variant.Name)
	for _, g := range region {
		require.NoError(t, g.Release())
	}

	// Random access leaves the stream cursor at the start.
	assert.Equal(t, 0, p.VariantsSeen)
}

func TestIndexDetectsChangedBim(t *testing.T) {
	tt := newTestTrio()
	dir := t.TempDir()
	prefix := tt.write(t, dir)

	p, err := Open(prefix)
	require.NoError(t, err)
	idx, err := BuildIndex(p, filepath.Join(dir, "cohort.bimidx"))
	require.NoError(t, err)
	defer idx.Close()
	p.Close()

	tt.variants[0].Name = "renamed"
	require.NoError(t, os.WriteFile(prefix+".bim", []byte(bimText(tt.variants)), 0644))

	p2, err := Open(prefix)
	require.NoError(t, err)
	defer p2.Close()

	ok, err := idx.Matches(p2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenIndexRejectsOtherDatabases(t *testing.T) {
	_, err := OpenIndex(filepath.Join(t.TempDir(), "empty.db"))
	assert.Error(t, err)
}
