package plink

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVariant = Variant{Name: "rs1", Chromosome: "1", Position: 100, Allele1: "A", Allele2: "G"}

func TestMAF(t *testing.T) {
	nan := math.NaN()

	cases := map[string]struct {
		dosages []float64
		want    float64
	}{
		"all homozygous 1": {[]float64{0, 0, 0, 0}, 0},
		"balanced":         {[]float64{0, 2}, 0.5},
		"all homozygous 2": {[]float64{2, 2, 2}, 0},
		"minor is allele2": {[]float64{0, 0, 1, 0}, 0.125},
		"minor is allele1": {[]float64{2, 2, 1, 2}, 0.125},
		"missing ignored":  {[]float64{nan, 0, nan, 2}, 0.5},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			maf, err := NewGenotypes(testVariant, c.dosages).MAF()
			require.NoError(t, err)
			assert.InDelta(t, c.want, maf, 1e-12)
		})
	}

	maf, err := NewGenotypes(testVariant, []float64{nan, nan}).MAF()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(maf))
}

func TestReleaseTwice(t *testing.T) {
	g := NewGenotypes(testVariant, []float64{0, 1, 2})

	require.NoError(t, g.Release())
	err := g.Release()
	assert.True(t, errors.Is(err, ErrUseAfterRelease))

	_, err = g.Dosages()
	assert.True(t, errors.Is(err, ErrUseAfterRelease))
	_, err = g.MAF()
	assert.True(t, errors.Is(err, ErrUseAfterRelease))

	assert.Equal(t, 3, g.Len())
	assert.Contains(t, g.String(), "released")
}

func TestMAFCachedAcrossRelease(t *testing.T) {
	g := NewGenotypes(testVariant, []float64{0, 2})

	maf, err := g.MAF()
	require.NoError(t, err)
	require.NoError(t, g.Release())

	cached, err := g.MAF()
	require.NoError(t, err)
	assert.Equal(t, maf, cached)
}

func TestDetach(t *testing.T) {
	g := NewGenotypes(testVariant, []float64{0, 1, 2})

	v, err := g.Detach()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, v)

	assert.True(t, errors.Is(g.Release(), ErrUseAfterRelease))
	_, err = g.Detach()
	assert.True(t, errors.Is(err, ErrUseAfterRelease))

	// The detached vector stays usable after the record is gone.
	assert.Equal(t, 1.0, v[1])
}

func TestReleasedVectorsAreReused(t *testing.T) {
	prefix := newTestTrio().write(t, t.TempDir())

	p, err := Open(prefix)
	require.NoError(t, err)
	defer p.Close()

	first := p.Read()
	require.NotNil(t, first)
	kept, err := first.Detach()
	require.NoError(t, err)
	keptCopy := append([]float64(nil), kept...)

	for g := p.Read(); g != nil; g = p.Read() {
		require.NoError(t, g.Release())
	}
	require.NoError(t, p.Error())

	// Later blocks never overwrite a detached vector.
	require.Len(t, kept, len(keptCopy))
	for i := range kept {
		if math.IsNaN(keptCopy[i]) {
			assert.True(t, math.IsNaN(kept[i]))
		} else {
			assert.Equal(t, keptCopy[i], kept[i])
		}
	}
}

func TestGenotypeCountsAndMissingRate(t *testing.T) {
	g := NewGenotypes(testVariant, []float64{0, math.NaN(), 1, 2, 2})

	c, err := g.Counts()
	require.NoError(t, err)
	assert.Equal(t, GenotypeCounts{Homozygous1: 1, Heterozygous: 1, Homozygous2: 2, Missing: 1}, c)

	miss, err := g.MissingRate()
	require.NoError(t, err)
	assert.InDelta(t, 0.2, miss, 1e-12)
}

func TestGenotypesString(t *testing.T) {
	g := NewGenotypes(testVariant, []float64{0, 2})
	assert.Equal(t, "rs1 1:100 A/G n=2 maf=0.5000", g.String())
}
