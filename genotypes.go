package plink

import (
	"fmt"
	"math"
	"sync"
)

// Genotypes is one decoded variant: the variant identity plus one Allele2
// dosage per sample, with NaN marking a missing call.
//
// The dosage vector is a resource separate from the Genotypes value. It is
// handed back with Release (or taken over by the caller with Detach), after
// which reading it is an error. Values that were cached before the release,
// such as the MAF, stay available.
type Genotypes struct {
	Variant Variant

	mu        sync.Mutex
	dosages   []float64
	n         int
	released  bool
	maf       float64
	mafCached bool

	// pool receives the vector on Release. It is nil for vectors that were
	// not produced by a reader.
	pool *vectorPool
}

// NewGenotypes wraps a caller-owned dosage vector. The Genotypes takes
// ownership of dosages.
func NewGenotypes(v Variant, dosages []float64) *Genotypes {
	return &Genotypes{
		Variant: v,
		dosages: dosages,
		n:       len(dosages),
	}
}

// Dosages returns the dosage vector. The slice is owned by g and must not be
// used after g is released.
func (g *Genotypes) Dosages() ([]float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.released {
		return nil, ErrUseAfterRelease
	}
	return g.dosages, nil
}

// Len is the number of samples. It remains valid after release.
func (g *Genotypes) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.n
}

// MAF returns the minor allele frequency over non-missing calls, or NaN when
// every call is missing. It is computed once and cached.
func (g *Genotypes) MAF() (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.mafCached {
		return g.maf, nil
	}
	if g.released {
		return math.NaN(), ErrUseAfterRelease
	}

	g.maf = minorAlleleFrequency(g.dosages)
	g.mafCached = true

	return g.maf, nil
}

// Release hands the dosage vector back. Releasing twice, or releasing after
// Detach, returns ErrUseAfterRelease.
func (g *Genotypes) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.released {
		return ErrUseAfterRelease
	}

	g.released = true
	if g.pool != nil {
		g.pool.put(g.dosages)
	}
	g.dosages = nil

	return nil
}

// Detach transfers ownership of the dosage vector to the caller. g behaves
// as released afterwards, and the vector is never reused by the reader.
func (g *Genotypes) Detach() ([]float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.released {
		return nil, ErrUseAfterRelease
	}

	g.released = true
	dosages := g.dosages
	g.dosages = nil

	return dosages, nil
}

// Counts tallies the calls by genotype.
func (g *Genotypes) Counts() (GenotypeCounts, error) {
	dosages, err := g.Dosages()
	if err != nil {
		return GenotypeCounts{}, err
	}

	var c GenotypeCounts
	for _, d := range dosages {
		switch {
		case math.IsNaN(d):
			c.Missing++
		case d == 0:
			c.Homozygous1++
		case d == 1:
			c.Heterozygous++
		default:
			c.Homozygous2++
		}
	}

	return c, nil
}

// MissingRate is the fraction of samples without a call.
func (g *Genotypes) MissingRate() (float64, error) {
	c, err := g.Counts()
	if err != nil {
		return math.NaN(), err
	}
	n := c.NonMissing() + c.Missing
	if n == 0 {
		return math.NaN(), nil
	}

	return float64(c.Missing) / float64(n), nil
}

func (g *Genotypes) String() string {
	maf, err := g.MAF()
	if err != nil {
		return fmt.Sprintf("%s n=%d (released)", g.Variant, g.Len())
	}

	return fmt.Sprintf("%s n=%d maf=%.4f", g.Variant, g.Len(), maf)
}

func minorAlleleFrequency(dosages []float64) float64 {
	var sum float64
	var n int
	for _, d := range dosages {
		if math.IsNaN(d) {
			continue
		}
		sum += d
		n++
	}
	if n == 0 {
		return math.NaN()
	}

	p := sum / (2 * float64(n))
	return math.Min(p, 1-p)
}

// vectorPool recycles released dosage vectors of a fixed length so that a
// reader allocates roughly one vector per record held at a time, rather than
// one per variant.
type vectorPool struct {
	size int
	pool sync.Pool
}

func newVectorPool(size int) *vectorPool {
	p := &vectorPool{size: size}
	p.pool.New = func() interface{} {
		v := make([]float64, size)
		return &v
	}
	return p
}

func (p *vectorPool) get() []float64 {
	return *(p.pool.Get().(*[]float64))
}

func (p *vectorPool) put(v []float64) {
	if cap(v) < p.size {
		return
	}
	v = v[:p.size]
	p.pool.Put(&v)
}
