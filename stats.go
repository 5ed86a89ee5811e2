package plink

import (
	"fmt"
	"math"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// HWE computes the Hardy-Weinberg equilibrium chi-square P-value (1 degree
// of freedom) over the non-missing calls of a biallelic site. Monomorphic
// sites return 1; a site with no calls returns NaN.
func (g *Genotypes) HWE() (float64, error) {
	c, err := g.Counts()
	if err != nil {
		return math.NaN(), err
	}

	return hweChiSquare(c), nil
}

func hweChiSquare(c GenotypeCounts) float64 {
	n := float64(c.NonMissing())
	if n == 0 {
		return math.NaN()
	}

	p := (2*float64(c.Homozygous1) + float64(c.Heterozygous)) / (2 * n)
	q := 1 - p
	if p == 0 || q == 0 {
		return 1
	}

	observed := [3]float64{float64(c.Homozygous1), float64(c.Heterozygous), float64(c.Homozygous2)}
	expected := [3]float64{n * p * p, 2 * n * p * q, n * q * q}

	var chiSq float64
	for i := range observed {
		d := observed[i] - expected[i]
		chiSq += d * d / expected[i]
	}

	return distuv.ChiSquared{K: 1}.Survival(chiSq)
}

// LD computes the squared Pearson correlation (r²) between the dosages of
// two variants, using only samples called at both. It returns NaN when fewer
// than two samples are shared or either variant is constant among them.
func LD(a, b *Genotypes) (float64, error) {
	x, err := a.Dosages()
	if err != nil {
		return math.NaN(), err
	}
	y, err := b.Dosages()
	if err != nil {
		return math.NaN(), err
	}
	if len(x) != len(y) {
		return math.NaN(), pfx.Err(fmt.Errorf("%s has %d samples but %s has %d", a.Variant.Name, len(x), b.Variant.Name, len(y)))
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN(), nil
	}

	r := stat.Correlation(xs, ys, nil)
	return r * r, nil
}
