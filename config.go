package plink

import (
	"math"

	"github.com/BurntSushi/toml"
	"github.com/carbocation/pfx"
)

// FilterParams holds variant quality-control thresholds. A zero value
// disables the corresponding filter.
type FilterParams struct {
	MafLowerBound float64 `toml:"maf_lb"`
	GenoMissBound float64 `toml:"geno_miss_ub"`
	HweLowerBound float64 `toml:"hwe_p_lb"`
}

// LoadFilterParams decodes a TOML file such as
//
//	maf_lb = 0.01
//	geno_miss_ub = 0.05
//	hwe_p_lb = 1e-6
func LoadFilterParams(path string) (FilterParams, error) {
	var params FilterParams
	if _, err := toml.DecodeFile(path, &params); err != nil {
		return FilterParams{}, pfx.Err(err)
	}

	return params, nil
}

// Keep reports whether g passes every enabled filter. A variant with no
// calls never passes a MAF or HWE filter.
func (f FilterParams) Keep(g *Genotypes) (bool, error) {
	if f.GenoMissBound > 0 {
		miss, err := g.MissingRate()
		if err != nil {
			return false, err
		}
		if miss > f.GenoMissBound {
			return false, nil
		}
	}

	if f.MafLowerBound > 0 {
		maf, err := g.MAF()
		if err != nil {
			return false, err
		}
		if math.IsNaN(maf) || maf < f.MafLowerBound {
			return false, nil
		}
	}

	if f.HweLowerBound > 0 {
		p, err := g.HWE()
		if err != nil {
			return false, err
		}
		if math.IsNaN(p) || p < f.HweLowerBound {
			return false, nil
		}
	}

	return true, nil
}
