package main

import (
	"fmt"
	"log"
	"os"

	"github.com/carbocation/plink"
	"github.com/spf13/cobra"
)

var (
	prefix     string
	configPath string
	idxPath    string
	chrom      string
	start      uint32
	end        uint32
)

var rootCmd = &cobra.Command{
	Use:   "qc",
	Short: "Variant quality control over a PLINK .bed/.bim/.fam trio",
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Print the variants passing the MAF, missingness and HWE thresholds",
	Long: `Stream every variant of the trio and print those passing the thresholds
read from a TOML file, for example:

    maf_lb = 0.01
    geno_miss_ub = 0.05
    hwe_p_lb = 1e-6`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilter()
	},
}

var ldCmd = &cobra.Command{
	Use:   "ld",
	Short: "Print pairwise r² between the variants of a region",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLD()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", "", "path prefix of the .bed/.bim/.fam trio")
	rootCmd.MarkPersistentFlagRequired("prefix")

	filterCmd.Flags().StringVar(&configPath, "config", "qc.toml", "TOML file with filter thresholds")

	ldCmd.Flags().StringVar(&idxPath, "idx", "", "index file (default: prefix.bimidx, built if missing)")
	ldCmd.Flags().StringVar(&chrom, "chr", "", "chromosome of the region")
	ldCmd.Flags().Uint32Var(&start, "start", 0, "first position of the region")
	ldCmd.Flags().Uint32Var(&end, "end", 0, "last position of the region")
	ldCmd.MarkFlagRequired("chr")

	rootCmd.AddCommand(filterCmd, ldCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runFilter() error {
	params, err := plink.LoadFilterParams(configPath)
	if err != nil {
		return err
	}
	log.Printf("Filter thresholds: %+v\n", params)

	p, err := plink.Open(prefix)
	if err != nil {
		return err
	}
	defer p.Close()

	kept := 0
	for g := p.Read(); g != nil; g = p.Read() {
		keep, err := params.Keep(g)
		if err != nil {
			return err
		}
		if keep {
			fmt.Println(g)
			kept++
		}
		if err := g.Release(); err != nil {
			return err
		}
	}
	if err := p.Error(); err != nil {
		return err
	}

	log.Println("Kept", kept, "of", p.VariantsSeen, "variants")
	return nil
}

func runLD() error {
	p, err := plink.Open(prefix)
	if err != nil {
		return err
	}
	defer p.Close()

	if idxPath == "" {
		idxPath = prefix + ".bimidx"
	}

	idx, err := openOrBuild(p, idxPath)
	if err != nil {
		return err
	}
	defer idx.Close()

	region, err := p.ReadRegion(idx, chrom, start, end)
	if err != nil {
		return err
	}
	defer func() {
		for _, g := range region {
			g.Release()
		}
	}()

	for i := range region {
		for j := i + 1; j < len(region); j++ {
			r2, err := plink.LD(region[i], region[j])
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\t%.4f\n", region[i].Variant.Name, region[j].Variant.Name, r2)
		}
	}

	log.Println("Computed LD over", len(region), "variants")
	return nil
}

// openOrBuild reuses the index at path when it was built from the same .bim
// and rebuilds it otherwise.
func openOrBuild(p *plink.PLINK, path string) (*plink.Index, error) {
	if _, err := os.Stat(path); err == nil {
		idx, err := plink.OpenIndex(path)
		if err != nil {
			log.Println("Could not read index", path, "; rebuilding:", err)
			return plink.BuildIndex(p, path)
		}

		ok, err := idx.Matches(p)
		if err != nil {
			idx.Close()
			return nil, err
		}
		if ok {
			return idx, nil
		}
		idx.Close()
		log.Println("Index", path, "is stale; rebuilding")
	}

	log.Println("Building index:", path)
	return plink.BuildIndex(p, path)
}
