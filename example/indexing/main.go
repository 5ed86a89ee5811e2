package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/plink"
)

func main() {
	prefix := flag.String("prefix", "", "Path prefix of the .bed/.bim/.fam trio to process")
	idxPath := flag.String("idx", "", "Filename of the index to use or create (default: prefix.bimidx)")
	chrom := flag.String("chr", "", "Chromosome of the region to read")
	start := flag.Uint("start", 0, "First position of the region to read")
	end := flag.Uint("end", 0, "Last position of the region to read")
	flag.Parse()

	if *prefix == "" {
		flag.PrintDefaults()
		log.Fatalln("No prefix given")
	}

	*prefix = expandHome(*prefix)

	if *idxPath == "" {
		*idxPath = *prefix + ".bimidx"
	}
	*idxPath = expandHome(*idxPath)

	log.Println("Opening trio:", *prefix)
	p, err := plink.Open(*prefix)
	if err != nil {
		log.Fatalln(err)
	}
	defer p.Close()

	idx, err := openOrBuild(p, *idxPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer idx.Close()

	log.Printf("Index metadata: %+v (driver %s)\n", idx.Metadata, plink.WhichSQLiteDriver())

	if *chrom == "" {
		return
	}

	region, err := p.ReadRegion(idx, *chrom, uint32(*start), uint32(*end))
	if err != nil {
		log.Fatalln(err)
	}

	for i, g := range region {
		fmt.Printf("%d) %s\n", i, g)
		if err := g.Release(); err != nil {
			log.Fatalln(err)
		}
	}

	log.Println("Saw", len(region), "variants in", fmt.Sprintf("%s:%d-%d", *chrom, *start, *end))
}

// openOrBuild reuses the index at path when it was built from the same .bim
// and rebuilds it otherwise.
func openOrBuild(p *plink.PLINK, path string) (*plink.Index, error) {
	if _, err := os.Stat(path); err == nil {
		idx, err := plink.OpenIndex(path)
		if err == nil {
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
		} else {
			log.Println("Could not read index", path, "; rebuilding:", err)
		}
	}

	log.Println("Building index:", path)
	return plink.BuildIndex(p, path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	return filepath.Join(usr.HomeDir, path[2:])
}
