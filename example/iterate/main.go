package main

import (
	"flag"
	"fmt"
	"log"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/plink"
)

func main() {
	prefix := flag.String("prefix", "example", "Path prefix of the .bed/.bim/.fam trio to process")
	limit := flag.Int("n", 10, "Number of variants to print (0 prints all)")
	complement := flag.Bool("complement", false, "Print variants with complemented alleles")
	flag.Parse()

	if strings.HasPrefix(*prefix, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		*prefix = filepath.Join(usr.HomeDir, (*prefix)[2:])
	}

	p, err := plink.Open(*prefix)
	if err != nil {
		log.Fatalln(err)
	}
	defer p.Close()

	log.Printf("Opened %s: %d samples, %d variants (%s)\n", p.Prefix, p.NSamples(), p.NVariants(), p.Mode)

	for i, sample := range p.Samples() {
		if i >= 10 {
			break
		}
		fmt.Println(i, sample.SampleID)
	}

	for i := 1; ; i++ {
		g := p.Read()
		if g == nil {
			break
		}

		if *limit == 0 || i <= *limit {
			if *complement {
				g.Variant.ComplementAlleles()
			}
			fmt.Println(i, g)
		}

		if err := g.Release(); err != nil {
			log.Fatalln(err)
		}
	}

	if p.Error() != nil {
		log.Fatalln("Read error:", p.Error())
	}

	log.Println("Iterated over", p.VariantsSeen, "variants")
}
