package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/carbocation/pfx"
	"github.com/carbocation/plink"
)

func main() {
	prefix := flag.String("prefix", "", "Path prefix of the .bed/.bim/.fam trio to process")
	flag.Parse()

	if *prefix == "" {
		flag.PrintDefaults()
		log.Fatalln("No prefix given")
	}

	if strings.HasPrefix(*prefix, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		*prefix = filepath.Join(usr.HomeDir, (*prefix)[2:])
	}

	// The catalog tells us how many variants there are to hand out.
	p, err := plink.Open(*prefix)
	if err != nil {
		log.Fatalln(err)
	}
	nVariants := p.NVariants()
	p.Close()

	// Prep the readers
	work := make(chan int)
	output := make(chan AlleleCounter)
	confirmDone := make(chan struct{})

	go func() {
		accumulator := AlleleCounter{}
		for o := range output {
			accumulator.A += o.A
			accumulator.C += o.C
			accumulator.T += o.T
			accumulator.G += o.G
		}
		log.Println("Final accumulated stats")
		log.Printf("%+v\n", accumulator)
		close(confirmDone)
	}()

	// Prep the Workers:
	log.Println("Launching", runtime.NumCPU(), "workers")
	var wg sync.WaitGroup
	for i := 0; i < runtime.NumCPU(); i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			Worker(workerID, *prefix, work, output)
		}(i)
	}

	for i := 0; i < nVariants; i++ {
		if i%1000 == 0 {
			log.Println("Processed", i, "variants")
		}
		work <- i
	}
	close(work)
	wg.Wait()
	close(output)
	<-confirmDone
}

type AlleleCounter struct {
	A, C, T, G float64
}

func (a *AlleleCounter) Add(which string, val float64) error {
	switch which {
	case "A":
		a.A += val
	case "C":
		a.C += val
	case "T":
		a.T += val
	case "G":
		a.G += val
	default:
		return pfx.Err(fmt.Errorf("%s is not recognized", which))
	}

	return nil
}

// Each worker has to maintain its own PLINK since it is not safe for
// concurrent reads
func Worker(workerID int, prefix string, work <-chan int, output chan<- AlleleCounter) {
	p, err := plink.Open(prefix)
	if err != nil {
		log.Fatalf("Worker %d exited: %v\n", workerID, err)
	}
	defer p.Close()

	for idx := range work {
		g, err := p.ReadAt(idx)
		if err != nil {
			log.Fatalln(err)
		}

		dosages, err := g.Dosages()
		if err != nil {
			log.Fatalln(err)
		}

		// Dosage counts copies of Allele2; the remainder of the two copies
		// are Allele1.
		var a1, a2 float64
		for _, d := range dosages {
			if math.IsNaN(d) {
				continue
			}
			a1 += 2 - d
			a2 += d
		}

		ac := AlleleCounter{}
		// Indels and missing allele codes are not tallied.
		_ = ac.Add(g.Variant.Allele1.String(), a1)
		_ = ac.Add(g.Variant.Allele2.String(), a2)

		if err := g.Release(); err != nil {
			log.Fatalln(err)
		}

		output <- ac
	}
}
