package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tuannm99/novasort/internal/record"
	"github.com/tuannm99/novasort/internal/storage"
)

var regions = []string{
	"Auvergne-Rhône-Alpes", "Bretagne", "Grand Est", "Hauts-de-France",
	"Normandie", "Occitanie", "Provence-Alpes-Côte d'Azur",
}

// Writes a population table shaped like the INSEE commune files, for
// trying the sorter by hand:
//
//	go run ./cmd/manual_test/gendata -rows 100000 -out data/communes.csv
//	go run ./cmd/novasort -m 1000 data/communes.csv "REG;PTOT" "TXT;NUM"
func main() {
	rows := flag.Int("rows", 10000, "number of data rows")
	out := flag.String("out", filepath.Join("data", "communes.csv"), "output file")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), storage.FileMode0755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create: %v", err)
	}

	w := record.NewWriter(f, record.DefaultDelimiter)
	if err := w.WriteHeader(record.Header{"CODREG", "REG", "CODCOM", "COM", "PMUN", "PCAP", "PTOT"}); err != nil {
		log.Fatalf("write header: %v", err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	for i := 0; i < *rows; i++ {
		reg := rng.IntN(len(regions))
		pmun := rng.IntN(50000)
		pcap := rng.IntN(500)
		rec := record.Record{
			strconv.Itoa(11 + reg*8),
			regions[reg],
			fmt.Sprintf("%03d", rng.IntN(1000)),
			fmt.Sprintf("Commune-%d", rng.IntN(*rows)),
			strconv.Itoa(pmun),
			strconv.Itoa(pcap),
			strconv.Itoa(pmun + pcap),
		}
		// some communes have no published population
		if rng.IntN(50) == 0 {
			rec[6] = ""
		}
		if err := w.Write(rec); err != nil {
			log.Fatalf("write: %v", err)
		}
	}

	if err := w.Flush(); err != nil {
		log.Fatalf("flush: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("close: %v", err)
	}
	fmt.Printf("wrote %d rows to %s\n", *rows, *out)
}
