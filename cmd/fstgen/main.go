// Command fstgen writes a synthetic dataset exercising every column type
// (CHARACTER, FACTOR, INT_32, DOUBLE_64, BOOL_32), mirroring the teacher's
// cmd/generator.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"fstcore/pkg/fstfile"
)

func main() {
	path := flag.String("out", "example_data.fst", "output file path")
	rows := flag.Int("rows", 100000, "number of rows to generate")
	compression := flag.Int("compression", 50, "compression level (0-100)")
	flag.Parse()

	fmt.Printf("Generating %d rows of data...\n", *rows)
	table := generateTable(*rows)

	fmt.Printf("Saving to %q...\n", *path)
	if err := fstfile.Open(*path).Write(table, fstfile.WriteOptions{CompressionLevel: *compression}); err != nil {
		log.Fatalf("write failed: %v", err)
	}

	fi, err := os.Stat(*path)
	if err != nil {
		log.Fatalf("stat failed: %v", err)
	}
	fmt.Printf("File generated successfully. Size: %.2f MB\n", float64(fi.Size())/1024.0/1024.0)
}

func generateTable(rows int) *fstfile.SimpleTable {
	ids := make([]int32, rows)
	values := make([]float64, rows)
	active := make([]int32, rows)
	hosts := make([]string, rows)
	hostsValid := make([]bool, rows)
	codes := make([]int32, rows)
	levels := []string{"INFO", "WARN", "ERROR", "DEBUG"}
	hostNames := []string{"192.168.1.1", "10.0.0.1", "localhost", "db-server", "app-node-01"}

	for i := 0; i < rows; i++ {
		ids[i] = int32(i)

		if i%37 == 0 {
			values[i] = fstfile.NADouble()
		} else {
			values[i] = rand.Float64() * 10000
		}

		switch rand.Intn(3) {
		case 0:
			active[i] = fstfile.BoolTrue
		case 1:
			active[i] = fstfile.BoolFalse
		default:
			active[i] = fstfile.NAInt32
		}

		if i%53 == 0 {
			hostsValid[i] = false
		} else {
			hosts[i] = hostNames[rand.Intn(len(hostNames))]
			hostsValid[i] = true
		}

		codes[i] = int32(rand.Intn(len(levels)) + 1)
	}

	return &fstfile.SimpleTable{
		Rows: rows,
		Cols: []fstfile.Column{
			fstfile.NewIntColumn("id", ids),
			fstfile.NewDoubleColumn("value", values),
			fstfile.NewBoolColumn("active", active),
			fstfile.NewStringColumn("host", hosts, hostsValid),
			fstfile.NewFactorColumn("log_level", codes, levels),
		},
		KeyColPos: []int{0},
	}
}
