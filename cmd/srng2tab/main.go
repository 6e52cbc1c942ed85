// Command srng2tab compiles a RELAX NG simple-syntax schema into the
// NameMap/States lookup tables described in spec §6.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/client9/srng2tab/automaton"
	"github.com/client9/srng2tab/pattern"
	"github.com/client9/srng2tab/schema"
	"github.com/client9/srng2tab/srngerr"
)

func main() {
	var (
		srngPath = flag.String("srng", "", "path to the RELAX NG simple-syntax schema (required)")
		outPath  = flag.String("out", "", "path to write the compiled JSON tables (required)")
		pretty   = flag.Bool("pretty", false, "emit indented JSON instead of compact JSON")
		stats    = flag.Bool("stats", false, "log pattern/state/NameMap counts after compiling")
	)
	flag.Parse()

	if *srngPath == "" || *outPath == "" || flag.NArg() > 0 {
		showUsage()
		os.Exit(1)
	}

	if err := run(*srngPath, *outPath, *pretty, *stats); err != nil {
		fmt.Fprintf(os.Stderr, "srng2tab: %v\n", err)
		os.Exit(1)
	}
}

func run(srngPath, outPath string, pretty, stats bool) error {
	start := time.Now()

	pc := pattern.NewContext()
	sch, err := schema.LoadFile(srngPath, pc)
	if err != nil {
		return err
	}

	tbl, err := automaton.BuildTables(pc, sch.Defines)
	if err != nil {
		return err
	}

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(tbl, "", "  ")
	} else {
		out, err = json.Marshal(tbl)
	}
	if err != nil {
		return srngerr.Wrap(srngerr.IOError, err, "marshaling output tables")
	}

	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return srngerr.Wrap(srngerr.IOError, err, "writing output file "+outPath)
	}

	elapsed := time.Since(start)
	log.Printf("compiled %s -> %s in %g ms", srngPath, outPath, 1000.0*float64(elapsed)/1.0e9)

	if stats {
		nonEmptyNames := 0
		for _, byLocal := range tbl.NameMap {
			nonEmptyNames += len(byLocal)
		}
		log.Printf("stats: %d patterns interned, %d states, %d (namespace,localname) pairs", pc.Len(), len(tbl.States)-1, nonEmptyNames)
	}

	return nil
}

func showUsage() {
	fmt.Fprint(os.Stderr, `srng2tab - compile a RELAX NG simple-syntax schema into lookup tables

Usage:
  srng2tab --srng=<path> --out=<path> [--pretty] [--stats]

Flags:
  -srng string   path to the input schema (required)
  -out string    path to write the compiled JSON tables (required)
  -pretty        emit indented JSON
  -stats         log compile statistics
`)
}
