// Extract the global plan and the filtered odometry path from a bag
// to csv files.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/a-zadorozhnaia/ROS-test-project/bag"
	"github.com/a-zadorozhnaia/ROS-test-project/catalog"
	"github.com/a-zadorozhnaia/ROS-test-project/trajectory"
)

// Parse args, list the topics on stdout and write the csv files.
// Returns the exit status.
func run(args []string, stdout io.Writer) int {
	progName := filepath.Base(os.Args[0])
	cfg := trajectory.DefaultConfig()
	flags := flag.NewFlagSet(progName, flag.ContinueOnError)
	bagPath := flags.String("bag", cfg.Bag, "bag file to read")
	types := flags.Bool("types", false, "also list message types")
	catalogPath := flags.String("catalog", "", "write a sqlite3 catalog of the run here")
	verbose := flags.Bool("verbose", false, "verbosity on")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg.Bag = *bagPath
	cfg.PrintTypes = *types
	cfg.Verbose = *verbose

	b, err := bag.Open(cfg.Bag)
	if err != nil {
		fmt.Fprintln(stdout, "Bag file not opened")
		log.Printf("%s: %v", progName, err)
		return 1
	}
	defer b.Close()

	runID := catalog.NewRunID()
	if cfg.Verbose {
		log.Printf("%s: run %s, bag %s", progName, runID, cfg.Bag)
	}

	report, err := trajectory.Run(cfg, b, stdout, nil)
	if err != nil {
		log.Printf("%s: %v", progName, err)
		return 1
	}

	if len(*catalogPath) != 0 {
		conns, err := b.Connections()
		if err != nil {
			log.Printf("%s: %v", progName, err)
			return 1
		}
		rec := catalog.NewRun(runID, catalog.MachineID(progName), cfg, conns, report)
		if err := catalog.Write(*catalogPath, rec); err != nil {
			log.Printf("%s: catalog %s: %v", progName, *catalogPath, err)
			return 1
		}
		if cfg.Verbose {
			log.Printf("%s: catalog %s", progName, *catalogPath)
		}
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}
