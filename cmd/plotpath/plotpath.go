// Plot the odometry path csv written by bag2csv, colored from start to
// finish.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/a-zadorozhnaia/ROS-test-project/trajectory"
)

// Returns the exit status.
func run(args []string) int {
	progName := filepath.Base(os.Args[0])
	flags := flag.NewFlagSet(progName, flag.ContinueOnError)
	csvPath := flags.String("csv", trajectory.DefaultConfig().OdomCSV, "odometry path csv")
	out := flags.String("out", "path.png", "output image, format by extension")
	title := flags.String("title", "Odometry path", "plot title")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	points, err := trajectory.ReadCSV(*csvPath)
	if err != nil {
		log.Printf("%s: %v", progName, err)
		return 1
	}
	if err := trajectory.SavePlot(*out, points, *title); err != nil {
		log.Printf("%s: %s: %v", progName, *out, err)
		return 1
	}
	log.Printf("%s: %d points to %s", progName, len(points), *out)
	return 0
}

func main() {
	os.Exit(run(os.Args[1:]))
}
