package trajectory

import (
	"fmt"
	"io"
	"log"
)

// Config names the input bag, the topics to extract and the output files.
type Config struct {
	Bag       string
	PlanTopic string
	OdomTopic string
	PlanCSV   string
	OdomCSV   string
	// Also list the message types on the console.
	PrintTypes bool
	Verbose    bool
}

func DefaultConfig() Config {
	return Config{
		Bag:       "../test.bag",
		PlanTopic: "/move_base/LinearPlanner/global_plan",
		OdomTopic: "/odometry/filtered_odom",
		PlanCSV:   "../plan_path.csv",
		OdomCSV:   "../path.csv",
	}
}

// Report summarizes one run.
type Report struct {
	Catalog *Catalog
	Plan    *Extraction
	Odom    *Extraction
}

// Run lists the topics of l on console, then writes the plan and odometry
// csv files. A nil create writes to the file system.
func Run(cfg Config, l Log, console io.Writer, create CreateFunc) (*Report, error) {
	if create == nil {
		create = createFile
	}

	catalog, err := Discover(l)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	if err := printCatalog(console, catalog, cfg.PrintTypes); err != nil {
		return nil, err
	}

	plan, err := ExtractPlan(l, cfg.PlanTopic)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", cfg.PlanTopic, err)
	}
	if err := writeCSV(create, cfg.PlanCSV, CSVHeader, plan.Points); err != nil {
		return nil, fmt.Errorf("write %s: %w", cfg.PlanCSV, err)
	}
	if cfg.Verbose {
		logExtraction(plan, cfg.PlanCSV)
	}

	odom, err := ExtractOdometry(l, cfg.OdomTopic)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", cfg.OdomTopic, err)
	}
	if err := writeCSV(create, cfg.OdomCSV, CSVHeader, odom.Points); err != nil {
		return nil, fmt.Errorf("write %s: %w", cfg.OdomCSV, err)
	}
	if cfg.Verbose {
		logExtraction(odom, cfg.OdomCSV)
	}

	return &Report{Catalog: catalog, Plan: plan, Odom: odom}, nil
}

func printCatalog(w io.Writer, c *Catalog, types bool) error {
	lines := append([]string{"Topics:"}, c.SortedTopics()...)
	if types {
		lines = append(lines, "", "Types:")
		lines = append(lines, c.SortedTypes()...)
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func logExtraction(e *Extraction, path string) {
	log.Printf("%s: %d records, %d skipped, %d rows to %s",
		e.Topic, e.Records, e.Skipped, len(e.Points), path)
}
