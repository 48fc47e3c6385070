package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/a-zadorozhnaia/ROS-test-project/bag"
	"github.com/a-zadorozhnaia/ROS-test-project/trajectory"
)

// odometryCSV extracts a mock route to csv the way bag2csv does.
func odometryCSV(t *testing.T, dir string) string {
	var buf bytes.Buffer
	w := bag.NewWriter(&buf)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := trajectory.DefaultMock().WriteBag(w, start, 200); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := bag.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	cfg := trajectory.DefaultConfig()
	cfg.PlanCSV = filepath.Join(dir, "plan_path.csv")
	cfg.OdomCSV = filepath.Join(dir, "path.csv")
	if _, err := trajectory.Run(cfg, b, io.Discard, nil); err != nil {
		t.Fatal(err)
	}
	return cfg.OdomCSV
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	csvPath := odometryCSV(t, dir)
	out := filepath.Join(dir, "path.png")
	if code := run([]string{"-csv", csvPath, "-out", out}); code != 0 {
		t.Fatalf("exit status %d", code)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(content, []byte("\x89PNG")) {
		t.Fatal("not a png image")
	}
}

func TestPlotErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	if err := trajectory.WriteCSV(empty, trajectory.CSVHeader, nil); err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct {
		name string
		args []string
		want int
	}{
		{"missing csv", []string{"-csv", filepath.Join(dir, "none.csv"), "-out", filepath.Join(dir, "a.png")}, 1},
		{"no points", []string{"-csv", empty, "-out", filepath.Join(dir, "b.png")}, 1},
		{"bad flag", []string{"-radius", "5"}, 2},
	} {
		if code := run(c.args); code != c.want {
			t.Fatalf("%s: exit status %d, want %d", c.name, code, c.want)
		}
	}
}
