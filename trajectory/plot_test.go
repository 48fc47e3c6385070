package trajectory

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func TestSquareBounds(t *testing.T) {
	for _, c := range []struct {
		name   string
		points []Point
		want   [4]float64
	}{
		{"wide", []Point{{0.3, 0.2}, {2.5, 0.9}}, [4]float64{0, 3, 0, 3}},
		{"tall", []Point{{0, 0}, {1, 4}}, [4]float64{0, 4, 0, 4}},
		{"negative", []Point{{-1.5, -0.5}, {0.5, 0.5}}, [4]float64{-2, 1, -1, 2}},
		{"single point", []Point{{1, 1}}, [4]float64{1, 2, 1, 2}},
		{"vertical line", []Point{{2, 0.5}, {2, 2.5}}, [4]float64{2, 5, 0, 3}},
	} {
		var got [4]float64
		got[0], got[1], got[2], got[3] = squareBounds(c.points)
		if got != c.want {
			t.Fatalf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTicks(t *testing.T) {
	got := ticks(-1, 1)
	if len(got) != 11 {
		t.Fatalf("got %d ticks, want 11", len(got))
	}
	var labels []string
	for i, tk := range got {
		if want := -1 + 0.2*float64(i); math.Abs(tk.Value-want) > 1e-9 {
			t.Fatalf("tick %d at %g, want %g", i, tk.Value, want)
		}
		labels = append(labels, tk.Label)
	}
	want := "-1.0 -0.8 -0.6 -0.4 -0.2 0.0 0.2 0.4 0.6 0.8 1.0"
	// Rounding may label zero as -0.0.
	if got := strings.ReplaceAll(strings.Join(labels, " "), "-0.0", "0.0"); got != want {
		t.Fatalf("labels %q, want %q", got, want)
	}
}

func TestSegments(t *testing.T) {
	lines, err := segments([]Point{{0, 0}, {2, 0}, {2, 2}})
	if err != nil {
		t.Fatal(err)
	}
	want := []plotter.XYs{
		{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}},
		{{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 2}},
	}
	var got []plotter.XYs
	for _, l := range lines {
		got = append(got, l.XYs)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestPlotPath(t *testing.T) {
	if _, err := PlotPath(nil, "empty"); err == nil {
		t.Fatal("plot of no points succeeded")
	}

	p, err := PlotPath([]Point{{0, 0}, {0.5, 0.1}, {1, 0.4}, {1.4, 0.9}}, "Odometry path")
	if err != nil {
		t.Fatal(err)
	}
	if p.X.Min != 0 || p.X.Max != 2 || p.Y.Min != 0 || p.Y.Max != 2 {
		t.Fatalf("got x [%g, %g], y [%g, %g]", p.X.Min, p.X.Max, p.Y.Min, p.Y.Max)
	}
	wt, err := p.WriterTo(4*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatal("not a png image")
	}
}

func TestSavePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "path.png")
	if err := SavePlot(path, []Point{{1, 1}}, "one point"); err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(content, []byte("\x89PNG")) {
		t.Fatal("not a png image")
	}
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "path.csv")
	want := []Point{{0, 0}, {1.5, -2.25}, {1e-9, 1.5e6}, {0.1, 1.0 / 3}}
	if err := WriteCSV(path, CSVHeader, want); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	for _, c := range []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"not a number", "x,y\n1,2\n3,z\n"},
		{"three fields", "x,y\n1,2,3\n"},
	} {
		if _, err := DecodeCSV(strings.NewReader(c.content)); err == nil {
			t.Fatalf("%s: decoded", c.name)
		}
	}
	if got, err := DecodeCSV(strings.NewReader("x,y\n")); err != nil || len(got) != 0 {
		t.Fatalf("header only: got %v, %v", got, err)
	}
}
