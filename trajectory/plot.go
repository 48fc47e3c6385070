package trajectory

import (
	"errors"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Grid and tick spacing of path plots, meters.
const PlotStep = 0.2

// Side of the square path plot image.
const PlotSize = 12 * vg.Inch

// PlotPath draws points as a line whose color runs from start to
// finish. Both axes span the same length on whole meters so that the
// path is not distorted.
func PlotPath(points []Point, title string) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, errors.New("plot: no points")
	}

	colors := moreland.ExtendedKindlmann()
	colors.SetMin(0)
	colors.SetMax(1)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x, m"
	p.Y.Label.Text = "y, m"

	lines, err := segments(points)
	if err != nil {
		return nil, err
	}
	for i, l := range lines {
		v := 0.0
		if len(lines) > 1 {
			v = float64(i) / float64(len(lines)-1)
		}
		c, err := colors.At(v)
		if err != nil {
			return nil, err
		}
		l.Color = c
		l.Width = vg.Points(4)
		p.Add(l)
	}
	p.Add(plotter.NewGrid())
	p.Legend.Add("start", lines[0])
	p.Legend.Add("finish", lines[len(lines)-1])

	p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = squareBounds(points)
	p.X.Tick.Marker = plot.TickerFunc(ticks)
	p.Y.Tick.Marker = plot.TickerFunc(ticks)
	return p, nil
}

// SavePlot draws points and writes the image to path. The format
// follows the extension of path.
func SavePlot(path string, points []Point, title string) error {
	p, err := PlotPath(points, title)
	if err != nil {
		return err
	}
	return p.Save(PlotSize, PlotSize, path)
}

// segments splits the path at the midpoints between points, one segment
// around each point, so that neighboring segments join without gaps.
func segments(points []Point) ([]*plotter.Line, error) {
	mid := func(a, b Point) plotter.XY {
		return plotter.XY{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	}
	last := len(points) - 1
	var lines []*plotter.Line
	for i, pt := range points {
		start := plotter.XY{X: pt.X, Y: pt.Y}
		if i > 0 {
			start = mid(points[i-1], pt)
		}
		end := plotter.XY{X: pt.X, Y: pt.Y}
		if i < last {
			end = mid(pt, points[i+1])
		}
		l, err := plotter.NewLine(plotter.XYs{start, {X: pt.X, Y: pt.Y}, end})
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// squareBounds rounds the extent of points out to whole meters and
// grows the shorter side to match the longer one.
func squareBounds(points []Point) (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		xmin, xmax = math.Min(xmin, p.X), math.Max(xmax, p.X)
		ymin, ymax = math.Min(ymin, p.Y), math.Max(ymax, p.Y)
	}
	xmin, xmax = math.Floor(xmin), math.Ceil(xmax)
	ymin, ymax = math.Floor(ymin), math.Ceil(ymax)
	// A single point or a straight axis-aligned path.
	if xmax == xmin {
		xmax++
	}
	if ymax == ymin {
		ymax++
	}
	if d := (xmax - xmin) - (ymax - ymin); d > 0 {
		ymax += d
	} else {
		xmax -= d
	}
	return xmin, xmax, ymin, ymax
}

// ticks marks every PlotStep from min to max, both included.
func ticks(min, max float64) []plot.Tick {
	n := int(math.Round((max - min) / PlotStep))
	ret := make([]plot.Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		v := min + float64(i)*PlotStep
		ret = append(ret, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', 1, 64)})
	}
	return ret
}
