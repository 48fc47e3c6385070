package trajectory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const CSVHeader = "x,y"

// EncodeCSV writes the header line and one x,y row per point. Values use
// the shortest decimal form that reads back to the same float64.
func EncodeCSV(w io.Writer, header string, points []Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return err
	}
	for _, p := range points {
		x := strconv.FormatFloat(p.X, 'g', -1, 64)
		y := strconv.FormatFloat(p.Y, 'g', -1, 64)
		if err := cw.Write([]string{x, y}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CreateFunc opens an output file for writing, truncating it.
type CreateFunc func(path string) (io.WriteCloser, error)

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// WriteCSV creates or truncates path and writes points to it.
func WriteCSV(path, header string, points []Point) error {
	return writeCSV(createFile, path, header, points)
}

func writeCSV(create CreateFunc, path, header string, points []Point) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return EncodeCSV(f, header, points)
}

// DecodeCSV reads rows written by EncodeCSV. The first line is a header
// and is skipped.
func DecodeCSV(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	var points []Point
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return points, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		x, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		y, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, Point{X: x, Y: y})
	}
}

// ReadCSV reads the points of a csv file written by WriteCSV.
func ReadCSV(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeCSV(f)
}
