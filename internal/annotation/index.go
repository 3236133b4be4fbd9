// Package annotation reads the segmentation source and groups its shape
// records by image filename.
package annotation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ironsheep/maskgen/internal/dataerr"
)

// Column headers of a VIA region export. When the header row does not name
// them the original positional layout (0 and 5) is used.
const (
	filenameHeader = "filename"
	shapeHeader    = "region_shape_attributes"

	fallbackFilenameCol = 0
	fallbackShapeCol    = 5
)

// Row is one region record of the segmentation source.
type Row struct {
	Filename string
	Shape    string
	// Line is the 1-based data row number, header excluded.
	Line int
}

// ReadSegmentationFile reads all rows of the segmentation CSV at path.
func ReadSegmentationFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open segmentation file: %w", err)
	}
	defer f.Close()

	rows, err := ReadSegmentation(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadSegmentation reads a header row followed by region records.
func ReadSegmentation(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	fileCol, shapeCol := fallbackFilenameCol, fallbackShapeCol
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case filenameHeader:
			fileCol = i
		case shapeHeader:
			shapeCol = i
		}
	}

	var rows []Row
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}

		row := Row{Line: line}
		if fileCol < len(record) {
			row.Filename = strings.TrimSpace(record[fileCol])
		}
		if shapeCol < len(record) {
			row.Shape = record[shapeCol]
		}
		if row.Filename == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Index maps filenames to their shapes, in first-seen order. It is built
// once and read-only afterwards.
type Index struct {
	order  []string
	shapes map[string][]Shape
	errs   map[string]error
}

// Build groups rows by filename. A row whose shape cannot be parsed marks its
// filename as failed without affecting other filenames.
func Build(rows []Row) *Index {
	ix := &Index{
		shapes: make(map[string][]Shape),
		errs:   make(map[string]error),
	}

	for _, row := range rows {
		if _, seen := ix.shapes[row.Filename]; !seen {
			ix.order = append(ix.order, row.Filename)
			ix.shapes[row.Filename] = nil
		}

		shape, err := ParseShape([]byte(row.Shape))
		if err != nil {
			if _, failed := ix.errs[row.Filename]; !failed {
				ix.errs[row.Filename] = &dataerr.ParseError{
					Filename: row.Filename,
					Row:      row.Line,
					Reason:   "invalid region shape",
					Err:      err,
				}
			}
			continue
		}
		ix.shapes[row.Filename] = append(ix.shapes[row.Filename], shape)
	}
	return ix
}

// Filenames returns the filenames in first-seen order.
func (ix *Index) Filenames() []string {
	out := make([]string, len(ix.order))
	copy(out, ix.order)
	return out
}

// Len returns the number of distinct filenames.
func (ix *Index) Len() int { return len(ix.order) }

// Shapes returns the shapes of filename in row order. It returns the
// *dataerr.ParseError of the first failed row if any row of the filename
// could not be parsed, since a partial mask would be wrong.
func (ix *Index) Shapes(filename string) ([]Shape, error) {
	if err, failed := ix.errs[filename]; failed {
		return nil, err
	}
	shapes, ok := ix.shapes[filename]
	if !ok {
		return nil, fmt.Errorf("no annotations for %s", filename)
	}
	return shapes, nil
}

// ImageID derives the image identifier used by the label source: the
// filename up to its first dot.
func ImageID(filename string) string {
	id, _, _ := strings.Cut(filename, ".")
	return id
}
