// Package category maps image identifiers to diagnostic labels and decides
// which samples belong to a target category.
package category

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ironsheep/maskgen/internal/dataerr"
)

// Labels maps image identifier to label. It is built once per run and never
// mutated afterwards; share it between filters freely.
type Labels struct {
	byID map[string]string
}

// NewLabels builds a Labels from an in-memory mapping. The map is copied.
func NewLabels(m map[string]string) *Labels {
	byID := make(map[string]string, len(m))
	for id, label := range m {
		byID[id] = label
	}
	return &Labels{byID: byID}
}

// LoadLabelsFile reads the label source at path. column is the header of the
// label column.
func LoadLabelsFile(path, column string) (*Labels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &dataerr.ConfigError{Subject: path, Reason: "cannot open annotation file", Err: err}
	}
	defer f.Close()

	labels, err := ReadLabels(f, column)
	if err != nil {
		var cfgErr *dataerr.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Subject = path
			return nil, cfgErr
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, nil
}

// ReadLabels reads a header row naming column, followed by rows whose first
// field is the image identifier. A header without column is a
// *dataerr.ConfigError. A later row for the same identifier wins.
func ReadLabels(r io.Reader, column string) (*Labels, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &dataerr.ConfigError{Subject: "annotation file", Reason: "empty label source"}
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	col := -1
	for i, name := range header {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, &dataerr.ConfigError{
			Subject: "annotation file",
			Reason:  fmt.Sprintf("label column %q not found in header", column),
		}
	}

	byID := make(map[string]string)
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		if len(record) == 0 || col >= len(record) {
			continue
		}
		id := strings.TrimSpace(record[0])
		if id == "" {
			continue
		}
		byID[id] = strings.TrimSpace(record[col])
	}
	return &Labels{byID: byID}, nil
}

// Len returns the number of labelled identifiers.
func (l *Labels) Len() int { return len(l.byID) }

// LabelOf returns the label of imageID, or a *dataerr.LookupError.
func (l *Labels) LabelOf(imageID string) (string, error) {
	label, ok := l.byID[imageID]
	if !ok {
		return "", &dataerr.LookupError{ImageID: imageID}
	}
	return label, nil
}

// Filter accepts the image identifiers labelled with one target category.
type Filter struct {
	labels *Labels
	target string
}

// NewFilter returns a filter for target over labels.
func NewFilter(labels *Labels, target string) *Filter {
	return &Filter{labels: labels, target: target}
}

// Target returns the category this filter accepts.
func (f *Filter) Target() string { return f.target }

// LabelOf returns the label of imageID, or a *dataerr.LookupError.
func (f *Filter) LabelOf(imageID string) (string, error) {
	return f.labels.LabelOf(imageID)
}

// Accepts reports whether imageID is labelled with the target category.
// Unknown identifiers return a *dataerr.LookupError.
func (f *Filter) Accepts(imageID string) (bool, error) {
	label, err := f.labels.LabelOf(imageID)
	if err != nil {
		return false, err
	}
	return label == f.target, nil
}
