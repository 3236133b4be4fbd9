// Package dataerr defines the error taxonomy shared by the dataset pipeline.
//
// Errors fall into two groups:
//   - ConfigError is fatal: the run cannot start or cannot categorize any sample.
//   - ParseError, ResolutionError and LookupError are per-sample: the sample is
//     skipped and the batch continues.
//
// All types unwrap to their underlying cause so callers can use errors.Is and
// errors.As across the boundary.
package dataerr

import (
	"errors"
	"fmt"
)

// ConfigError reports a missing config file, a missing or invalid config key,
// or a label source without the expected label column.
type ConfigError struct {
	// Subject is the file path or key the error is about.
	Subject string
	Reason  string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %s: %v", e.Subject, e.Reason, e.Err)
	}
	return fmt.Sprintf("config error: %s: %s", e.Subject, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ParseError reports a shape payload that could not be decoded into a
// recognized geometry.
type ParseError struct {
	Filename string
	// Row is the 1-based data row in the segmentation source, 0 if unknown.
	Row    int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error: %s", e.Filename)
	if e.Row > 0 {
		msg += fmt.Sprintf(" (row %d)", e.Row)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ResolutionError reports a source image that exists in none of the search
// directories.
type ResolutionError struct {
	Filename string
	Searched []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolution error: %s not found in %v", e.Filename, e.Searched)
}

// LookupError reports an image identifier absent from the label mapping.
type LookupError struct {
	ImageID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup error: no label for image id %q", e.ImageID)
}

// IsFatal reports whether err must abort the whole run.
func IsFatal(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
