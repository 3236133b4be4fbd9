package dataset

import (
	"github.com/ironsheep/maskgen/internal/mask"
)

// Outcome classifies how one sample was handled.
type Outcome int

const (
	// Written means all six image/mask pairs were persisted.
	Written Outcome = iota
	// Skipped means the sample belongs to another category.
	Skipped
	// Failed means a per-sample error stopped the sample.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stage names the step a sample was in when it finished.
type Stage string

const (
	StageLabel     Stage = "label"
	StageParse     Stage = "parse"
	StageResolve   Stage = "resolve"
	StageLoad      Stage = "load"
	StageRasterize Stage = "rasterize"
	StageResize    Stage = "resize"
	StageWrite     Stage = "write"
	StageDone      Stage = "done"
)

// Result is the outcome of one sample.
type Result struct {
	Filename string
	ImageID  string
	Label    string
	// Path is the resolved source file, empty if resolution did not happen.
	Path    string
	Outcome Outcome
	Stage   Stage
	Err     error

	// Files lists the base names written to both the images and the masks
	// directory, in write order.
	Files []string

	// Shapes is the number of drawable shapes rasterized.
	Shapes int
	// Mask describes the resized, un-augmented mask.
	Mask mask.Stats
}

// Report collects the results of one category run, in index order.
type Report struct {
	Category string
	Results  []Result
}

// Count returns the number of results with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Failures returns the failed results.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Outcome == Failed {
			out = append(out, res)
		}
	}
	return out
}
