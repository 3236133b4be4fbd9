// Package dataset turns annotated source images into paired image/mask
// training sets, one directory tree per diagnostic category.
package dataset

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ironsheep/maskgen/internal/annotation"
	"github.com/ironsheep/maskgen/internal/category"
	"github.com/ironsheep/maskgen/internal/dataerr"
	"github.com/ironsheep/maskgen/internal/imaging"
	"github.com/ironsheep/maskgen/internal/mask"
)

// MaskJPEGQuality is the encoder quality for masks paired with JPEG sources.
// JPEG is lossy, so such masks are only near-binary around shape edges.
const MaskJPEGQuality = 100

// Options controls how samples are rendered.
type Options struct {
	// Size is the side of the square output images.
	Size int

	// Grayscale stores images as single-channel ITU-R 601-2 luminance.
	Grayscale bool

	// SingleRadiusEllipse draws ellipses with rx on both axes.
	SingleRadiusEllipse bool

	// MaskStyle renders masks for storage. Nil means single-channel gray.
	MaskStyle *mask.Style

	Save imaging.SaveOptions
}

// Generator writes the samples of one category at a time. The index and
// labels are shared read-only between runs.
type Generator struct {
	index  *annotation.Index
	labels *category.Labels
	opts   Options
	logger *zap.Logger
}

// NewGenerator returns a Generator. A nil logger disables logging.
func NewGenerator(index *annotation.Index, labels *category.Labels, opts Options, logger *zap.Logger) (*Generator, error) {
	if index == nil || labels == nil {
		return nil, errors.New("dataset: index and labels are required")
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("dataset: invalid size %d", opts.Size)
	}
	if opts.MaskStyle == nil {
		style, err := mask.NewStyle(mask.ModeGray, "")
		if err != nil {
			return nil, err
		}
		opts.MaskStyle = style
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{index: index, labels: labels, opts: opts, logger: logger}, nil
}

// Generate processes every indexed filename, in index order, for category.
//
// Only a failure to create imagesDir or masksDir is returned as an error.
// Per-sample failures are recorded in the Report and logged; processing then
// continues with the next filename.
func (g *Generator) Generate(categoryLabel string, searchDirs []string, imagesDir, masksDir string) (*Report, error) {
	for _, dir := range []string{imagesDir, masksDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	filter := category.NewFilter(g.labels, categoryLabel)
	log := g.logger.With(zap.String("category", categoryLabel))

	report := &Report{Category: categoryLabel}
	for _, filename := range g.index.Filenames() {
		res := g.process(filter, filename, searchDirs, imagesDir, masksDir)
		report.Results = append(report.Results, res)

		fields := []zap.Field{
			zap.String("filename", res.Filename),
			zap.String("image_id", res.ImageID),
			zap.String("stage", string(res.Stage)),
		}
		switch res.Outcome {
		case Written:
			log.Info("sample written", append(fields,
				zap.Int("shapes", res.Shapes),
				zap.Float64("coverage", res.Mask.Coverage))...)
			if res.Mask.Empty() {
				log.Warn("mask has no foreground", fields...)
			}
		case Skipped:
			log.Debug("sample in other category", append(fields, zap.String("label", res.Label))...)
		case Failed:
			log.Warn("sample failed", append(fields, zap.Error(res.Err))...)
		}
	}

	log.Info("category done",
		zap.Int("written", report.Count(Written)),
		zap.Int("skipped", report.Count(Skipped)),
		zap.Int("failed", report.Count(Failed)))
	return report, nil
}

func (g *Generator) process(filter *category.Filter, filename string, searchDirs []string, imagesDir, masksDir string) Result {
	res := Result{Filename: filename, ImageID: annotation.ImageID(filename)}
	fail := func(stage Stage, err error) Result {
		res.Outcome, res.Stage, res.Err = Failed, stage, err
		return res
	}

	accepted, err := filter.Accepts(res.ImageID)
	if err != nil {
		return fail(StageLabel, err)
	}
	// Accepts already proved the id is labelled.
	res.Label, _ = filter.LabelOf(res.ImageID)
	if !accepted {
		res.Outcome, res.Stage = Skipped, StageLabel
		return res
	}

	shapes, err := g.index.Shapes(filename)
	if err != nil {
		return fail(StageParse, err)
	}

	path, err := Resolve(filename, searchDirs)
	if err != nil {
		return fail(StageResolve, err)
	}
	res.Path = path

	if err := imaging.CheckFormat(filename); err != nil {
		return fail(StageWrite, err)
	}

	src, err := imaging.Open(path)
	if err != nil {
		return fail(StageLoad, err)
	}

	pairs, drawn, stats, stage, err := g.render(filename, src, shapes)
	if err != nil {
		return fail(stage, err)
	}
	res.Shapes, res.Mask = drawn, stats

	maskSave := g.opts.Save
	maskSave.JPEGQuality = MaskJPEGQuality
	for _, p := range pairs {
		if err := imaging.Save(p.Image, filepath.Join(imagesDir, p.Name), g.opts.Save); err != nil {
			return fail(StageWrite, err)
		}
		if err := imaging.Save(p.Mask, filepath.Join(masksDir, p.Name), maskSave); err != nil {
			return fail(StageWrite, err)
		}
		res.Files = append(res.Files, p.Name)
	}

	res.Outcome, res.Stage = Written, StageDone
	return res
}

// render builds every output pair in memory, so a failure here leaves no
// files behind.
func (g *Generator) render(filename string, src image.Image, shapes []annotation.Shape) ([]imaging.Pair, int, mask.Stats, Stage, error) {
	bounds := src.Bounds()

	var canvasOpts []mask.Option
	if g.opts.SingleRadiusEllipse {
		canvasOpts = append(canvasOpts, mask.WithSingleRadiusEllipse())
	}
	canvas := mask.NewCanvas(bounds.Dx(), bounds.Dy(), canvasOpts...)
	drawn, err := canvas.DrawAll(shapes)
	if err != nil {
		return nil, 0, mask.Stats{}, StageRasterize, &dataerr.ParseError{Filename: filename, Reason: "cannot rasterize", Err: err}
	}

	resized, err := imaging.Letterbox(src, g.opts.Size, imaging.ImageFilter)
	if err != nil {
		return nil, 0, mask.Stats{}, StageResize, err
	}
	scaled, err := imaging.Letterbox(canvas.Mask(), g.opts.Size, imaging.MaskFilter)
	if err != nil {
		return nil, 0, mask.Stats{}, StageResize, err
	}
	resizedMask := mask.Binarize(scaled)
	stats := mask.Measure(resizedMask)

	pairs := imaging.Variants(resized, resizedMask, filename)
	for i := range pairs {
		if g.opts.Grayscale {
			pairs[i].Image = imaging.Luminance(pairs[i].Image)
		}
		pairs[i].Mask = g.opts.MaskStyle.Render(pairs[i].Mask)
	}
	return pairs, drawn, stats, StageDone, nil
}

// Resolve returns the first searchDirs entry that contains filename as a
// regular file, or a *dataerr.ResolutionError.
func Resolve(filename string, searchDirs []string) (string, error) {
	for _, dir := range searchDirs {
		path := filepath.Join(dir, filename)
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", &dataerr.ResolutionError{Filename: filename, Searched: searchDirs}
}
