package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ironsheep/maskgen/internal/annotation"
	"github.com/ironsheep/maskgen/internal/category"
	"github.com/ironsheep/maskgen/internal/config"
	"github.com/ironsheep/maskgen/internal/dataerr"
	"github.com/ironsheep/maskgen/internal/imaging"
	"github.com/ironsheep/maskgen/internal/mask"
)

// Layout returns the images and masks directories of category under
// outputDir.
func Layout(outputDir, categoryLabel string) (imagesDir, masksDir string) {
	base := filepath.Join(outputDir, categoryLabel)
	return filepath.Join(base, "images"), filepath.Join(base, "masks")
}

// Prepare creates outputDir, first removing it when clean is set.
func Prepare(outputDir string, clean bool) error {
	if clean {
		switch filepath.Clean(outputDir) {
		case "/", ".", "..":
			return fmt.Errorf("refusing to clean output directory %q", outputDir)
		}
		if err := os.RemoveAll(outputDir); err != nil {
			return fmt.Errorf("failed to clean output directory: %w", err)
		}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Run executes a full configured run: it builds the annotation index and the
// label table once, prepares the output directory and generates every
// configured category in order. Any returned error is fatal.
func Run(cfg *config.Config, logger *zap.Logger) ([]*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rows, err := annotation.ReadSegmentationFile(cfg.SegmentationFile)
	if err != nil {
		return nil, &dataerr.ConfigError{Subject: cfg.SegmentationFile, Reason: "cannot read segmentation file", Err: err}
	}
	index := annotation.Build(rows)
	logger.Info("segmentation indexed", zap.Int("rows", len(rows)), zap.Int("files", index.Len()))

	labels, err := category.LoadLabelsFile(cfg.AnnotationFile, cfg.LabelColumn)
	if err != nil {
		return nil, err
	}
	logger.Info("labels loaded", zap.Int("images", labels.Len()))

	style, err := mask.NewStyle(cfg.MaskMode, cfg.MaskColor)
	if err != nil {
		return nil, &dataerr.ConfigError{Subject: "mask_color", Reason: "invalid mask style", Err: err}
	}

	gen, err := NewGenerator(index, labels, Options{
		Size:                cfg.Resize,
		Grayscale:           cfg.Grayscale,
		SingleRadiusEllipse: cfg.SingleRadiusEllipse,
		MaskStyle:           style,
		Save:                imaging.SaveOptions{JPEGQuality: cfg.JPEGQuality},
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := Prepare(cfg.OutputDir, cfg.CleanOutput); err != nil {
		return nil, err
	}
	logger.Info("output prepared", zap.String("output_dir", cfg.OutputDir), zap.Bool("cleaned", cfg.CleanOutput))

	reports := make([]*Report, 0, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		imagesDir, masksDir := Layout(cfg.OutputDir, cat)
		report, err := gen.Generate(cat, cfg.ImagesDirs, imagesDir, masksDir)
		if err != nil {
			return reports, fmt.Errorf("category %s: %w", cat, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
