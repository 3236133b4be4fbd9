// Package config loads the generator configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/maskgen/internal/dataerr"
)

const (
	// DefaultPath is used when no config file is named on the command line
	// and MASKGEN_CONFIG is unset.
	DefaultPath = "./image_mask_generator.yaml"

	// EnvConfigPath overrides DefaultPath.
	EnvConfigPath = "MASKGEN_CONFIG"

	// EnvLogLevel selects the log level ("debug" enables debug output).
	EnvLogLevel = "MASKGEN_LOG_LEVEL"

	DefaultLabelColumn = "Pathology Classification/ Follow up"
)

// Mask storage modes.
const (
	MaskGray = "gray"
	MaskRGB  = "rgb"
)

// Config holds the settings of one generator run.
type Config struct {
	ImagesDirs       []string `yaml:"images_dirs"`
	SegmentationFile string   `yaml:"segmentation_file"`
	AnnotationFile   string   `yaml:"annotation_file"`
	OutputDir        string   `yaml:"output_dir"`
	Resize           int      `yaml:"resize"`

	// Categories are generated in order, each into <output_dir>/<Category>.
	Categories []string `yaml:"categories"`

	// LabelColumn is the header of the label column in the annotation file.
	LabelColumn string `yaml:"label_column"`

	// CleanOutput removes output_dir before the run.
	CleanOutput bool `yaml:"clean_output"`

	// Grayscale stores images as single-luminance data.
	Grayscale bool `yaml:"grayscale"`

	MaskMode  string `yaml:"mask_mode"`
	MaskColor string `yaml:"mask_color"`

	JPEGQuality int `yaml:"jpeg_quality"`

	// SingleRadiusEllipse draws ellipses with rx on both axes.
	SingleRadiusEllipse bool `yaml:"single_radius_ellipse"`
}

type file struct {
	Generator yaml.Node `yaml:"generator"`
}

// Default returns a configuration with every optional key set.
func Default() *Config {
	return &Config{
		Resize:      512,
		Categories:  []string{"Benign", "Malignant"},
		LabelColumn: DefaultLabelColumn,
		CleanOutput: true,
		Grayscale:   true,
		MaskMode:    MaskGray,
		MaskColor:   "#ffffff",
		JPEGQuality: 95,
	}
}

// Load reads and validates the config file at path. Every failure is a
// *dataerr.ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		reason := "cannot read config file"
		if errors.Is(err, fs.ErrNotExist) {
			reason = "config file not found"
		}
		return nil, &dataerr.ConfigError{Subject: path, Reason: reason, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes config data; name is used in error messages only.
func Parse(name string, data []byte) (*Config, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &dataerr.ConfigError{Subject: name, Reason: "invalid YAML", Err: err}
	}
	if f.Generator.Kind != yaml.MappingNode {
		return nil, &dataerr.ConfigError{Subject: name, Reason: "missing generator section"}
	}
	cfg := Default()
	if err := f.Generator.Decode(cfg); err != nil {
		return nil, &dataerr.ConfigError{Subject: name, Reason: "invalid generator section", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required keys and value ranges.
func (c *Config) Validate() error {
	if len(c.ImagesDirs) == 0 {
		return missing("images_dirs")
	}
	required := []struct {
		key, val string
	}{
		{"segmentation_file", c.SegmentationFile},
		{"annotation_file", c.AnnotationFile},
		{"output_dir", c.OutputDir},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			return missing(r.key)
		}
	}
	if c.Resize <= 0 {
		return invalid("resize", fmt.Sprintf("must be positive, got %d", c.Resize))
	}
	if len(c.Categories) == 0 {
		return invalid("categories", "must list at least one category")
	}
	if c.LabelColumn == "" {
		return invalid("label_column", "must not be empty")
	}
	switch c.MaskMode {
	case MaskGray, MaskRGB:
	default:
		return invalid("mask_mode", fmt.Sprintf("unknown mode %q", c.MaskMode))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return invalid("jpeg_quality", fmt.Sprintf("must be within 1-100, got %d", c.JPEGQuality))
	}
	return nil
}

// ResolvePath picks the config path: the positional argument if given, then
// MASKGEN_CONFIG, then DefaultPath.
func ResolvePath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// LoadDotEnv loads environment variables from the given .env files (".env"
// when none are given). Missing files are ignored; variables already set in
// the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

func missing(key string) error {
	return &dataerr.ConfigError{Subject: key, Reason: "required key missing"}
}

func invalid(key, reason string) error {
	return &dataerr.ConfigError{Subject: key, Reason: reason}
}
