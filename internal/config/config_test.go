package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/maskgen/internal/dataerr"
)

const minimalYAML = `
generator:
  images_dirs:
    - ./Low energy images of CDD-CESM
    - ./Subtracted images of CDD-CESM
  segmentation_file: ./Radiology_hand_drawn_segmentations_v2.csv
  annotation_file: ./Radiology-manual-annotations.csv
  output_dir: ./CDD-CESM-master
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"./Low energy images of CDD-CESM", "./Subtracted images of CDD-CESM"}, cfg.ImagesDirs)
	assert.Equal(t, "./CDD-CESM-master", cfg.OutputDir)
	assert.Equal(t, 512, cfg.Resize)
	assert.Equal(t, []string{"Benign", "Malignant"}, cfg.Categories)
	assert.Equal(t, DefaultLabelColumn, cfg.LabelColumn)
	assert.True(t, cfg.CleanOutput)
	assert.True(t, cfg.Grayscale)
	assert.Equal(t, MaskGray, cfg.MaskMode)
	assert.False(t, cfg.SingleRadiusEllipse)
}

func TestLoad_Overrides(t *testing.T) {
	body := minimalYAML + `  resize: 256
  categories: [Malignant]
  clean_output: false
  mask_mode: rgb
  mask_color: "#ff0000"
  single_radius_ellipse: true
`
	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Resize)
	assert.Equal(t, []string{"Malignant"}, cfg.Categories)
	assert.False(t, cfg.CleanOutput)
	assert.Equal(t, MaskRGB, cfg.MaskMode)
	assert.Equal(t, "#ff0000", cfg.MaskColor)
	assert.True(t, cfg.SingleRadiusEllipse)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var cfgErr *dataerr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "config file not found", cfgErr.Reason)
	assert.True(t, dataerr.IsFatal(err))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		subject string
	}{
		{"no section", "other:\n  a: 1\n", "gen.yaml"},
		{"bad yaml", "generator: [", "gen.yaml"},
		{"no images dirs", "generator:\n  segmentation_file: s\n  annotation_file: a\n  output_dir: o\n", "images_dirs"},
		{"no segmentation", "generator:\n  images_dirs: [d]\n  annotation_file: a\n  output_dir: o\n", "segmentation_file"},
		{"no annotation", "generator:\n  images_dirs: [d]\n  segmentation_file: s\n  output_dir: o\n", "annotation_file"},
		{"no output", "generator:\n  images_dirs: [d]\n  segmentation_file: s\n  annotation_file: a\n", "output_dir"},
		{"zero resize", minimalYAML + "  resize: 0\n", "resize"},
		{"bad mask mode", minimalYAML + "  mask_mode: rgba\n", "mask_mode"},
		{"bad quality", minimalYAML + "  jpeg_quality: 101\n", "jpeg_quality"},
		{"no categories", minimalYAML + "  categories: []\n", "categories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("gen.yaml", []byte(tt.body))
			var cfgErr *dataerr.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.subject, cfgErr.Subject)
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultPath, ResolvePath(nil))
	assert.Equal(t, "custom.yaml", ResolvePath([]string{"custom.yaml"}))

	t.Setenv(EnvConfigPath, "/etc/maskgen.yaml")
	assert.Equal(t, "/etc/maskgen.yaml", ResolvePath(nil))
	assert.Equal(t, "custom.yaml", ResolvePath([]string{"custom.yaml"}))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MASKGEN_TEST_VALUE=from-dotenv\n"), 0o644))
	t.Setenv("MASKGEN_TEST_VALUE", "")
	os.Unsetenv("MASKGEN_TEST_VALUE")

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-dotenv", os.Getenv("MASKGEN_TEST_VALUE"))
}
