package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ironsheep/maskgen/internal/dataerr"
)

func TestRootCmd_TooManyArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"a.yaml", "b.yaml"})
	assert.Error(t, cmd.Execute())
}

func TestRun_MissingConfigIsFatal(t *testing.T) {
	err := run([]string{filepath.Join(t.TempDir(), "missing.yaml")}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, dataerr.IsFatal(err))
}

func TestRun_EmptyDataset(t *testing.T) {
	dir := t.TempDir()
	seg := filepath.Join(dir, "seg.csv")
	ann := filepath.Join(dir, "ann.csv")
	require.NoError(t, os.WriteFile(seg, []byte("filename,a,b,c,d,region_shape_attributes\n"), 0o644))
	require.NoError(t, os.WriteFile(ann, []byte("Image_name,Pathology Classification/ Follow up\n"), 0o644))

	cfgPath := filepath.Join(dir, "gen.yaml")
	body := "generator:\n" +
		"  images_dirs: [" + dir + "]\n" +
		"  segmentation_file: " + seg + "\n" +
		"  annotation_file: " + ann + "\n" +
		"  output_dir: " + filepath.Join(dir, "out") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	require.NoError(t, run([]string{cfgPath}, zap.NewNop()))
	assert.DirExists(t, filepath.Join(dir, "out", "Benign", "images"))
	assert.DirExists(t, filepath.Join(dir, "out", "Malignant", "masks"))
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("DEBUG")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = newLogger("")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestExitCode(t *testing.T) {
	cfgErr := &dataerr.ConfigError{Subject: "gen.yaml", Reason: "missing key"}
	assert.Equal(t, 2, exitCode(cfgErr))
	assert.Equal(t, 2, exitCode(fmt.Errorf("load: %w", cfgErr)))
	assert.Equal(t, 1, exitCode(errors.New("disk full")))

	err := run([]string{filepath.Join(t.TempDir(), "missing.yaml")}, zap.NewNop())
	assert.Equal(t, 2, exitCode(err))
}
