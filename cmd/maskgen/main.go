package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/maskgen/internal/config"
	"github.com/ironsheep/maskgen/internal/dataerr"
	"github.com/ironsheep/maskgen/internal/dataset"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode returns 2 for configuration errors and 1 for any other failure.
func exitCode(err error) int {
	if dataerr.IsFatal(err) {
		return 2
	}
	return 1
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maskgen [config-file]",
		Short: "Generate paired image/mask datasets from shape annotations",
		Long: `maskgen rasterizes the circle, ellipse and polygon annotations of a VIA
segmentation export into binary masks, letterboxes image and mask to a square,
writes five augmented variants of each pair and sorts the output by the
diagnostic category found in the label file.

The configuration file defaults to ` + config.DefaultPath + ` or $` + config.EnvConfigPath + `.

Environment variables:
  ` + config.EnvLogLevel + `=debug    Enable debug logging`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}

			logger, err := newLogger(os.Getenv(config.EnvLogLevel))
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			logger = logger.With(zap.String("run_id", uuid.NewString()))
			if err := run(args, logger); err != nil {
				if dataerr.IsFatal(err) {
					logger.Error("invalid configuration", zap.Error(err))
				} else {
					logger.Error("run aborted", zap.Error(err))
				}
				return err
			}
			return nil
		},
	}
}

func run(args []string, logger *zap.Logger) error {
	path := config.ResolvePath(args)
	logger.Info("loading config", zap.String("path", path), zap.String("version", Version))

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	reports, err := dataset.Run(cfg, logger)
	if err != nil {
		return err
	}

	for _, r := range reports {
		logger.Info("category summary",
			zap.String("category", r.Category),
			zap.Int("written", r.Count(dataset.Written)),
			zap.Int("skipped", r.Count(dataset.Skipped)),
			zap.Int("failed", r.Count(dataset.Failed)))
	}
	return nil
}

// newLogger builds a production logger writing JSON to stderr.
func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(level, "debug") {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
