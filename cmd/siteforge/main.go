// Command siteforge generates, merges and stages business documents for the
// website factory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"siteforge/config"
	"siteforge/internal/store"
)

var (
	// Global flags
	verbose   bool
	configDir string

	logger *zap.Logger
	cfg    config.Config
	// osFs is swapped for a MemMapFs in tests.
	osFs afero.Fs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "siteforge",
	Short: "Website factory: generate, merge, fetch images and stage client sites",
	Long: `siteforge turns a short business description into a normalized business.json,
merges hand edits into it, fetches matching stock photography and stages the
result for the static site build.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
		zcfg := zap.NewProductionConfig()
		zcfg.Level = level
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// .env is optional; production relies on the real environment.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Error loading .env file", zap.Error(err))
		}

		cfg, err = config.LoadConfig(configDir, logger)
		if err != nil {
			return fmt.Errorf("cannot load config: %w", err)
		}

		switch {
		case verbose:
			level.SetLevel(zapcore.DebugLevel)
		case cfg.LogLevel != "":
			if l, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
				level.SetLevel(l)
			} else {
				logger.Warn("Ignoring unknown LOG_LEVEL", zap.String("value", cfg.LogLevel))
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing config.yaml")

	rootCmd.AddCommand(serveCmd, generateCmd, mergeCmd, imagesCmd, stageCmd, normalizeCmd)
}

func clientStore() *store.Store {
	return store.New(osFs, cfg.ClientsDir, logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
