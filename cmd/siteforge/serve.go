package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"siteforge/internal/ai"
	"siteforge/internal/api"
	"siteforge/internal/factory"
	"siteforge/internal/intake"
	"siteforge/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (generate, submit, normalize, merge)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// newAPIHandler wires whatever collaborators the configuration allows; the
// rest answer with their configuration error.
func newAPIHandler() *api.APIHandler {
	opts := api.Options{Store: clientStore(), Logger: logger}

	if err := cfg.RequireLLM(); err != nil {
		logger.Warn("Generation disabled", zap.Error(err))
		opts.GeneratorErr = err
	} else {
		gen := ai.NewGenerator(cfg.OpenAIKey, cfg.OpenAIModel, logger)
		opts.Generator = factory.New(gen, cfg.PlanTemperature, cfg.ContentTemperature, logger)
	}

	if err := cfg.RequireSubmit(); err != nil {
		logger.Warn("Submission disabled", zap.Error(err))
		opts.SubmitterErr = err
	} else {
		opts.Submitter = intake.NewClient(cfg.AppsScriptURL, cfg.FactoryKey, utils.NewHTTPClient(logger, 2, 30*time.Second), logger)
	}
	return api.NewAPIHandler(opts)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		logger.Info("Running in Gin Debug Mode")
	}

	router := api.NewRouter(newAPIHandler(), logger)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
		// Generation makes two model calls, so writes get a long deadline.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting API server", zap.String("addr", cfg.ServerAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
		logger.Info("Shutting down API server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server forced shutdown", zap.Error(err))
		return err
	}
	logger.Info("API server gracefully stopped")
	return nil
}
