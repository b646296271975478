package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Triage/internal/analysis"
	"github.com/MikeSquared-Agency/Triage/internal/api"
	"github.com/MikeSquared-Agency/Triage/internal/config"
	"github.com/MikeSquared-Agency/Triage/internal/hermes"
	"github.com/MikeSquared-Agency/Triage/internal/metrics"
	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and metrics servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Logging.NewLogger(os.Stdout)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Hermes (optional)
	var pub hermes.Publisher
	if cfg.Hermes.URL != "" {
		np, err := hermes.NewNATSPublisher(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			pub = np
			defer np.Close()
			logger.Info("connected to hermes")
		}
	}

	analyzer := analysis.NewAnalyzer(scoring.NewScorer(scoring.DefaultPolicy()), m, logger)

	router := api.NewRouter(api.Deps{
		Analyzer:        analyzer,
		Metrics:         m,
		Announcer:       hermes.NewAnnouncer(pub, cfg.PublishTimeout(), logger),
		Logger:          logger,
		SuggestLimit:    cfg.Analysis.SuggestLimit,
		MaxTasks:        cfg.Analysis.MaxTasks,
		MaxBodyBytes:    int64(cfg.Server.MaxBodyBytes),
		RateLimitPerMin: cfg.Server.RateLimitPerMin,
		CORSOrigins:     cfg.Server.CORSOrigins,
	})
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(registry),
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()
	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		logger.Error("server failed", "error", runErr)
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
	return runErr
}
