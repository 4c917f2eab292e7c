// cmd/assessment-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"finops-assessment/internal/api"
	"finops-assessment/internal/app"
	"finops-assessment/internal/common/camunda"
	"finops-assessment/internal/common/config"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/observability"

	ca "finops-assessment/internal/workers/assessment/complete-assessment"
	cb "finops-assessment/internal/workers/assessment/compute-benchmark"
	gr "finops-assessment/internal/workers/assessment/generate-recommendations"
	gres "finops-assessment/internal/workers/assessment/get-results"
	sa "finops-assessment/internal/workers/assessment/start-assessment"
	sr "finops-assessment/internal/workers/assessment/submit-response"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting assessment manager...")
	ctx := context.Background()

	otelMetrics, err := observability.NewMetrics(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics unavailable", zap.Error(err))
	}
	var tracing *observability.Tracing
	if cfg.Observability.TracingEnabled {
		tracing, err = observability.NewTracing(cfg.App.Name, cfg.App.Environment, cfg.Observability.JaegerEndpoint)
		if err != nil {
			zapLog.Warn("tracing unavailable", zap.Error(err))
		}
	}

	rt, err := app.NewRuntime(ctx, cfg, log, otelMetrics, app.Options{
		Attempts:     15,
		InitialDelay: 2 * time.Second,
		Migrate:      true,
	})
	if err != nil {
		zapLog.Fatal("runtime initialization failed", zap.Error(err))
	}
	defer rt.Close()

	// --- Zeebe client and workers ---
	var (
		zeebe   *camunda.Client
		workers []worker.JobWorker
	)
	if cfg.Camunda.Enabled {
		err = app.RetryWithBackoff(ctx, func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, log, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		if err := zeebe.DeployResources(ctx, cfg.Camunda.DeployResources); err != nil {
			zapLog.Fatal("process deployment failed", zap.Error(err))
		}

		workers = registerWorkers(cfg, zeebe, rt, log, otelMetrics)
		zapLog.Info("workers registered", zap.Int("count", len(workers)))
	}

	// --- HTTP API ---
	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(cfg.API.Address, rt.Service, log)
		apiServer.AddHealthCheck("postgres", rt.Postgres.Ping)
		apiServer.AddHealthCheck("redis", rt.Redis.Ping)
		apiServer.AddHealthCheck("elasticsearch", rt.Elastic.Ping)
		if zeebe != nil {
			apiServer.AddHealthCheck("zeebe", zeebe.HealthCheck)
		}
		go func() {
			if err := apiServer.Start(); err != nil {
				zapLog.Error("API server failed", zap.Error(err))
			}
		}()
	}

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := rt.Postgres.Ping(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if apiServer != nil {
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error stopping API server", zap.Error(err))
		}
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping metrics server", zap.Error(err))
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing traces", zap.Error(err))
	}
	if err := otelMetrics.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping otel metrics", zap.Error(err))
	}

	zapLog.Info("Assessment manager stopped gracefully")
}

func registerWorkers(cfg *config.Config, zeebe *camunda.Client, rt *app.Runtime, log logger.Logger, otelMetrics *observability.Metrics) []worker.JobWorker {
	svc := rt.Service
	handlers := map[string]worker.JobHandler{
		sa.TaskType:   sa.NewHandler(sa.LoadConfig(config.GetWorkerConfig(cfg, sa.TaskType)), svc, log, otelMetrics).Handle,
		sr.TaskType:   sr.NewHandler(sr.LoadConfig(config.GetWorkerConfig(cfg, sr.TaskType)), svc, log, otelMetrics).Handle,
		ca.TaskType:   ca.NewHandler(ca.LoadConfig(config.GetWorkerConfig(cfg, ca.TaskType)), svc, log, otelMetrics).Handle,
		gres.TaskType: gres.NewHandler(gres.LoadConfig(config.GetWorkerConfig(cfg, gres.TaskType)), svc, log, otelMetrics).Handle,
		cb.TaskType:   cb.NewHandler(cb.LoadConfig(config.GetWorkerConfig(cfg, cb.TaskType)), svc, log, otelMetrics).Handle,
		gr.TaskType:   gr.NewHandler(gr.LoadConfig(config.GetWorkerConfig(cfg, gr.TaskType)), svc, log, otelMetrics).Handle,
	}

	var workers []worker.JobWorker
	for taskType, handler := range handlers {
		if w := camunda.StartWorker(zeebe.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handler, log); w != nil {
			workers = append(workers, w)
		}
	}
	return workers
}

func writeStatus(w http.ResponseWriter, status int, state string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": state,
		"time":   time.Now().Format(time.RFC3339),
	})
}
