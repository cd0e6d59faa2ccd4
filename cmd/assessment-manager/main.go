// cmd/assessment-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"wellness-assessment/internal/assessment"
	"wellness-assessment/internal/common/camunda"
	"wellness-assessment/internal/common/config"
	"wellness-assessment/internal/common/database"
	"wellness-assessment/internal/common/logger"
	"wellness-assessment/internal/common/observability"
	"wellness-assessment/internal/income"

	ca "wellness-assessment/internal/workers/assessment/calculate-assessment"
)

var connectRetry = camunda.RetryConfig{
	MaxRetries: 15,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("Starting assessment manager...", map[string]interface{}{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("observability init failed, using no-op meter", map[string]interface{}{"error": err})
		obs = observability.NewNoop()
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource := benchmarkSource(ctx, cfg, log)
	defer closeSource()

	opts := []assessment.Option{
		assessment.WithTables(tablesFromConfig(cfg.Assessment)),
		assessment.WithCacheTTL(time.Duration(cfg.Assessment.CacheTTL) * time.Second),
		assessment.WithIncomeTimeout(config.GetDuration(cfg.Assessment.IncomeTimeout)),
	}

	var rdb *database.RedisClient
	if cfg.Assessment.SharedCache {
		err = camunda.Retry(ctx, connectRetry, "Redis connection", log, func(ctx context.Context) error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return camunda.Permanent(err)
			}
			return rdb.Ping(ctx)
		})
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		opts = append(opts, assessment.WithSharedStore(
			assessment.NewRedisResultStore(rdb.Client, cfg.Assessment.SharedCachePrefix),
		))
		log.Info("Redis shared result tier enabled", map[string]interface{}{"address": cfg.Database.Redis.Address})
	}

	engine := assessment.NewEngine(income.NewBenchmarkComparator(source), log, opts...)

	var zeebeClient zbc.Client
	var workers []worker.JobWorker
	if cfg.Camunda.Enabled {
		zeebeClient, err = camunda.Connect(ctx, camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
			Retry:                  camunda.DefaultRetryConfig,
		}, log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		log.Info("Zeebe client connected successfully", nil)

		wcfg := config.GetWorkerConfig(cfg, ca.TaskType)
		handler := ca.NewHandler(&ca.Config{Timeout: config.GetDuration(wcfg.Timeout), MaxRetries: wcfg.MaxRetries}, engine, obs, log)
		if jw := camunda.StartWorker(zeebeClient, ca.TaskType, wcfg, handler.Handle, log); jw != nil {
			workers = append(workers, jw)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           healthMux(engine, zeebeClient, rdb),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": cfg.Metrics.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	<-ctx.Done()

	log.Info("Shutdown signal received, stopping workers...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, jw := range workers {
		jw.Close()
		jw.AwaitClose()
	}
	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			log.Error("Error closing Zeebe client", map[string]interface{}{"error": err})
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping Health/Metrics server", map[string]interface{}{"error": err})
	}

	log.Info("Assessment manager stopped gracefully", nil)
}

// benchmarkSource picks the income median source. The returned func releases
// whatever it opened.
func benchmarkSource(ctx context.Context, cfg *config.Config, log logger.Logger) (income.MedianSource, func()) {
	if cfg.Assessment.BenchmarkSource != "postgres" {
		log.Info("Using built-in income benchmarks", nil)
		return income.NewStaticSource(), func() {}
	}

	var pg *database.PostgresClient
	err := camunda.Retry(ctx, connectRetry, "PostgreSQL connection", log, func(ctx context.Context) error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	})
	if err != nil {
		log.Error("postgres failed after retries", map[string]interface{}{"error": err})
		os.Exit(1)
	}
	log.Info("PostgreSQL connected successfully", nil)

	return income.NewPostgresSource(pg.DB), func() { pg.Close() }
}

func tablesFromConfig(ac config.AssessmentConfig) assessment.Tables {
	t := assessment.DefaultTables()
	if ac.JobConfidenceWeight > 0 || ac.IncomeConfidenceWeight > 0 {
		t.JobConfidenceWeight = ac.JobConfidenceWeight
		t.IncomeConfidenceWeight = ac.IncomeConfidenceWeight
	}
	if ac.WarningPenalty != nil {
		t.WarningPenalty = *ac.WarningPenalty
	}
	return t
}

func healthMux(engine *assessment.Engine, zeebeClient zbc.Client, rdb *database.RedisClient) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "healthy",
			"time":        time.Now().Format(time.RFC3339),
			"performance": engine.PerformanceStats(),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		status := http.StatusOK
		if zeebeClient != nil {
			checks["zeebe"] = "ok"
			if err := camunda.HealthCheck(r.Context(), zeebeClient, 2*time.Second); err != nil {
				checks["zeebe"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			checks["redis"] = "ok"
			if err := rdb.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		state := "ready"
		if status != http.StatusOK {
			state = "not_ready"
		}
		writeJSON(w, status, map[string]interface{}{
			"status": state,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/cache/clear", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := engine.ClearCache(r.Context()); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
