// cmd/portal-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpadapter "recruitment-portal/internal/adapter/http"
	"recruitment-portal/internal/archive"
	"recruitment-portal/internal/common/aws"
	"recruitment-portal/internal/common/config"
	"recruitment-portal/internal/common/database"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/observability"
	"recruitment-portal/internal/document/assemble"
	"recruitment-portal/internal/document/render"
	"recruitment-portal/internal/form/ingest"
	"recruitment-portal/internal/form/navigator"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/form/session"
	"recruitment-portal/internal/form/validator"
	"recruitment-portal/internal/notify"
	"recruitment-portal/internal/submission"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting portal server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("portal-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (indexing is best effort) ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 5, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Warn("elasticsearch unavailable, search indexing disabled", zap.Error(err))
		esClient = nil
	} else {
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Init AWS clients ---
	var sesClient notify.SESService
	var snsClient notify.SNSService
	if cfg.Integrations.AWS.SES.Enabled {
		client, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("SES client failed", zap.Error(err))
		}
		sesClient = client
	}
	if cfg.Integrations.AWS.SNS.Enabled {
		client, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("SNS client failed", zap.Error(err))
		}
		snsClient = client
	}

	// --- Load step rule table ---
	table, err := rules.Load(cfg.Form.RulesPath)
	if err != nil {
		zapLog.Fatal("rule table load failed", zap.Error(err))
	}
	zapLog.Info("Rule table loaded", zap.Int("steps", table.StepCount()))

	// --- Wire services ---
	store := session.NewStore(redis, table, config.GetDuration(cfg.Form.SessionTTL), log)
	v := validator.New(table, log)
	nav := navigator.New(store, v, table, log)
	ing := ingest.New(store, table, cfg.Uploads, log)
	renderer := render.New(cfg.Document, table, log)
	assembler := assemble.New(log)
	archiver := archive.New(pg.DB, esClient, cfg.Database.Elasticsearch.Index, log)
	notifier := notify.New(cfg.Integrations, cfg.Submission.PrincipalEmail, sesClient, snsClient, log)

	client, err := submission.NewClient(
		cfg.Submission.EndpointURL,
		config.GetDuration(cfg.Submission.Timeout),
		table,
		cfg.Submission.SchemaPath,
		log,
	)
	if err != nil {
		zapLog.Fatal("submission client failed", zap.Error(err))
	}

	orch := submission.NewOrchestrator(store, v, table, renderer, assembler, archiver, notifier, client, obs, cfg.Submission.ArtifactDir, log)

	handler := httpadapter.NewHandler(store, nav, ing, renderer, orch, archiver, table, log)
	app := httpadapter.NewApp(cfg.Server, handler)

	// --- Metrics Server ---
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := app.Listen(cfg.Server.Address); err != nil {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Portal server stopped gracefully")
}
