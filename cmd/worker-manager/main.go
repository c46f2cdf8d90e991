// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"travelcard-workers/internal/cards"
	"travelcard-workers/internal/common/aws"
	"travelcard-workers/internal/common/config"
	"travelcard-workers/internal/common/database"
	"travelcard-workers/internal/common/logger"
	"travelcard-workers/internal/common/observability"
	"travelcard-workers/internal/store/postgres"
	"travelcard-workers/pkg/registry"

	// Card Application Workers (5)
	ce "travelcard-workers/internal/workers/card/check-eligibility"
	ct "travelcard-workers/internal/workers/card/classify-tier"
	pa "travelcard-workers/internal/workers/card/process-application"
	qh "travelcard-workers/internal/workers/card/query-application-history"
	sdn "travelcard-workers/internal/workers/card/send-decision-notification"
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

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	activities, err := registry.LoadDefault()
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	zapLog.Info("Activity registry loaded",
		zap.String("version", activities.Version),
		zap.Int("activities", len(activities.Activities)),
	)

	// Refuse to serve a task type the registry does not describe.
	mustActivity := func(taskType string) *registry.Activity {
		activity, ok := activities.Find(taskType)
		if !ok {
			zapLog.Fatal("task type missing from activity registry", zap.String("taskType", taskType))
		}
		return activity
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build Domain Services ---
	catalog, err := cards.NewCatalog(cfg.Cards)
	if err != nil {
		zapLog.Fatal("card catalog rejected configuration", zap.Error(err))
	}
	slugs := catalog.Slugs()
	slugStrings := make([]string, len(slugs))
	for i, slug := range slugs {
		slugStrings[i] = string(slug)
	}
	zapLog.Info("Card catalog loaded", zap.Strings("cards", slugStrings))

	profileStore := postgres.NewProfileStore(
		pg.DB, redis.Client,
		time.Duration(cfg.Cache.ProfileTTL)*time.Second,
		log,
	)
	recordStore := postgres.NewRecordStore(pg.DB, esClient.Client, cfg.Database.Elasticsearch.Index, log)
	processor := cards.NewProcessor(catalog, profileStore, recordStore, log)

	// --- Register Card Application Workers (5) ---
	if cfg.Workers[pa.TaskType].Enabled {
		mustActivity(pa.TaskType)
		handler := pa.NewHandler(
			&pa.Config{
				Timeout: time.Duration(cfg.Workers[pa.TaskType].Timeout) * time.Millisecond,
			},
			processor, log,
		)
		startWorker(zeebeClient, pa.TaskType, cfg.Workers[pa.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ce.TaskType].Enabled {
		mustActivity(ce.TaskType)
		handler := ce.NewHandler(
			&ce.Config{
				Timeout: time.Duration(cfg.Workers[ce.TaskType].Timeout) * time.Millisecond,
			},
			profileStore, log,
		)
		startWorker(zeebeClient, ce.TaskType, cfg.Workers[ce.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ct.TaskType].Enabled {
		mustActivity(ct.TaskType)
		handler := ct.NewHandler(
			&ct.Config{
				Timeout: time.Duration(cfg.Workers[ct.TaskType].Timeout) * time.Millisecond,
			},
			catalog, profileStore, log,
		)
		startWorker(zeebeClient, ct.TaskType, cfg.Workers[ct.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[qh.TaskType].Enabled {
		mustActivity(qh.TaskType)
		handler := qh.NewHandler(
			&qh.Config{
				Timeout:  time.Duration(cfg.Workers[qh.TaskType].Timeout) * time.Millisecond,
				MaxLimit: 100,
			},
			recordStore, log,
		)
		startWorker(zeebeClient, qh.TaskType, cfg.Workers[qh.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sdn.TaskType].Enabled {
		mustActivity(sdn.TaskType)
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}

		handler := sdn.NewHandler(
			&sdn.Config{
				Timeout:      time.Duration(cfg.Workers[sdn.TaskType].Timeout) * time.Millisecond,
				EmailEnabled: cfg.Notifications.Email.Enabled,
				FromEmail:    cfg.Notifications.Email.FromEmail,
				SMSEnabled:   cfg.Notifications.SMS.Enabled,
				ApprovalOnly: cfg.Notifications.SMS.ApprovalOnly,
			},
			sesClient, snsClient, log,
		)
		startWorker(zeebeClient, sdn.TaskType, cfg.Workers[sdn.TaskType], handler.Handle, zapLog)
	}

	// --- Health and Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
