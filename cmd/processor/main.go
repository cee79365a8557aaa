// Command processor runs the marathon-match ratings processor: it consumes
// challenge lifecycle and rating-service events from Kafka and drives the
// rating pipeline against the challenge-service API and the legacy database.
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/topcoder-platform/member-profile-processor/api"
	"github.com/topcoder-platform/member-profile-processor/config"
	"github.com/topcoder-platform/member-profile-processor/consumer"
	"github.com/topcoder-platform/member-profile-processor/logging"
	"github.com/topcoder-platform/member-profile-processor/metrics"
	"github.com/topcoder-platform/member-profile-processor/pipeline"
	"github.com/topcoder-platform/member-profile-processor/ratings"
	"github.com/topcoder-platform/member-profile-processor/store"
	mysqlstore "github.com/topcoder-platform/member-profile-processor/store/mysql"
	pgstore "github.com/topcoder-platform/member-profile-processor/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting ratings processor",
		"brokers", cfg.KafkaBrokers,
		"lifecycleTopic", cfg.LifecycleTopic,
		"ratingTopic", cfg.RatingTopic,
	)

	db, err := sql.Open(cfg.LegacyDBDriver, cfg.LegacyDBDSN)
	if err != nil {
		log.Fatalf("Failed to open legacy database: %v", err)
	}
	defer db.Close()

	var legacy store.LegacyStore
	switch cfg.LegacyDBDriver {
	case "postgres":
		legacy = pgstore.New(db)
	default:
		legacy = mysqlstore.New(db)
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	tokens := api.NewM2MTokenSource(api.M2MConfig{
		TokenURL:     cfg.AuthTokenURL,
		ClientID:     cfg.AuthClientID,
		ClientSecret: cfg.AuthClientSecret,
		Audience:     cfg.AuthAudience,
		HTTPClient:   httpClient,
	})

	client := api.New(api.Config{
		BaseURL:    cfg.APIBaseURL,
		Tokens:     tokens,
		HTTPClient: httpClient,
		PageSize:   cfg.SubmissionPageSize,
		Logger:     logger.With("component", "api"),
	})

	svc := ratings.New(ratings.Config{
		API:    client,
		Store:  legacy,
		Logger: logger.With("component", "ratings"),
	})

	orch := pipeline.New(pipeline.Config{
		LifecycleTopic:   cfg.LifecycleTopic,
		RatingTopic:      cfg.RatingTopic,
		RatingOriginator: cfg.RatingOriginator,
		API:              client,
		Ratings:          svc,
		Logger:           logger.With("component", "pipeline"),
	})

	reader := consumer.NewReader(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.LifecycleTopic, cfg.RatingTopic)
	dispatcher := consumer.NewDispatcher(consumer.Config{
		Reader:        reader,
		Handler:       orch,
		Brokers:       cfg.KafkaBrokers,
		CommitTimeout: cfg.CommitTimeout,
		Logger:        logger.With("component", "consumer"),
	})
	defer dispatcher.Close()

	metricsServer := metrics.NewServer(cfg.MetricsAddr, dispatcher.Healthy)
	metricsServer.Start()
	logger.Info("metrics server listening", "addr", cfg.MetricsAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dispatcher.Run(ctx); err != nil {
		logger.Error("consumer exited with error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown failed", "error", err)
	}

	logger.Info("ratings processor stopped")
}
