// File: cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"dentalscope_backend/internal/config"
	"dentalscope_backend/internal/history"
	platformElasticsearch "dentalscope_backend/internal/platform/elasticsearch"
	platformFirestore "dentalscope_backend/internal/platform/firestore"
	"dentalscope_backend/internal/platform/logger"
	"dentalscope_backend/internal/rule"
)

func main() {
	syncHistoryCmd := flag.NewFlagSet("sync-history", flag.ExitOnError)
	batchSize := syncHistoryCmd.Int("batch-size", 100, "Batch size for syncing history records")
	esRefresh := syncHistoryCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "seed-rules":
			runSeedRules()
			return
		case "sync-history":
			syncHistoryCmd.Parse(os.Args[2:])
			runSyncHistory(*batchSize, *esRefresh)
			return
		}
	}

	startServer()
}

// runSeedRules writes the built-in diagnosis rule set into Firestore.
func runSeedRules() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for seeding: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger for seeding: %v", err)
	}

	ctx := context.Background()
	fsClient, err := platformFirestore.NewClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("FATAL: Failed to initialize Firestore client for seeding", zap.Error(err))
	}
	defer fsClient.Close()

	if err := rule.SeedRules(ctx, fsClient, appLogger); err != nil {
		appLogger.Fatal("FATAL: Rule seeding failed", zap.Error(err))
	}
	appLogger.Info("Rule seeding completed successfully.")
}

// runSyncHistory reindexes all diagnosis history records from Firestore into
// Elasticsearch in batches.
func runSyncHistory(batchSize int, esRefresh string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
	}

	ctx := context.Background()
	fsClient, err := platformFirestore.NewClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("FATAL: Failed to initialize Firestore client for sync", zap.Error(err))
	}
	defer fsClient.Close()

	esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for sync", zap.Error(err))
	}
	if esClient == nil {
		appLogger.Fatal("FATAL: Elasticsearch client is nil though no error reported, ensure ELASTICSEARCH_URL is set.")
	}

	if err := platformElasticsearch.CreateHistoryIndexIfNotExists(esClient, appLogger); err != nil {
		appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before sync", zap.Error(err))
	}

	repo := history.NewFirestoreRepository(fsClient, appLogger)
	if err := runHistorySync(ctx, repo, esClient, appLogger, batchSize, esRefresh); err != nil {
		appLogger.Fatal("FATAL: History synchronization failed", zap.Error(err))
	}
	appLogger.Info("History synchronization completed successfully.")
}

// runHistorySync performs the batch synchronization of history records to
// Elasticsearch via the Bulk API.
func runHistorySync(
	ctx context.Context,
	repo history.Repository,
	esClient *platformElasticsearch.ESClientWrapper,
	appLogger *zap.Logger,
	batchSize int,
	esRefresh string,
) error {
	records, err := repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("fetching history records for sync: %w", err)
	}
	appLogger.Info("Fetched history records for sync", zap.Int("count", len(records)))

	if len(records) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	var synced int
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		var bulkBody strings.Builder
		for i := range batch {
			doc, err := history.RecordToElasticsearchDoc(&batch[i])
			if err != nil {
				appLogger.Warn("Skipping record that could not be converted for ES",
					zap.String("record_id", batch[i].ID),
					zap.Error(err),
				)
				continue
			}
			meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, platformElasticsearch.HistoryIndexName, batch[i].ID)
			bulkBody.WriteString(meta)
			bulkBody.WriteString("\n")
			bulkBody.WriteString(doc)
			bulkBody.WriteString("\n")
		}
		if bulkBody.Len() == 0 {
			continue
		}

		req := esapi.BulkRequest{
			Body:    strings.NewReader(bulkBody.String()),
			Refresh: esRefresh,
		}
		res, err := req.Do(ctx, esClient.Client)
		if err != nil {
			return fmt.Errorf("executing bulk request: %w", err)
		}

		if res.IsError() {
			body := res.String()
			res.Body.Close()
			return fmt.Errorf("bulk request failed: %s", body)
		}

		var bulkResponse struct {
			Errors bool `json:"errors"`
			Items  []map[string]struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  *struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error,omitempty"`
			} `json:"items"`
		}
		if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
			res.Body.Close()
			return fmt.Errorf("decoding bulk response: %w", err)
		}
		res.Body.Close()

		if bulkResponse.Errors {
			for _, item := range bulkResponse.Items {
				for action, info := range item {
					if info.Error != nil {
						appLogger.Error("Bulk item failed",
							zap.String("action", action),
							zap.String("doc_id", info.ID),
							zap.Int("status", info.Status),
							zap.String("type", info.Error.Type),
							zap.String("reason", info.Error.Reason),
						)
					}
				}
			}
			return fmt.Errorf("bulk request reported item-level errors")
		}

		synced += len(batch)
		appLogger.Info("Synced history batch",
			zap.Int("batch_start", start),
			zap.Int("batch_size", len(batch)),
			zap.Int("total_synced", synced),
		)
	}

	return nil
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if server.ESClient != nil {
		if err := platformElasticsearch.CreateHistoryIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch history index.", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Elasticsearch client not initialized, skipping index creation.")
	}

	// Warm the rule cache so the first diagnosis request does not pay the
	// Firestore round trip. A failure here is not fatal; the cache loads
	// lazily on first use.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := server.RuleService.GetRules(warmCtx); err != nil {
		server.AppLogger.Warn("Rule cache warmup failed, will retry on first request", zap.Error(err))
	}
	cancelWarm()

	go func() {
		if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}
