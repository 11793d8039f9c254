package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const HistoryIndexName = "diagnose_history"

// defineHistoryMapping returns the JSON string for the diagnosis history index mapping.
func defineHistoryMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"diagnosis_name":       map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"treatments":           map[string]interface{}{"type": "text"},
				"selected_symptom_ids": map[string]interface{}{"type": "keyword"},
				"user_id":              map[string]interface{}{"type": "keyword"},
				"accuracy":             map[string]interface{}{"type": "double"},
				"is_success":           map[string]interface{}{"type": "boolean"},
				"timestamp":            map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling history mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateHistoryIndexIfNotExists creates the diagnosis history index with the
// defined mapping if it does not already exist.
func CreateHistoryIndexIfNotExists(client *ESClientWrapper, logger *zap.Logger) error {
	ctx := context.Background()
	log := logger.Named("elasticsearch_index_setup")

	req := esapi.IndicesExistsRequest{
		Index: []string{HistoryIndexName},
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if history index exists", zap.Error(err))
		return fmt.Errorf("error checking if history index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Info("History index already exists", zap.String("index_name", HistoryIndexName))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Error("Error checking if history index exists, unexpected status",
			zap.String("status", res.Status()),
			zap.String("index_name", HistoryIndexName),
		)
		return fmt.Errorf("error checking if history index exists: status %s", res.Status())
	}

	mappingJSON, err := defineHistoryMapping()
	if err != nil {
		log.Error("Failed to define history mapping", zap.Error(err))
		return err
	}
	log.Debug("History index mapping defined", zap.String("mapping", mappingJSON))

	createReq := esapi.IndicesCreateRequest{
		Index: HistoryIndexName,
		Body:  strings.NewReader(mappingJSON),
	}
	createRes, err := createReq.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating history index", zap.Error(err), zap.String("index_name", HistoryIndexName))
		return fmt.Errorf("error creating history index %s: %w", HistoryIndexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		if err := json.NewDecoder(createRes.Body).Decode(&errorBody); err != nil {
			log.Error("Failed to parse history index creation error response body", zap.Error(err), zap.String("status", createRes.Status()))
		} else {
			log.Error("Failed to create history index",
				zap.String("status", createRes.Status()),
				zap.Any("error_details", errorBody),
				zap.String("index_name", HistoryIndexName),
			)
		}
		return fmt.Errorf("failed to create history index %s: status %s", HistoryIndexName, createRes.Status())
	}

	log.Info("History index created successfully", zap.String("index_name", HistoryIndexName))
	return nil
}
