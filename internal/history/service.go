// File: internal/history/service.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"dentalscope_backend/internal/common"
	platformES "dentalscope_backend/internal/platform/elasticsearch"
)

// Service provides access to the diagnosis history: appends, one-shot reads,
// live snapshot streams, and text search over the Elasticsearch mirror.
type Service interface {
	Append(ctx context.Context, record *Record) (string, error)
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	StreamByUser(ctx context.Context, userID string, onSnapshot func([]Record), onError func(error)) (stop func(), err error)
	Search(ctx context.Context, userID, query string) ([]Record, error)
}

type service struct {
	repo     Repository
	esClient *platformES.ESClientWrapper
	logger   *zap.Logger
}

// NewService creates a new history service. esClient may be nil, in which case
// search is unavailable and appends are not mirrored.
func NewService(repo Repository, esClient *platformES.ESClientWrapper, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		esClient: esClient,
		logger:   logger.Named("history_service"),
	}
}

func (s *service) Append(ctx context.Context, record *Record) (string, error) {
	id, err := s.repo.Create(ctx, record)
	if err != nil {
		return "", err
	}
	record.ID = id

	// The mirror is best effort. A failed index never fails the append.
	s.indexRecord(ctx, record)
	return id, nil
}

func (s *service) indexRecord(ctx context.Context, record *Record) {
	if s.esClient == nil {
		return
	}

	docJSON, err := RecordToElasticsearchDoc(record)
	if err != nil {
		s.logger.Warn("Failed to convert history record for indexing", zap.String("record_id", record.ID), zap.Error(err))
		return
	}

	req := esapi.IndexRequest{
		Index:      platformES.HistoryIndexName,
		DocumentID: record.ID,
		Body:       strings.NewReader(docJSON),
	}
	res, err := req.Do(ctx, s.esClient.Client)
	if err != nil {
		s.logger.Warn("Failed to index history record", zap.String("record_id", record.ID), zap.Error(err))
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		s.logger.Warn("Elasticsearch rejected history record",
			zap.String("record_id", record.ID),
			zap.String("status", res.Status()),
		)
	}
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *service) StreamByUser(ctx context.Context, userID string, onSnapshot func([]Record), onError func(error)) (func(), error) {
	return s.repo.SubscribeByUser(ctx, userID, onSnapshot, onError)
}

func (s *service) Search(ctx context.Context, userID, query string) ([]Record, error) {
	if s.esClient == nil {
		return nil, common.ErrServiceUnavailable.WithDetails("history search is not available")
	}

	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"diagnosis_name^2", "treatments"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"user_id": userID},
				},
			},
		},
		"sort": []map[string]interface{}{
			{"timestamp": map[string]interface{}{"order": "desc"}},
			{"_id": map[string]interface{}{"order": "asc"}},
		},
		"size": 100,
	}

	queryBytes, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("marshalling search query: %w", err)
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(platformES.HistoryIndexName),
		s.esClient.Search.WithBody(strings.NewReader(string(queryBytes))),
	)
	if err != nil {
		s.logger.Error("History search request failed", zap.Error(err))
		return nil, common.ErrServiceUnavailable.WithDetails("history search failed")
	}
	defer res.Body.Close()

	if res.IsError() {
		s.logger.Error("History search returned an error", zap.String("status", res.Status()))
		return nil, common.ErrServiceUnavailable.WithDetails("history search failed")
	}

	var searchResponse struct {
		Hits struct {
			Hits []struct {
				ID     string `json:"_id"`
				Source struct {
					DiagnosisName      string   `json:"diagnosis_name"`
					Treatments         string   `json:"treatments"`
					SelectedSymptomIDs []string `json:"selected_symptom_ids"`
					UserID             string   `json:"user_id"`
					Accuracy           float64  `json:"accuracy"`
					IsSuccess          bool     `json:"is_success"`
					Timestamp          string   `json:"timestamp"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResponse); err != nil {
		s.logger.Error("Failed to decode history search response", zap.Error(err))
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	records := make([]Record, 0, len(searchResponse.Hits.Hits))
	for _, hit := range searchResponse.Hits.Hits {
		var treatments []string
		if hit.Source.Treatments != "" {
			treatments = []string{hit.Source.Treatments}
		}
		records = append(records, Record{
			ID:                    hit.ID,
			DiagnosisName:         hit.Source.DiagnosisName,
			TreatmentDescriptions: treatments,
			SelectedSymptomIDs:    hit.Source.SelectedSymptomIDs,
			UserID:                hit.Source.UserID,
			Accuracy:              hit.Source.Accuracy,
			IsSuccess:             hit.Source.IsSuccess,
			Timestamp:             hit.Source.Timestamp,
		})
	}
	return records, nil
}
