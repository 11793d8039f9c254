// File: internal/history/esdoc_test.go
package history

import (
	"encoding/json"
	"testing"
)

func TestRecordToElasticsearchDoc(t *testing.T) {
	rec := &Record{
		ID:                    "doc-001",
		DiagnosisName:         "Chronic Periodontitis",
		Accuracy:              83.33,
		IsSuccess:             true,
		TreatmentDescriptions: []string{"Deep cleaning", "Three-month recalls"},
		SelectedSymptomIDs:    []string{"G09", "G11"},
		UserID:                "user-1",
		Timestamp:             "2025-06-01T10:00:00Z",
	}

	docJSON, err := RecordToElasticsearchDoc(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}

	if doc["diagnosis_name"] != "Chronic Periodontitis" {
		t.Errorf("diagnosis_name = %v", doc["diagnosis_name"])
	}
	// Treatments are flattened into one searchable text field.
	if doc["treatments"] != "Deep cleaning Three-month recalls" {
		t.Errorf("treatments = %v", doc["treatments"])
	}
	if doc["user_id"] != "user-1" {
		t.Errorf("user_id = %v", doc["user_id"])
	}
	if doc["is_success"] != true {
		t.Errorf("is_success = %v", doc["is_success"])
	}
	if _, ok := doc["id"]; ok {
		t.Error("document id belongs in the index metadata, not the source")
	}
}

func TestRecordToElasticsearchDocNilRecord(t *testing.T) {
	if _, err := RecordToElasticsearchDoc(nil); err == nil {
		t.Fatal("expected an error for a nil record")
	}
}
