// File: internal/history/esdoc.go
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RecordToElasticsearchDoc converts a record to its Elasticsearch document
// representation. Treatments are flattened into one text field so they score
// as a single body of text.
func RecordToElasticsearchDoc(rec *Record) (string, error) {
	if rec == nil {
		return "", errors.New("record cannot be nil")
	}

	doc := map[string]interface{}{
		"diagnosis_name":       rec.DiagnosisName,
		"treatments":           strings.Join(rec.TreatmentDescriptions, " "),
		"selected_symptom_ids": rec.SelectedSymptomIDs,
		"user_id":              rec.UserID,
		"accuracy":             rec.Accuracy,
		"is_success":           rec.IsSuccess,
		"timestamp":            rec.Timestamp,
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error marshalling history record to JSON for ES: %w", err)
	}
	return string(docBytes), nil
}
