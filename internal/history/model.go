// File: internal/history/model.go
package history

import (
	"sort"
	"time"
)

// Record is one appended diagnosis outcome. Records are append-only and never
// mutated after the write. ID is assigned by the store; Timestamp is an
// RFC3339 string so records sort the same way everywhere.
type Record struct {
	ID                    string   `firestore:"-" json:"id"`
	DiagnosisName         string   `firestore:"diagnosis_name" json:"diagnosis_name"`
	Accuracy              float64  `firestore:"accuracy" json:"accuracy"`
	IsSuccess             bool     `firestore:"is_success" json:"is_success"`
	TreatmentDescriptions []string `firestore:"treatments" json:"treatment_descriptions"`
	SelectedSymptomIDs    []string `firestore:"selected_symptom_ids" json:"selected_symptom_ids"`
	UserID                string   `firestore:"user_id" json:"user_id"`
	Timestamp             string   `firestore:"timestamp" json:"timestamp"`
}

// NewTimestamp formats a point in time the way records store it.
func NewTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// SortRecords orders records newest first; records with the same timestamp are
// ordered by id ascending so the overall order is total and stable.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, erri := time.Parse(time.RFC3339Nano, records[i].Timestamp)
		tj, errj := time.Parse(time.RFC3339Nano, records[j].Timestamp)
		if erri == nil && errj == nil {
			if !ti.Equal(tj) {
				return ti.After(tj)
			}
		} else if records[i].Timestamp != records[j].Timestamp {
			// Unparseable timestamps fall back to lexicographic order, which
			// matches chronological order for uniformly formatted strings.
			return records[i].Timestamp > records[j].Timestamp
		}
		return records[i].ID < records[j].ID
	})
}
