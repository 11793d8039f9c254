// File: internal/diagnosis/model.go
package diagnosis

import "math"

// DiagnoseRequest is the payload for running a diagnosis.
type DiagnoseRequest struct {
	SelectedSymptomIDs []string `json:"selected_symptom_ids" binding:"required,min=1,dive,required"`
}

// DiagnoseResponse is the API representation of a diagnosis outcome. Accuracy
// is rounded to a whole percent at this boundary; the engine keeps the exact
// value.
type DiagnoseResponse struct {
	DiagnosisName         string   `json:"diagnosis_name"`
	TreatmentDescriptions []string `json:"treatment_descriptions"`
	Accuracy              float64  `json:"accuracy"`
	IsSuccess             bool     `json:"is_success"`
	HistorySaved          bool     `json:"history_saved"`
	HistoryRecordID       string   `json:"history_record_id,omitempty"`
}

// Outcome is the service-level result of a diagnosis run, including whether
// the history append succeeded.
type Outcome struct {
	Result   MatchResult
	Saved    bool
	RecordID string
}

// ToDiagnoseResponse converts a service outcome into the API shape.
func ToDiagnoseResponse(o *Outcome) DiagnoseResponse {
	return DiagnoseResponse{
		DiagnosisName:         o.Result.DiagnosisName,
		TreatmentDescriptions: o.Result.TreatmentDescriptions,
		Accuracy:              math.Round(o.Result.Accuracy),
		IsSuccess:             o.Result.IsSuccess,
		HistorySaved:          o.Saved,
		HistoryRecordID:       o.RecordID,
	}
}
