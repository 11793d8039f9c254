// File: internal/rule/model.go
package rule

// Rule is one clinical case in the expert system. SymptomIDs is treated as a
// set; TreatmentCodes and TreatmentDescriptions are parallel slices.
// DiagnosisCode is not unique across rules: the same diagnosis can appear in
// several rules with different symptom patterns.
type Rule struct {
	SymptomIDs            []string `firestore:"symptom_ids" json:"symptom_ids"`
	DiagnosisCode         string   `firestore:"diagnosis_code" json:"diagnosis_code"`
	DiagnosisName         string   `firestore:"diagnosis_name" json:"diagnosis_name"`
	TreatmentCodes        []string `firestore:"treatment_codes" json:"treatment_codes"`
	TreatmentDescriptions []string `firestore:"treatment_descs" json:"treatment_descriptions"`
}
