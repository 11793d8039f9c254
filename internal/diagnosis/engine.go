// File: internal/diagnosis/engine.go
package diagnosis

import (
	"dentalscope_backend/internal/rule"
)

// SuccessThreshold is the minimum accuracy (in percent) at which a match is
// considered a confident diagnosis.
const SuccessThreshold = 60.0

// NoDiagnosisName is the sentinel diagnosis returned when nothing matches.
const NoDiagnosisName = "No Matching Diagnosis"

// NoDiagnosisAdvice is the fixed advisory shown with the sentinel result.
const NoDiagnosisAdvice = "Your selected symptoms did not match any known condition. Please consult a dentist for a professional examination."

// MatchResult is the outcome of running the engine over the rule catalog.
type MatchResult struct {
	DiagnosisName         string
	TreatmentDescriptions []string
	Accuracy              float64
	IsSuccess             bool
}

// NoMatch returns the sentinel result used when the best score is zero or the
// inputs are empty.
func NoMatch() MatchResult {
	return MatchResult{
		DiagnosisName:         NoDiagnosisName,
		TreatmentDescriptions: []string{NoDiagnosisAdvice},
		Accuracy:              0,
		IsSuccess:             false,
	}
}

// Match scores every rule against the selected symptom ids and returns the
// best result. For each rule the score is the share of the rule's symptoms
// present in the selection, as a percentage. A rule only wins by scoring
// strictly higher than the current best, so on ties the first-encountered rule
// is kept. Selections and rule symptom sets are deduplicated; unknown ids
// simply never match. A best score of zero yields the sentinel no-match
// result.
//
// Match is pure: it never mutates its inputs, is safe for concurrent use, and
// never panics on empty or malformed input.
func Match(selected []string, rules []rule.Rule) MatchResult {
	selectedSet := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		if id == "" {
			continue
		}
		selectedSet[id] = struct{}{}
	}

	if len(selectedSet) == 0 || len(rules) == 0 {
		return NoMatch()
	}

	best := NoMatch()
	bestScore := 0.0

	for _, rl := range rules {
		ruleSet := make(map[string]struct{}, len(rl.SymptomIDs))
		for _, id := range rl.SymptomIDs {
			if id == "" {
				continue
			}
			ruleSet[id] = struct{}{}
		}
		if len(ruleSet) == 0 {
			continue
		}

		matched := 0
		for id := range ruleSet {
			if _, ok := selectedSet[id]; ok {
				matched++
			}
		}

		score := float64(matched) / float64(len(ruleSet)) * 100
		if score > bestScore {
			bestScore = score
			best = MatchResult{
				DiagnosisName:         rl.DiagnosisName,
				TreatmentDescriptions: rl.TreatmentDescriptions,
				Accuracy:              score,
				IsSuccess:             score >= SuccessThreshold,
			}
		}
	}

	if bestScore == 0 {
		return NoMatch()
	}
	return best
}
