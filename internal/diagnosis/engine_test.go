// File: internal/diagnosis/engine_test.go
package diagnosis

import (
	"math"
	"reflect"
	"sync"
	"testing"

	"dentalscope_backend/internal/rule"
)

func testRules() []rule.Rule {
	return []rule.Rule{
		{
			DiagnosisCode:         "P01",
			DiagnosisName:         "Plaque-Induced Gingivitis",
			SymptomIDs:            []string{"G01", "G02", "G03", "G04"},
			TreatmentDescriptions: []string{"Scaling and polishing"},
		},
		{
			DiagnosisCode:         "P02",
			DiagnosisName:         "Chronic Periodontitis",
			SymptomIDs:            []string{"G09", "G11", "G14"},
			TreatmentDescriptions: []string{"Scaling and root planing"},
		},
		{
			DiagnosisCode:         "P03",
			DiagnosisName:         "Necrotizing Ulcerative Gingivitis",
			SymptomIDs:            []string{"G17", "G18"},
			TreatmentDescriptions: []string{"Debridement"},
		},
	}
}

func TestMatchExactRuleScoresFull(t *testing.T) {
	got := Match([]string{"G01", "G02", "G03", "G04"}, testRules())
	if got.DiagnosisName != "Plaque-Induced Gingivitis" {
		t.Fatalf("got diagnosis %q", got.DiagnosisName)
	}
	if got.Accuracy != 100 {
		t.Errorf("accuracy = %v, want 100", got.Accuracy)
	}
	if !got.IsSuccess {
		t.Error("expected a confident result")
	}
}

func TestMatchPartialOverlap(t *testing.T) {
	// 2 of 3 periodontitis symptoms: 66.67 beats 1 of 4 gingivitis (25).
	got := Match([]string{"G09", "G11", "G01"}, testRules())
	if got.DiagnosisName != "Chronic Periodontitis" {
		t.Fatalf("got diagnosis %q", got.DiagnosisName)
	}
	// Floating-point compare: constant folding and the runtime division can
	// differ in the last bit.
	wantScore := 2.0 / 3.0 * 100
	if math.Abs(got.Accuracy-wantScore) > 1e-9 {
		t.Errorf("accuracy = %v, want %v", got.Accuracy, wantScore)
	}
	if !got.IsSuccess {
		t.Error("66.67 is above the success threshold")
	}
}

func TestMatchBelowThresholdStillReturned(t *testing.T) {
	// 1 of 4 symptoms: best score 25, returned but not confident.
	got := Match([]string{"G01"}, testRules())
	if got.DiagnosisName != "Plaque-Induced Gingivitis" {
		t.Fatalf("got diagnosis %q", got.DiagnosisName)
	}
	if got.Accuracy != 25 {
		t.Errorf("accuracy = %v, want 25", got.Accuracy)
	}
	if got.IsSuccess {
		t.Error("25 must not be a confident result")
	}
}

func TestMatchThresholdBoundary(t *testing.T) {
	rules := []rule.Rule{
		{DiagnosisName: "ThreeOfFive", SymptomIDs: []string{"S1", "S2", "S3", "S4", "S5"}},
	}
	got := Match([]string{"S1", "S2", "S3"}, rules)
	if got.Accuracy != 60 {
		t.Fatalf("accuracy = %v, want exactly 60", got.Accuracy)
	}
	if !got.IsSuccess {
		t.Error("a score equal to the threshold counts as success")
	}
}

func TestMatchTieKeepsFirstRule(t *testing.T) {
	rules := []rule.Rule{
		{DiagnosisName: "First", SymptomIDs: []string{"A", "B"}},
		{DiagnosisName: "Second", SymptomIDs: []string{"A", "C"}},
	}
	got := Match([]string{"A"}, rules)
	if got.DiagnosisName != "First" {
		t.Errorf("tie must keep the first-encountered rule, got %q", got.DiagnosisName)
	}
	if got.Accuracy != 50 {
		t.Errorf("accuracy = %v, want 50", got.Accuracy)
	}
}

func TestMatchLaterRuleWinsOnlyIfStrictlyGreater(t *testing.T) {
	rules := []rule.Rule{
		{DiagnosisName: "Half", SymptomIDs: []string{"A", "B"}},
		{DiagnosisName: "Full", SymptomIDs: []string{"A"}},
	}
	got := Match([]string{"A"}, rules)
	if got.DiagnosisName != "Full" {
		t.Errorf("100 beats 50, got %q", got.DiagnosisName)
	}
}

func TestMatchNoOverlapYieldsSentinel(t *testing.T) {
	got := Match([]string{"G30", "G31"}, testRules())
	if got.DiagnosisName != NoDiagnosisName {
		t.Fatalf("expected sentinel, got %q", got.DiagnosisName)
	}
	if got.Accuracy != 0 || got.IsSuccess {
		t.Errorf("sentinel must have zero accuracy and no success: %+v", got)
	}
	if len(got.TreatmentDescriptions) != 1 || got.TreatmentDescriptions[0] != NoDiagnosisAdvice {
		t.Errorf("sentinel must carry the fixed advisory, got %v", got.TreatmentDescriptions)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	cases := []struct {
		name     string
		selected []string
		rules    []rule.Rule
	}{
		{"nil selection", nil, testRules()},
		{"empty selection", []string{}, testRules()},
		{"nil rules", []string{"G01"}, nil},
		{"empty rules", []string{"G01"}, []rule.Rule{}},
		{"both empty", nil, nil},
		{"blank ids only", []string{"", ""}, testRules()},
		{"rule with empty symptom set", []string{"G01"}, []rule.Rule{{DiagnosisName: "Empty"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Match(tc.selected, tc.rules)
			if got.DiagnosisName != NoDiagnosisName {
				t.Errorf("expected sentinel, got %q", got.DiagnosisName)
			}
		})
	}
}

func TestMatchDeduplicatesSelection(t *testing.T) {
	rules := []rule.Rule{
		{DiagnosisName: "Pair", SymptomIDs: []string{"A", "B"}},
	}
	got := Match([]string{"A", "A", "A"}, rules)
	if got.Accuracy != 50 {
		t.Errorf("duplicates must count once: accuracy = %v, want 50", got.Accuracy)
	}
}

func TestMatchIgnoresUnknownIDs(t *testing.T) {
	got := Match([]string{"G17", "G18", "BOGUS", "ALSO-BOGUS"}, testRules())
	if got.DiagnosisName != "Necrotizing Ulcerative Gingivitis" {
		t.Fatalf("got diagnosis %q", got.DiagnosisName)
	}
	if got.Accuracy != 100 {
		t.Errorf("unknown ids must not dilute the score: accuracy = %v", got.Accuracy)
	}
}

func TestMatchDoesNotMutateInputs(t *testing.T) {
	selected := []string{"G09", "G01", "G11"}
	selectedCopy := append([]string(nil), selected...)
	rules := testRules()
	rulesCopy := make([]rule.Rule, len(rules))
	for i, r := range rules {
		rulesCopy[i] = r
		rulesCopy[i].SymptomIDs = append([]string(nil), r.SymptomIDs...)
	}

	Match(selected, rules)

	if !reflect.DeepEqual(selected, selectedCopy) {
		t.Error("selection was mutated")
	}
	for i := range rules {
		if !reflect.DeepEqual(rules[i].SymptomIDs, rulesCopy[i].SymptomIDs) {
			t.Errorf("rule %d symptom set was mutated", i)
		}
	}
}

func TestMatchIsDeterministic(t *testing.T) {
	selected := []string{"G09", "G11", "G01", "G17"}
	rules := testRules()
	first := Match(selected, rules)
	for i := 0; i < 50; i++ {
		if got := Match(selected, rules); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed: %+v vs %+v", i, got, first)
		}
	}
}

func TestMatchConcurrentUse(t *testing.T) {
	selected := []string{"G09", "G11", "G14"}
	rules := testRules()
	want := Match(selected, rules)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := Match(selected, rules); !reflect.DeepEqual(got, want) {
					t.Errorf("concurrent result differed: %+v", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
