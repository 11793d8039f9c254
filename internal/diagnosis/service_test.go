// File: internal/diagnosis/service_test.go
package diagnosis

import (
	"context"
	"errors"
	"testing"

	"dentalscope_backend/internal/history"
	"dentalscope_backend/internal/platform/logger"
	"dentalscope_backend/internal/rule"
)

type fakeRuleService struct {
	rules []rule.Rule
	err   error
}

func (f *fakeRuleService) GetRules(ctx context.Context) ([]rule.Rule, error) {
	return f.rules, f.err
}

func (f *fakeRuleService) Refresh(ctx context.Context) error { return f.err }

type fakeHistoryService struct {
	appended []*history.Record
	err      error
}

func (f *fakeHistoryService) Append(ctx context.Context, record *history.Record) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, record)
	return "doc-001", nil
}

func (f *fakeHistoryService) ListByUser(ctx context.Context, userID string) ([]history.Record, error) {
	return nil, nil
}

func (f *fakeHistoryService) StreamByUser(ctx context.Context, userID string, onSnapshot func([]history.Record), onError func(error)) (func(), error) {
	return func() {}, nil
}

func (f *fakeHistoryService) Search(ctx context.Context, userID, query string) ([]history.Record, error) {
	return nil, nil
}

func TestDiagnoseAppendsHistory(t *testing.T) {
	rules := &fakeRuleService{rules: []rule.Rule{
		{DiagnosisName: "Plaque-Induced Gingivitis", SymptomIDs: []string{"G01", "G02", "G03"},
			TreatmentDescriptions: []string{"Scaling and polishing"}},
	}}
	hist := &fakeHistoryService{}
	svc := NewService(rules, hist, logger.NewDefaultLogger())

	outcome, err := svc.Diagnose(context.Background(), "user-1", []string{"G01", "G02", "G03"})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !outcome.Saved || outcome.RecordID != "doc-001" {
		t.Errorf("expected saved outcome with record id, got %+v", outcome)
	}
	if len(hist.appended) != 1 {
		t.Fatalf("expected 1 appended record, got %d", len(hist.appended))
	}

	rec := hist.appended[0]
	if rec.UserID != "user-1" {
		t.Errorf("record user = %q", rec.UserID)
	}
	if rec.DiagnosisName != "Plaque-Induced Gingivitis" || rec.Accuracy != 100 || !rec.IsSuccess {
		t.Errorf("unexpected record content: %+v", rec)
	}
	if rec.Timestamp == "" {
		t.Error("record timestamp not set")
	}
}

func TestDiagnoseSurvivesHistoryWriteFailure(t *testing.T) {
	rules := &fakeRuleService{rules: []rule.Rule{
		{DiagnosisName: "Chronic Periodontitis", SymptomIDs: []string{"G09", "G11"}},
	}}
	hist := &fakeHistoryService{err: errors.New("firestore down")}
	svc := NewService(rules, hist, logger.NewDefaultLogger())

	outcome, err := svc.Diagnose(context.Background(), "user-1", []string{"G09", "G11"})
	if err != nil {
		t.Fatalf("a failed history append must not fail the diagnosis: %v", err)
	}
	if outcome.Saved {
		t.Error("outcome must report the append failure")
	}
	if outcome.Result.DiagnosisName != "Chronic Periodontitis" {
		t.Errorf("diagnosis result lost: %+v", outcome.Result)
	}
}

func TestDiagnoseRecordsRoundedAccuracy(t *testing.T) {
	rules := &fakeRuleService{rules: []rule.Rule{
		{DiagnosisName: "Chronic Periodontitis", SymptomIDs: []string{"G09", "G11", "G14"}},
	}}
	hist := &fakeHistoryService{}
	svc := NewService(rules, hist, logger.NewDefaultLogger())

	outcome, err := svc.Diagnose(context.Background(), "user-1", []string{"G09", "G11"})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	// Engine keeps the exact score; the stored record rounds to a whole percent.
	if outcome.Result.Accuracy == 67 {
		t.Error("engine accuracy should not be pre-rounded")
	}
	if hist.appended[0].Accuracy != 67 {
		t.Errorf("stored accuracy = %v, want 67", hist.appended[0].Accuracy)
	}
}

func TestDiagnoseFailsWhenCatalogUnavailable(t *testing.T) {
	rules := &fakeRuleService{err: errors.New("catalog unavailable")}
	hist := &fakeHistoryService{}
	svc := NewService(rules, hist, logger.NewDefaultLogger())

	if _, err := svc.Diagnose(context.Background(), "user-1", []string{"G01"}); err == nil {
		t.Fatal("expected an error when the rule catalog cannot be read")
	}
	if len(hist.appended) != 0 {
		t.Error("nothing must be appended when the catalog read fails")
	}
}
