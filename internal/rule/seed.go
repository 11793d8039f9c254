// File: internal/rule/seed.go
package rule

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// seedRules is the baseline clinical rule set written by the seed-rules
// subcommand. Diagnosis codes repeat across rules on purpose: each rule is an
// independent case with its own symptom pattern.
var seedRules = []Rule{
	{
		DiagnosisCode: "P01",
		DiagnosisName: "Plaque-Induced Gingivitis",
		SymptomIDs:    []string{"G01", "G02", "G03", "G04", "G05"},
		TreatmentCodes: []string{"T01", "T02", "T03"},
		TreatmentDescriptions: []string{
			"Professional scaling and polishing to remove plaque and tartar",
			"Brush twice daily with a soft-bristled brush and floss once daily",
			"Rinse with an antiseptic mouthwash for two weeks",
		},
	},
	{
		DiagnosisCode: "P01",
		DiagnosisName: "Plaque-Induced Gingivitis",
		SymptomIDs:    []string{"G01", "G03", "G06", "G07"},
		TreatmentCodes: []string{"T01", "T02"},
		TreatmentDescriptions: []string{
			"Professional scaling and polishing to remove plaque and tartar",
			"Brush twice daily with a soft-bristled brush and floss once daily",
		},
	},
	{
		DiagnosisCode: "P02",
		DiagnosisName: "Chronic Periodontitis",
		SymptomIDs:    []string{"G09", "G10", "G11", "G12", "G14", "G16"},
		TreatmentCodes: []string{"T04", "T05", "T06"},
		TreatmentDescriptions: []string{
			"Deep cleaning (scaling and root planing) under local anesthesia",
			"Periodontal pocket evaluation and possible flap surgery",
			"Three-month periodontal maintenance recalls",
		},
	},
	{
		DiagnosisCode: "P02",
		DiagnosisName: "Chronic Periodontitis",
		SymptomIDs:    []string{"G05", "G11", "G13", "G14", "G15"},
		TreatmentCodes: []string{"T04", "T07"},
		TreatmentDescriptions: []string{
			"Deep cleaning (scaling and root planing) under local anesthesia",
			"Drainage of the periodontal abscess and a course of antibiotics",
		},
	},
	{
		DiagnosisCode: "P03",
		DiagnosisName: "Necrotizing Ulcerative Gingivitis",
		SymptomIDs:    []string{"G05", "G06", "G08", "G17", "G18"},
		TreatmentCodes: []string{"T08", "T09"},
		TreatmentDescriptions: []string{
			"Gentle debridement of necrotic tissue over several visits",
			"Metronidazole course and chlorhexidine rinses",
		},
	},
	{
		DiagnosisCode: "P04",
		DiagnosisName: "Drug-Induced Gingival Enlargement",
		SymptomIDs:    []string{"G19", "G21", "G22", "G33"},
		TreatmentCodes: []string{"T10", "T11"},
		TreatmentDescriptions: []string{
			"Consult the prescribing physician about substituting the medication",
			"Surgical recontouring (gingivectomy) of the overgrown tissue",
		},
	},
	{
		DiagnosisCode: "P04",
		DiagnosisName: "Pyogenic Granuloma",
		SymptomIDs:    []string{"G20", "G23", "G31"},
		TreatmentCodes: []string{"T11", "T12"},
		TreatmentDescriptions: []string{
			"Surgical recontouring (gingivectomy) of the overgrown tissue",
			"Excision of the growth with histopathological examination",
		},
	},
	{
		DiagnosisCode: "P05",
		DiagnosisName: "Traumatic Gum Injury",
		SymptomIDs:    []string{"G06", "G09", "G26", "G27"},
		TreatmentCodes: []string{"T13", "T14"},
		TreatmentDescriptions: []string{
			"Remove the source of trauma and adjust the ill-fitting appliance",
			"Switch to a soft-bristled brush with a gentle technique",
		},
	},
	{
		DiagnosisCode: "P05",
		DiagnosisName: "Occlusal Trauma",
		SymptomIDs:    []string{"G11", "G15", "G24", "G28", "G29"},
		TreatmentCodes: []string{"T15", "T16"},
		TreatmentDescriptions: []string{
			"Occlusal adjustment to balance the bite",
			"Night guard to protect teeth from grinding",
		},
	},
	{
		DiagnosisCode: "P02",
		DiagnosisName: "Diabetes-Associated Periodontitis",
		SymptomIDs:    []string{"G01", "G11", "G13", "G30", "G34"},
		TreatmentCodes: []string{"T04", "T17"},
		TreatmentDescriptions: []string{
			"Deep cleaning (scaling and root planing) under local anesthesia",
			"Coordinate glycemic control with the treating physician",
		},
	},
}

// SeedRules writes the baseline rule set into Firestore. Existing documents
// with the same id are overwritten, so re-running the command is safe.
func SeedRules(ctx context.Context, client *firestore.Client, logger *zap.Logger) error {
	log := logger.Named("rule_seeder")
	coll := client.Collection(RulesCollection)

	for i, rl := range seedRules {
		docID := slug.Make(fmt.Sprintf("%s %s %d", rl.DiagnosisCode, rl.DiagnosisName, i+1))
		if _, err := coll.Doc(docID).Set(ctx, rl); err != nil {
			log.Error("Failed to seed rule",
				zap.String("doc_id", docID),
				zap.String("diagnosis_code", rl.DiagnosisCode),
				zap.Error(err),
			)
			return fmt.Errorf("seeding rule %s: %w", docID, err)
		}
		log.Info("Seeded rule", zap.String("doc_id", docID), zap.String("diagnosis", rl.DiagnosisName))
	}

	log.Info("Rule seeding complete", zap.Int("rule_count", len(seedRules)))
	return nil
}
