// File: internal/symptom/model.go
package symptom

// Category groups related symptoms for the checklist UI. The matcher never
// depends on grouping; it works on symptom ids only.
type Category string

const (
	CategoryPlaqueInflammation Category = "Plaque & Inflammation"
	CategoryTissueBoneDamage   Category = "Tissue & Bone Damage"
	CategoryEnlargement        Category = "Gum Enlargement"
	CategoryTraumaMalocclusion Category = "Trauma & Malocclusion"
	CategorySystemicFactors    Category = "Systemic & Medication Factors"
)

// Symptom is a single observable complaint a user can tick on the checklist.
type Symptom struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// Group is a category with its symptoms, in catalog order.
type Group struct {
	Category Category  `json:"category"`
	Symptoms []Symptom `json:"symptoms"`
}
