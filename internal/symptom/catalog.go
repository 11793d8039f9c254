// File: internal/symptom/catalog.go
package symptom

// The catalog is fixed at build time. Rules reference these ids; an id a rule
// references that is missing here simply never matches.
var catalog = []Symptom{
	{ID: "G01", Description: "Gums bleed easily when brushing or flossing", Category: CategoryPlaqueInflammation},
	{ID: "G02", Description: "Gums appear red or reddish-blue instead of pink", Category: CategoryPlaqueInflammation},
	{ID: "G03", Description: "Gums look swollen or puffy", Category: CategoryPlaqueInflammation},
	{ID: "G04", Description: "Visible plaque or tartar buildup along the gum line", Category: CategoryPlaqueInflammation},
	{ID: "G05", Description: "Persistent bad breath", Category: CategoryPlaqueInflammation},
	{ID: "G06", Description: "Gums feel tender or painful to the touch", Category: CategoryPlaqueInflammation},
	{ID: "G07", Description: "Shiny, smooth gum surface", Category: CategoryPlaqueInflammation},
	{ID: "G08", Description: "Bleeding starts spontaneously without brushing", Category: CategoryPlaqueInflammation},

	{ID: "G09", Description: "Gums have pulled away from the teeth (recession)", Category: CategoryTissueBoneDamage},
	{ID: "G10", Description: "Teeth look longer than before", Category: CategoryTissueBoneDamage},
	{ID: "G11", Description: "One or more teeth feel loose", Category: CategoryTissueBoneDamage},
	{ID: "G12", Description: "New gaps have appeared between teeth", Category: CategoryTissueBoneDamage},
	{ID: "G13", Description: "Pus appears between teeth and gums when pressed", Category: CategoryTissueBoneDamage},
	{ID: "G14", Description: "Deep pockets have formed between teeth and gums", Category: CategoryTissueBoneDamage},
	{ID: "G15", Description: "Bite feels different when teeth come together", Category: CategoryTissueBoneDamage},
	{ID: "G16", Description: "Pain when chewing", Category: CategoryTissueBoneDamage},
	{ID: "G17", Description: "Grey film over the gums with crater-like sores", Category: CategoryTissueBoneDamage},
	{ID: "G18", Description: "Sores or ulcers on the gum tissue between teeth", Category: CategoryTissueBoneDamage},

	{ID: "G19", Description: "Gums have grown over parts of the teeth", Category: CategoryEnlargement},
	{ID: "G20", Description: "A firm lump or growth on the gums", Category: CategoryEnlargement},
	{ID: "G21", Description: "Gum enlargement that started after a new medication", Category: CategoryEnlargement},
	{ID: "G22", Description: "Gum overgrowth affecting the whole mouth", Category: CategoryEnlargement},
	{ID: "G23", Description: "A soft, red, easily bleeding bump on the gums", Category: CategoryEnlargement},

	{ID: "G24", Description: "Grinding or clenching teeth, especially at night", Category: CategoryTraumaMalocclusion},
	{ID: "G25", Description: "Crooked or crowded teeth that are hard to clean", Category: CategoryTraumaMalocclusion},
	{ID: "G26", Description: "Discomfort around a poorly fitting denture or crown", Category: CategoryTraumaMalocclusion},
	{ID: "G27", Description: "Gum injury from hard brushing or a toothpick", Category: CategoryTraumaMalocclusion},
	{ID: "G28", Description: "Jaw soreness or clicking on waking", Category: CategoryTraumaMalocclusion},
	{ID: "G29", Description: "A single tooth that hits first when biting down", Category: CategoryTraumaMalocclusion},

	{ID: "G30", Description: "Diagnosed diabetes or high blood sugar", Category: CategorySystemicFactors},
	{ID: "G31", Description: "Currently pregnant or recent hormonal changes", Category: CategorySystemicFactors},
	{ID: "G32", Description: "Smoking or tobacco use", Category: CategorySystemicFactors},
	{ID: "G33", Description: "Taking anticonvulsant, immunosuppressant, or blood pressure medication", Category: CategorySystemicFactors},
	{ID: "G34", Description: "Dry mouth most of the day", Category: CategorySystemicFactors},
	{ID: "G35", Description: "Family history of early tooth loss or gum disease", Category: CategorySystemicFactors},
}

var catalogByID map[string]Symptom

func init() {
	catalogByID = make(map[string]Symptom, len(catalog))
	for _, s := range catalog {
		catalogByID[s.ID] = s
	}
}

// All returns the full catalog in declaration order. The returned slice must
// not be mutated.
func All() []Symptom {
	return catalog
}

// ByID looks up a symptom by id.
func ByID(id string) (Symptom, bool) {
	s, ok := catalogByID[id]
	return s, ok
}

// GroupedByCategory returns the catalog grouped for the checklist endpoint,
// categories in first-appearance order.
func GroupedByCategory() []Group {
	var groups []Group
	index := make(map[Category]int)
	for _, s := range catalog {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, Group{Category: s.Category})
		}
		groups[i].Symptoms = append(groups[i].Symptoms, s)
	}
	return groups
}
