package domain

// Имена справочников (и имена их JSON-файлов в каталоге options).
const (
	VocabDistrict  = "district"
	VocabStatus    = "status"
	VocabCategory  = "category"
	VocabPlan      = "plan"
	VocabMaterial  = "material"
	VocabBalcony   = "balcony"
	VocabParking   = "parking"
	VocabCondition = "condition"
)

// OptionSet - все справочники, загруженные один раз на прогон.
// Пустой список означает, что справочник недоступен: сопоставление
// просто не сработает, значения пройдут насквозь.
type OptionSet struct {
	District  []string
	Status    []string
	Category  []string
	Plan      []string
	Material  []string
	Balcony   []string
	Parking   []string
	Condition []string
}
