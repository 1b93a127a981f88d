package models

// Layouts for the date and time columns of logged_foods.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// LogEntry is one persisted diary record: a specific amount of a specific
// food logged at a specific date and time. The nutrient fields are the
// entry's private snapshot; only AmountGrams may change after creation.
type LogEntry struct {
	ID          int64            `json:"id"`
	Date        string           `json:"date"` // ISO date, no time component
	Time        string           `json:"time"`
	AmountGrams int              `json:"amount_grams"`
	FoodID      int64            `json:"food_id"`
	Description string           `json:"description"`
	BrandOwner  string           `json:"brand_owner,omitempty"`
	Nutrients   []NutrientAmount `json:"nutrients"`
}
