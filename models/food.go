package models

import (
	"encoding/json"
	"fmt"
)

// FoodSummary is a single search hit from the nutrition database.
// Session-only: it is discarded once a selection is confirmed.
type FoodSummary struct {
	FDCID       int64  `json:"fdcId"`
	Description string `json:"description"`
	BrandOwner  string `json:"brandOwner,omitempty"`
}

// NutrientAmount is one nutrient of a food, per 100 g.
type NutrientAmount struct {
	NutrientID    int64   `json:"nutrient_id"`
	Name          string  `json:"name"`
	UnitName      string  `json:"unit_name"`
	AmountPer100g float64 `json:"amount_per_100g"`
}

// NutrientProfile is a food's per-100g reference data fetched from the
// nutrition database. Nutrient ids are unique within one profile.
type NutrientProfile struct {
	FDCID       int64            `json:"fdcId"`
	Description string           `json:"description"`
	BrandOwner  string           `json:"brandOwner,omitempty"`
	Nutrients   []NutrientAmount `json:"nutrients"`
}

// FoodSnapshot is the frozen copy of a profile taken at log time. It is the
// only thing persisted in the food_data column, so it also carries the
// description and brand owner.
type FoodSnapshot struct {
	Description string           `json:"description"`
	BrandOwner  string           `json:"brand_owner,omitempty"`
	Nutrients   []NutrientAmount `json:"nutrients"`
}

// Snapshot copies the profile into an entry-owned FoodSnapshot. Later
// changes to the source profile must not reach the copy.
func (p *NutrientProfile) Snapshot() FoodSnapshot {
	nutrients := make([]NutrientAmount, len(p.Nutrients))
	copy(nutrients, p.Nutrients)
	return FoodSnapshot{
		Description: p.Description,
		BrandOwner:  p.BrandOwner,
		Nutrients:   nutrients,
	}
}

// EncodeSnapshot serializes a snapshot for the food_data column.
// JSON arrays keep the provider's nutrient ordering.
func EncodeSnapshot(s FoodSnapshot) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode food snapshot: %w", err)
	}
	return string(b), nil
}

// DecodeSnapshot parses a food_data column value back into a snapshot.
func DecodeSnapshot(data string) (FoodSnapshot, error) {
	var s FoodSnapshot
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return FoodSnapshot{}, fmt.Errorf("decode food snapshot: %w", err)
	}
	return s, nil
}
