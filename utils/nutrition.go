package utils

import (
	"math"

	"github.com/JohnZolton/Zynq/models"
)

// ScaledNutrient is a display-ready nutrient value for a concrete amount.
type ScaledNutrient struct {
	Name     string `json:"name"`
	UnitName string `json:"unit_name"`
	Value    int    `json:"value"`
}

// Nutrient ids that represent energy in kcal. First match wins, in this
// priority order: 1008 Energy, 2047 Energy (Atwater General Factors),
// 2048 Energy (Atwater Specific Factors).
var calorieNutrientIDs = []int64{1008, 2047, 2048}

// ScaleNutrients converts per-100g amounts to the given amount in grams,
// rounded to the nearest integer for display. Zero grams yields all zeros;
// an empty nutrient list yields an empty result.
func ScaleNutrients(nutrients []models.NutrientAmount, amountGrams float64) []ScaledNutrient {
	out := make([]ScaledNutrient, 0, len(nutrients))
	for _, n := range nutrients {
		out = append(out, ScaledNutrient{
			Name:     n.Name,
			UnitName: n.UnitName,
			Value:    scaleValue(n.AmountPer100g, amountGrams),
		})
	}
	return out
}

// TotalCalories returns the scaled value of the first energy nutrient found,
// or 0 when the profile carries none.
func TotalCalories(nutrients []models.NutrientAmount, amountGrams float64) int {
	for _, id := range calorieNutrientIDs {
		for _, n := range nutrients {
			if n.NutrientID == id {
				return scaleValue(n.AmountPer100g, amountGrams)
			}
		}
	}
	return 0
}

func scaleValue(amountPer100g, amountGrams float64) int {
	return int(math.Round(amountPer100g * amountGrams / 100))
}
