package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/JohnZolton/Zynq/database"
	"github.com/JohnZolton/Zynq/models"
)

func setupTestStore(t *testing.T) (*LogStore, *gorm.DB) {
	db, err := database.Open(filepath.Join(t.TempDir(), "food.db"))
	require.NoError(t, err)

	store := NewLogStore(db)
	require.NoError(t, store.Initialize())
	return store, db
}

func appleEntry(date, tm string) models.LogEntry {
	return models.LogEntry{
		Date:        date,
		Time:        tm,
		AmountGrams: 150,
		FoodID:      1102644,
		Description: "Apple, raw",
		BrandOwner:  "Orchard Co",
		Nutrients: []models.NutrientAmount{
			{NutrientID: 1008, Name: "Energy", UnitName: "KCAL", AmountPer100g: 52},
			{NutrientID: 1005, Name: "Carbohydrate, by difference", UnitName: "G", AmountPer100g: 13.8},
		},
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	store, db := setupTestStore(t)

	// Second run must be a no-op on an up-to-date schema.
	assert.NoError(t, store.Initialize())

	var version int
	assert.NoError(t, db.Raw("PRAGMA user_version").Scan(&version).Error)
	assert.Equal(t, 1, version)
}

func TestAppendThenListByDate(t *testing.T) {
	store, _ := setupTestStore(t)

	saved, err := store.Append(appleEntry("2024-03-01", "12:30:00"))
	assert.NoError(t, err)
	assert.NotZero(t, saved.ID)

	entries, err := store.ListByDate("2024-03-01")
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, 150, got.AmountGrams)
	assert.Equal(t, "Apple, raw", got.Description)
	assert.Equal(t, "Orchard Co", got.BrandOwner)
	assert.Equal(t, saved.Nutrients, got.Nutrients)

	// other dates are untouched
	other, err := store.ListByDate("2024-03-02")
	assert.NoError(t, err)
	assert.Empty(t, other)
}

func TestListByDateOrdersByTime(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Append(appleEntry("2024-03-01", "19:05:00"))
	require.NoError(t, err)
	_, err = store.Append(appleEntry("2024-03-01", "08:15:00"))
	require.NoError(t, err)
	_, err = store.Append(appleEntry("2024-03-01", "12:30:00"))
	require.NoError(t, err)

	entries, err := store.ListByDate("2024-03-01")
	assert.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "08:15:00", entries[0].Time)
	assert.Equal(t, "12:30:00", entries[1].Time)
	assert.Equal(t, "19:05:00", entries[2].Time)
}

func TestUpdateAmount(t *testing.T) {
	store, _ := setupTestStore(t)

	saved, err := store.Append(appleEntry("2024-03-01", "12:30:00"))
	require.NoError(t, err)

	assert.NoError(t, store.UpdateAmount(saved.ID, 200))

	entries, err := store.ListByDate("2024-03-01")
	assert.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 200, entries[0].AmountGrams)
	// everything but the amount is untouched
	assert.Equal(t, saved.Description, entries[0].Description)
	assert.Equal(t, saved.Time, entries[0].Time)
	assert.Equal(t, saved.Nutrients, entries[0].Nutrients)
}

func TestUpdateAmountNotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	err := store.UpdateAmount(9999, 200)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	store, _ := setupTestStore(t)

	saved, err := store.Append(appleEntry("2024-03-01", "12:30:00"))
	require.NoError(t, err)

	assert.NoError(t, store.Delete(saved.ID))

	entries, err := store.ListByDate("2024-03-01")
	assert.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, store.Delete(saved.ID), ErrNotFound)
}

func TestListByDateSurfacesCorruptSnapshot(t *testing.T) {
	store, db := setupTestStore(t)

	_, err := store.Append(appleEntry("2024-03-01", "08:00:00"))
	require.NoError(t, err)

	// a row written by something that didn't go through the codec
	require.NoError(t, db.Exec(
		`INSERT INTO logged_foods (date, time, amount, food_id, food_data) VALUES (?, ?, ?, ?, ?)`,
		"2024-03-01", "09:00:00", 100, int64(42), "{broken",
	).Error)

	entries, err := store.ListByDate("2024-03-01")
	assert.Error(t, err)
	// the decodable entry still comes back; the caller decides what to do
	require.Len(t, entries, 1)
	assert.Equal(t, "Apple, raw", entries[0].Description)
}
