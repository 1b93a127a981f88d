package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/JohnZolton/Zynq/models"
)

// ErrNotFound is returned when an update or delete targets an id that does
// not exist. Callers must be able to tell this apart from a storage failure.
var ErrNotFound = errors.New("log entry not found")

// loggedFoodRow maps the logged_foods table. The nutrient snapshot lives in
// food_data as text; see models.EncodeSnapshot.
type loggedFoodRow struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	Date     string `gorm:"column:date"`
	Time     string `gorm:"column:time"`
	Amount   int    `gorm:"column:amount"`
	FoodID   int64  `gorm:"column:food_id"`
	FoodData string `gorm:"column:food_data"`
}

func (loggedFoodRow) TableName() string { return "logged_foods" }

// LogStore owns the durable diary. All access to logged_foods goes through
// it; nothing else touches the table.
type LogStore struct {
	db *gorm.DB
}

func NewLogStore(db *gorm.DB) *LogStore {
	return &LogStore{db: db}
}

// Append persists a new entry and returns it with the store-assigned id.
func (s *LogStore) Append(entry models.LogEntry) (models.LogEntry, error) {
	data, err := models.EncodeSnapshot(models.FoodSnapshot{
		Description: entry.Description,
		BrandOwner:  entry.BrandOwner,
		Nutrients:   entry.Nutrients,
	})
	if err != nil {
		return models.LogEntry{}, err
	}

	row := loggedFoodRow{
		Date:     entry.Date,
		Time:     entry.Time,
		Amount:   entry.AmountGrams,
		FoodID:   entry.FoodID,
		FoodData: data,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return models.LogEntry{}, fmt.Errorf("insert log entry: %w", err)
	}

	entry.ID = row.ID
	return entry, nil
}

// ListByDate returns the entries logged on the given ISO date, ordered by
// time ascending. Rows whose snapshot fails to decode are skipped but
// reported through the joined error, alongside every decodable entry, so
// the caller decides whether to skip or abort.
func (s *LogStore) ListByDate(date string) ([]models.LogEntry, error) {
	var rows []loggedFoodRow
	if err := s.db.
		Where("date = ?", date).
		Order("time ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list log entries for %s: %w", date, err)
	}

	entries := make([]models.LogEntry, 0, len(rows))
	var decodeErrs []error
	for _, row := range rows {
		snap, err := models.DecodeSnapshot(row.FoodData)
		if err != nil {
			decodeErrs = append(decodeErrs, fmt.Errorf("entry %d: %w", row.ID, err))
			continue
		}
		entries = append(entries, models.LogEntry{
			ID:          row.ID,
			Date:        row.Date,
			Time:        row.Time,
			AmountGrams: row.Amount,
			FoodID:      row.FoodID,
			Description: snap.Description,
			BrandOwner:  snap.BrandOwner,
			Nutrients:   snap.Nutrients,
		})
	}
	return entries, errors.Join(decodeErrs...)
}

// UpdateAmount changes the logged amount of one entry. The snapshot and
// identity fields are immutable after creation.
func (s *LogStore) UpdateAmount(id int64, newAmountGrams int) error {
	res := s.db.Model(&loggedFoodRow{}).
		Where("id = ?", id).
		Update("amount", newAmountGrams)
	if res.Error != nil {
		return fmt.Errorf("update log entry %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one entry.
func (s *LogStore) Delete(id int64) error {
	res := s.db.Where("id = ?", id).Delete(&loggedFoodRow{})
	if res.Error != nil {
		return fmt.Errorf("delete log entry %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
