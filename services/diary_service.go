package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JohnZolton/Zynq/logger"
	"github.com/JohnZolton/Zynq/models"
)

// ErrInvalidAmount rejects non-positive logged amounts before they reach
// storage.
var ErrInvalidAmount = errors.New("amount must be a positive number of grams")

// DiaryStore is the persistence contract the controller needs. Satisfied by
// storage.LogStore.
type DiaryStore interface {
	Append(entry models.LogEntry) (models.LogEntry, error)
	ListByDate(date string) ([]models.LogEntry, error)
	UpdateAmount(id int64, newAmountGrams int) error
	Delete(id int64) error
}

// DiaryState is the lifecycle of the active-date projection.
type DiaryState int

const (
	StateIdle DiaryState = iota
	StateLoading
	StateReady
)

func (s DiaryState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "idle"
	}
}

// DiaryController orchestrates the food log for a single active date. It
// owns the in-memory projection of that date's entries and is the only
// mutator of it. Date loads are asynchronous; if the active date changes
// again before a load finishes, the stale load's result is discarded
// (last date wins, same token discipline as the search pipeline).
type DiaryController struct {
	store DiaryStore
	hub   *DiaryHub        // optional
	now   func() time.Time // swapped out in tests

	mu         sync.Mutex
	activeDate time.Time
	entries    []models.LogEntry
	state      DiaryState
	seq        uint64
}

func NewDiaryController(store DiaryStore, hub *DiaryHub) *DiaryController {
	return &DiaryController{
		store: store,
		hub:   hub,
		now:   time.Now,
		state: StateIdle,
	}
}

// SetActiveDate switches the diary to the given calendar day and kicks off
// a reload of its entries.
func (d *DiaryController) SetActiveDate(date time.Time) {
	d.mu.Lock()
	d.activeDate = date
	d.state = StateLoading
	d.seq++
	token := d.seq
	d.mu.Unlock()

	go d.load(date, token)
}

func (d *DiaryController) load(date time.Time, token uint64) {
	day := date.Format(models.DateLayout)
	entries, err := d.store.ListByDate(day)

	d.mu.Lock()
	defer d.mu.Unlock()
	if token != d.seq {
		// Another date change superseded this load.
		return
	}
	if err != nil {
		// Corrupt rows are skipped; decodable ones still display.
		logger.Warn("diary load incomplete", zap.String("date", day), zap.Error(err))
	}
	d.entries = entries
	d.state = StateReady

	d.publish(DiaryEvent{Kind: EventDateChanged, Date: day})
}

// Navigate shifts the active date by exactly one calendar day.
func (d *DiaryController) Navigate(direction string) error {
	var days int
	switch direction {
	case "previous":
		days = -1
	case "next":
		days = 1
	default:
		return fmt.Errorf("unknown direction %q", direction)
	}

	d.mu.Lock()
	next := d.activeDate.AddDate(0, 0, days)
	d.mu.Unlock()

	d.SetActiveDate(next)
	return nil
}

// LogFood validates the amount, freezes the profile's nutrients into a
// snapshot, persists the entry stamped with the current date and time, and
// folds it into the projection if it belongs to the active date. Nothing is
// inserted into the projection until the store has confirmed the write.
func (d *DiaryController) LogFood(profile *models.NutrientProfile, amountGrams int) (models.LogEntry, error) {
	if amountGrams <= 0 {
		return models.LogEntry{}, ErrInvalidAmount
	}

	now := d.now()
	snap := profile.Snapshot()
	entry := models.LogEntry{
		Date:        now.Format(models.DateLayout),
		Time:        now.Format(models.TimeLayout),
		AmountGrams: amountGrams,
		FoodID:      profile.FDCID,
		Description: snap.Description,
		BrandOwner:  snap.BrandOwner,
		Nutrients:   snap.Nutrients,
	}

	saved, err := d.store.Append(entry)
	if err != nil {
		return models.LogEntry{}, err
	}

	d.mu.Lock()
	if saved.Date == d.activeDate.Format(models.DateLayout) {
		d.entries = append(d.entries, saved)
		sort.SliceStable(d.entries, func(i, j int) bool {
			return d.entries[i].Time < d.entries[j].Time
		})
	}
	d.mu.Unlock()

	d.publish(DiaryEvent{Kind: EventEntryLogged, Date: saved.Date, Entry: &saved})
	return saved, nil
}

// UpdateFood changes the logged amount of one entry. Only the amount is
// mutable; everything else is frozen at log time.
func (d *DiaryController) UpdateFood(id int64, newAmountGrams int) error {
	if newAmountGrams <= 0 {
		return ErrInvalidAmount
	}
	if err := d.store.UpdateAmount(id, newAmountGrams); err != nil {
		return err
	}

	var updated *models.LogEntry
	d.mu.Lock()
	for i := range d.entries {
		if d.entries[i].ID == id {
			d.entries[i].AmountGrams = newAmountGrams
			e := d.entries[i]
			updated = &e
			break
		}
	}
	d.mu.Unlock()

	if updated != nil {
		d.publish(DiaryEvent{Kind: EventEntryUpdated, Date: updated.Date, Entry: updated})
	}
	return nil
}

// DeleteFood removes one entry.
func (d *DiaryController) DeleteFood(id int64) error {
	if err := d.store.Delete(id); err != nil {
		return err
	}

	d.mu.Lock()
	for i := range d.entries {
		if d.entries[i].ID == id {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			break
		}
	}
	d.mu.Unlock()

	d.publish(DiaryEvent{Kind: EventEntryDeleted, EntryID: id})
	return nil
}

// ActiveDate returns the diary's current calendar day.
func (d *DiaryController) ActiveDate() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeDate
}

// Entries returns the active date's projection, time ascending.
func (d *DiaryController) Entries() []models.LogEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.LogEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// State reports where the projection is in its Idle/Loading/Ready cycle.
func (d *DiaryController) State() DiaryState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *DiaryController) publish(ev DiaryEvent) {
	if d.hub != nil {
		d.hub.Broadcast(ev)
	}
}
