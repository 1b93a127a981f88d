package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JohnZolton/Zynq/models"
	"github.com/JohnZolton/Zynq/services"
	"github.com/JohnZolton/Zynq/storage"
	"github.com/JohnZolton/Zynq/utils"
)

// DiaryController adapts the diary service to HTTP.
type DiaryController struct {
	diary    *services.DiaryController
	provider services.FoodProvider
}

func NewDiaryController(diary *services.DiaryController, provider services.FoodProvider) *DiaryController {
	return &DiaryController{diary: diary, provider: provider}
}

// entryView is a LogEntry plus its derived calorie total.
type entryView struct {
	models.LogEntry
	Calories int `json:"calories"`
}

func viewOf(e models.LogEntry) entryView {
	return entryView{
		LogEntry: e,
		Calories: utils.TotalCalories(e.Nutrients, float64(e.AmountGrams)),
	}
}

// GET /diary
func (dc *DiaryController) GetDiary(c *gin.Context) {
	entries := dc.diary.Entries()
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, viewOf(e))
	}
	c.JSON(http.StatusOK, gin.H{
		"date":    dc.diary.ActiveDate().Format(models.DateLayout),
		"state":   dc.diary.State().String(),
		"entries": views,
	})
}

// PUT /diary/date  { "date": "2024-03-01" }
func (dc *DiaryController) SetDate(c *gin.Context) {
	var body struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	date, err := time.Parse(models.DateLayout, body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	dc.diary.SetActiveDate(date)
	c.Status(http.StatusAccepted)
}

// POST /diary/navigate  { "direction": "previous" | "next" }
func (dc *DiaryController) Navigate(c *gin.Context) {
	var body struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := dc.diary.Navigate(body.Direction); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date": dc.diary.ActiveDate().Format(models.DateLayout),
	})
}

// POST /diary/entries  { "food_id": 123456, "amount_grams": 150 }
// Looks the food up and logs it, the same confirm flow as the original UI.
func (dc *DiaryController) LogFood(c *gin.Context) {
	var body struct {
		FoodID      int64 `json:"food_id" binding:"required"`
		AmountGrams int   `json:"amount_grams"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	profile, err := dc.provider.GetFood(body.FoodID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	entry, err := dc.diary.LogFood(profile, body.AmountGrams)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, viewOf(entry))
}

// PATCH /diary/entries/:id  { "amount_grams": 200 }
func (dc *DiaryController) UpdateFood(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	var body struct {
		AmountGrams int `json:"amount_grams"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	switch err := dc.diary.UpdateFood(id, body.AmountGrams); {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, services.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// DELETE /diary/entries/:id
func (dc *DiaryController) DeleteFood(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	switch err := dc.diary.DeleteFood(id); {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
