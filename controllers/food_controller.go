package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JohnZolton/Zynq/services"
	"github.com/JohnZolton/Zynq/utils"
)

// FoodController exposes the search pipeline and the detail lookup.
type FoodController struct {
	pipeline *services.SearchPipeline
	provider services.FoodProvider
}

func NewFoodController(pipeline *services.SearchPipeline, provider services.FoodProvider) *FoodController {
	return &FoodController{pipeline: pipeline, provider: provider}
}

// POST /search/query  { "query": "appl" }
// Called on every keystroke; debouncing happens in the pipeline.
func (fc *FoodController) QueryChanged(c *gin.Context) {
	var body struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	fc.pipeline.OnQueryChanged(body.Query)
	c.Status(http.StatusNoContent)
}

// GET /search/suggestions
func (fc *FoodController) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"loading":     fc.pipeline.Loading(),
		"failed":      fc.pipeline.Failed(),
		"suggestions": fc.pipeline.CurrentSuggestions(),
	})
}

// GET /foods/:id?amount=150
// Returns the full profile; with a positive amount it also returns the
// scaled preview the amount-picker shows.
func (fc *FoodController) GetFood(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	profile, err := fc.provider.GetFood(id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"food": profile}
	if amount, err := strconv.ParseFloat(c.Query("amount"), 64); err == nil && amount > 0 {
		resp["scaled"] = utils.ScaleNutrients(profile.Nutrients, amount)
		resp["calories"] = utils.TotalCalories(profile.Nutrients, amount)
	}
	c.JSON(http.StatusOK, resp)
}
