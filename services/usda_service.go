package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/JohnZolton/Zynq/models"
)

// FoodProvider is the lookup contract the nutrition database satisfies.
// The pipeline and controllers depend on this, not on the USDA client,
// so tests can inject stubs.
type FoodProvider interface {
	SearchFoods(query string, pageSize int) ([]models.FoodSummary, error)
	GetFood(fdcID int64) (*models.NutrientProfile, error)
}

// USDAService talks to the USDA FoodData Central API.
type USDAService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewUSDAService(apiKey string) *USDAService {
	return &USDAService{
		apiKey:  apiKey,
		baseURL: "https://api.nal.usda.gov/fdc/v1",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type foodSearchResponse struct {
	Foods []struct {
		FDCID       int64  `json:"fdcId"`
		Description string `json:"description"`
		BrandOwner  string `json:"brandOwner"`
	} `json:"foods"`
}

// SearchFoods calls the foods/search endpoint. Result order is the
// provider's ranking and is preserved as-is.
func (s *USDAService) SearchFoods(query string, pageSize int) ([]models.FoodSummary, error) {
	u := fmt.Sprintf(
		"%s/foods/search?api_key=%s&query=%s&pageSize=%d",
		s.baseURL, url.QueryEscape(s.apiKey), url.QueryEscape(query), pageSize,
	)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call food search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read food search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("food search API error %d: %s", resp.StatusCode, string(body))
	}

	var sr foodSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse food search JSON: %w", err)
	}

	results := make([]models.FoodSummary, 0, len(sr.Foods))
	for _, f := range sr.Foods {
		results = append(results, models.FoodSummary{
			FDCID:       f.FDCID,
			Description: f.Description,
			BrandOwner:  f.BrandOwner,
		})
	}
	return results, nil
}

type foodDetailResponse struct {
	FDCID         int64  `json:"fdcId"`
	Description   string `json:"description"`
	BrandOwner    string `json:"brandOwner"`
	FoodNutrients []struct {
		Amount   float64 `json:"amount"`
		Nutrient struct {
			ID       int64  `json:"id"`
			Name     string `json:"name"`
			UnitName string `json:"unitName"`
		} `json:"nutrient"`
	} `json:"foodNutrients"`
}

// GetFood fetches the per-100g nutrient profile for one food. Duplicate
// nutrient ids (the API occasionally repeats rows) keep the first
// occurrence; negative amounts are dropped.
func (s *USDAService) GetFood(fdcID int64) (*models.NutrientProfile, error) {
	u := fmt.Sprintf("%s/food/%d?api_key=%s", s.baseURL, fdcID, url.QueryEscape(s.apiKey))

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call food detail: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read food detail response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("food detail API error %d: %s", resp.StatusCode, string(body))
	}

	var dr foodDetailResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, fmt.Errorf("failed to parse food detail JSON: %w", err)
	}

	profile := &models.NutrientProfile{
		FDCID:       dr.FDCID,
		Description: dr.Description,
		BrandOwner:  dr.BrandOwner,
	}
	seen := make(map[int64]bool, len(dr.FoodNutrients))
	for _, fn := range dr.FoodNutrients {
		if seen[fn.Nutrient.ID] || fn.Amount < 0 {
			continue
		}
		seen[fn.Nutrient.ID] = true
		profile.Nutrients = append(profile.Nutrients, models.NutrientAmount{
			NutrientID:    fn.Nutrient.ID,
			Name:          fn.Nutrient.Name,
			UnitName:      fn.Nutrient.UnitName,
			AmountPer100g: fn.Amount,
		})
	}
	return profile, nil
}
