package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. It is loaded once in
// main and passed down; nothing reaches for env vars after startup.
type Config struct {
	NutritionAPIKey string
	DBPath          string
	ListenAddr      string
	Env             string
}

func Load() Config {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()

	return Config{
		NutritionAPIKey: os.Getenv("NUTRITION_DB_API_KEY"),
		DBPath:          getenv("DB_PATH", "food.db"),
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		Env:             os.Getenv("ENV"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
