package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/JohnZolton/Zynq/config"
	"github.com/JohnZolton/Zynq/controllers"
	"github.com/JohnZolton/Zynq/database"
	"github.com/JohnZolton/Zynq/logger"
	"github.com/JohnZolton/Zynq/routes"
	"github.com/JohnZolton/Zynq/services"
	"github.com/JohnZolton/Zynq/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)
	defer logger.Close()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	store := storage.NewLogStore(db)
	// A broken schema means nothing can be persisted; do not start.
	if err := store.Initialize(); err != nil {
		logger.Fatal("schema migration failed", zap.Error(err))
	}

	provider := services.NewUSDAService(cfg.NutritionAPIKey)
	pipeline := services.NewSearchPipeline(provider)
	hub := services.NewDiaryHub()
	diary := services.NewDiaryController(store, hub)
	diary.SetActiveDate(time.Now())

	r := routes.SetupRouter(
		controllers.NewFoodController(pipeline, provider),
		controllers.NewDiaryController(diary, provider),
		controllers.NewRealtimeController(hub),
	)

	logger.Info("listening", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
