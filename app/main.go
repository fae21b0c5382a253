package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"fiftytwo-go/app/config"
	"fiftytwo-go/app/controllers"
	"fiftytwo-go/app/routes"
	"fiftytwo-go/app/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	store, err := config.InitStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	clock := clockwork.NewRealClock()
	ctx := context.Background()

	// Initialize the service layer
	taskService := services.NewTaskService(ctx, store, clock, logger)
	metricsService := services.NewMetricsService(clock)
	settingsService := services.NewSettingsService(store, logger)
	rolloverService := services.NewRolloverService(taskService, store, clock, logger, cfg.CheckinCooldown)
	rolloverService.CheckOnLoad(ctx)

	// Initialize the controller layer
	taskController := controllers.NewTaskController(taskService, metricsService)
	stateController := controllers.NewStateController(rolloverService, settingsService)

	// Setup HTTP server
	router := mux.NewRouter()
	routes.RegisterRoutes(router, taskController, stateController)

	logger.Info("server is running",
		zap.String("addr", cfg.ListenAddr),
		zap.String("storage", cfg.StorageDriver),
	)
	logger.Fatal("server stopped", zap.Error(http.ListenAndServe(cfg.ListenAddr, router)))
}
