package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"nogus/server/config"
	"nogus/server/internal/api"
	"nogus/server/internal/database"
	"nogus/server/internal/finance"
	"nogus/server/internal/processor"
	"nogus/server/internal/queue"
	"nogus/server/internal/scheduler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.SetLevel(cfg.LogLevel())

	logger.Infof("Using database at: %s", cfg.Database.Path)
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// analyses can still inline their market profile without the file
	if err := config.LoadMarketProfiles(cfg.MarketProfilesPath); err != nil {
		logger.WithError(err).Warn("Failed to load market profiles")
	} else {
		logger.Infof("Loaded %d market profiles", len(config.GetMarketProfiles()))
	}

	jobs := scheduler.NewScheduler(logger, scheduler.MarketProfileReload(cfg.MarketProfilesPath, cfg.MarketProfilesReload))
	jobs.Start()
	defer jobs.Stop()

	engine := finance.NewEngine(cfg.IRRSolver(), logger)

	analysisQueue := queue.NewAnalysisQueue(cfg.BatchProcessing.QueueSize, logger)
	batches := processor.NewBatchProcessor(db.GetDB(), analysisQueue, engine, cfg, logger)
	batches.Start()
	defer batches.Stop()

	if cfg.LogLevel() != logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, api.NewHandler(db, engine, batches, logger))

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
