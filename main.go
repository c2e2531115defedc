// main.go
package main

import (
	"log"

	"facetoface-booking/cmd"
	"facetoface-booking/internal/data/repository"
	"facetoface-booking/internal/data/schema"
	"facetoface-booking/internal/usecase"
	"facetoface-booking/internal/wire"
	"facetoface-booking/pkg/database"
	"facetoface-booking/pkg/rabbitmq"
	"facetoface-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Create tables before the pool starts serving
	if config.Database.AutoMigrate {
		if err := migrate(config.Database); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database schema migrated")
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	activities := repository.NewActivityCache(config.Cache.ActivityTTL)
	repos := repository.NewRepository(db, activities, logger)

	// Events are optional; a nil publisher drops them
	var publisher usecase.EventPublisher
	if config.RabbitMQ.Enabled {
		p, err := rabbitmq.NewPublisher(config.RabbitMQ.URL, config.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer p.Close()
		publisher = p
		logger.Info("RabbitMQ publisher ready", zap.String("exchange", config.RabbitMQ.Exchange))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, publisher, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}

func migrate(config utils.DatabaseConfig) error {
	gdb, err := schema.Open(schema.DialectPostgres, database.DSN(config))
	if err != nil {
		return err
	}
	defer schema.Close(gdb)

	return schema.Migrate(gdb)
}
