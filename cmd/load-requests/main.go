// Command load-requests imports game requests kept outside the app, one CSV
// row per request, and creates their game pairs.
package main

import (
	"flag"
	"log"

	"tragedy-commons/internal/config"
	"tragedy-commons/internal/db"
	"tragedy-commons/internal/logging"

	"go.uber.org/zap"
)

func main() {
	filePath := flag.String("file", "requests.csv", "path to requests csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}
	defer logger.Sync()

	conn, err := db.Open(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if cfg.DBAutoMigrate {
		if err := db.Migrate(conn, logger); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
	}

	created, err := db.LoadRequests(conn, *filePath)
	if err != nil {
		logger.Fatal("failed to load requests", zap.String("file", *filePath), zap.Error(err))
	}
	logger.Info("loaded requests", zap.String("file", *filePath), zap.Int("created", created))
}
