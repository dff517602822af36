package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"tragedy-commons/internal/cache"
	"tragedy-commons/internal/config"
	"tragedy-commons/internal/db"
	"tragedy-commons/internal/housekeeping"
	"tragedy-commons/internal/logging"
	"tragedy-commons/internal/notify"
	"tragedy-commons/internal/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}
	defer logger.Sync()

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := db.Open(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if cfg.DBAutoMigrate {
		if err := db.Migrate(conn, logger); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
	}

	opts := []server.Option{server.WithLogger(logger)}
	ttl := time.Duration(cfg.ResultsCacheSeconds) * time.Second
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			logger.Fatal("redis connection failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer client.Close()
		opts = append(opts, server.WithResultsCache(cache.NewRedis(client, ttl)))
	} else {
		opts = append(opts, server.WithResultsCache(cache.NewMemory(ttl)))
	}

	var sender notify.Sender = notify.LogSender{Logger: logger}
	if cfg.SMTPHost != "" {
		sender = notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	}
	opts = append(opts, server.WithMailer(notify.NewMailer(sender, cfg.MailFrom, cfg.BaseURL)))

	cleaner := housekeeping.NewCleaner(conn, logger, cfg.StaleGameDays)
	scheduler, err := cleaner.Start(cfg.HousekeepingSchedule)
	if err != nil {
		logger.Fatal("housekeeping schedule invalid", zap.String("schedule", cfg.HousekeepingSchedule), zap.Error(err))
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	srv := server.New(conn, cfg, opts...)
	addr := ":" + cfg.Port
	logger.Info("tragedy-commons server listening",
		zap.String("addr", addr),
		zap.String("env", cfg.Env),
		zap.Bool("auto_approve", cfg.AutoApprove),
		zap.Bool("smtp", cfg.SMTPHost != ""),
		zap.Bool("redis", cfg.RedisAddr != ""),
	)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
