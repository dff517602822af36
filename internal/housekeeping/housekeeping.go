// Package housekeeping removes games that were requested but never played
// and browser sessions nobody has used since.
package housekeeping

import (
	"time"

	"tragedy-commons/internal/db"
	"tragedy-commons/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Cleaner struct {
	db        *gorm.DB
	logger    *zap.Logger
	staleDays int
	now       func() time.Time
}

func NewCleaner(conn *gorm.DB, logger *zap.Logger, staleDays int) *Cleaner {
	return &Cleaner{db: conn, logger: logger, staleDays: staleDays, now: time.Now}
}

// Run deletes unused game pairs and idle sessions older than the stale
// threshold. It reports the number of games removed.
func (c *Cleaner) Run() (int64, error) {
	cutoff := c.now().AddDate(0, 0, -c.staleDays)
	c.logger.Info("removing unused games", zap.Time("cutoff", cutoff))
	deleted, err := db.DeleteUnusedGames(c.db, cutoff)
	if err != nil {
		c.logger.Error("failed to remove unused games", zap.Error(err))
		return 0, err
	}
	metrics.StaleGamesDeleted.Add(float64(deleted))
	c.logger.Info("unused games removed", zap.Int64("games_deleted", deleted))

	sessions, err := db.DeleteStaleSessions(c.db, cutoff)
	if err != nil {
		c.logger.Error("failed to remove idle sessions", zap.Error(err))
		return deleted, err
	}
	c.logger.Info("idle sessions removed", zap.Int64("sessions_deleted", sessions))
	return deleted, nil
}

// Start schedules Run. An empty schedule disables the job and returns nil.
func (c *Cleaner) Start(schedule string) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedule, func() {
		_, _ = c.Run()
	}); err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}
