package housekeeping

import (
	"testing"
	"time"

	"tragedy-commons/internal/db"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(conn, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestRunRemovesOnlyStaleUnusedGames(t *testing.T) {
	conn := newTestDB(t)
	input := db.RequestInput{FirstName: "Garrett", LastName: "Hardin", Email: "h@example.edu", Institution: "UCSB"}
	if _, _, err := db.CreateRequestPair(conn, input, true); err != nil {
		t.Fatalf("create: %v", err)
	}

	cleaner := NewCleaner(conn, zap.NewNop(), 90)
	deleted, err := cleaner.Run()
	if err != nil || deleted != 0 {
		t.Fatalf("expected fresh games kept, got %d %v", deleted, err)
	}

	cleaner.now = func() time.Time { return time.Now().AddDate(0, 0, 91) }
	deleted, err = cleaner.Run()
	if err != nil || deleted != 2 {
		t.Fatalf("expected the stale pair removed, got %d %v", deleted, err)
	}
}

func TestRunRemovesIdleSessions(t *testing.T) {
	conn := newTestDB(t)
	old := time.Now().AddDate(0, 0, -100)
	sessions := []db.Session{
		{ID: "idle", CreatedAt: old, UpdatedAt: old},
		{ID: "recent", CreatedAt: old, UpdatedAt: time.Now()},
	}
	if err := conn.Create(&sessions).Error; err != nil {
		t.Fatalf("create sessions: %v", err)
	}

	if _, err := NewCleaner(conn, zap.NewNop(), 90).Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	var ids []string
	if err := conn.Model(&db.Session{}).Order("id").Pluck("id", &ids).Error; err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(ids) != 1 || ids[0] != "recent" {
		t.Fatalf("expected only the recent session kept, got %v", ids)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cleaner := NewCleaner(nil, zap.NewNop(), 90)
	if scheduler, err := cleaner.Start(""); err != nil || scheduler != nil {
		t.Fatalf("expected disabled job, got %v %v", scheduler, err)
	}
	if _, err := cleaner.Start("every now and then"); err == nil {
		t.Fatal("expected invalid schedule error")
	}
	scheduler, err := cleaner.Start("@daily")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	scheduler.Stop()
}
