package db

import (
	"os"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := Migrate(conn, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func createAcceptedGame(t *testing.T, conn *gorm.DB) GameRequest {
	t.Helper()
	production, _, err := CreateRequestPair(conn, RequestInput{
		FirstName:   "Garrett",
		LastName:    "Hardin",
		Email:       "hardin@example.edu",
		Institution: "UC Santa Barbara",
		Description: "Intro to ecology",
	}, true)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	return production
}

func joinPlayer(t *testing.T, conn *gorm.DB, game GameRequest, first, last string) Player {
	t.Helper()
	player, _, err := JoinOrCreate(conn, game, first, last)
	if err != nil {
		t.Fatalf("join %s %s: %v", first, last, err)
	}
	return player
}

func submit(t *testing.T, conn *gorm.DB, player Player, cows int) RoundEntry {
	t.Helper()
	entry, err := SubmitPending(conn, player, cows)
	if err != nil {
		t.Fatalf("submit %d cows: %v", cows, err)
	}
	return entry
}

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
