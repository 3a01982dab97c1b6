package db

import (
	"testing"
	"time"

	"github.com/smith3v/trade-prompts/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type legacyPromptHistoryTable struct {
	ID             string    `gorm:"primaryKey;size:36"`
	UserID         string    `gorm:"size:64;not null;index"`
	PromptID       string    `gorm:"size:36;not null"`
	InstrumentUsed string    `gorm:"size:32;not null"`
	ExecutedAt     time.Time `gorm:"not null"`
}

func (legacyPromptHistoryTable) TableName() string {
	return "prompt_histories"
}

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
	})
	return gdb
}

func TestMigrateCreatesRemoteTables(t *testing.T) {
	gdb := openTestDB(t, "migrate_remote_tables")
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	for _, table := range []string{"user_prompts", "education_topics", "prompt_history", "users"} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("expected %s table to exist", table)
		}
	}
	if !gdb.Migrator().HasColumn(&UserPrompt{}, "local_id") {
		t.Fatalf("expected user_prompts to contain local_id column")
	}
}

func TestMigratePromptHistoryRenamesLegacy(t *testing.T) {
	gdb := openTestDB(t, "migrate_prompt_history")
	if err := gdb.AutoMigrate(&legacyPromptHistoryTable{}); err != nil {
		t.Fatalf("failed to migrate legacy schema: %v", err)
	}
	legacy := legacyPromptHistoryTable{
		ID:             "h-1",
		UserID:         "owner",
		PromptID:       "p-1",
		InstrumentUsed: "EUR/USD",
		ExecutedAt:     time.Now().UTC(),
	}
	if err := gdb.Create(&legacy).Error; err != nil {
		t.Fatalf("failed to seed legacy row: %v", err)
	}

	if err := Migrate(gdb); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	if gdb.Migrator().HasTable("prompt_histories") {
		t.Fatalf("expected prompt_histories to be renamed")
	}
	var history []PromptHistory
	if err := gdb.Find(&history).Error; err != nil {
		t.Fatalf("failed to read migrated history: %v", err)
	}
	if len(history) != 1 || history[0].PromptID != "p-1" {
		t.Fatalf("expected legacy row to survive the rename, got %+v", history)
	}
}

func TestOpenRejectsInvalidSettings(t *testing.T) {
	if _, err := Open(config.DatabaseConfig{Driver: "oracle"}, ""); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if _, err := OpenSQLite("", ""); err == nil {
		t.Fatal("expected error for empty sqlite path")
	}
}
