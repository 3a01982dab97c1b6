package db

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smith3v/trade-prompts/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func captureLogs(t *testing.T, level logger.LogLevel) *bytes.Buffer {
	t.Helper()
	originalLogger := logger.Logger
	t.Cleanup(func() {
		logger.Logger = originalLogger
		logger.SetLogLevel(logger.INFO)
	})
	var buf bytes.Buffer
	logger.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	logger.SetLogLevel(level)
	return &buf
}

func TestGormLoggerTrace(t *testing.T) {
	tests := []struct {
		name      string
		gormLevel string
		appLevel  logger.LogLevel
		slow      time.Duration
		err       error
		want      string
	}{
		{name: "slow query", gormLevel: "warn", appLevel: logger.INFO, slow: time.Nanosecond, want: "gorm slow query"},
		{name: "info query", gormLevel: "info", appLevel: logger.INFO, slow: time.Hour, want: "gorm query"},
		{name: "info hidden at warn", gormLevel: "warn", appLevel: logger.INFO, slow: time.Hour},
		{name: "error", gormLevel: "error", appLevel: logger.ERROR, slow: time.Hour, err: errors.New("boom"), want: "gorm query error"},
		{name: "app level gates gorm", gormLevel: "info", appLevel: logger.ERROR, slow: time.Hour},
		{name: "record not found", gormLevel: "info", appLevel: logger.INFO, slow: time.Hour, err: gorm.ErrRecordNotFound},
		{name: "silent", gormLevel: "silent", appLevel: logger.INFO, slow: time.Nanosecond, err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t, tt.appLevel)
			l, err := NewGormLogger(tt.gormLevel)
			if err != nil {
				t.Fatalf("failed to create gorm logger: %v", err)
			}
			l.slowThreshold = tt.slow

			l.Trace(context.Background(), time.Now().Add(-time.Millisecond), func() (string, int64) {
				return `SELECT * FROM "user_prompts" WHERE user_id = "owner-1"`, 1
			}, tt.err)

			got := buf.String()
			if tt.want == "" {
				if got != "" {
					t.Fatalf("expected no output, got: %s", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) || !strings.Contains(got, "component=gorm") || !strings.Contains(got, "user_prompts") {
				t.Fatalf("expected %q with the query, got: %s", tt.want, got)
			}
		})
	}
}

func TestNewGormLoggerLevels(t *testing.T) {
	tests := []struct {
		value   string
		want    gormlogger.LogLevel
		wantErr bool
	}{
		{value: "", want: gormlogger.Warn},
		{value: " INFO ", want: gormlogger.Info},
		{value: "silent", want: gormlogger.Silent},
		{value: "nope", want: gormlogger.Warn, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			l, err := NewGormLogger(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if l.logLevel != tt.want {
				t.Fatalf("expected gorm log level %v, got %v", tt.want, l.logLevel)
			}
		})
	}
}

func TestOpenSQLiteRoutesQueriesThroughLogger(t *testing.T) {
	buf := captureLogs(t, logger.INFO)

	gdb, err := OpenSQLite(filepath.Join(t.TempDir(), "remote.db"), "info")
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := Migrate(gdb); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	buf.Reset()
	var prompts []UserPrompt
	if err := gdb.Where("user_id = ?", "owner-1").Find(&prompts).Error; err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !strings.Contains(buf.String(), "gorm query") || !strings.Contains(buf.String(), "user_prompts") {
		t.Fatalf("expected the query to be logged, got: %s", buf.String())
	}
}
