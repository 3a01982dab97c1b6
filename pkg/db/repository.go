package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smith3v/trade-prompts/pkg/config"
	"github.com/smith3v/trade-prompts/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Export DB variable
var DB *gorm.DB

// InitDB connects to the remote store described by cfg, migrates it and
// stores the handle in DB.
func InitDB(cfg config.DatabaseConfig, gormLevel string) error {
	gdb, err := Open(cfg, gormLevel)
	if err != nil {
		logger.Error("failed to connect to database", "driver", cfg.Driver, "error", err)
		return err
	}
	if err := Migrate(gdb); err != nil {
		logger.Error("failed to migrate database", "error", err)
		return err
	}
	DB = gdb
	return nil
}

func Open(cfg config.DatabaseConfig, gormLevel string) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "postgres":
		dsn := "host=" + cfg.Host +
			" user=" + cfg.User +
			" password=" + cfg.Password +
			" dbname=" + cfg.DBName +
			" port=" + strconv.Itoa(cfg.Port) +
			" sslmode=" + cfg.SSLMode
		return gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger(gormLevel)})
	case "sqlite":
		return OpenSQLite(cfg.Path, gormLevel)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func OpenSQLite(path, gormLevel string) (*gorm.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger(gormLevel)})
}

func gormLogger(level string) *gormSlogLogger {
	lg, err := NewGormLogger(level)
	if err != nil {
		logger.Error("invalid gorm log level", "value", level, "error", err)
	}
	return lg
}

func Migrate(gdb *gorm.DB) error {
	if err := migratePromptHistoryTable(gdb); err != nil {
		return fmt.Errorf("migrate prompt history table: %w", err)
	}
	return gdb.AutoMigrate(Models()...)
}

// migratePromptHistoryTable renames the table created under gorm's default
// plural name before PromptHistory pinned it to prompt_history.
func migratePromptHistoryTable(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	migrator := gdb.Migrator()
	if !migrator.HasTable("prompt_histories") || migrator.HasTable("prompt_history") {
		return nil
	}
	return migrator.RenameTable("prompt_histories", "prompt_history")
}
