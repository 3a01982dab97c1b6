package config

import (
	"strings"

	"github.com/smith3v/trade-prompts/pkg/logger"
	"github.com/spf13/viper"
)

const envPrefix = "TRADEPROMPTS"

type Config struct {
	Database DatabaseConfig `json:"database" mapstructure:"database"`
	Local    LocalConfig    `json:"local" mapstructure:"local"`
	Telegram TelegramConfig `json:"telegram" mapstructure:"telegram"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
	Catalog  CatalogConfig  `json:"catalog" mapstructure:"catalog"`
}

// DatabaseConfig describes the remote relational store. It is only
// contacted when Enabled is set.
type DatabaseConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Driver   string `json:"driver" mapstructure:"driver"`
	Host     string `json:"host" mapstructure:"host"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	DBName   string `json:"dbname" mapstructure:"dbname"`
	Port     int    `json:"port" mapstructure:"port"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
	// Path is the database file when Driver is sqlite.
	Path string `json:"path" mapstructure:"path"`
}

// LocalConfig selects the durable slot backing the owned collections.
type LocalConfig struct {
	Backend       string `json:"backend" mapstructure:"backend"`
	Path          string `json:"path" mapstructure:"path"`
	RedisAddr     string `json:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string `json:"redis_password" mapstructure:"redis_password"`
	RedisDB       int    `json:"redis_db" mapstructure:"redis_db"`
}

type TelegramConfig struct {
	Token string `json:"token" mapstructure:"token"`
}

type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	GormLevel string `json:"gorm_level" mapstructure:"gorm_level"`
}

type CatalogConfig struct {
	OwnerID           string `json:"owner_id" mapstructure:"owner_id"`
	DefaultInstrument string `json:"default_instrument" mapstructure:"default_instrument"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "trade_prompts")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "trade-prompts-remote.db")

	v.SetDefault("local.backend", "gorm")
	v.SetDefault("local.path", "trade-prompts.db")
	v.SetDefault("local.redis_addr", "localhost:6379")
	v.SetDefault("local.redis_password", "")
	v.SetDefault("local.redis_db", 0)

	v.SetDefault("telegram.token", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.gorm_level", "warn")

	v.SetDefault("catalog.owner_id", "demo-user-123")
	v.SetDefault("catalog.default_instrument", "EUR/USD")
}

// LoadConfig fills AppConfig from defaults, the JSON file at filename and
// TRADEPROMPTS_* environment variables, in increasing priority. An empty
// filename skips the file.
func LoadConfig(filename string) error {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(filename) != "" {
		v.SetConfigFile(filename)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			logger.Error("failed to read config file", "file", filename, "error", err)
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Error("failed to decode config", "error", err)
		return err
	}
	AppConfig = cfg
	return nil
}
