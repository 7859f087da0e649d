package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvFileVar names the variable that points at an optional .env file
const EnvFileVar = "STREAMCAT_ENV_FILE"

// Config holds all application configuration
type Config struct {
	DB      DBConfig
	Seed    SeedConfig
	Log     LogConfig
	Metrics MetricsConfig
	Command CommandConfig
}

// DBConfig holds database configuration
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	User     string `envconfig:"DB_USER" default:"test"`
	Password string `envconfig:"DB_PASSWORD" default:"password"`
	Database string `envconfig:"DB_NAME" default:"cs122a"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"4"`
	LogSQL   bool   `envconfig:"DB_LOG_SQL" default:"false"`
}

// SeedConfig controls how CSV seed files are read. A header row is only
// skipped when it names the table's columns.
type SeedConfig struct {
	SkipHeader     bool     `envconfig:"SEED_SKIP_HEADER" default:"true"`
	NoHeaderTables []string `envconfig:"SEED_NO_HEADER_TABLES"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"warn"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// MetricsConfig holds metrics export configuration
type MetricsConfig struct {
	Textfile string `envconfig:"METRICS_TEXTFILE"`
}

// CommandConfig holds per-invocation limits
type CommandConfig struct {
	Timeout time.Duration `envconfig:"COMMAND_TIMEOUT" default:"0"`
}

// DSN returns the MySQL data source name. clientFoundRows makes UPDATE
// report matched rather than changed rows.
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// SkipHeaderFor reports whether a header row is recognized and skipped in a
// table's seed file. When false the first record is always data.
func (c *SeedConfig) SkipHeaderFor(table string) bool {
	for _, t := range c.NoHeaderTables {
		if strings.EqualFold(strings.TrimSpace(t), table) {
			return false
		}
	}
	return c.SkipHeader
}

// Load loads configuration from environment variables, after merging an
// optional .env file. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	var cfg Config

	if err := envconfig.Process("", &cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to load db config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Seed); err != nil {
		return nil, fmt.Errorf("failed to load seed config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Metrics); err != nil {
		return nil, fmt.Errorf("failed to load metrics config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Command); err != nil {
		return nil, fmt.Errorf("failed to load command config: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() error {
	path := os.Getenv(EnvFileVar)
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DB.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535")
	}
	if c.DB.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.DB.Database == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.DB.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.Command.Timeout < 0 {
		return fmt.Errorf("COMMAND_TIMEOUT must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}
