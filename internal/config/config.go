package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/internal/types"
	"github.com/fadedpez/blackjacktrainer/pkg/services/blackjack"
	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// MinSessionIdleTimeout is the shortest SESSION_IDLE_TIMEOUT accepted
const MinSessionIdleTimeout = time.Second

// Config holds all configuration for the application
type Config struct {
	// Discord configuration
	Token   string
	AppID   string
	GuildID string

	// Storage
	DataDir     string
	StorageType string // "memory" or "sqlite"

	// Elasticsearch round index, disabled when URL is empty
	ElasticsearchURL      string
	ElasticsearchUsername string
	ElasticsearchPassword string
	ElasticsearchPrefix   string

	// Table rules
	NumDecks         int
	DealerHitsSoft17 bool
	DoubleAfterSplit bool
	DoubleDownRule   blackjack.DoubleDownRule
	LateSurrender    bool
	BlackjackPayout  float64

	// Sessions
	StartingChips      int64
	SessionIdleTimeout time.Duration

	// Environment
	Environment string // "development" or "production"
	LogLevel    logging.Level
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// Get working directory for resource paths
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := &Config{
		Token:                 os.Getenv("DISCORD_TOKEN"),
		AppID:                 os.Getenv("APP_ID"),
		GuildID:               os.Getenv("GUILD_ID"),
		Environment:           getEnvWithDefault("ENVIRONMENT", "development"),
		DataDir:               getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		StorageType:           getEnvWithDefault("STORAGE_TYPE", StorageSQLite),
		ElasticsearchURL:      os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchUsername: os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword: os.Getenv("ELASTICSEARCH_PASSWORD"),
		ElasticsearchPrefix:   getEnvWithDefault("ELASTICSEARCH_INDEX_PREFIX", "blackjacktrainer"),
		LogLevel:              logging.ParseLevel(getEnvWithDefault("LOG_LEVEL", "INFO")),
	}

	if err := cfg.loadTableRules(); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.StorageType == StorageSQLite {
		// Create data directory if it doesn't exist
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// loadTableRules parses the rule and session variables. A set but
// unparseable value is an error rather than a silent default.
func (c *Config) loadTableRules() error {
	var err error

	if c.NumDecks, err = getIntEnv("NUM_DECKS", blackjack.StandardDecks); err != nil {
		return err
	}
	if c.DealerHitsSoft17, err = getBoolEnv("DEALER_HITS_SOFT_17", false); err != nil {
		return err
	}
	if c.DoubleAfterSplit, err = getBoolEnv("DOUBLE_AFTER_SPLIT", true); err != nil {
		return err
	}
	if c.LateSurrender, err = getBoolEnv("LATE_SURRENDER", true); err != nil {
		return err
	}

	rule := getEnvWithDefault("DOUBLE_DOWN_RULE", string(blackjack.DoubleAnyTwoCards))
	if c.DoubleDownRule, err = blackjack.ParseDoubleDownRule(rule); err != nil {
		return types.WrapError(types.ErrConfigError, "DOUBLE_DOWN_RULE", err)
	}

	payout := getEnvWithDefault("BLACKJACK_PAYOUT", "1.5")
	if c.BlackjackPayout, err = strconv.ParseFloat(payout, 64); err != nil {
		return types.WrapError(types.ErrConfigError, "BLACKJACK_PAYOUT must be a number", err)
	}

	chips, err := getIntEnv("STARTING_CHIPS", 1000)
	if err != nil {
		return err
	}
	c.StartingChips = int64(chips)

	idle := getEnvWithDefault("SESSION_IDLE_TIMEOUT", "30m")
	if c.SessionIdleTimeout, err = time.ParseDuration(idle); err != nil {
		return types.WrapError(types.ErrConfigError, "SESSION_IDLE_TIMEOUT must be a duration", err)
	}

	return nil
}

// validate checks the values that have no sensible fallback
func (c *Config) validate() error {
	if c.StorageType != StorageMemory && c.StorageType != StorageSQLite {
		return types.NewGameError(types.ErrConfigError, fmt.Sprintf("unknown STORAGE_TYPE %q", c.StorageType))
	}
	if c.NumDecks < 1 || c.NumDecks > 8 {
		return types.NewGameError(types.ErrConfigError, "NUM_DECKS must be between 1 and 8")
	}
	if c.BlackjackPayout <= 0 {
		return types.NewGameError(types.ErrConfigError, "BLACKJACK_PAYOUT must be positive")
	}
	if c.StartingChips <= 0 {
		return types.NewGameError(types.ErrConfigError, "STARTING_CHIPS must be positive")
	}
	if c.SessionIdleTimeout < MinSessionIdleTimeout {
		return types.NewGameError(types.ErrConfigError, fmt.Sprintf("SESSION_IDLE_TIMEOUT must be at least %s", MinSessionIdleTimeout))
	}
	return nil
}

// ValidateDiscord checks the settings only the bot binary needs
func (c *Config) ValidateDiscord() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.AppID == "" {
		return fmt.Errorf("APP_ID is required")
	}
	if c.GuildID == "" {
		return fmt.Errorf("GUILD_ID is required")
	}
	return nil
}

// TableSettings returns the rules every session at this table plays by
func (c *Config) TableSettings() blackjack.GameSettings {
	return blackjack.GameSettings{
		NumDecks:             c.NumDecks,
		DealerHitsSoft17:     c.DealerHitsSoft17,
		DoubleAfterSplit:     c.DoubleAfterSplit,
		DoubleDownRule:       c.DoubleDownRule,
		LateSurrenderAllowed: c.LateSurrender,
		BlackjackPayout:      c.BlackjackPayout,
	}
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SQLitePath returns the database file inside the data directory
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "blackjacktrainer.db")
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, types.WrapError(types.ErrConfigError, key+" must be an integer", err)
	}
	return n, nil
}

func getBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, types.WrapError(types.ErrConfigError, key+" must be true or false", err)
	}
	return b, nil
}
