package config

import (
	"testing"
	"time"

	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/internal/types"
	"github.com/fadedpez/blackjacktrainer/pkg/services/blackjack"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	t := s.T()
	for _, key := range []string{
		"DISCORD_TOKEN", "APP_ID", "GUILD_ID", "STORAGE_TYPE", "ELASTICSEARCH_URL",
		"NUM_DECKS", "DEALER_HITS_SOFT_17", "DOUBLE_AFTER_SPLIT", "DOUBLE_DOWN_RULE",
		"LATE_SURRENDER", "BLACKJACK_PAYOUT", "STARTING_CHIPS", "SESSION_IDLE_TIMEOUT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DATA_DIR", t.TempDir())
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := Load()

	s.Require().NoError(err)
	s.Equal(StorageSQLite, cfg.StorageType)
	s.Equal(int64(1000), cfg.StartingChips)
	s.Equal(30*time.Minute, cfg.SessionIdleTimeout)
	s.Equal(logging.INFO, cfg.LogLevel)
	s.Equal(blackjack.DefaultSettings(), cfg.TableSettings())
	s.True(cfg.IsDevelopment())
}

func (s *ConfigTestSuite) TestTableRules() {
	t := s.T()
	t.Setenv("NUM_DECKS", "2")
	t.Setenv("DEALER_HITS_SOFT_17", "true")
	t.Setenv("DOUBLE_AFTER_SPLIT", "false")
	t.Setenv("DOUBLE_DOWN_RULE", "ten_eleven")
	t.Setenv("BLACKJACK_PAYOUT", "1.2")
	t.Setenv("STARTING_CHIPS", "250")

	cfg, err := Load()

	s.Require().NoError(err)
	settings := cfg.TableSettings()
	s.Equal(2, settings.NumDecks)
	s.True(settings.DealerHitsSoft17)
	s.False(settings.DoubleAfterSplit)
	s.Equal(blackjack.DoubleTenEleven, settings.DoubleDownRule)
	s.InDelta(1.2, settings.BlackjackPayout, 0.0001)
	s.Equal(int64(250), cfg.StartingChips)
}

func (s *ConfigTestSuite) TestInvalidValues() {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Decks not a number", key: "NUM_DECKS", value: "six"},
		{name: "Too many decks", key: "NUM_DECKS", value: "12"},
		{name: "Bad boolean", key: "DEALER_HITS_SOFT_17", value: "sometimes"},
		{name: "Unknown double rule", key: "DOUBLE_DOWN_RULE", value: "ANY_THREE_CARDS"},
		{name: "Zero payout", key: "BLACKJACK_PAYOUT", value: "0"},
		{name: "Bad idle timeout", key: "SESSION_IDLE_TIMEOUT", value: "soon"},
		{name: "Sub-second idle timeout", key: "SESSION_IDLE_TIMEOUT", value: "1ns"},
		{name: "Negative idle timeout", key: "SESSION_IDLE_TIMEOUT", value: "-5m"},
		{name: "Unknown storage", key: "STORAGE_TYPE", value: "postgres"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.T().Setenv(tc.key, tc.value)

			_, err := Load()

			s.Error(err)
			s.True(types.IsGameError(err, types.ErrConfigError))
		})
	}
}

func (s *ConfigTestSuite) TestValidateDiscord() {
	cfg := &Config{}
	s.Error(cfg.ValidateDiscord())

	cfg = &Config{Token: "token", AppID: "app", GuildID: "guild"}
	s.NoError(cfg.ValidateDiscord())
}
