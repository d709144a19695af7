package main

import (
	"context"
	"io"
	"testing"

	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/pkg/services/blackjack"
	"github.com/stretchr/testify/suite"
)

type SimulateTestSuite struct {
	suite.Suite
	logger *logging.Logger
}

func TestSimulateSuite(t *testing.T) {
	suite.Run(t, new(SimulateTestSuite))
}

func (s *SimulateTestSuite) SetupTest() {
	s.logger = logging.NewLoggerWithWriter(logging.ERROR, io.Discard)
}

func (s *SimulateTestSuite) TestBasicStrategyNeverMisplays() {
	testCases := []struct {
		name     string
		settings func() blackjack.GameSettings
	}{
		{
			name:     "default rules",
			settings: blackjack.DefaultSettings,
		},
		{
			name: "single deck, H17, no double after split",
			settings: func() blackjack.GameSettings {
				settings := blackjack.DefaultSettings()
				settings.NumDecks = 1
				settings.DealerHitsSoft17 = true
				settings.DoubleAfterSplit = false
				return settings
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			stats, final, err := simulate(context.Background(), tc.settings(), 300, 10, 100000, s.logger)

			s.Require().NoError(err)
			s.Equal(300, stats.RoundsPlayed)
			s.GreaterOrEqual(stats.HandsPlayed, 300)
			s.Zero(stats.Mistakes)
			s.Equal(100.0, stats.StrategyAccuracy())
			s.Equal(stats.NetProfit(), final-100000, "the bankroll moves by exactly the net result")
		})
	}
}

func (s *SimulateTestSuite) TestStopsWhenBankrollRunsOut() {
	stats, final, err := simulate(context.Background(), blackjack.DefaultSettings(), 100000, 50, 100, s.logger)

	s.Require().NoError(err)
	s.Less(stats.RoundsPlayed, 100000)
	s.Less(final, int64(50))
}
