package entities

import "time"

// PlayerStatistics represents aggregated statistics for a player
type PlayerStatistics struct {
	PlayerID      string    `json:"player_id"`
	RoundsPlayed  int       `json:"rounds_played"`
	HandsPlayed   int       `json:"hands_played"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	Pushes        int       `json:"pushes"`
	Blackjacks    int       `json:"blackjacks"`
	Busts         int       `json:"busts"`
	Splits        int       `json:"splits"`
	DoubleDowns   int       `json:"double_downs"`
	Decisions     int       `json:"decisions"`
	Mistakes      int       `json:"mistakes"`
	TotalBet      int64     `json:"total_bet"`
	TotalWinnings int64     `json:"total_winnings"`
	LastUpdated   time.Time `json:"last_updated"`
}

// NetProfit calculates the player's net profit
func (s *PlayerStatistics) NetProfit() int64 {
	return s.TotalWinnings - s.TotalBet
}

// WinRate calculates the player's win rate as a percentage of hands
func (s *PlayerStatistics) WinRate() float64 {
	if s.HandsPlayed == 0 {
		return 0.0
	}
	return float64(s.Wins+s.Blackjacks) / float64(s.HandsPlayed) * 100.0
}

// StrategyAccuracy is the share of decisions that matched basic strategy, as a percentage
func (s *PlayerStatistics) StrategyAccuracy() float64 {
	if s.Decisions == 0 {
		return 100.0
	}
	return float64(s.Decisions-s.Mistakes) / float64(s.Decisions) * 100.0
}
