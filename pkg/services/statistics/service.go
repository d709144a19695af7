package statistics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	"github.com/fadedpez/blackjacktrainer/pkg/repositories/game"
	"github.com/fadedpez/blackjacktrainer/pkg/services/blackjack"
)

// Service provides methods for retrieving and processing player statistics
type Service struct {
	repository game.Repository
}

// NewService creates a new statistics service
func NewService(repository game.Repository) *Service {
	return &Service{
		repository: repository,
	}
}

// PlayerRank represents a player's statistics with ranking information
type PlayerRank struct {
	*entities.PlayerStatistics
	Rank        int     `json:"rank"`
	WinRate     float64 `json:"win_rate"`
	ProfitRate  float64 `json:"profit_rate"`
	Accuracy    float64 `json:"accuracy"`
	IsTopWinner bool    `json:"is_top_winner"`
	IsTopPlayer bool    `json:"is_top_player"`
}

// BlackjackLeaderboard represents a paginated leaderboard of player statistics
type BlackjackLeaderboard struct {
	Players        []*PlayerRank `json:"players"`
	TotalPlayers   int           `json:"total_players"`
	CurrentPage    int           `json:"current_page"`
	TotalPages     int           `json:"total_pages"`
	PlayersPerPage int           `json:"players_per_page"`
	LastUpdated    time.Time     `json:"last_updated"`
}

// Aggregate folds a player's round records into one set of statistics
func Aggregate(playerID string, rounds []*entities.RoundRecord) *entities.PlayerStatistics {
	stats := &entities.PlayerStatistics{PlayerID: playerID}

	for _, round := range rounds {
		stats.RoundsPlayed++
		if round.CompletedAt.After(stats.LastUpdated) {
			stats.LastUpdated = round.CompletedAt
		}

		split := false
		for _, hand := range round.Hands {
			stats.HandsPlayed++
			stats.TotalBet += hand.Bet
			stats.TotalWinnings += hand.Payout
			stats.Decisions += len(hand.Actions)
			stats.Mistakes += hand.Mistakes

			switch blackjack.Result(hand.Result) {
			case blackjack.ResultWin:
				stats.Wins++
			case blackjack.ResultLose:
				stats.Losses++
			case blackjack.ResultPush:
				stats.Pushes++
			case blackjack.ResultBlackjack:
				stats.Blackjacks++
			case blackjack.ResultBust:
				stats.Busts++
				stats.Losses++
			}

			if hand.Doubled {
				stats.DoubleDowns++
			}
			if hand.FromSplit {
				split = true
			}
		}
		if split {
			stats.Splits++
		}
	}

	return stats
}

// GetPlayerStatistics aggregates every saved round of a player
func (s *Service) GetPlayerStatistics(ctx context.Context, playerID string) (*entities.PlayerStatistics, error) {
	rounds, err := s.repository.GetPlayerRounds(ctx, playerID, 0)
	if err != nil {
		return nil, fmt.Errorf("error getting rounds for player %s: %w", playerID, err)
	}
	return Aggregate(playerID, rounds), nil
}

// GetBlackjackLeaderboard retrieves a paginated leaderboard ranked by net profit
func (s *Service) GetBlackjackLeaderboard(ctx context.Context, page, playersPerPage int) (*BlackjackLeaderboard, error) {
	if page < 1 {
		page = 1
	}
	if playersPerPage < 1 {
		playersPerPage = 10
	}

	playerIDs, err := s.repository.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	playerRanks := make([]*PlayerRank, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		stats, err := s.GetPlayerStatistics(ctx, playerID)
		if err != nil {
			return nil, err
		}
		if stats.HandsPlayed == 0 {
			continue
		}

		var profitRate float64
		if stats.TotalBet > 0 {
			profitRate = float64(stats.TotalWinnings) / float64(stats.TotalBet)
		}

		playerRanks = append(playerRanks, &PlayerRank{
			PlayerStatistics: stats,
			WinRate:          stats.WinRate(),
			ProfitRate:       profitRate,
			Accuracy:         stats.StrategyAccuracy(),
		})
	}

	// Sort by net profit, ties broken by player ID so pages are stable
	sort.Slice(playerRanks, func(i, j int) bool {
		pi, pj := playerRanks[i].NetProfit(), playerRanks[j].NetProfit()
		if pi != pj {
			return pi > pj
		}
		return playerRanks[i].PlayerID < playerRanks[j].PlayerID
	})

	if len(playerRanks) > 0 {
		playerRanks[0].IsTopWinner = true

		mostHandsIdx := 0
		for i := 1; i < len(playerRanks); i++ {
			if playerRanks[i].HandsPlayed > playerRanks[mostHandsIdx].HandsPlayed {
				mostHandsIdx = i
			}
		}
		playerRanks[mostHandsIdx].IsTopPlayer = true
	}

	for i := range playerRanks {
		playerRanks[i].Rank = i + 1
	}

	totalPlayers := len(playerRanks)
	totalPages := (totalPlayers + playersPerPage - 1) / playersPerPage
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	start := (page - 1) * playersPerPage
	end := start + playersPerPage
	if end > totalPlayers {
		end = totalPlayers
	}

	currentPagePlayers := []*PlayerRank{}
	if start < totalPlayers {
		currentPagePlayers = playerRanks[start:end]
	}

	return &BlackjackLeaderboard{
		Players:        currentPagePlayers,
		TotalPlayers:   totalPlayers,
		CurrentPage:    page,
		TotalPages:     totalPages,
		PlayersPerPage: playersPerPage,
		LastUpdated:    time.Now(),
	}, nil
}
