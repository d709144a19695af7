package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	"github.com/fadedpez/blackjacktrainer/pkg/repositories/game"
	"github.com/fadedpez/blackjacktrainer/pkg/services/blackjack"
	"github.com/fadedpez/blackjacktrainer/pkg/services/statistics"
	"github.com/fadedpez/blackjacktrainer/pkg/services/trainer"
)

const playerID = "simulator"

func main() {
	rounds := flag.Int("rounds", 1000, "Number of rounds to play")
	bet := flag.Int64("bet", 10, "Chips bet on every round")
	chips := flag.Int64("chips", 100000, "Starting bankroll")
	decks := flag.Int("decks", blackjack.StandardDecks, "Decks in the shoe")
	h17 := flag.Bool("h17", false, "Dealer hits soft 17")
	das := flag.Bool("das", true, "Double after split allowed")
	verbose := flag.Bool("v", false, "Log every round")
	flag.Parse()

	level := logging.WARN
	if *verbose {
		level = logging.INFO
	}
	logger := logging.NewLogger(level)

	settings := blackjack.DefaultSettings()
	settings.NumDecks = *decks
	settings.DealerHitsSoft17 = *h17
	settings.DoubleAfterSplit = *das

	stats, final, err := simulate(context.Background(), settings, *rounds, *bet, *chips, logger)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	printReport(stats, *chips, final)
}

// simulate plays rounds of basic strategy at one seat and returns the
// aggregated statistics with the final bankroll. It stops early when the
// bankroll cannot cover the bet.
func simulate(ctx context.Context, settings blackjack.GameSettings, rounds int, bet, chips int64, logger *logging.Logger) (*entities.PlayerStatistics, int64, error) {
	repo := game.NewMemoryRepository()
	session, err := trainer.NewSession(ctx, playerID, trainer.Config{
		Engine:        blackjack.NewEngine(blackjack.WithLogger(logger)),
		Settings:      settings,
		Repository:    repo,
		Logger:        logger,
		StartingChips: chips,
	})
	if err != nil {
		return nil, 0, err
	}

	for i := 0; i < rounds; i++ {
		if _, err := session.Bet(ctx, bet); err != nil {
			if errors.Is(err, blackjack.ErrInsufficientChips) {
				logger.Warn("Bankroll exhausted after %d rounds", i)
				break
			}
			return nil, 0, err
		}

		if err := playRound(ctx, session); err != nil {
			return nil, 0, err
		}
	}

	stats, err := statistics.NewService(repo).GetPlayerStatistics(ctx, playerID)
	if err != nil {
		return nil, 0, err
	}
	return stats, session.State().Chips, nil
}

// playRound follows the advice for every decision until the round settles
func playRound(ctx context.Context, session *trainer.Session) error {
	for session.ActiveHand() >= 0 {
		action, err := session.Advice()
		if err != nil {
			return err
		}

		switch action {
		case blackjack.ActionStand:
			_, err = session.Stand(ctx)
		case blackjack.ActionDouble:
			_, err = session.Double(ctx)
		case blackjack.ActionSplit:
			_, err = session.Split(ctx)
			if errors.Is(err, trainer.ErrTooManyHands) {
				_, err = session.Hit(ctx)
			}
		default:
			_, err = session.Hit(ctx)
		}
		if err != nil {
			return fmt.Errorf("playing %s: %w", action.Name(), err)
		}
	}
	return nil
}

func printReport(stats *entities.PlayerStatistics, start, final int64) {
	w := os.Stdout
	fmt.Fprintf(w, "Rounds played:  %d (%d hands)\n", stats.RoundsPlayed, stats.HandsPlayed)
	fmt.Fprintf(w, "Record:         %dW-%dL-%dP, %d blackjacks, %d busts\n", stats.Wins, stats.Losses, stats.Pushes, stats.Blackjacks, stats.Busts)
	fmt.Fprintf(w, "Doubles/Splits: %d/%d\n", stats.DoubleDowns, stats.Splits)
	fmt.Fprintf(w, "Total bet:      %d\n", stats.TotalBet)
	fmt.Fprintf(w, "Net:            %+d\n", final-start)

	if stats.TotalBet > 0 {
		fmt.Fprintf(w, "House edge:     %.2f%%\n", -float64(stats.NetProfit())/float64(stats.TotalBet)*100)
	}
	fmt.Fprintf(w, "Accuracy:       %.1f%%\n", stats.StrategyAccuracy())
}
