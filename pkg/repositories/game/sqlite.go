package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fadedpez/blackjacktrainer/pkg/db/migrations"
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath and brings
// its schema up to date
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := migrations.NewMigrator(db).MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveShoe stores the undealt cards of a player
func (r *SQLiteRepository) SaveShoe(ctx context.Context, playerID string, shoe []*entities.Card) error {
	cardsJSON, err := json.Marshal(shoe)
	if err != nil {
		return fmt.Errorf("error encoding shoe: %w", err)
	}

	query := `
		INSERT INTO shoes (player_id, cards, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(player_id)
		DO UPDATE SET cards = excluded.cards, updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query, playerID, cardsJSON); err != nil {
		return fmt.Errorf("error saving shoe: %w", err)
	}
	return nil
}

// GetShoe retrieves the shoe of a player, nil if none was saved
func (r *SQLiteRepository) GetShoe(ctx context.Context, playerID string) ([]*entities.Card, error) {
	var cardsJSON []byte
	err := r.db.QueryRowContext(ctx, `SELECT cards FROM shoes WHERE player_id = ?`, playerID).Scan(&cardsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting shoe: %w", err)
	}

	var shoe []*entities.Card
	if err := json.Unmarshal(cardsJSON, &shoe); err != nil {
		return nil, fmt.Errorf("error decoding shoe: %w", err)
	}
	return shoe, nil
}

// SaveRound stores a round and its hands in one transaction
func (r *SQLiteRepository) SaveRound(ctx context.Context, round *entities.RoundRecord) error {
	dealerJSON, err := json.Marshal(round.DealerCards)
	if err != nil {
		return fmt.Errorf("error encoding dealer cards: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO rounds (
			id, session_id, player_id, started_at, completed_at,
			dealer_cards, dealer_score, running_count, cards_dealt
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, query,
		round.ID, round.SessionID, round.PlayerID, round.StartedAt, round.CompletedAt,
		dealerJSON, round.DealerScore, round.RunningCount, round.CardsDealt)
	if err != nil {
		return fmt.Errorf("error saving round: %w", err)
	}

	for i, hand := range round.Hands {
		cardsJSON, err := json.Marshal(hand.Cards)
		if err != nil {
			return fmt.Errorf("error encoding hand cards: %w", err)
		}
		actionsJSON, err := json.Marshal(hand.Actions)
		if err != nil {
			return fmt.Errorf("error encoding hand actions: %w", err)
		}

		query := `
			INSERT INTO hand_records (
				round_id, position, cards, score, bet, result, payout,
				is_doubled, is_split, actions, mistakes
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err = tx.ExecContext(ctx, query,
			round.ID, i, cardsJSON, hand.Score, hand.Bet, hand.Result, hand.Payout,
			hand.Doubled, hand.FromSplit, actionsJSON, hand.Mistakes)
		if err != nil {
			return fmt.Errorf("error saving hand record: %w", err)
		}
	}

	return tx.Commit()
}

// GetPlayerRounds retrieves a player's rounds, newest first
func (r *SQLiteRepository) GetPlayerRounds(ctx context.Context, playerID string, limit int) ([]*entities.RoundRecord, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	query := `
		SELECT id, session_id, player_id, started_at, completed_at,
			   dealer_cards, dealer_score, running_count, cards_dealt
		FROM rounds
		WHERE player_id = ?
		ORDER BY completed_at DESC
		LIMIT ?`

	return r.queryRounds(ctx, query, playerID, limit)
}

// GetSessionRounds retrieves a session's rounds in the order they were played
func (r *SQLiteRepository) GetSessionRounds(ctx context.Context, sessionID string) ([]*entities.RoundRecord, error) {
	query := `
		SELECT id, session_id, player_id, started_at, completed_at,
			   dealer_cards, dealer_score, running_count, cards_dealt
		FROM rounds
		WHERE session_id = ?
		ORDER BY started_at ASC`

	return r.queryRounds(ctx, query, sessionID)
}

// ListPlayers returns the IDs of every player with saved rounds, sorted
func (r *SQLiteRepository) ListPlayers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT player_id FROM rounds ORDER BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("error listing players: %w", err)
	}
	defer rows.Close()

	players := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		players = append(players, id)
	}
	return players, rows.Err()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// queryRounds runs a rounds query and then attaches each round's hands
func (r *SQLiteRepository) queryRounds(ctx context.Context, query string, args ...interface{}) ([]*entities.RoundRecord, error) {
	rounds, err := r.scanRounds(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rounds) == 0 {
		return rounds, nil
	}
	if err := r.attachHands(ctx, rounds); err != nil {
		return nil, err
	}
	return rounds, nil
}

func (r *SQLiteRepository) scanRounds(ctx context.Context, query string, args ...interface{}) ([]*entities.RoundRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying rounds: %w", err)
	}
	defer rows.Close()

	rounds := []*entities.RoundRecord{}
	for rows.Next() {
		var (
			round      entities.RoundRecord
			dealerJSON []byte
		)
		err := rows.Scan(
			&round.ID, &round.SessionID, &round.PlayerID, &round.StartedAt, &round.CompletedAt,
			&dealerJSON, &round.DealerScore, &round.RunningCount, &round.CardsDealt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning round: %w", err)
		}
		if err := json.Unmarshal(dealerJSON, &round.DealerCards); err != nil {
			return nil, fmt.Errorf("error decoding dealer cards: %w", err)
		}
		rounds = append(rounds, &round)
	}
	return rounds, rows.Err()
}

func (r *SQLiteRepository) attachHands(ctx context.Context, rounds []*entities.RoundRecord) error {
	byID := make(map[string]*entities.RoundRecord, len(rounds))
	args := make([]interface{}, len(rounds))
	for i, round := range rounds {
		byID[round.ID] = round
		args[i] = round.ID
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(rounds)), ",")
	query := `
		SELECT round_id, cards, score, bet, result, payout,
			   is_doubled, is_split, actions, mistakes
		FROM hand_records
		WHERE round_id IN (` + placeholders + `)
		ORDER BY round_id, position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error querying hand records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			roundID     string
			hand        entities.HandRecord
			cardsJSON   []byte
			actionsJSON []byte
		)
		err := rows.Scan(
			&roundID, &cardsJSON, &hand.Score, &hand.Bet, &hand.Result, &hand.Payout,
			&hand.Doubled, &hand.FromSplit, &actionsJSON, &hand.Mistakes,
		)
		if err != nil {
			return fmt.Errorf("error scanning hand record: %w", err)
		}
		if err := json.Unmarshal(cardsJSON, &hand.Cards); err != nil {
			return fmt.Errorf("error decoding hand cards: %w", err)
		}
		if err := json.Unmarshal(actionsJSON, &hand.Actions); err != nil {
			return fmt.Errorf("error decoding hand actions: %w", err)
		}

		if round, ok := byID[roundID]; ok {
			round.Hands = append(round.Hands, hand)
		}
	}
	return rows.Err()
}
