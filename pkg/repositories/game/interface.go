package game

import (
	"context"

	"github.com/fadedpez/blackjacktrainer/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_game

// Repository defines storage operations for shoe state and settled rounds
type Repository interface {
	// Shoe operations
	SaveShoe(ctx context.Context, playerID string, shoe []*entities.Card) error
	GetShoe(ctx context.Context, playerID string) ([]*entities.Card, error)

	// Round records
	SaveRound(ctx context.Context, round *entities.RoundRecord) error
	// GetPlayerRounds returns the player's rounds newest first. A limit of
	// zero or less returns all of them.
	GetPlayerRounds(ctx context.Context, playerID string, limit int) ([]*entities.RoundRecord, error)
	// GetSessionRounds returns a session's rounds oldest first
	GetSessionRounds(ctx context.Context, sessionID string) ([]*entities.RoundRecord, error)
	// ListPlayers returns every player with at least one saved round
	ListPlayers(ctx context.Context) ([]string, error)

	// Close closes any resources used by the repository
	Close() error
}
