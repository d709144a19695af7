package game

import (
	"context"
	"sort"
	"sync"

	"github.com/fadedpez/blackjacktrainer/pkg/entities"
)

// MemoryRepository implements Repository interface with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of playerID to shoe
	shoes map[string][]*entities.Card
	// Map of sessionID to rounds, oldest first
	sessionRounds map[string][]*entities.RoundRecord
	// Map of playerID to rounds, oldest first
	playerRounds map[string][]*entities.RoundRecord
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		shoes:         make(map[string][]*entities.Card),
		sessionRounds: make(map[string][]*entities.RoundRecord),
		playerRounds:  make(map[string][]*entities.RoundRecord),
	}
}

// SaveShoe stores the undealt cards of a player
func (r *MemoryRepository) SaveShoe(ctx context.Context, playerID string, shoe []*entities.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cards := make([]*entities.Card, len(shoe))
	copy(cards, shoe)
	r.shoes[playerID] = cards
	return nil
}

// GetShoe retrieves the shoe of a player, nil if none was saved
func (r *MemoryRepository) GetShoe(ctx context.Context, playerID string) ([]*entities.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shoe, exists := r.shoes[playerID]
	if !exists {
		return nil, nil
	}
	cards := make([]*entities.Card, len(shoe))
	copy(cards, shoe)
	return cards, nil
}

// SaveRound stores a round under both its session and its player
func (r *MemoryRepository) SaveRound(ctx context.Context, round *entities.RoundRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessionRounds[round.SessionID] = append(r.sessionRounds[round.SessionID], round)
	r.playerRounds[round.PlayerID] = append(r.playerRounds[round.PlayerID], round)
	return nil
}

// GetPlayerRounds retrieves a player's rounds, newest first
func (r *MemoryRepository) GetPlayerRounds(ctx context.Context, playerID string, limit int) ([]*entities.RoundRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.playerRounds[playerID]
	n := len(stored)
	if limit > 0 && limit < n {
		n = limit
	}

	rounds := make([]*entities.RoundRecord, 0, n)
	for i := len(stored) - 1; i >= 0 && len(rounds) < n; i-- {
		rounds = append(rounds, stored[i])
	}
	return rounds, nil
}

// GetSessionRounds retrieves a session's rounds in the order they were played
func (r *MemoryRepository) GetSessionRounds(ctx context.Context, sessionID string) ([]*entities.RoundRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.sessionRounds[sessionID]
	rounds := make([]*entities.RoundRecord, len(stored))
	copy(rounds, stored)
	return rounds, nil
}

// ListPlayers returns the IDs of every player with saved rounds, sorted
func (r *MemoryRepository) ListPlayers(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]string, 0, len(r.playerRounds))
	for id := range r.playerRounds {
		players = append(players, id)
	}
	sort.Strings(players)
	return players, nil
}

// Close is a no-op for memory repository since there are no resources to close
func (r *MemoryRepository) Close() error {
	return nil
}
