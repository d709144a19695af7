package trainer

import (
	"context"
	"testing"
	"time"

	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	"github.com/fadedpez/blackjacktrainer/pkg/repositories/game"
	"github.com/fadedpez/blackjacktrainer/pkg/services/blackjack"
	"github.com/stretchr/testify/suite"
)

type ManagerTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *game.MemoryRepository
	now     time.Time
	manager *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = game.NewMemoryRepository()
	s.now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	settings := blackjack.DefaultSettings()
	settings.NumDecks = 1
	s.manager = NewManager(Config{
		Engine: blackjack.NewEngine(
			blackjack.WithShoeFactory(scriptedShoe(entities.Ten, entities.Nine, entities.Ten, entities.Eight)),
			blackjack.WithLogger(quiet),
		),
		Settings:      settings,
		Repository:    s.repo,
		Logger:        quiet,
		StartingChips: 100,
		Now:           func() time.Time { return s.now },
	}, 30*time.Minute)
}

func (s *ManagerTestSuite) TestStartAndGet() {
	session, created, err := s.manager.Start(s.ctx, "player1")
	s.Require().NoError(err)
	s.True(created)
	s.Equal(int64(100), session.State().Chips)

	again, created, err := s.manager.Start(s.ctx, "player1")
	s.Require().NoError(err)
	s.False(created)
	s.Same(session, again)

	got, err := s.manager.Get("player1")
	s.NoError(err)
	s.Same(session, got)

	_, err = s.manager.Get("nobody")
	s.ErrorIs(err, ErrSessionNotFound)

	s.Equal([]string{"player1"}, s.manager.Players())
}

func (s *ManagerTestSuite) TestEndSettlesOpenRound() {
	session, _, err := s.manager.Start(s.ctx, "player1")
	s.Require().NoError(err)
	_, err = session.Bet(s.ctx, 10)
	s.Require().NoError(err)

	s.Require().NoError(s.manager.End(s.ctx, "player1"))

	rounds, err := s.repo.GetPlayerRounds(s.ctx, "player1", 0)
	s.NoError(err)
	s.Require().Len(rounds, 1)
	s.Equal("WIN", rounds[0].Hands[0].Result)
	s.Empty(s.manager.Players())

	s.ErrorIs(s.manager.End(s.ctx, "player1"), ErrSessionNotFound)
}

func (s *ManagerTestSuite) TestEvictIdle() {
	_, _, err := s.manager.Start(s.ctx, "early")
	s.Require().NoError(err)

	s.now = s.now.Add(20 * time.Minute)
	_, _, err = s.manager.Start(s.ctx, "late")
	s.Require().NoError(err)

	s.now = s.now.Add(20 * time.Minute)
	s.Equal(1, s.manager.EvictIdle(s.ctx))
	s.Equal([]string{"late"}, s.manager.Players())

	shoe, err := s.repo.GetShoe(s.ctx, "early")
	s.NoError(err)
	s.Len(shoe, 4, "evicted sessions keep their shoe")
}

func (s *ManagerTestSuite) TestNewSessionPicksUpSavedShoe() {
	session, _, err := s.manager.Start(s.ctx, "player1")
	s.Require().NoError(err)
	_, err = session.Bet(s.ctx, 10)
	s.Require().NoError(err)
	_, err = session.Stand(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(s.manager.End(s.ctx, "player1"))

	// the four card shoe was dealt out, so the saved shoe is empty and a new one starts
	next, _, err := s.manager.Start(s.ctx, "player1")
	s.Require().NoError(err)
	s.NotEqual(session.ID, next.ID)
	s.Len(next.State().Shoe, 4)
	s.Equal(0, next.State().CardsDealt)
}

func (s *ManagerTestSuite) TestEvictionDisabled() {
	manager := NewManager(Config{Repository: s.repo, Logger: quiet}, 0)
	_, _, err := manager.Start(s.ctx, "player1")
	s.Require().NoError(err)

	s.Equal(0, manager.EvictIdle(s.ctx))
	s.Len(manager.Players(), 1)
}

func (s *ManagerTestSuite) TestShutdown() {
	for _, id := range []string{"a", "b"} {
		_, _, err := s.manager.Start(s.ctx, id)
		s.Require().NoError(err)
	}

	s.manager.Shutdown(s.ctx)

	s.Empty(s.manager.Players())
}
