package game

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite runs the same behaviour checks against every storage backend
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(t *testing.T) Repository
	repo    Repository
	ctx     context.Context
}

func TestMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) Repository {
			return NewMemoryRepository()
		},
	})
}

func TestSQLiteRepositorySuite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) Repository {
			repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "game.db"))
			if err != nil {
				t.Fatalf("Error creating SQLite repository: %v", err)
			}
			return repo
		},
	})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.newRepo(s.T())
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.NoError(s.repo.Close())
}

func testRound(id, sessionID, playerID string, completedAt time.Time) *entities.RoundRecord {
	return &entities.RoundRecord{
		ID:           id,
		SessionID:    sessionID,
		PlayerID:     playerID,
		StartedAt:    completedAt.Add(-time.Minute),
		CompletedAt:  completedAt,
		DealerCards:  []string{"10♠", "7♥"},
		DealerScore:  17,
		RunningCount: 2,
		CardsDealt:   30,
		Hands: []entities.HandRecord{
			{
				Cards:     []string{"8♠", "3♦", "10♣"},
				Score:     21,
				Bet:       10,
				Result:    "WIN",
				Payout:    20,
				FromSplit: true,
				Actions:   []string{"SP", "H", "S"},
			},
			{
				Cards:     []string{"8♥", "9♦"},
				Score:     17,
				Bet:       10,
				Result:    "PUSH",
				Payout:    10,
				FromSplit: true,
				Actions:   []string{"S"},
				Mistakes:  1,
			},
		},
	}
}

func (s *RepositoryTestSuite) TestShoeRoundTrip() {
	shoe, err := s.repo.GetShoe(s.ctx, "player1")
	s.NoError(err)
	s.Nil(shoe, "unknown player has no shoe")

	saved := []*entities.Card{
		entities.NewCard(entities.Spades, entities.Ace),
		entities.NewCard(entities.Hearts, entities.Five),
	}
	s.Require().NoError(s.repo.SaveShoe(s.ctx, "player1", saved))

	// saving again replaces the stored shoe
	s.Require().NoError(s.repo.SaveShoe(s.ctx, "player1", saved[1:]))

	shoe, err = s.repo.GetShoe(s.ctx, "player1")
	s.NoError(err)
	s.Require().Len(shoe, 1)
	s.Equal(entities.Five, shoe[0].Rank)
	s.Equal(1, shoe[0].Count)

	other, err := s.repo.GetShoe(s.ctx, "player2")
	s.NoError(err)
	s.Nil(other, "shoes are kept per player")
}

func (s *RepositoryTestSuite) TestPlayerRoundsNewestFirst() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		s.Require().NoError(s.repo.SaveRound(s.ctx, testRound(id, "session1", "player1", base.Add(time.Duration(i)*time.Minute))))
	}
	s.Require().NoError(s.repo.SaveRound(s.ctx, testRound("other", "session2", "player2", base)))

	rounds, err := s.repo.GetPlayerRounds(s.ctx, "player1", 0)
	s.NoError(err)
	s.Require().Len(rounds, 3)
	s.Equal("r3", rounds[0].ID)
	s.Equal("r1", rounds[2].ID)

	limited, err := s.repo.GetPlayerRounds(s.ctx, "player1", 2)
	s.NoError(err)
	s.Require().Len(limited, 2)
	s.Equal("r3", limited[0].ID)
	s.Equal("r2", limited[1].ID)

	none, err := s.repo.GetPlayerRounds(s.ctx, "nobody", 5)
	s.NoError(err)
	s.Empty(none)
}

func (s *RepositoryTestSuite) TestRoundDetailsPreserved() {
	completed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.SaveRound(s.ctx, testRound("r1", "session1", "player1", completed)))

	rounds, err := s.repo.GetSessionRounds(s.ctx, "session1")
	s.NoError(err)
	s.Require().Len(rounds, 1)

	round := rounds[0]
	s.Equal("player1", round.PlayerID)
	s.True(completed.Equal(round.CompletedAt))
	s.Equal([]string{"10♠", "7♥"}, round.DealerCards)
	s.Equal(17, round.DealerScore)
	s.Equal(2, round.RunningCount)
	s.Equal(30, round.CardsDealt)
	s.Require().Len(round.Hands, 2)
	s.Equal([]string{"8♠", "3♦", "10♣"}, round.Hands[0].Cards)
	s.Equal([]string{"SP", "H", "S"}, round.Hands[0].Actions)
	s.True(round.Hands[0].FromSplit)
	s.Equal(int64(20), round.Hands[0].Payout)
	s.Equal(1, round.Hands[1].Mistakes)
	s.Equal(int64(20), round.TotalBet())
	s.Equal(int64(30), round.TotalPayout())
}

func (s *RepositoryTestSuite) TestSessionRoundsInPlayOrder() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.SaveRound(s.ctx, testRound("first", "session1", "player1", base)))
	s.Require().NoError(s.repo.SaveRound(s.ctx, testRound("second", "session1", "player1", base.Add(time.Minute))))

	rounds, err := s.repo.GetSessionRounds(s.ctx, "session1")
	s.NoError(err)
	s.Require().Len(rounds, 2)
	s.Equal("first", rounds[0].ID)
	s.Equal("second", rounds[1].ID)
}

func (s *RepositoryTestSuite) TestListPlayers() {
	players, err := s.repo.ListPlayers(s.ctx)
	s.NoError(err)
	s.Empty(players)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.SaveRound(s.ctx, testRound("r1", "s1", "zed", now)))
	s.Require().NoError(s.repo.SaveRound(s.ctx, testRound("r2", "s2", "amy", now)))
	s.Require().NoError(s.repo.SaveRound(s.ctx, testRound("r3", "s2", "amy", now.Add(time.Second))))

	players, err = s.repo.ListPlayers(s.ctx)
	s.NoError(err)
	s.Equal([]string{"amy", "zed"}, players)
}
