package blackjack

import (
	"testing"

	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	"github.com/stretchr/testify/suite"
)

type DealerTestSuite struct {
	suite.Suite
}

func TestDealerSuite(t *testing.T) {
	suite.Run(t, new(DealerTestSuite))
}

func (s *DealerTestSuite) TestShouldDealerHit() {
	s17 := DefaultSettings()
	h17 := DefaultSettings()
	h17.DealerHitsSoft17 = true

	testCases := []struct {
		name     string
		cards    []*entities.Card
		settings GameSettings
		expected bool
	}{
		{name: "Hard 16", cards: cardsOf(entities.Ten, entities.Six), settings: s17, expected: true},
		{name: "Hard 17", cards: cardsOf(entities.Ten, entities.Seven), settings: h17, expected: false},
		{name: "Soft 17 stands on S17", cards: cardsOf(entities.Ace, entities.Six), settings: s17, expected: false},
		{name: "Soft 17 hits on H17", cards: cardsOf(entities.Ace, entities.Six), settings: h17, expected: true},
		{name: "Soft 18 stands on H17", cards: cardsOf(entities.Ace, entities.Seven), settings: h17, expected: false},
		{name: "Three card soft 17 on H17", cards: cardsOf(entities.Ace, entities.Two, entities.Four), settings: h17, expected: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, ShouldDealerHit(tc.cards, tc.settings))
		})
	}
}

func (s *DealerTestSuite) TestDetermineHandResult() {
	testCases := []struct {
		name     string
		player   []*entities.Card
		dealer   []*entities.Card
		expected Result
	}{
		{
			name:     "Player busts even when dealer busts",
			player:   cardsOf(entities.King, entities.Six, entities.Six),
			dealer:   cardsOf(entities.King, entities.Six, entities.King),
			expected: ResultBust,
		},
		{
			name:     "Blackjack against a dealer bust",
			player:   cardsOf(entities.Ace, entities.King),
			dealer:   cardsOf(entities.King, entities.Six, entities.King),
			expected: ResultBlackjack,
		},
		{
			name:     "Blackjack against blackjack",
			player:   cardsOf(entities.Ace, entities.King),
			dealer:   cardsOf(entities.Queen, entities.Ace),
			expected: ResultPush,
		},
		{
			name:     "Dealer blackjack beats three card 21",
			player:   cardsOf(entities.Seven, entities.Seven, entities.Seven),
			dealer:   cardsOf(entities.Ace, entities.Queen),
			expected: ResultLose,
		},
		{
			name:     "Dealer bust",
			player:   cardsOf(entities.Ten, entities.Two),
			dealer:   cardsOf(entities.Ten, entities.Five, entities.Nine),
			expected: ResultWin,
		},
		{
			name:     "Higher score wins",
			player:   cardsOf(entities.Ten, entities.Nine),
			dealer:   cardsOf(entities.Ten, entities.Eight),
			expected: ResultWin,
		},
		{
			name:     "Lower score loses",
			player:   cardsOf(entities.Ten, entities.Seven),
			dealer:   cardsOf(entities.Ten, entities.Eight),
			expected: ResultLose,
		},
		{
			name:     "Equal score pushes",
			player:   cardsOf(entities.Ten, entities.Eight),
			dealer:   cardsOf(entities.Nine, entities.Nine),
			expected: ResultPush,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, DetermineHandResult(tc.player, tc.dealer))
		})
	}
}

func (s *DealerTestSuite) TestCalculatePayout() {
	testCases := []struct {
		name     string
		bet      int64
		result   Result
		ratio    float64
		expected int64
	}{
		{name: "Blackjack 3:2", bet: 10, result: ResultBlackjack, ratio: 1.5, expected: 25},
		{name: "Blackjack default ratio", bet: 10, result: ResultBlackjack, ratio: 0, expected: 25},
		{name: "Blackjack 6:5", bet: 10, result: ResultBlackjack, ratio: 1.2, expected: 22},
		{name: "Blackjack bonus floored", bet: 5, result: ResultBlackjack, ratio: 1.5, expected: 12},
		{name: "Win", bet: 10, result: ResultWin, ratio: 1.5, expected: 20},
		{name: "Push", bet: 10, result: ResultPush, ratio: 1.5, expected: 10},
		{name: "Lose", bet: 10, result: ResultLose, ratio: 1.5, expected: 0},
		{name: "Bust", bet: 10, result: ResultBust, ratio: 1.5, expected: 0},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, CalculatePayout(Hand{Bet: tc.bet}, tc.result, tc.ratio))
		})
	}
}

func (s *DealerTestSuite) TestResolveHands() {
	state := GameState{
		Players: []Player{
			{IsDealer: true, Hands: []Hand{{Cards: cardsOf(entities.Ten, entities.Eight)}}},
			{
				IsUser: true,
				Chips:  80,
				Hands: []Hand{
					{Cards: cardsOf(entities.Eight, entities.Ten, entities.Two), Bet: 10, FromSplit: true},
					{Cards: cardsOf(entities.Eight, entities.Nine), Bet: 10, FromSplit: true},
				},
			},
			{
				Chips: 90,
				Hands: []Hand{{Cards: cardsOf(entities.Ace, entities.Jack), Bet: 10}},
			},
			{Chips: 50},
		},
		Chips: 80,
		Phase: PhaseDealerTurn,
	}

	resolved := ResolveHands(state, 1.5)

	user := resolved.Players[1]
	s.Equal(ResultWin, user.Hands[0].Result)
	s.Equal(ResultLose, user.Hands[1].Result)
	s.Equal(int64(100), user.Chips)
	s.Equal(int64(100), resolved.Chips, "session chips follow the user seat")

	other := resolved.Players[2]
	s.Equal(ResultBlackjack, other.Hands[0].Result)
	s.Equal(int64(115), other.Chips)

	s.Equal(int64(50), resolved.Players[3].Chips, "seat without a hand is skipped")
	s.Equal(PhaseResolved, resolved.Phase)
	s.Equal(ResultNone, state.Players[1].Hands[0].Result, "input state must not change")
}
