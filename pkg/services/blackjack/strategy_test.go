package blackjack

import (
	"testing"

	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	"github.com/stretchr/testify/suite"
)

type StrategyTestSuite struct {
	suite.Suite
	s17 GameSettings
	h17 GameSettings
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

func (s *StrategyTestSuite) SetupTest() {
	s.s17 = DefaultSettings()
	s.h17 = DefaultSettings()
	s.h17.DealerHitsSoft17 = true
}

func up(rank entities.Rank) *entities.Card {
	return entities.NewCard(entities.Hearts, rank)
}

func (s *StrategyTestSuite) TestActionString() {
	s.Equal("H", ActionHit.String())
	s.Equal("S", ActionStand.String())
	s.Equal("D", ActionDouble.String())
	s.Equal("SP", ActionSplit.String())
	s.Equal("SU", ActionSurrender.String())
	s.Equal("Double", ActionDouble.Name())
}

func (s *StrategyTestSuite) TestDealerColumn() {
	s.Equal(0, dealerColumn(up(entities.Two)))
	s.Equal(7, dealerColumn(up(entities.Nine)))
	s.Equal(8, dealerColumn(up(entities.Ten)))
	s.Equal(8, dealerColumn(up(entities.King)))
	s.Equal(9, dealerColumn(up(entities.Ace)))
}

func (s *StrategyTestSuite) TestCanDoubleByRules() {
	settings := DefaultSettings()
	s.True(CanDoubleByRules(17, settings))

	settings.DoubleDownRule = DoubleNineTenEleven
	s.True(CanDoubleByRules(9, settings))
	s.False(CanDoubleByRules(12, settings))

	settings.DoubleDownRule = DoubleTenEleven
	s.False(CanDoubleByRules(9, settings))
	s.True(CanDoubleByRules(11, settings))

	settings.DoubleDownRule = DoubleNotAllowed
	s.False(CanDoubleByRules(11, settings))
}

func (s *StrategyTestSuite) TestGetBasicStrategyAction() {
	noDouble := DefaultSettings()
	noDouble.DoubleDownRule = DoubleNotAllowed
	noDAS := DefaultSettings()
	noDAS.DoubleAfterSplit = false
	tenEleven := DefaultSettings()
	tenEleven.DoubleDownRule = DoubleTenEleven

	testCases := []struct {
		name      string
		cards     []*entities.Card
		upCard    entities.Rank
		settings  GameSettings
		canSplit  bool
		canDouble bool
		expected  Action
	}{
		{name: "Hard 16 vs 10 surrender becomes hit", cards: cardsOf(entities.Ten, entities.Six), upCard: entities.Ten, settings: s.s17, expected: ActionHit},
		{name: "Hard 16 vs 6 stands", cards: cardsOf(entities.Ten, entities.Six), upCard: entities.Six, settings: s.s17, expected: ActionStand},
		{name: "Hard 11 vs 6 doubles", cards: cardsOf(entities.Five, entities.Six), upCard: entities.Six, settings: s.s17, canDouble: true, expected: ActionDouble},
		{name: "Hard 11 vs 6 with doubling not allowed", cards: cardsOf(entities.Five, entities.Six), upCard: entities.Six, settings: noDouble, canDouble: true, expected: ActionHit},
		{name: "Hard 11 vs 6 without chips to double", cards: cardsOf(entities.Five, entities.Six), upCard: entities.Six, settings: s.s17, expected: ActionHit},
		{name: "Hard 10 vs face card", cards: cardsOf(entities.Six, entities.Four), upCard: entities.Queen, settings: s.s17, canDouble: true, expected: ActionHit},
		{name: "Hard 12 vs 4 in three cards", cards: cardsOf(entities.Five, entities.Four, entities.Three), upCard: entities.Four, settings: s.s17, canDouble: true, expected: ActionStand},
		{name: "Hard 17 vs ace", cards: cardsOf(entities.Ten, entities.Seven), upCard: entities.Ace, settings: s.h17, expected: ActionStand},
		{name: "Hard 9 vs 2 on S17", cards: cardsOf(entities.Five, entities.Four), upCard: entities.Two, settings: s.s17, canDouble: true, expected: ActionHit},
		{name: "Hard 9 vs 2 on H17", cards: cardsOf(entities.Five, entities.Four), upCard: entities.Two, settings: s.h17, canDouble: true, expected: ActionDouble},
		{name: "Hard 9 vs 3 under ten-eleven rule", cards: cardsOf(entities.Five, entities.Four), upCard: entities.Three, settings: tenEleven, canDouble: true, expected: ActionHit},
		{name: "Hard 15 vs 10 on S17", cards: cardsOf(entities.Ten, entities.Five), upCard: entities.Ten, settings: s.s17, expected: ActionHit},
		{name: "Hard 4 off the chart hits", cards: cardsOf(entities.Two, entities.Two), upCard: entities.Five, settings: s.s17, expected: ActionHit},
		{name: "Three card 21 off the chart stands", cards: cardsOf(entities.Seven, entities.Seven, entities.Seven), upCard: entities.Ten, settings: s.s17, expected: ActionStand},

		{name: "Eights vs 10 split", cards: cardsOf(entities.Eight, entities.Eight), upCard: entities.Ten, settings: s.s17, canSplit: true, canDouble: true, expected: ActionSplit},
		{name: "Eights vs 10 cannot split", cards: cardsOf(entities.Eight, entities.Eight), upCard: entities.Ten, settings: s.s17, expected: ActionHit},
		{name: "Aces vs 6 split", cards: cardsOf(entities.Ace, entities.Ace), upCard: entities.Six, settings: s.s17, canSplit: true, expected: ActionSplit},
		{name: "Tens vs 6 stand", cards: cardsOf(entities.Ten, entities.Ten), upCard: entities.Six, settings: s.s17, canSplit: true, expected: ActionStand},
		{name: "Nines vs 7 stand", cards: cardsOf(entities.Nine, entities.Nine), upCard: entities.Seven, settings: s.s17, canSplit: true, expected: ActionStand},
		{name: "Fives vs 6 double as hard 10", cards: cardsOf(entities.Five, entities.Five), upCard: entities.Six, settings: s.s17, canSplit: true, canDouble: true, expected: ActionDouble},
		{name: "Twos vs 7 split with DAS", cards: cardsOf(entities.Two, entities.Two), upCard: entities.Seven, settings: s.s17, canSplit: true, expected: ActionSplit},
		{name: "Twos vs 7 hit without DAS", cards: cardsOf(entities.Two, entities.Two), upCard: entities.Seven, settings: noDAS, canSplit: true, expected: ActionHit},
		{name: "Threes vs 4 split without DAS", cards: cardsOf(entities.Three, entities.Three), upCard: entities.Four, settings: noDAS, canSplit: true, expected: ActionSplit},
		{name: "Sixes vs 6 hit without DAS", cards: cardsOf(entities.Six, entities.Six), upCard: entities.Six, settings: noDAS, canSplit: true, expected: ActionHit},
		{name: "Sixes vs 2 split without DAS", cards: cardsOf(entities.Six, entities.Six), upCard: entities.Two, settings: noDAS, canSplit: true, expected: ActionSplit},

		{name: "Soft 18 vs 2 on S17 stands", cards: cardsOf(entities.Ace, entities.Seven), upCard: entities.Two, settings: s.s17, canDouble: true, expected: ActionStand},
		{name: "Soft 18 vs 2 on H17 doubles", cards: cardsOf(entities.Ace, entities.Seven), upCard: entities.Two, settings: s.h17, canDouble: true, expected: ActionDouble},
		{name: "Soft 18 vs 3 without double hits", cards: cardsOf(entities.Ace, entities.Seven), upCard: entities.Three, settings: s.s17, expected: ActionHit},
		{name: "Soft 18 vs 9 hits", cards: cardsOf(entities.Ace, entities.Seven), upCard: entities.Nine, settings: s.s17, expected: ActionHit},
		{name: "Soft 19 vs 6 on S17 stands", cards: cardsOf(entities.Ace, entities.Eight), upCard: entities.Six, settings: s.s17, canDouble: true, expected: ActionStand},
		{name: "Soft 19 vs 6 on H17 doubles", cards: cardsOf(entities.Ace, entities.Eight), upCard: entities.Six, settings: s.h17, canDouble: true, expected: ActionDouble},
		{name: "Soft 19 vs 6 on H17 without double stands", cards: cardsOf(entities.Ace, entities.Eight), upCard: entities.Six, settings: s.h17, expected: ActionStand},
		{name: "Soft 13 vs 5 doubles", cards: cardsOf(entities.Ace, entities.Two), upCard: entities.Five, settings: s.s17, canDouble: true, expected: ActionDouble},
		{name: "Three card soft 16 vs 4", cards: cardsOf(entities.Ace, entities.Two, entities.Three), upCard: entities.Four, settings: s.s17, canDouble: false, expected: ActionHit},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			action := GetBasicStrategyAction(tc.cards, up(tc.upCard), tc.settings, tc.canSplit, tc.canDouble)
			s.Equal(tc.expected, action, "got %s", action)
		})
	}
}
