package blackjack

import (
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
)

// Action is a basic strategy recommendation
type Action int

const (
	ActionHit Action = iota
	ActionStand
	ActionDouble    // double, else hit
	ActionSplit
	ActionSurrender // surrender, else hit
)

// String returns the chart symbol of the action
func (a Action) String() string {
	switch a {
	case ActionHit:
		return "H"
	case ActionStand:
		return "S"
	case ActionDouble:
		return "D"
	case ActionSplit:
		return "SP"
	case ActionSurrender:
		return "SU"
	default:
		return "?"
	}
}

// Name returns a human readable action name
func (a Action) Name() string {
	switch a {
	case ActionHit:
		return "Hit"
	case ActionStand:
		return "Stand"
	case ActionDouble:
		return "Double"
	case ActionSplit:
		return "Split"
	case ActionSurrender:
		return "Surrender"
	default:
		return "Unknown"
	}
}

const (
	H  = ActionHit
	S  = ActionStand
	D  = ActionDouble
	SP = ActionSplit
	SU = ActionSurrender
)

// Charts for six decks, dealer hits soft 17, double after split and late
// surrender. Columns are the dealer up card 2 3 4 5 6 7 8 9 10 A.
var (
	hardTotals = map[int][10]Action{
		5:  {H, H, H, H, H, H, H, H, H, H},
		6:  {H, H, H, H, H, H, H, H, H, H},
		7:  {H, H, H, H, H, H, H, H, H, H},
		8:  {H, H, H, H, H, H, H, H, H, H},
		9:  {H, D, D, D, D, H, H, H, H, H},
		10: {D, D, D, D, D, D, D, D, H, H},
		11: {D, D, D, D, D, D, D, D, D, D},
		12: {H, H, S, S, S, H, H, H, H, H},
		13: {S, S, S, S, S, H, H, H, H, H},
		14: {S, S, S, S, S, H, H, H, H, H},
		15: {S, S, S, S, S, H, H, H, SU, SU},
		16: {S, S, S, S, S, H, H, SU, SU, SU},
		17: {S, S, S, S, S, S, S, S, S, S},
		18: {S, S, S, S, S, S, S, S, S, S},
		19: {S, S, S, S, S, S, S, S, S, S},
		20: {S, S, S, S, S, S, S, S, S, S},
	}

	// soft totals, A,A through A,9 plus soft 21
	softTotals = map[int][10]Action{
		12: {H, H, H, H, H, H, H, H, H, H},
		13: {H, H, H, D, D, H, H, H, H, H},
		14: {H, H, H, D, D, H, H, H, H, H},
		15: {H, H, D, D, D, H, H, H, H, H},
		16: {H, H, D, D, D, H, H, H, H, H},
		17: {H, D, D, D, D, H, H, H, H, H},
		18: {D, D, D, D, D, S, S, H, H, H},
		19: {S, S, S, S, S, S, S, S, S, S},
		20: {S, S, S, S, S, S, S, S, S, S},
		21: {S, S, S, S, S, S, S, S, S, S},
	}

	// pairs keyed by the point value of one card; only SP entries matter,
	// anything else falls through to the soft or hard chart
	pairSplits = map[int][10]Action{
		2:  {SP, SP, SP, SP, SP, SP, H, H, H, H},
		3:  {SP, SP, SP, SP, SP, SP, H, H, H, H},
		4:  {H, H, H, SP, SP, H, H, H, H, H},
		5:  {D, D, D, D, D, D, D, D, H, H},
		6:  {SP, SP, SP, SP, SP, H, H, H, H, H},
		7:  {SP, SP, SP, SP, SP, SP, H, H, H, H},
		8:  {SP, SP, SP, SP, SP, SP, SP, SP, SP, SP},
		9:  {SP, SP, SP, SP, SP, S, SP, SP, S, S},
		10: {S, S, S, S, S, S, S, S, S, S},
		11: {SP, SP, SP, SP, SP, SP, SP, SP, SP, SP},
	}
)

// dealer up card columns
const (
	colTwo          = 0
	colSix          = 4
	colTen          = 8
	colAce          = 9
	noDASLowPairCol = 5
	noDASSixesCol   = 4
)

// dealerColumn maps an up card to its chart column: 2..9 to 0..7, any
// ten-valued card to 8 and the ace to 9
func dealerColumn(card *entities.Card) int {
	if card.IsAce() {
		return colAce
	}
	return card.Value - 2
}

// CanDoubleByRules reports whether a hand total may be doubled under the
// table's double down rule
func CanDoubleByRules(handValue int, settings GameSettings) bool {
	switch settings.DoubleDownRule {
	case DoubleNineTenEleven:
		return handValue >= 9 && handValue <= 11
	case DoubleTenEleven:
		return handValue == 10 || handValue == 11
	case DoubleNotAllowed:
		return false
	default:
		return true
	}
}

// GetBasicStrategyAction looks the hand up in the charts and then applies
// the rule specific corrections for the actual table settings.
// canSplitHand and canDoubleHand say whether the player can afford (and is
// allowed by position) to split or double this hand.
func GetBasicStrategyAction(playerCards []*entities.Card, dealerUpCard *entities.Card, settings GameSettings, canSplitHand, canDoubleHand bool) Action {
	col := dealerColumn(dealerUpCard)
	total := CalculateHandValue(playerCards)
	canDouble := canDoubleHand && CanDoubleByRules(total, settings)

	if canSplitHand && CanSplit(playerCards) {
		pairValue := playerCards[0].Value
		if row, ok := pairSplits[pairValue]; ok && row[col] == ActionSplit {
			if !settings.DoubleAfterSplit {
				if (pairValue == 2 || pairValue == 3) && col >= noDASLowPairCol {
					return ActionHit
				}
				if pairValue == 6 && col >= noDASSixesCol {
					return ActionHit
				}
			}
			return ActionSplit
		}
	}

	var action Action
	var found bool
	if IsSoftHand(playerCards) {
		var row [10]Action
		if row, found = softTotals[total]; found {
			action = row[col]
		}

		if total == 18 && col == colTwo && !settings.DealerHitsSoft17 {
			action = ActionStand
		}
		if total == 19 && col == colSix && settings.DealerHitsSoft17 && canDouble {
			action = ActionDouble
		}
	} else {
		var row [10]Action
		if row, found = hardTotals[total]; found {
			action = row[col]
		}

		if total == 9 && col == colTwo && settings.DealerHitsSoft17 && canDouble {
			action = ActionDouble
		}
		if total == 15 && col == colTen && !settings.DealerHitsSoft17 && action == ActionSurrender {
			action = ActionHit
		}
	}

	if !found {
		if total >= 17 {
			return ActionStand
		}
		return ActionHit
	}

	if action == ActionDouble && !canDouble {
		action = ActionHit
	}

	if action == ActionSurrender {
		// there is no surrender move in the game, so the advice is always to hit
		action = ActionHit
	}

	return action
}
