package blackjack

import (
	"fmt"
	"strings"
)

const (
	StandardDecks           = 6   // Standard number of decks in the shoe
	StandardBlackjackPayout = 1.5 // 3:2
	MaxPlayers              = 7   // Max number of seats at the table, dealer excluded
	DealerIndex             = 0   // The dealer always sits at position 0
)

// DoubleDownRule restricts which two-card totals may be doubled
type DoubleDownRule string

const (
	DoubleAnyTwoCards   DoubleDownRule = "ANY_TWO_CARDS"
	DoubleNineTenEleven DoubleDownRule = "NINE_TEN_ELEVEN"
	DoubleTenEleven     DoubleDownRule = "TEN_ELEVEN"
	DoubleNotAllowed    DoubleDownRule = "NOT_ALLOWED"
)

// ParseDoubleDownRule converts a configuration string into a DoubleDownRule
func ParseDoubleDownRule(s string) (DoubleDownRule, error) {
	switch rule := DoubleDownRule(strings.ToUpper(strings.TrimSpace(s))); rule {
	case DoubleAnyTwoCards, DoubleNineTenEleven, DoubleTenEleven, DoubleNotAllowed:
		return rule, nil
	default:
		return "", fmt.Errorf("unknown double down rule %q", s)
	}
}

// GameSettings holds the table rules the dealer and the strategy advisor follow
type GameSettings struct {
	NumDecks             int
	DealerHitsSoft17     bool
	DoubleAfterSplit     bool
	DoubleDownRule       DoubleDownRule
	LateSurrenderAllowed bool
	BlackjackPayout      float64
}

// DefaultSettings returns a six deck S17 table with double after split,
// doubling on any two cards, late surrender and a 3:2 blackjack payout.
func DefaultSettings() GameSettings {
	return GameSettings{
		NumDecks:             StandardDecks,
		DealerHitsSoft17:     false,
		DoubleAfterSplit:     true,
		DoubleDownRule:       DoubleAnyTwoCards,
		LateSurrenderAllowed: true,
		BlackjackPayout:      StandardBlackjackPayout,
	}
}

// Result represents the outcome of a settled blackjack hand
type Result string

const (
	ResultNone      Result = ""
	ResultWin       Result = "WIN"
	ResultLose      Result = "LOSE"
	ResultPush      Result = "PUSH"
	ResultBlackjack Result = "BLACKJACK"
	ResultBust      Result = "BUST"
)

// String returns the string representation of the result
func (r Result) String() string {
	return string(r)
}

// IsWin returns true if this result represents a win
func (r Result) IsWin() bool {
	return r == ResultWin || r == ResultBlackjack
}

// Phase is the coarse round state used to gate which actions a caller may take
type Phase string

const (
	PhaseBetting    Phase = "BETTING"
	PhasePlayerTurn Phase = "PLAYER_TURN"
	PhaseDealerTurn Phase = "DEALER_TURN"
	PhaseResolved   Phase = "RESOLVED"
)
