package blackjack

import (
	"errors"
	"fmt"

	"github.com/fadedpez/blackjacktrainer/internal/types"
)

var (
	ErrCannotSplit       = errors.New("hand cannot be split")
	ErrInsufficientChips = errors.New("insufficient chips")
)

// PlaceBet resets the player to a single empty hand carrying betAmount and
// takes the chips right away. Chips are held at bet time, not at settlement.
// Callers must pass betAmount >= 0; only a bet over the stack is rejected.
func PlaceBet(s GameState, playerIndex int, betAmount int64) (GameState, error) {
	player := s.Players[playerIndex]
	if betAmount > player.Chips {
		return s, types.WrapError(types.ErrInsufficientChip,
			fmt.Sprintf("bet of %d exceeds %d chips", betAmount, player.Chips), ErrInsufficientChips)
	}

	player.Hands = []Hand{{Bet: betAmount}}
	player.Chips -= betAmount
	s = s.withPlayer(playerIndex, player)
	if player.IsUser {
		s.Chips -= betAmount
	}
	s.Phase = PhaseBetting

	return s, nil
}

// DealInitialCards deals two rounds of one card to every listed player in
// order. The dealer's second card is the hole card and stays out of the
// running count until PlayDealerHand reveals it.
func (e *Engine) DealInitialCards(s GameState, playerIndices []int) GameState {
	for _, idx := range playerIndices {
		if s.Players[idx].IsDealer || len(s.Players[idx].Hands) == 0 {
			player := s.Players[idx]
			player.Hands = []Hand{{}}
			s = s.withPlayer(idx, player)
		}
	}
	s.DealerRevealed = false

	for round := 0; round < 2; round++ {
		for _, idx := range playerIndices {
			holeCard := s.Players[idx].IsDealer && round == 1

			next, dealt := e.draw(s, !holeCard)
			s = next
			if holeCard {
				s.HoleCardShuffle = s.Shuffles
			}

			hand := s.Players[idx].Hands[0]
			s = s.withHand(idx, 0, hand.withCard(dealt))
		}
	}

	s.Phase = PhasePlayerTurn
	return s
}

// Hit deals exactly one card onto the given hand
func (e *Engine) Hit(s GameState, playerIndex, handIndex int) GameState {
	s, card := e.draw(s, true)
	hand := s.Players[playerIndex].Hands[handIndex]
	return s.withHand(playerIndex, handIndex, hand.withCard(card))
}

// DoubleDown doubles the bet, takes the extra chips and deals one card.
// Callers must check CanDouble first; this function does not, and the hand
// must take no further action afterwards.
func (e *Engine) DoubleDown(s GameState, playerIndex, handIndex int) GameState {
	player := s.Players[playerIndex]
	hand := player.Hands[handIndex]
	extra := hand.Bet

	hand.Bet += extra
	hand.Doubled = true
	player.Chips -= extra
	s = s.withPlayer(playerIndex, player.withHand(handIndex, hand))
	if player.IsUser {
		s.Chips -= extra
	}

	return e.Hit(s, playerIndex, handIndex)
}

// Split turns a pair into two hands at the same position, each with one of
// the original cards and the original bet, then deals one card to the first
// new hand and one to the second. A second bet is taken for the new hand.
func (e *Engine) Split(s GameState, playerIndex, handIndex int) (GameState, error) {
	player := s.Players[playerIndex]
	hand := player.Hands[handIndex]
	if !CanSplit(hand.Cards) {
		return s, types.WrapError(types.ErrInvalidAction, "split rejected", ErrCannotSplit)
	}

	first := Hand{Bet: hand.Bet, FromSplit: true}.withCard(hand.Cards[0])
	second := Hand{Bet: hand.Bet, FromSplit: true}.withCard(hand.Cards[1])

	hands := make([]Hand, 0, len(player.Hands)+1)
	hands = append(hands, player.Hands[:handIndex]...)
	hands = append(hands, first, second)
	hands = append(hands, player.Hands[handIndex+1:]...)
	player.Hands = hands
	player.Chips -= hand.Bet

	s = s.withPlayer(playerIndex, player)
	if player.IsUser {
		s.Chips -= hand.Bet
	}

	// order matters: a reshuffle on the second card wipes the first card's count too
	s = e.Hit(s, playerIndex, handIndex)
	s = e.Hit(s, playerIndex, handIndex+1)

	return s, nil
}
