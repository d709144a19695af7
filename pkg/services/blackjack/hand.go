package blackjack

import (
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
)

// Hand is one set of cards with the bet riding on it. Its value is never
// stored because an ace counts as 1 or 11 depending on the other cards.
type Hand struct {
	Cards     []*entities.Card
	Bet       int64
	Result    Result // ResultNone until the hand is settled
	Doubled   bool
	FromSplit bool
}

// Value returns the best possible score for the hand
func (h Hand) Value() int {
	return CalculateHandValue(h.Cards)
}

// withCard returns a copy of the hand with card appended. The card slice is
// always copied so earlier snapshots never see the new card.
func (h Hand) withCard(card *entities.Card) Hand {
	cards := make([]*entities.Card, len(h.Cards), len(h.Cards)+1)
	copy(cards, h.Cards)
	h.Cards = append(cards, card)
	return h
}

// CalculateHandValue counts every ace as 11, then demotes aces to 1 one at a
// time while the total is over 21. An empty hand is worth 0.
func CalculateHandValue(cards []*entities.Card) int {
	total := 0
	aces := 0

	for _, card := range cards {
		total += card.Value
		if card.IsAce() {
			aces++
		}
	}

	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}

	return total
}

// IsSoftHand reports whether at least one ace can still count as 11
func IsSoftHand(cards []*entities.Card) bool {
	total := 0
	aces := 0
	for _, card := range cards {
		total += card.Value
		if card.IsAce() {
			aces++
		}
	}
	if aces == 0 {
		return false
	}

	// demote all but one ace; the hand is soft if that last ace still fits
	return total-10*(aces-1) <= 21
}

// IsBlackjack reports a two card 21 made of an ace and a ten-valued card
func IsBlackjack(cards []*entities.Card) bool {
	if len(cards) != 2 {
		return false
	}
	first, second := cards[0], cards[1]
	return (first.IsAce() && second.Value == 10) || (second.IsAce() && first.Value == 10)
}

// IsBusted checks if a hand exceeds 21
func IsBusted(cards []*entities.Card) bool {
	return CalculateHandValue(cards) > 21
}

// CanSplit requires exactly two cards of the same rank. J-K is not a pair.
func CanSplit(cards []*entities.Card) bool {
	return len(cards) == 2 && cards[0].Rank == cards[1].Rank
}

// CanDouble requires exactly two cards and enough chips to match the bet
func CanDouble(cards []*entities.Card, chips, bet int64) bool {
	return len(cards) == 2 && chips >= bet
}
