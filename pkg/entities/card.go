package entities

import (
	"fmt"
	"strconv"
)

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
	Spades   Suit = "♠"
)

// Rank represents a card rank
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Suits and Ranks in deck construction order
var (
	Suits = []Suit{Hearts, Diamonds, Clubs, Spades}
	Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
)

// Card represents a playing card. Value and Count are fixed by the rank when
// the card is built and a card is never changed after that.
type Card struct {
	Suit  Suit
	Rank  Rank
	Value int // blackjack point value, Ace counted as 11
	Count int // Hi-Lo running count increment
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) *Card {
	return &Card{
		Suit:  suit,
		Rank:  rank,
		Value: RankValue(rank),
		Count: HiLoCount(rank),
	}
}

// RankValue returns the blackjack point value of a rank
func RankValue(rank Rank) int {
	switch rank {
	case Ace:
		return 11
	case Jack, Queen, King:
		return 10
	default:
		val, _ := strconv.Atoi(string(rank))
		return val
	}
}

// HiLoCount returns the Hi-Lo count tag of a rank:
// 2-6 are +1, 7-9 are 0, tens and aces are -1.
func HiLoCount(rank Rank) int {
	switch v := RankValue(rank); {
	case v >= 2 && v <= 6:
		return 1
	case v >= 7 && v <= 9:
		return 0
	default:
		return -1
	}
}

// IsAce reports whether the card is an ace
func (c *Card) IsAce() bool {
	return c.Rank == Ace
}

// String returns the string representation of the card
func (c *Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}
