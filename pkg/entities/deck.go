package entities

import (
	"math/rand"
	"time"
)

const cardsPerDeck = 52

type Deck struct {
	Cards []*Card
}

// NewDeck creates a new deck of 52 cards, one of each rank and suit
func NewDeck() *Deck {
	cards := make([]*Card, 0, cardsPerDeck)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}

	return &Deck{Cards: cards}
}

// NewShoe creates an unshuffled shoe made of numDecks standard decks
func NewShoe(numDecks int) *Deck {
	if numDecks < 1 {
		numDecks = 1
	}

	shoe := &Deck{Cards: make([]*Card, 0, cardsPerDeck*numDecks)}
	for i := 0; i < numDecks; i++ {
		shoe.Cards = append(shoe.Cards, NewDeck().Cards...)
	}
	return shoe
}

// NewShuffledShoe builds a numDecks shoe and shuffles it
func NewShuffledShoe(numDecks int) []*Card {
	shoe := NewShoe(numDecks)
	shoe.Shuffle()
	return shoe.Cards
}

// Shuffle shuffles the deck in place (Fisher-Yates via rand.Shuffle)
func (d *Deck) Shuffle() {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	r.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() *Card {
	if len(d.Cards) == 0 {
		return nil
	}
	card := d.Cards[0]
	d.Cards = d.Cards[1:]
	return card
}

// Remaining returns how many cards are left to deal
func (d *Deck) Remaining() int {
	return len(d.Cards)
}
