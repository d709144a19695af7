package blackjack

import (
	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
)

// ShoeFactory builds a shuffled shoe of numDecks decks (52 * numDecks cards)
type ShoeFactory func(numDecks int) []*entities.Card

// Engine runs the game transitions. It holds no game state, only the
// collaborators a transition needs: where fresh shoes come from and where
// reshuffle warnings go.
type Engine struct {
	newShoe ShoeFactory
	logger  *logging.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithShoeFactory replaces the default shuffled-shoe builder
func WithShoeFactory(f ShoeFactory) Option {
	return func(e *Engine) {
		e.newShoe = f
	}
}

// WithLogger sets the logger used for reshuffle warnings
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an engine that shuffles real shoes and logs to logging.Default
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		newShoe: entities.NewShuffledShoe,
		logger:  logging.Default,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DealCard takes the front card of the shoe. An empty shoe is replaced by a
// freshly shuffled one of numDecks decks first and reshuffled is true, which
// tells the caller to restart its count. The input slice is never written.
func (e *Engine) DealCard(shoe []*entities.Card, numDecks int) (card *entities.Card, rest []*entities.Card, reshuffled bool) {
	if numDecks < 1 {
		numDecks = StandardDecks
	}

	if len(shoe) == 0 {
		e.logger.Warn("Shoe ran out mid-deal, reshuffling %d decks", numDecks)
		shoe = e.newShoe(numDecks)
		reshuffled = true
	}

	return shoe[0], shoe[1:], reshuffled
}

// draw deals one card out of the state's shoe and updates the counting
// state. visible is false only for the dealer's hole card, which must not
// enter the running count until it is revealed.
func (e *Engine) draw(s GameState, visible bool) (GameState, *entities.Card) {
	card, rest, reshuffled := e.DealCard(s.Shoe, s.NumDecks)
	s.Shoe = rest

	if reshuffled {
		// a new shoe has no counting history
		s.Shuffles++
		s.CardsDealt = 1
		s.RunningCount = 0
	} else {
		s.CardsDealt++
	}
	if visible {
		s.RunningCount += card.Count
	}

	return s, card
}
