package blackjack

import (
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
)

// Player is a seat at the table. Position 0 of GameState.Players is the dealer.
type Player struct {
	Hands    []Hand // more than one only after a split
	Chips    int64
	IsDealer bool
	IsUser   bool
}

// withHand returns a copy of the player with hand i replaced
func (p Player) withHand(i int, h Hand) Player {
	hands := make([]Hand, len(p.Hands))
	copy(hands, p.Hands)
	hands[i] = h
	p.Hands = hands
	return p
}

// GameState is the root aggregate threaded through every transition. Each
// transition returns a new value and leaves its input untouched, so any
// earlier GameState stays valid for replay.
type GameState struct {
	Shoe           []*entities.Card // undealt cards, front is next
	Players        []Player
	NumDecks       int
	CardsDealt     int // since the last shuffle
	RunningCount   int // Hi-Lo, since the last shuffle
	DealerRevealed bool
	Phase          Phase
	Chips          int64 // session bankroll of the user seat

	// Shuffles counts reshuffles; HoleCardShuffle records which shoe the
	// dealer's hole card came from so its count is only added on reveal
	// when that shoe is still in play.
	Shuffles        int
	HoleCardShuffle int
}

// NewGameState seeds a session: a freshly shuffled shoe, the dealer at
// position 0 and seats non-dealer players holding startingChips each. The
// first seat is the user.
func (e *Engine) NewGameState(settings GameSettings, startingChips int64, seats int) GameState {
	numDecks := settings.NumDecks
	if numDecks < 1 {
		numDecks = StandardDecks
	}
	if seats < 1 {
		seats = 1
	}
	if seats > MaxPlayers {
		seats = MaxPlayers
	}

	players := make([]Player, 0, seats+1)
	players = append(players, Player{IsDealer: true})
	for i := 0; i < seats; i++ {
		players = append(players, Player{
			Chips:  startingChips,
			IsUser: i == 0,
		})
	}

	return GameState{
		Shoe:     e.newShoe(numDecks),
		Players:  players,
		NumDecks: numDecks,
		Phase:    PhaseBetting,
		Chips:    startingChips,
	}
}

// ResumeShoe continues a partly dealt shoe saved from an earlier session.
// Hi-Lo is balanced, so the running count of everything already dealt is
// the negated count of what is left. A shoe that is empty or larger than
// NumDecks decks is ignored.
func ResumeShoe(s GameState, shoe []*entities.Card) GameState {
	full := 52 * s.NumDecks
	if len(shoe) == 0 || len(shoe) > full {
		return s
	}

	remaining := 0
	for _, card := range shoe {
		remaining += card.Count
	}

	s.Shoe = shoe
	s.CardsDealt = full - len(shoe)
	s.RunningCount = -remaining
	return s
}

// UserIndex returns the position of the user seat, or -1
func (s GameState) UserIndex() int {
	for i, p := range s.Players {
		if p.IsUser {
			return i
		}
	}
	return -1
}

// Dealer returns the dealer seat
func (s GameState) Dealer() Player {
	return s.Players[DealerIndex]
}

// DealerUpCard returns the dealer's face-up card, or nil before the deal
func (s GameState) DealerUpCard() *entities.Card {
	dealer := s.Dealer()
	if len(dealer.Hands) == 0 || len(dealer.Hands[0].Cards) == 0 {
		return nil
	}
	return dealer.Hands[0].Cards[0]
}

// TrueCount divides the running count by the decks left in the shoe. Fewer
// than half a deck left is treated as half a deck.
func (s GameState) TrueCount() float64 {
	decksLeft := float64(len(s.Shoe)) / 52.0
	if decksLeft < 0.5 {
		decksLeft = 0.5
	}
	return float64(s.RunningCount) / decksLeft
}

// withPlayer returns a copy of the state with player i replaced
func (s GameState) withPlayer(i int, p Player) GameState {
	players := make([]Player, len(s.Players))
	copy(players, s.Players)
	players[i] = p
	s.Players = players
	return s
}

// withHand replaces one hand of one player
func (s GameState) withHand(playerIndex, handIndex int, h Hand) GameState {
	return s.withPlayer(playerIndex, s.Players[playerIndex].withHand(handIndex, h))
}
