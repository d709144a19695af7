package blackjack

import (
	"math"

	"github.com/fadedpez/blackjacktrainer/pkg/entities"
)

// ShouldDealerHit is the whole dealer policy: hit below 17, stand above it,
// and on exactly 17 hit only a soft hand at an H17 table.
func ShouldDealerHit(cards []*entities.Card, settings GameSettings) bool {
	value := CalculateHandValue(cards)
	switch {
	case value < 17:
		return true
	case value > 17:
		return false
	default:
		return settings.DealerHitsSoft17 && IsSoftHand(cards)
	}
}

// RevealDealerHand turns the hole card over without drawing. It is used on
// its own when no player hand is left for the dealer to beat.
func RevealDealerHand(s GameState) GameState {
	s.Phase = PhaseDealerTurn
	if s.DealerRevealed {
		return s
	}
	s.DealerRevealed = true

	dealer := s.Dealer()
	// the hole card only counts if it came out of the shoe still in play
	if len(dealer.Hands) > 0 && len(dealer.Hands[0].Cards) >= 2 && s.HoleCardShuffle == s.Shuffles {
		s.RunningCount += dealer.Hands[0].Cards[1].Count
	}
	return s
}

// PlayDealerHand reveals the hole card and draws for the dealer until the
// policy says stand. A dealer blackjack draws nothing.
func (e *Engine) PlayDealerHand(s GameState, settings GameSettings) GameState {
	s = RevealDealerHand(s)

	dealer := s.Dealer()
	if len(dealer.Hands) == 0 {
		return s
	}
	hand := dealer.Hands[0]

	if IsBlackjack(hand.Cards) {
		return s
	}

	for ShouldDealerHit(hand.Cards, settings) {
		var card *entities.Card
		s, card = e.draw(s, true)
		hand = hand.withCard(card)
		s = s.withHand(DealerIndex, 0, hand)
	}

	return s
}

// DetermineHandResult settles one player hand against the dealer. The order
// of checks matters: a busted player loses even when the dealer busts, and a
// player blackjack beats a dealer who later busts.
func DetermineHandResult(playerCards, dealerCards []*entities.Card) Result {
	switch {
	case IsBusted(playerCards):
		return ResultBust
	case IsBlackjack(playerCards):
		if IsBlackjack(dealerCards) {
			return ResultPush
		}
		return ResultBlackjack
	case IsBlackjack(dealerCards):
		return ResultLose
	case IsBusted(dealerCards):
		return ResultWin
	}

	playerScore := CalculateHandValue(playerCards)
	dealerScore := CalculateHandValue(dealerCards)
	switch {
	case playerScore > dealerScore:
		return ResultWin
	case playerScore < dealerScore:
		return ResultLose
	default:
		return ResultPush
	}
}

// CalculatePayout returns the chips handed back for a settled hand, stake
// included. The blackjack bonus is floored so no fractional chips are paid;
// a zero blackjackPayout means the standard 3:2.
func CalculatePayout(hand Hand, result Result, blackjackPayout float64) int64 {
	if blackjackPayout <= 0 {
		blackjackPayout = StandardBlackjackPayout
	}

	switch result {
	case ResultBlackjack:
		return hand.Bet + int64(math.Floor(float64(hand.Bet)*blackjackPayout))
	case ResultWin:
		return hand.Bet * 2
	case ResultPush:
		return hand.Bet
	default:
		return 0
	}
}

// ResolveHands settles every hand of every seat against the one dealer hand,
// writes the result onto each hand and pays the chips back. Hands from a
// split are settled independently.
func ResolveHands(s GameState, blackjackPayout float64) GameState {
	var dealerCards []*entities.Card
	if dealer := s.Dealer(); len(dealer.Hands) > 0 {
		dealerCards = dealer.Hands[0].Cards
	}

	for i, player := range s.Players {
		if player.IsDealer {
			continue
		}

		for j, hand := range player.Hands {
			if len(hand.Cards) == 0 {
				continue
			}
			result := DetermineHandResult(hand.Cards, dealerCards)
			payout := CalculatePayout(hand, result, blackjackPayout)

			hand.Result = result
			player = player.withHand(j, hand)
			player.Chips += payout
			if player.IsUser {
				s.Chips += payout
			}
		}
		s = s.withPlayer(i, player)
	}

	s.Phase = PhaseResolved
	return s
}
