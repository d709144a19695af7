package entities

import "time"

// RoundRecord is the persisted outcome of one settled trainer round
type RoundRecord struct {
	ID           string       `json:"id"`
	SessionID    string       `json:"session_id"`
	PlayerID     string       `json:"player_id"`
	StartedAt    time.Time    `json:"started_at"`
	CompletedAt  time.Time    `json:"completed_at"`
	DealerCards  []string     `json:"dealer_cards"`
	DealerScore  int          `json:"dealer_score"`
	Hands        []HandRecord `json:"hands"`
	RunningCount int          `json:"running_count"`
	CardsDealt   int          `json:"cards_dealt"`
}

// HandRecord is one settled player hand. A split round has one record per hand.
type HandRecord struct {
	Cards     []string `json:"cards"`
	Score     int      `json:"score"`
	Bet       int64    `json:"bet"`
	Result    string   `json:"result"`
	Payout    int64    `json:"payout"`
	Doubled   bool     `json:"doubled"`
	FromSplit bool     `json:"from_split"`
	Actions   []string `json:"actions"`
	Mistakes  int      `json:"mistakes"`
}

// TotalBet sums the chips wagered across every hand in the round
func (r *RoundRecord) TotalBet() int64 {
	var total int64
	for _, h := range r.Hands {
		total += h.Bet
	}
	return total
}

// TotalPayout sums the chips returned across every hand in the round
func (r *RoundRecord) TotalPayout() int64 {
	var total int64
	for _, h := range r.Hands {
		total += h.Payout
	}
	return total
}
