package trainer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/internal/types"
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	"github.com/fadedpez/blackjacktrainer/pkg/repositories/game"
	"github.com/fadedpez/blackjacktrainer/pkg/services/blackjack"
	"github.com/fadedpez/blackjacktrainer/pkg/services/wallet"
	"github.com/google/uuid"
)

// MaxHands caps how many hands one round may be split into
const MaxHands = 4

// Config wires a session to its collaborators. Repository is required.
// Wallet may be nil, in which case the session plays with StartingChips and
// no bankroll is moved.
type Config struct {
	Engine        *blackjack.Engine
	Settings      blackjack.GameSettings
	Repository    game.Repository
	Wallet        wallet.WalletService
	Logger        *logging.Logger
	StartingChips int64
	Now           func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Engine == nil {
		c.Engine = blackjack.NewEngine()
	}
	if c.Logger == nil {
		c.Logger = logging.Default
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.StartingChips <= 0 {
		c.StartingChips = wallet.DefaultStartingBalance
	}
	return c
}

// Decision is one player action graded against basic strategy
type Decision struct {
	Action      blackjack.Action
	Recommended blackjack.Action
}

// Correct reports whether the player followed basic strategy
func (d Decision) Correct() bool {
	return d.Action == d.Recommended
}

// Session is one player's seat at a single-player table. It drives the
// engine's transitions in order, enforces what the engine leaves to its
// callers, grades every decision and stores each settled round.
// All methods are safe for concurrent use.
type Session struct {
	ID       string
	PlayerID string

	cfg Config

	mu         sync.Mutex
	state      blackjack.GameState
	history    []blackjack.GameState // snapshots of the current round, oldest first
	active     int                   // user hand waiting for a decision
	actions    [][]string            // per hand, in play order
	mistakes   []int                 // per hand
	roundID    string
	startedAt  time.Time
	lastActive time.Time
	decisions  int // whole session
	misplays   int // whole session
}

// NewSession seats playerID at a fresh table. The bankroll comes from the
// player's wallet when one is configured, and a shoe saved by an earlier
// session is picked up where it was left.
func NewSession(ctx context.Context, playerID string, cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()

	chips := cfg.StartingChips
	if cfg.Wallet != nil {
		w, _, err := cfg.Wallet.GetOrCreateWallet(ctx, playerID)
		if err != nil {
			return nil, types.WrapError(types.ErrDatabaseError, "could not load wallet", err)
		}
		chips = w.Balance
	}

	state := cfg.Engine.NewGameState(cfg.Settings, chips, 1)

	shoe, err := cfg.Repository.GetShoe(ctx, playerID)
	if err != nil {
		cfg.Logger.Warn("Could not load saved shoe for player %s, starting a new one: %v", playerID, err)
	} else if len(shoe) > 0 {
		state = blackjack.ResumeShoe(state, shoe)
	}

	s := &Session{
		ID:         uuid.New().String(),
		PlayerID:   playerID,
		cfg:        cfg,
		state:      state,
		history:    []blackjack.GameState{state},
		lastActive: cfg.Now(),
	}

	cfg.Logger.Info("Started trainer session %s for player %s with %d chips", s.ID, playerID, chips)
	return s, nil
}

// State returns the current game state
func (s *Session) State() blackjack.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns every state of the current round, oldest first
func (s *Session) History() []blackjack.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]blackjack.GameState, len(s.history))
	copy(history, s.history)
	return history
}

// ActiveHand returns the index of the user hand waiting for a decision, or
// -1 when no decision is pending
func (s *Session) ActiveHand() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != blackjack.PhasePlayerTurn {
		return -1
	}
	return s.active
}

// Score returns how many decisions the player made this session and how
// many of them went against basic strategy
func (s *Session) Score() (decisions, mistakes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decisions, s.misplays
}

// LastActive returns when the player last acted
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Bet places a bet and deals a new round. A natural on either side settles
// the round straight away.
func (s *Session) Bet(ctx context.Context, amount int64) (blackjack.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != blackjack.PhaseBetting && s.state.Phase != blackjack.PhaseResolved {
		return s.state, ErrWrongPhase
	}
	if amount <= 0 {
		return s.state, ErrInvalidBet
	}

	user := s.state.UserIndex()
	next, err := blackjack.PlaceBet(s.state, user, amount)
	if err != nil {
		return s.state, err
	}

	roundID := uuid.New().String()
	if err := s.withdraw(ctx, amount, roundID, "Bet"); err != nil {
		return s.state, err
	}

	s.roundID = roundID
	s.startedAt = s.cfg.Now()
	s.active = 0
	s.actions = [][]string{{}}
	s.mistakes = []int{0}
	s.history = nil
	s.record(next)
	s.record(s.cfg.Engine.DealInitialCards(s.state, []int{user, blackjack.DealerIndex}))
	s.touch()

	if blackjack.IsBlackjack(s.userHands()[0].Cards) || blackjack.IsBlackjack(s.state.Dealer().Hands[0].Cards) {
		s.finishRound(ctx)
	}

	return s.state, nil
}

// Advice returns the basic strategy play for the hand waiting for a decision
func (s *Session) Advice() (blackjack.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hand, err := s.currentHand()
	if err != nil {
		return blackjack.ActionStand, err
	}
	return s.advise(hand), nil
}

// Options reports whether the hand waiting for a decision may be doubled or
// split
func (s *Session) Options() (canDouble, canSplit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hand, err := s.currentHand()
	if err != nil {
		return false, false
	}
	return s.canDouble(hand), s.canSplit(hand)
}

// Hit deals one card to the current hand. A bust or a 21 ends the hand.
func (s *Session) Hit(ctx context.Context) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hand, err := s.currentHand()
	if err != nil {
		return Decision{}, err
	}

	decision := s.grade(hand, blackjack.ActionHit)
	s.record(s.cfg.Engine.Hit(s.state, s.state.UserIndex(), s.active))

	if value := s.userHands()[s.active].Value(); value >= 21 {
		s.advance(ctx)
	}
	return decision, nil
}

// Stand ends the current hand
func (s *Session) Stand(ctx context.Context) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hand, err := s.currentHand()
	if err != nil {
		return Decision{}, err
	}

	decision := s.grade(hand, blackjack.ActionStand)
	s.advance(ctx)
	return decision, nil
}

// Double doubles the bet on the current hand, deals it exactly one card and
// ends it
func (s *Session) Double(ctx context.Context) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hand, err := s.currentHand()
	if err != nil {
		return Decision{}, err
	}
	if !s.canDouble(hand) {
		return Decision{}, ErrCannotDouble
	}
	if err := s.withdraw(ctx, hand.Bet, s.roundID, "Double down"); err != nil {
		return Decision{}, err
	}

	decision := s.grade(hand, blackjack.ActionDouble)
	s.record(s.cfg.Engine.DoubleDown(s.state, s.state.UserIndex(), s.active))
	s.advance(ctx)
	return decision, nil
}

// Split splits the current pair into two hands and plays on with the first
func (s *Session) Split(ctx context.Context) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hand, err := s.currentHand()
	if err != nil {
		return Decision{}, err
	}
	if !blackjack.CanSplit(hand.Cards) {
		return Decision{}, types.WrapError(types.ErrInvalidAction, "split rejected", blackjack.ErrCannotSplit)
	}
	if len(s.userHands()) >= MaxHands {
		return Decision{}, ErrTooManyHands
	}
	if chips := s.state.Players[s.state.UserIndex()].Chips; chips < hand.Bet {
		return Decision{}, types.WrapError(types.ErrInsufficientChip,
			fmt.Sprintf("split needs %d chips, %d left", hand.Bet, chips), blackjack.ErrInsufficientChips)
	}
	if err := s.withdraw(ctx, hand.Bet, s.roundID, "Split"); err != nil {
		return Decision{}, err
	}

	decision := s.grade(hand, blackjack.ActionSplit)
	next, err := s.cfg.Engine.Split(s.state, s.state.UserIndex(), s.active)
	if err != nil {
		return Decision{}, err
	}
	s.record(next)

	// the new hand starts with no decisions of its own
	s.actions = append(s.actions[:s.active+1], append([][]string{{}}, s.actions[s.active+1:]...)...)
	s.mistakes = append(s.mistakes[:s.active+1], append([]int{0}, s.mistakes[s.active+1:]...)...)

	if s.userHands()[s.active].Value() == 21 {
		s.advance(ctx)
	}
	return decision, nil
}

// Close settles a round left unfinished, standing on every open hand, and
// saves the shoe for the player's next session
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase == blackjack.PhasePlayerTurn {
		s.cfg.Logger.Info("Closing session %s mid-round, standing on open hands", s.ID)
		s.finishRound(ctx)
		return
	}
	s.saveShoe(ctx)
}

func (s *Session) userHands() []blackjack.Hand {
	return s.state.Players[s.state.UserIndex()].Hands
}

func (s *Session) currentHand() (blackjack.Hand, error) {
	if s.state.Phase != blackjack.PhasePlayerTurn {
		return blackjack.Hand{}, ErrWrongPhase
	}
	hands := s.userHands()
	if s.active >= len(hands) {
		return blackjack.Hand{}, ErrHandFinished
	}
	return hands[s.active], nil
}

func (s *Session) canSplit(hand blackjack.Hand) bool {
	chips := s.state.Players[s.state.UserIndex()].Chips
	return blackjack.CanSplit(hand.Cards) && chips >= hand.Bet && len(s.userHands()) < MaxHands
}

func (s *Session) canDouble(hand blackjack.Hand) bool {
	if hand.FromSplit && !s.cfg.Settings.DoubleAfterSplit {
		return false
	}
	chips := s.state.Players[s.state.UserIndex()].Chips
	return blackjack.CanDouble(hand.Cards, chips, hand.Bet) && blackjack.CanDoubleByRules(hand.Value(), s.cfg.Settings)
}

func (s *Session) advise(hand blackjack.Hand) blackjack.Action {
	return blackjack.GetBasicStrategyAction(hand.Cards, s.state.DealerUpCard(), s.cfg.Settings, s.canSplit(hand), s.canDouble(hand))
}

// grade compares action with the advice for hand and books the decision on
// the current hand. It must run before the action changes the state.
func (s *Session) grade(hand blackjack.Hand, action blackjack.Action) Decision {
	decision := Decision{Action: action, Recommended: s.advise(hand)}

	s.actions[s.active] = append(s.actions[s.active], action.String())
	s.decisions++
	if !decision.Correct() {
		s.mistakes[s.active]++
		s.misplays++
		s.cfg.Logger.Debug("Player %s played %s, basic strategy says %s", s.PlayerID, action.Name(), decision.Recommended.Name())
	}
	s.touch()
	return decision
}

// advance moves to the next open hand, skipping split hands that already
// hold 21, and lets the dealer play once every hand is done
func (s *Session) advance(ctx context.Context) {
	hands := s.userHands()
	s.active++
	for s.active < len(hands) && hands[s.active].Value() == 21 {
		s.active++
	}
	if s.active >= len(hands) {
		s.finishRound(ctx)
	}
}

// finishRound plays the dealer, settles, pays the wallet and stores the round
func (s *Session) finishRound(ctx context.Context) {
	if s.dealerMustPlay() {
		s.record(s.cfg.Engine.PlayDealerHand(s.state, s.cfg.Settings))
	} else {
		s.record(blackjack.RevealDealerHand(s.state))
	}
	s.record(blackjack.ResolveHands(s.state, s.cfg.Settings.BlackjackPayout))
	s.active = len(s.userHands())

	round := s.roundRecord()
	payout := round.TotalPayout()
	if payout > 0 && s.cfg.Wallet != nil {
		if err := s.cfg.Wallet.AddFunds(ctx, s.PlayerID, payout, entities.TransactionTypePayout, round.ID, "Round payout"); err != nil {
			s.cfg.Logger.Error("Error paying %d to player %s for round %s: %v", payout, s.PlayerID, round.ID, err)
		}
	}

	if err := s.cfg.Repository.SaveRound(ctx, round); err != nil {
		s.cfg.Logger.Error("Error saving round %s: %v", round.ID, err)
	}
	s.saveShoe(ctx)

	s.cfg.Logger.Info("Round %s for player %s settled: bet %d, paid %d", round.ID, s.PlayerID, round.TotalBet(), payout)
}

// dealerMustPlay is false when no user hand is left that the dealer's draw
// could change: all of them busted or were naturals
func (s *Session) dealerMustPlay() bool {
	for _, hand := range s.userHands() {
		if !blackjack.IsBusted(hand.Cards) && !blackjack.IsBlackjack(hand.Cards) {
			return true
		}
	}
	return false
}

func (s *Session) roundRecord() *entities.RoundRecord {
	var dealerCards []*entities.Card
	if dealer := s.state.Dealer(); len(dealer.Hands) > 0 {
		dealerCards = dealer.Hands[0].Cards
	}

	round := &entities.RoundRecord{
		ID:           s.roundID,
		SessionID:    s.ID,
		PlayerID:     s.PlayerID,
		StartedAt:    s.startedAt,
		CompletedAt:  s.cfg.Now(),
		DealerCards:  cardStrings(dealerCards),
		DealerScore:  blackjack.CalculateHandValue(dealerCards),
		RunningCount: s.state.RunningCount,
		CardsDealt:   s.state.CardsDealt,
	}

	for i, hand := range s.userHands() {
		actions := []string{}
		mistakes := 0
		if i < len(s.actions) {
			actions = append(actions, s.actions[i]...)
			mistakes = s.mistakes[i]
		}
		round.Hands = append(round.Hands, entities.HandRecord{
			Cards:     cardStrings(hand.Cards),
			Score:     hand.Value(),
			Bet:       hand.Bet,
			Result:    hand.Result.String(),
			Payout:    blackjack.CalculatePayout(hand, hand.Result, s.cfg.Settings.BlackjackPayout),
			Doubled:   hand.Doubled,
			FromSplit: hand.FromSplit,
			Actions:   actions,
			Mistakes:  mistakes,
		})
	}
	return round
}

func (s *Session) saveShoe(ctx context.Context) {
	if err := s.cfg.Repository.SaveShoe(ctx, s.PlayerID, s.state.Shoe); err != nil {
		s.cfg.Logger.Error("Error saving shoe for player %s: %v", s.PlayerID, err)
	}
}

// withdraw takes chips escrowed by a bet, double or split out of the wallet
func (s *Session) withdraw(ctx context.Context, amount int64, roundID, description string) error {
	if s.cfg.Wallet == nil {
		return nil
	}
	return s.cfg.Wallet.RemoveFunds(ctx, s.PlayerID, amount, entities.TransactionTypeBet, roundID, description)
}

// record makes next the current state and appends it to the round history
func (s *Session) record(next blackjack.GameState) {
	s.state = next
	s.history = append(s.history, next)
}

func (s *Session) touch() {
	s.lastActive = s.cfg.Now()
}

func cardStrings(cards []*entities.Card) []string {
	out := make([]string, len(cards))
	for i, card := range cards {
		out[i] = card.String()
	}
	return out
}
