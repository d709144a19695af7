package trainer

import (
	"github.com/fadedpez/blackjacktrainer/internal/types"
)

var (
	ErrWrongPhase      = types.NewGameError(types.ErrInvalidState, "that action is not available right now")
	ErrHandFinished    = types.NewGameError(types.ErrInvalidState, "no hand is waiting for a decision")
	ErrCannotDouble    = types.NewGameError(types.ErrInvalidAction, "this hand cannot be doubled")
	ErrTooManyHands    = types.NewGameError(types.ErrInvalidAction, "no more splits allowed")
	ErrInvalidBet      = types.NewGameError(types.ErrInvalidArgument, "bet must be positive")
	ErrSessionNotFound = types.NewGameError(types.ErrGameNotFound, "no trainer session for this player")
)
