package holdem

import "errors"

// Action and seating errors surfaced to clients verbatim.
var (
	ErrNotSeated         = errors.New("player is not seated")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrPlayerFolded      = errors.New("player has folded")
	ErrPlayerAllIn       = errors.New("player is all-in")
	ErrCannotCheck       = errors.New("cannot check when facing a bet")
	ErrNothingToCall     = errors.New("nothing to call")
	ErrInsufficientStack = errors.New("insufficient stack")
	ErrBetAmountRequired = errors.New("bet requires a positive amount")
	ErrBetWhileBetExists = errors.New("cannot bet when a bet already exists")
	ErrRaiseWithoutBet   = errors.New("cannot raise without a bet")
	ErrRaiseTooSmall     = errors.New("raise must exceed the current bet")
	ErrRaiseBelowMin     = errors.New("raise below minimum")
	ErrRaiseNotReopened  = errors.New("raising is not reopened")
	ErrNoStack           = errors.New("no stack to wager")
	ErrUnknownAction     = errors.New("unknown action")
	ErrBadSeat           = errors.New("invalid seat index")
	ErrSeatOccupied      = errors.New("seat is occupied")
	ErrAlreadySeated     = errors.New("player already seated")
	ErrTableFull         = errors.New("table is full")
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
