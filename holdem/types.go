package holdem

import (
	"dragonspoker/card"
)

// NoSeat marks "no seat" for dealer/turn fields.
const NoSeat = -1

// Street 手牌阶段 (hand phase)
type Street string

const (
	StreetWaiting    Street = "waiting"
	StreetPreflop    Street = "preflop"
	StreetFlop       Street = "flop"
	StreetTurn       Street = "turn"
	StreetRiver      Street = "river"
	StreetShowdown   Street = "showdown"
	StreetSettlement Street = "settlement"
)

// Betting reports whether the street accepts player actions.
func (s Street) Betting() bool {
	switch s {
	case StreetPreflop, StreetFlop, StreetTurn, StreetRiver:
		return true
	}
	return false
}

// ActionType is a player-initiated betting action.
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
	ActionAllIn ActionType = "all-in"
)

// ParseActionType validates a wire action string.
func ParseActionType(s string) (ActionType, error) {
	switch ActionType(s) {
	case ActionFold, ActionCheck, ActionCall, ActionBet, ActionRaise, ActionAllIn:
		return ActionType(s), nil
	}
	return "", ErrUnknownAction
}

// Record-only action names appended to the hand log alongside player actions.
const (
	recSmallBlind  = "small_blind"
	recBigBlind    = "big_blind"
	recHandStart   = "hand_start"
	recHandEnd     = "hand_end"
	recShowdown    = "showdown"
	recPayout      = "payout"
	recRefund      = "refund"
	recAutoTopup   = "auto_topup"
	recAutoCashout = "auto_cashout"
	recHandReveal  = "hand_reveal"
	recHandAbort   = "hand_abort"
)

// ActionRecord is one entry of the per-hand action log.
type ActionRecord struct {
	Seat   int    `json:"seat"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
	Detail string `json:"detail,omitempty"`
	Street Street `json:"street"`
}

// Seat holds one chair's player and per-hand flags. A nil *Seat is an
// empty chair.
type Seat struct {
	Index    int
	PlayerID string
	Name     string

	Stack          int
	HandStartStack int
	HoleCards      []card.Card
	LastAction     string

	Folded         bool
	AllIn          bool
	RaiseBlocked   bool
	PendingLeave   bool
	LeaveAfterHand bool
	PendingJoin    bool
	AutoPlay       bool
	Revealed       bool
}

// Dealt reports whether the seat holds cards this hand.
func (s *Seat) Dealt() bool {
	return s != nil && len(s.HoleCards) == 2
}

// InHand: dealt and not folded.
func (s *Seat) InHand() bool {
	return s.Dealt() && !s.Folded
}

// Active: in hand and still able to act.
func (s *Seat) Active() bool {
	return s.InHand() && !s.AllIn
}
