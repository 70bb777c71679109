package holdem

import "dragonspoker/card"

// SeatState is the wire form of one chair.
type SeatState struct {
	SeatIndex      int      `json:"seat_index"`
	PlayerID       string   `json:"player_id"`
	Name           string   `json:"name"`
	Stack          int      `json:"stack"`
	HandStartStack int      `json:"hand_start_stack"`
	StreetCommit   int      `json:"street_commit"`
	HoleCards      []string `json:"hole_cards,omitempty"`
	Position       string   `json:"position,omitempty"`
	LastAction     string   `json:"last_action,omitempty"`
	IsFolded       bool     `json:"is_folded"`
	IsAllIn        bool     `json:"is_all_in"`
	IsConnected    bool     `json:"is_connected"`
	RaiseBlocked   bool     `json:"raise_blocked"`
	PendingLeave   bool     `json:"pending_leave"`
	LeaveAfterHand bool     `json:"leave_after_hand"`
	PendingJoin    bool     `json:"pending_join"`
	PendingPayout  int      `json:"pending_payout,omitempty"`
	Revealed       bool     `json:"revealed,omitempty"`
}

// TableState is the full snapshot broadcast after every mutation.
type TableState struct {
	TableID         string         `json:"table_id"`
	HandNumber      int            `json:"hand_number"`
	Street          Street         `json:"street"`
	Board           []string       `json:"board"`
	Pot             int            `json:"pot"`
	CurrentBet      int            `json:"current_bet"`
	MinRaise        int            `json:"min_raise"`
	DealerSeat      int            `json:"dealer_seat"`
	CurrentTurnSeat *int           `json:"current_turn_seat"`
	MaxPlayers      int            `json:"max_players"`
	SmallBlind      int            `json:"small_blind"`
	BigBlind        int            `json:"big_blind"`
	SaveEarnings    bool           `json:"save_earnings"`
	Seats           []SeatState    `json:"seats"`
	ActionHistory   []ActionRecord `json:"action_history"`

	PotBreakdownExclCurrentStreet []int `json:"pot_breakdown_excl_current_street,omitempty"`
}

// Position names by cyclic distance from the button, six-max.
var positionNames = []string{"BTN", "SB", "BB", "UTG", "HJ", "CO"}

// ToState renders a snapshot. connected marks player ids with at least
// one live websocket.
func (t *Table) ToState(connected map[string]bool) TableState {
	st := TableState{
		TableID:      t.cfg.TableID,
		HandNumber:   t.handNumber,
		Street:       t.street,
		Board:        card.Strings(t.Board()),
		Pot:          t.pot,
		CurrentBet:   t.currentBet,
		MinRaise:     t.minRaise,
		DealerSeat:   t.dealerSeat,
		MaxPlayers:   t.cfg.MaxPlayers,
		SmallBlind:   t.cfg.SmallBlind,
		BigBlind:     t.cfg.BigBlind,
		SaveEarnings: t.cfg.SaveEarnings,

		ActionHistory:                 t.History(),
		PotBreakdownExclCurrentStreet: t.PotBreakdownExclCurrentStreet(),
	}
	if t.currentTurn != NoSeat {
		turn := t.currentTurn
		st.CurrentTurnSeat = &turn
	}

	positions := t.seatPositions()
	for i, s := range t.seats {
		if s == nil {
			continue
		}
		ss := SeatState{
			SeatIndex:      i,
			PlayerID:       s.PlayerID,
			Name:           s.Name,
			Stack:          s.Stack,
			HandStartStack: s.HandStartStack,
			StreetCommit:   t.streetContribs[i],
			HoleCards:      card.Strings(s.HoleCards),
			Position:       positions[i],
			LastAction:     s.LastAction,
			IsFolded:       s.Folded,
			IsAllIn:        s.AllIn,
			IsConnected:    connected[s.PlayerID],
			RaiseBlocked:   s.RaiseBlocked,
			PendingLeave:   s.PendingLeave,
			LeaveAfterHand: s.LeaveAfterHand,
			PendingJoin:    s.PendingJoin,
			PendingPayout:  t.pendingPayouts[i],
			Revealed:       s.Revealed,
		}
		st.Seats = append(st.Seats, ss)
	}
	return st
}

// Board is the publicly revealed part of the board.
func (t *Table) Board() []card.Card {
	if t.boardRevealed > len(t.boardAll) {
		return t.boardAll
	}
	return t.boardAll[:t.boardRevealed]
}

// seatPositions assigns position names cyclically over the seats that
// are in the rotation, starting at the button. Heads-up the button is
// also the small blind so the pair is named BTN and BB.
func (t *Table) seatPositions() map[int]string {
	out := map[int]string{}
	if t.dealerSeat == NoSeat {
		return out
	}
	rotation := []int{}
	n := len(t.seats)
	for k := 0; k < n; k++ {
		i := (t.dealerSeat + k) % n
		if s := t.seats[i]; s != nil && !s.PendingJoin {
			rotation = append(rotation, i)
		}
	}
	if len(rotation) < 2 {
		return out
	}
	if len(rotation) == 2 {
		out[rotation[0]] = "BTN"
		out[rotation[1]] = "BB"
		return out
	}
	for k, i := range rotation {
		if k < len(positionNames) {
			out[i] = positionNames[k]
		}
	}
	return out
}
