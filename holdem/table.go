package holdem

import (
	"fmt"
	"math/rand"
	"time"

	"dragonspoker/card"
)

// Table is the authoritative state of one cash table. It is not
// goroutine safe: the session hub is the single writer and reader.
type Table struct {
	cfg Config
	rng *rand.Rand

	seats []*Seat

	street        Street
	handNumber    int
	dealerSeat    int
	bigBlindSeat  int
	currentTurn   int
	boardAll      []card.Card // all five, dealt at hand start
	boardRevealed int

	pot        int
	currentBet int
	minRaise   int

	streetContribs []int
	handContribs   []int
	pendingPayouts []int
	acted          map[int]bool

	history []ActionRecord
}

func NewTable(cfg Config) (*Table, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("table config: %w", err)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Table{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(seed)),
		seats:          make([]*Seat, cfg.MaxPlayers),
		street:         StreetWaiting,
		dealerSeat:     NoSeat,
		bigBlindSeat:   NoSeat,
		currentTurn:    NoSeat,
		streetContribs: make([]int, cfg.MaxPlayers),
		handContribs:   make([]int, cfg.MaxPlayers),
		pendingPayouts: make([]int, cfg.MaxPlayers),
		acted:          map[int]bool{},
	}, nil
}

func (t *Table) Config() Config        { return t.cfg }
func (t *Table) Street() Street        { return t.street }
func (t *Table) HandNumber() int       { return t.handNumber }
func (t *Table) Pot() int              { return t.pot }
func (t *Table) CurrentTurnSeat() int  { return t.currentTurn }
func (t *Table) DealerSeat() int       { return t.dealerSeat }
func (t *Table) History() []ActionRecord {
	out := make([]ActionRecord, len(t.history))
	copy(out, t.history)
	return out
}

// FindSeat returns the player's seat, nil if not seated.
func (t *Table) FindSeat(playerID string) *Seat {
	for _, s := range t.seats {
		if s != nil && s.PlayerID == playerID {
			return s
		}
	}
	return nil
}

func (t *Table) HasPlayer(playerID string) bool { return t.FindSeat(playerID) != nil }

func (t *Table) Seat(i int) *Seat {
	if i < 0 || i >= len(t.seats) {
		return nil
	}
	return t.seats[i]
}

func (t *Table) occupiedSeats() []int {
	out := make([]int, 0, len(t.seats))
	for i, s := range t.seats {
		if s != nil {
			out = append(out, i)
		}
	}
	return out
}

func (t *Table) OccupiedCount() int { return len(t.occupiedSeats()) }

func (t *Table) inHandSeats() []int {
	out := make([]int, 0, len(t.seats))
	for i, s := range t.seats {
		if s.InHand() {
			out = append(out, i)
		}
	}
	return out
}

func (t *Table) activeSeats() []int {
	out := make([]int, 0, len(t.seats))
	for i, s := range t.seats {
		if s.Active() {
			out = append(out, i)
		}
	}
	return out
}

// nextOccupiedSeat scans clockwise from the seat after `from`, skipping
// seats reserved mid-hand (they join next hand).
func (t *Table) nextOccupiedSeat(from int) int {
	n := len(t.seats)
	for k := 1; k <= n; k++ {
		i := ((from + k) % n + n) % n
		if s := t.seats[i]; s != nil && !s.PendingJoin {
			return i
		}
	}
	return NoSeat
}

func (t *Table) nextActiveSeat(from int) int {
	n := len(t.seats)
	for k := 1; k <= n; k++ {
		i := ((from + k) % n + n) % n
		if t.seats[i].Active() {
			return i
		}
	}
	return NoSeat
}

func (t *Table) record(seat int, action string, amount int, detail string) *ActionRecord {
	t.history = append(t.history, ActionRecord{
		Seat:   seat,
		Action: action,
		Amount: amount,
		Detail: detail,
		Street: t.street,
	})
	return &t.history[len(t.history)-1]
}

// Join seats a player, or refreshes an existing seat. Re-joining clears
// any pending leave so a reconnecting player keeps their chips.
func (t *Table) Join(playerID, name string) (*Seat, error) {
	if s := t.FindSeat(playerID); s != nil {
		s.Name = name
		s.PendingLeave = false
		s.LeaveAfterHand = false
		s.AutoPlay = false
		return s, nil
	}
	for i, s := range t.seats {
		if s == nil {
			return t.seatPlayer(i, playerID, name), nil
		}
	}
	return nil, ErrTableFull
}

// ReserveSeat seats a player at a specific chair.
func (t *Table) ReserveSeat(playerID, name string, seatIdx int) (*Seat, error) {
	if seatIdx < 0 || seatIdx >= len(t.seats) {
		return nil, ErrBadSeat
	}
	if t.seats[seatIdx] != nil {
		return nil, ErrSeatOccupied
	}
	if t.FindSeat(playerID) != nil {
		return nil, ErrAlreadySeated
	}
	return t.seatPlayer(seatIdx, playerID, name), nil
}

func (t *Table) seatPlayer(i int, playerID, name string) *Seat {
	s := &Seat{
		Index:    i,
		PlayerID: playerID,
		Name:     name,
		Stack:    t.cfg.BuyIn(),
		// Mid-hand arrivals stay invisible to dealing and turn order
		// until the next hand starts.
		PendingJoin: t.street != StreetWaiting,
	}
	t.seats[i] = s
	return s
}

// Leave removes a player. Inside an active hand the seat is force
// folded and emptied only after settlement; otherwise it empties now.
func (t *Table) Leave(playerID string) bool {
	s := t.FindSeat(playerID)
	if s == nil {
		return false
	}
	if t.street.Betting() && s.InHand() {
		s.Folded = true
		s.PendingLeave = true
		s.LastAction = string(ActionFold)
		t.acted[s.Index] = true
		t.record(s.Index, string(ActionFold), 0, "leave")
		wasTurn := t.currentTurn == s.Index
		if t.handOver() || t.streetComplete() || wasTurn {
			t.advanceTurnOrStreet()
		}
		if t.street.Betting() && t.allRemainingPendingLeave() {
			t.forceFinishHand()
		}
		return true
	}
	if t.street.Betting() && s.Dealt() {
		// Already folded: keep chips committed, empty after the hand.
		s.PendingLeave = true
		return true
	}
	t.clearSeat(s.Index)
	return true
}

func (t *Table) allRemainingPendingLeave() bool {
	for _, s := range t.seats {
		if s != nil && !s.PendingJoin && !s.PendingLeave {
			return false
		}
	}
	return true
}

// MarkLeaveAfterHand schedules a voluntary exit at the next settlement.
func (t *Table) MarkLeaveAfterHand(playerID string) bool {
	s := t.FindSeat(playerID)
	if s == nil {
		return false
	}
	s.LeaveAfterHand = true
	return true
}

func (t *Table) CancelLeaveAfterHand(playerID string) bool {
	s := t.FindSeat(playerID)
	if s == nil {
		return false
	}
	s.LeaveAfterHand = false
	return true
}

// SetAutoPlay flags a seat for forced check/fold while its player is gone.
func (t *Table) SetAutoPlay(playerID string, on bool) bool {
	s := t.FindSeat(playerID)
	if s == nil {
		return false
	}
	s.AutoPlay = on
	return true
}

func (t *Table) FinalizePendingLeaves() {
	for i, s := range t.seats {
		if s != nil && s.PendingLeave {
			t.clearSeat(i)
		}
	}
}

func (t *Table) FinalizeLeaveAfterHand() {
	for i, s := range t.seats {
		if s != nil && s.LeaveAfterHand {
			t.clearSeat(i)
		}
	}
}

func (t *Table) clearSeat(i int) {
	t.seats[i] = nil
	t.pendingPayouts[i] = 0
}

// StartNewHand rotates the button, deals and posts blinds. With fewer
// than two seats the table parks in waiting.
func (t *Table) StartNewHand() {
	for i, s := range t.seats {
		if s != nil && s.AutoPlay {
			// Player never came back after the grace period.
			t.clearSeat(i)
		}
	}
	t.applyAutoCashout()
	for _, s := range t.seats {
		if s != nil {
			s.PendingJoin = false
		}
	}
	if len(t.occupiedSeats()) < 2 {
		t.street = StreetWaiting
		t.currentTurn = NoSeat
		return
	}

	t.handNumber++
	t.dealerSeat = t.nextOccupiedSeat(t.dealerSeat)
	t.resetForHand()
	t.dealAll()
	t.street = StreetPreflop
	t.record(NoSeat, recHandStart, 0, fmt.Sprintf("hand:%d", t.handNumber))
	t.postBlinds()
	t.ApplyAutoPlay()
}

func (t *Table) resetForHand() {
	t.pot = 0
	t.currentBet = 0
	t.minRaise = t.cfg.BigBlind
	t.boardAll = nil
	t.boardRevealed = 0
	t.currentTurn = NoSeat
	t.acted = map[int]bool{}
	t.history = t.history[:0]
	for i := range t.streetContribs {
		t.streetContribs[i] = 0
		t.handContribs[i] = 0
		t.pendingPayouts[i] = 0
	}
	for _, s := range t.seats {
		if s == nil {
			continue
		}
		s.HoleCards = nil
		s.LastAction = ""
		s.Folded = false
		s.AllIn = false
		s.RaiseBlocked = false
		s.Revealed = false
		s.HandStartStack = s.Stack
	}
}

func (t *Table) dealAll() {
	deck := card.NewDeck()
	deck.Shuffle(t.rng)
	for _, i := range t.occupiedSeats() {
		t.seats[i].HoleCards, _ = deck.PopCards(2)
	}
	t.boardAll, _ = deck.PopCards(5)
}

func (t *Table) postBlinds() {
	var sbSeat int
	if len(t.occupiedSeats()) == 2 {
		// Heads-up: the dealer posts the small blind and acts first.
		sbSeat = t.dealerSeat
	} else {
		sbSeat = t.nextOccupiedSeat(t.dealerSeat)
	}
	bbSeat := t.nextOccupiedSeat(sbSeat)

	t.postBlind(sbSeat, t.cfg.SmallBlind, recSmallBlind)
	t.postBlind(bbSeat, t.cfg.BigBlind, recBigBlind)
	t.bigBlindSeat = bbSeat
	// A short-stacked blind owes only what it could post.
	t.currentBet = t.streetContribs[sbSeat]
	if t.streetContribs[bbSeat] > t.currentBet {
		t.currentBet = t.streetContribs[bbSeat]
	}
	t.minRaise = t.cfg.BigBlind
	t.currentTurn = t.nextActiveSeat(bbSeat)
}

func (t *Table) postBlind(seat int, amount int, name string) {
	s := t.seats[seat]
	amt := amount
	if amt > s.Stack {
		amt = s.Stack
	}
	t.commit(seat, amt)
	if s.Stack == 0 {
		s.AllIn = true
	}
	s.LastAction = name
	t.record(seat, name, amt, "")
}

// commit moves chips from the seat's stack into the pot.
func (t *Table) commit(seat int, amount int) {
	s := t.seats[seat]
	s.Stack -= amount
	t.streetContribs[seat] += amount
	t.handContribs[seat] += amount
	t.pot += amount
}

func (t *Table) applyAutoCashout() {
	if !t.cfg.AutoCashout {
		return
	}
	for i, s := range t.seats {
		if s != nil && s.Stack >= t.cfg.CashoutThreshold {
			s.Stack -= t.cfg.CashoutAmount
			t.record(i, recAutoCashout, t.cfg.CashoutAmount, "")
		}
	}
}

// ApplyPendingPayouts credits settlement winnings and tops up busted
// stacks. Called by the hub at the next-hand barrier, never mid-hand.
func (t *Table) ApplyPendingPayouts() {
	for i, s := range t.seats {
		if s == nil {
			continue
		}
		if t.pendingPayouts[i] > 0 {
			s.Stack += t.pendingPayouts[i]
			t.pendingPayouts[i] = 0
		}
		if s.Stack == 0 && t.cfg.AutoTopup > 0 {
			s.Stack = t.cfg.AutoTopup
			t.record(i, recAutoTopup, t.cfg.AutoTopup, "")
		}
	}
}

// RecordHandReveal logs a voluntary show after a hand that did not
// reach showdown. Returns false when there is nothing to reveal.
func (t *Table) RecordHandReveal(playerID string) bool {
	s := t.FindSeat(playerID)
	if s == nil || !s.Dealt() || s.Revealed {
		return false
	}
	if t.street != StreetSettlement {
		return false
	}
	for _, rec := range t.history {
		if rec.Action == recShowdown {
			return false
		}
	}
	s.Revealed = true
	t.record(s.Index, recHandReveal, 0, "")
	return true
}

// Reset restores every occupied seat to the buy-in and parks the table.
func (t *Table) Reset() {
	for _, s := range t.seats {
		if s == nil {
			continue
		}
		s.Stack = t.cfg.BuyIn()
		s.HandStartStack = s.Stack
		s.HoleCards = nil
		s.LastAction = ""
		s.Folded = false
		s.AllIn = false
		s.RaiseBlocked = false
		s.PendingLeave = false
		s.LeaveAfterHand = false
		s.PendingJoin = false
		s.AutoPlay = false
		s.Revealed = false
	}
	t.street = StreetWaiting
	t.handNumber = 0
	t.dealerSeat = NoSeat
	t.bigBlindSeat = NoSeat
	t.currentTurn = NoSeat
	t.pot = 0
	t.currentBet = 0
	t.minRaise = t.cfg.BigBlind
	t.boardAll = nil
	t.boardRevealed = 0
	t.acted = map[int]bool{}
	t.history = nil
	for i := range t.streetContribs {
		t.streetContribs[i] = 0
		t.handContribs[i] = 0
		t.pendingPayouts[i] = 0
	}
}

// AbortHand unwinds a half-applied hand after a panic: every committed
// chip returns to its stack and the table parks in waiting.
func (t *Table) AbortHand() {
	for i, s := range t.seats {
		if s != nil && t.handContribs[i] > 0 {
			s.Stack += t.handContribs[i]
		}
		t.streetContribs[i] = 0
		t.handContribs[i] = 0
	}
	t.pot = 0
	t.currentBet = 0
	t.minRaise = t.cfg.BigBlind
	t.boardAll = nil
	t.boardRevealed = 0
	t.currentTurn = NoSeat
	for _, s := range t.seats {
		if s == nil {
			continue
		}
		s.HoleCards = nil
		s.Folded = false
		s.AllIn = false
		s.RaiseBlocked = false
		s.Revealed = false
	}
	t.street = StreetWaiting
	t.record(NoSeat, recHandAbort, 0, "")
}
