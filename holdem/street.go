package holdem

// handOver reports that at most one seat is still contesting the pot.
func (t *Table) handOver() bool {
	return len(t.inHandSeats()) <= 1
}

// streetComplete reports whether the betting round is closed.
func (t *Table) streetComplete() bool {
	active := t.activeSeats()
	if len(active) == 0 {
		return true
	}
	if len(active) == 1 {
		i := active[0]
		return t.currentBet == 0 || t.streetContribs[i] == t.currentBet
	}
	if t.currentBet == 0 {
		for _, i := range active {
			if !t.acted[i] {
				return false
			}
		}
		return true
	}
	for _, i := range t.inHandSeats() {
		if !t.seats[i].AllIn && t.streetContribs[i] != t.currentBet {
			return false
		}
	}
	// Big blind option: a flat-called blind still owes the BB a turn.
	if t.street == StreetPreflop && t.currentBet == t.cfg.BigBlind {
		if bb := t.seats[t.bigBlindSeat]; bb.Active() && !t.acted[t.bigBlindSeat] {
			return false
		}
	}
	return true
}

// advanceTurnOrStreet moves the action pointer, closes the street, or
// ends the hand, in that order of precedence.
func (t *Table) advanceTurnOrStreet() {
	if !t.street.Betting() {
		return
	}
	if t.handOver() {
		t.refundUncalledBet()
		t.record(NoSeat, recHandEnd, 0, "")
		t.settle()
		return
	}
	if t.streetComplete() {
		t.refundUncalledBet()
		if t.street == StreetRiver {
			t.finishShowdown()
			return
		}
		t.advanceStreet()
		return
	}
	t.currentTurn = t.nextActiveSeat(t.currentTurn)
}

func (t *Table) advanceStreet() {
	switch t.street {
	case StreetPreflop:
		t.street = StreetFlop
		t.boardRevealed = 3
	case StreetFlop:
		t.street = StreetTurn
		t.boardRevealed = 4
	case StreetTurn:
		t.street = StreetRiver
		t.boardRevealed = 5
	}
	t.currentBet = 0
	t.minRaise = t.cfg.BigBlind
	t.acted = map[int]bool{}
	for i := range t.streetContribs {
		t.streetContribs[i] = 0
	}
	for _, s := range t.seats {
		if s != nil {
			s.RaiseBlocked = false
			if s.Active() {
				s.LastAction = ""
			}
		}
	}
	if len(t.activeSeats()) <= 1 {
		// Run out the rest of the board without turns.
		t.currentTurn = NoSeat
		return
	}
	t.currentTurn = t.nextActiveSeat(t.dealerSeat)
}

func (t *Table) finishShowdown() {
	t.street = StreetShowdown
	t.boardRevealed = 5
	t.currentTurn = NoSeat
	t.record(NoSeat, recShowdown, 0, "")
	for _, i := range t.inHandSeats() {
		t.seats[i].Revealed = true
	}
	t.settle()
}

// refundUncalledBet returns the uncalled portion of the highest wager
// when exactly one seat leads the street.
func (t *Table) refundUncalledBet() {
	max1, max2, leader, leaders := 0, 0, NoSeat, 0
	for i, c := range t.streetContribs {
		switch {
		case c > max1:
			max2 = max1
			max1, leader, leaders = c, i, 1
		case c == max1 && c > 0:
			leaders++
		case c > max2:
			max2 = c
		}
	}
	if leaders != 1 || max1 <= max2 {
		return
	}
	s := t.seats[leader]
	if s == nil {
		return
	}
	diff := max1 - max2
	s.Stack += diff
	t.streetContribs[leader] -= diff
	t.handContribs[leader] -= diff
	t.pot -= diff
	t.record(leader, recRefund, diff, "uncalled")
}

// ShouldAutoRunout reports that the remaining board should be dealt on
// a timer: two or more seats contest the pot but betting is finished.
func (t *Table) ShouldAutoRunout() bool {
	return t.street.Betting() &&
		t.currentTurn == NoSeat &&
		len(t.inHandSeats()) >= 2 &&
		len(t.activeSeats()) <= 1
}

// AdvanceAutoRunout deals the next street of a runout, settling after
// the river. Returns false when no runout is due.
func (t *Table) AdvanceAutoRunout() bool {
	if !t.ShouldAutoRunout() {
		return false
	}
	if t.street == StreetRiver {
		t.finishShowdown()
		return true
	}
	t.advanceStreet()
	return true
}

// ApplyAutoPlay forces check/fold for flagged seats while they hold
// the turn. Bounded so a cycle of flagged seats cannot loop forever.
func (t *Table) ApplyAutoPlay() int {
	forced := 0
	for guard := 0; guard < 4*t.cfg.MaxPlayers; guard++ {
		if !t.street.Betting() || t.currentTurn == NoSeat {
			break
		}
		s := t.seats[t.currentTurn]
		if s == nil || !s.AutoPlay {
			break
		}
		t.forceCheckFold(s)
		forced++
	}
	return forced
}

// forceFinishHand plays out a hand whose remaining players have all
// left, so settlement is not stranded waiting on a turn.
func (t *Table) forceFinishHand() {
	for guard := 0; guard < 4*t.cfg.MaxPlayers; guard++ {
		if !t.street.Betting() || t.currentTurn == NoSeat {
			break
		}
		t.forceCheckFold(t.seats[t.currentTurn])
	}
}

func (t *Table) forceCheckFold(s *Seat) {
	action := ActionCheck
	if t.currentBet-t.streetContribs[s.Index] > 0 {
		action = ActionFold
	}
	if _, err := t.applySeatAction(s, action, 0); err != nil {
		// Neither check nor fold can fail for an active seat in turn.
		return
	}
	t.advanceTurnOrStreet()
}
