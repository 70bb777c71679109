package holdem

// Apply validates and applies one player action, then advances the
// turn (and possibly the street). The returned record is the log entry
// appended for the action.
func (t *Table) Apply(playerID string, action ActionType, amount int) (*ActionRecord, error) {
	s := t.FindSeat(playerID)
	if s == nil {
		return nil, ErrNotSeated
	}
	if !t.street.Betting() || t.currentTurn != s.Index {
		return nil, ErrNotYourTurn
	}
	if s.Folded {
		return nil, ErrPlayerFolded
	}
	if s.AllIn {
		return nil, ErrPlayerAllIn
	}

	rec, err := t.applySeatAction(s, action, amount)
	if err != nil {
		return nil, err
	}
	t.advanceTurnOrStreet()
	return rec, nil
}

// applySeatAction mutates state for an in-turn action. Callers are
// responsible for turn validation and for advancing afterwards.
func (t *Table) applySeatAction(s *Seat, action ActionType, amount int) (*ActionRecord, error) {
	i := s.Index
	toCall := t.currentBet - t.streetContribs[i]
	recorded := 0

	switch action {
	case ActionFold:
		s.Folded = true
		t.acted[i] = true

	case ActionCheck:
		if toCall > 0 {
			return nil, ErrCannotCheck
		}
		t.acted[i] = true

	case ActionCall:
		if toCall <= 0 {
			return nil, ErrNothingToCall
		}
		callAmt := toCall
		if callAmt > s.Stack {
			callAmt = s.Stack
		}
		if callAmt <= 0 {
			return nil, ErrInsufficientStack
		}
		t.commit(i, callAmt)
		if s.Stack == 0 {
			s.AllIn = true
		}
		t.acted[i] = true
		recorded = callAmt

	case ActionBet:
		if t.currentBet > 0 {
			return nil, ErrBetWhileBetExists
		}
		if amount <= 0 {
			return nil, ErrBetAmountRequired
		}
		if amount > s.Stack {
			// An overbet is just an all-in.
			amount = s.Stack
		}
		t.commit(i, amount)
		if s.Stack == 0 {
			s.AllIn = true
		}
		t.currentBet = amount
		t.minRaise = amount
		if t.minRaise < t.cfg.BigBlind {
			t.minRaise = t.cfg.BigBlind
		}
		t.reopenBetting(i)
		recorded = amount

	case ActionRaise:
		if t.currentBet == 0 {
			return nil, ErrRaiseWithoutBet
		}
		if s.RaiseBlocked {
			return nil, ErrRaiseNotReopened
		}
		if amount <= t.currentBet {
			return nil, ErrRaiseTooSmall
		}
		add := amount - t.streetContribs[i]
		if add > s.Stack {
			return nil, ErrInsufficientStack
		}
		required := t.currentBet + t.minRaise
		if amount < required && add != s.Stack {
			return nil, ErrRaiseBelowMin
		}
		t.commit(i, add)
		if s.Stack == 0 {
			s.AllIn = true
		}
		t.applyRaise(i, amount, amount >= required)
		recorded = amount

	case ActionAllIn:
		if s.Stack <= 0 {
			return nil, ErrNoStack
		}
		total := t.streetContribs[i] + s.Stack
		t.commit(i, s.Stack)
		s.AllIn = true
		if total > t.currentBet {
			required := t.currentBet + t.minRaise
			t.applyRaise(i, total, total >= required)
		} else {
			t.acted[i] = true
		}
		recorded = total

	default:
		return nil, ErrUnknownAction
	}

	s.LastAction = string(action)
	return t.record(i, string(action), recorded, ""), nil
}

// applyRaise updates bet state after a wager above the current bet.
// A full raise reopens the action; a short all-in raise locks out the
// seats that already acted this street.
func (t *Table) applyRaise(raiser int, newBet int, full bool) {
	if full {
		t.minRaise = newBet - t.currentBet
		t.reopenBetting(raiser)
	} else {
		for j, s := range t.seats {
			if s.Active() && j != raiser && t.acted[j] {
				s.RaiseBlocked = true
			}
		}
		t.acted = map[int]bool{raiser: true}
	}
	t.currentBet = newBet
}

// reopenBetting resets the acted set to just the aggressor and clears
// all raise locks.
func (t *Table) reopenBetting(aggressor int) {
	for _, s := range t.seats {
		if s != nil {
			s.RaiseBlocked = false
		}
	}
	t.acted = map[int]bool{aggressor: true}
}
