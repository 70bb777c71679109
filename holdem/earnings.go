package holdem

import "dragonspoker/card"

// EarningsUpdate is one seat's additive result for a finished hand.
type EarningsUpdate struct {
	Email          string
	Hands          int
	ChipsDelta     int
	Hands6992      int
	ChipsDelta6992 int
}

// BuildEarningsUpdates snapshots per-player results at settlement.
// Must run before ApplyPendingPayouts: the delta counts the payout that
// is still pending plus the stack against the hand-start stack.
func (t *Table) BuildEarningsUpdates() []EarningsUpdate {
	var updates []EarningsUpdate
	for i, s := range t.seats {
		if !s.Dealt() {
			continue
		}
		delta := s.Stack + t.pendingPayouts[i] - s.HandStartStack
		u := EarningsUpdate{
			Email:      s.PlayerID,
			Hands:      1,
			ChipsDelta: delta,
		}
		if is6992(s.HoleCards) {
			u.Hands6992 = 1
			u.ChipsDelta6992 = delta
		}
		updates = append(updates, u)
	}
	return updates
}

// is6992 spots the house meme hands: 6-9 and 9-2 offsuit or suited.
func is6992(hole []card.Card) bool {
	if len(hole) != 2 {
		return false
	}
	a, b := hole[0].Rank(), hole[1].Rank()
	if a > b {
		a, b = b, a
	}
	return (a == 6 && b == 9) || (a == 2 && b == 9)
}
