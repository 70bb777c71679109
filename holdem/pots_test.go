package holdem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUncalledBetRefund(t *testing.T) {
	tbl := start3(t)
	total := chipTotal(tbl)

	mustAct(t, tbl, 0, ActionFold, 0)
	mustAct(t, tbl, 1, ActionFold, 0)

	require.Equal(t, StreetSettlement, tbl.Street())
	bb := tbl.seats[2]
	assert.Equal(t, 299, bb.Stack, "2 of the 3 blind came back uncalled")
	assert.Equal(t, 2, tbl.pendingPayouts[2], "SB chip plus the matched blind chip")
	assert.Equal(t, 0, tbl.Pot())
	assert.Equal(t, total, chipTotal(tbl))

	var refund, payout *ActionRecord
	for i := range tbl.history {
		switch tbl.history[i].Action {
		case recRefund:
			refund = &tbl.history[i]
		case recPayout:
			payout = &tbl.history[i]
		}
	}
	require.NotNil(t, refund)
	assert.Equal(t, 2, refund.Amount)
	require.NotNil(t, payout)
	assert.Equal(t, "uncontested", payout.Detail)

	tbl.ApplyPendingPayouts()
	assert.Equal(t, 301, bb.Stack)
}

func TestUncalledOverbetRefundAgainstAllIn(t *testing.T) {
	tbl := newTestTable(t, 0, 1)
	tbl.seats[1].Stack = 50
	tbl.StartNewHand() // dealer 0 posts SB heads-up

	mustAct(t, tbl, 0, ActionAllIn, 0) // 300 total
	mustAct(t, tbl, 1, ActionCall, 0)  // covers only 50

	assert.Equal(t, 250, tbl.seats[0].Stack, "uncalled 250 returned")
	assert.Equal(t, 100, tbl.Pot()+tbl.pendingPayouts[0]+tbl.pendingPayouts[1])
}

func TestSidePotsThreeWayAllIn(t *testing.T) {
	tbl := newTestTable(t, 0, 1, 2)
	tbl.seats[0].Stack = 200
	tbl.seats[1].Stack = 50
	tbl.seats[2].Stack = 100
	tbl.StartNewHand()
	total := chipTotal(tbl)

	mustAct(t, tbl, 0, ActionAllIn, 0)
	mustAct(t, tbl, 1, ActionAllIn, 0)
	mustAct(t, tbl, 2, ActionAllIn, 0)

	// 100 of p0's 200 was never called.
	assert.Equal(t, 100, tbl.seats[0].Stack)

	// Short stack holds the nuts, mid stack second, big stack worst.
	setHole(tbl, 0, "2♠", "3♦")
	setHole(tbl, 1, "A♠", "A♥")
	setHole(tbl, 2, "K♠", "K♥")
	setBoard(tbl, "A♦", "K♦", "7♣", "8♣", "4♥")

	for tbl.ShouldAutoRunout() {
		require.True(t, tbl.AdvanceAutoRunout())
	}
	require.Equal(t, StreetSettlement, tbl.Street())

	assert.Equal(t, 150, tbl.pendingPayouts[1], "main pot: 50 from each")
	assert.Equal(t, 100, tbl.pendingPayouts[2], "side pot: 50 more from p0 and p2")
	assert.Equal(t, 0, tbl.pendingPayouts[0])
	assert.Equal(t, total, chipTotal(tbl))

	var details []string
	for _, rec := range tbl.History() {
		if rec.Action == recPayout {
			details = append(details, rec.Detail)
		}
	}
	assert.Equal(t, []string{"side_pot", "side_pot"}, details, "contested payouts carry the side_pot detail")

	tbl.ApplyPendingPayouts()
	assert.Equal(t, 100, tbl.seats[0].Stack)
	assert.Equal(t, 150, tbl.seats[1].Stack)
	assert.Equal(t, 100, tbl.seats[2].Stack)
}

func TestSplitPotOddChipGoesToEarlierPosition(t *testing.T) {
	tbl := newTestTable(t, 0, 1, 2)
	tbl.StartNewHand() // dealer 0, SB 1, BB 2

	mustAct(t, tbl, 0, ActionRaise, 8)
	mustAct(t, tbl, 1, ActionCall, 0)
	mustAct(t, tbl, 2, ActionFold, 0)
	// Dead blind makes the pot odd: 8+8+3 = 19, heads-up p0 vs p1.

	setHole(tbl, 0, "A♠", "Q♦")
	setHole(tbl, 1, "A♥", "Q♣")
	setBoard(tbl, "K♦", "9♦", "7♣", "5♣", "2♥")

	for tbl.Street().Betting() {
		turn := tbl.CurrentTurnSeat()
		mustAct(t, tbl, turn, ActionCheck, 0)
	}
	require.Equal(t, StreetSettlement, tbl.Street())

	// Identical hands split 19: SB (first after the button) gets the odd chip.
	assert.Equal(t, 10, tbl.pendingPayouts[1])
	assert.Equal(t, 9, tbl.pendingPayouts[0])
}

func TestAutoTopupAfterBust(t *testing.T) {
	tbl := newTestTable(t, 0, 1)
	tbl.seats[1].Stack = 50
	tbl.StartNewHand()

	mustAct(t, tbl, 0, ActionAllIn, 0)
	mustAct(t, tbl, 1, ActionCall, 0)

	setHole(tbl, 0, "A♠", "A♥")
	setHole(tbl, 1, "7♠", "2♦")
	setBoard(tbl, "A♦", "K♦", "8♣", "8♠", "4♥")
	for tbl.ShouldAutoRunout() {
		tbl.AdvanceAutoRunout()
	}
	require.Equal(t, StreetSettlement, tbl.Street())
	require.Equal(t, 0, tbl.seats[1].Stack)

	tbl.ApplyPendingPayouts()
	assert.Equal(t, 300, tbl.seats[1].Stack, "busted stack topped back up")
	found := false
	for _, rec := range tbl.history {
		if rec.Action == recAutoTopup && rec.Seat == 1 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPotBreakdownExcludesCurrentStreet(t *testing.T) {
	tbl := start3(t)
	assert.Nil(t, tbl.PotBreakdownExclCurrentStreet(), "preflop contributions are current street")

	mustAct(t, tbl, 0, ActionCall, 0)
	mustAct(t, tbl, 1, ActionCall, 0)
	mustAct(t, tbl, 2, ActionCheck, 0)
	require.Equal(t, StreetFlop, tbl.Street())
	assert.Equal(t, []int{9}, tbl.PotBreakdownExclCurrentStreet())

	mustAct(t, tbl, 1, ActionBet, 10)
	assert.Equal(t, []int{9}, tbl.PotBreakdownExclCurrentStreet(), "flop bet not included yet")
}

func TestPotBreakdownMergesEqualEligibility(t *testing.T) {
	tbl := newTestTable(t, 0, 1, 2)
	tbl.StartNewHand()
	mustAct(t, tbl, 0, ActionRaise, 9)
	mustAct(t, tbl, 1, ActionCall, 0)
	mustAct(t, tbl, 2, ActionFold, 0)
	require.Equal(t, StreetFlop, tbl.Street())

	// Levels 3 (dead BB) and 9 share the same live seats: one pot.
	assert.Equal(t, []int{21}, tbl.PotBreakdownExclCurrentStreet())
}
