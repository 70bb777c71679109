package holdem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreetProgressionAndBoardReveal(t *testing.T) {
	tbl := start3(t)
	require.Empty(t, tbl.Board())

	limpToFlop := func() {
		mustAct(t, tbl, 0, ActionCall, 0)
		mustAct(t, tbl, 1, ActionCall, 0)
		mustAct(t, tbl, 2, ActionCheck, 0)
	}
	limpToFlop()
	assert.Equal(t, StreetFlop, tbl.Street())
	assert.Len(t, tbl.Board(), 3)
	assert.Equal(t, 0, tbl.currentBet)
	assert.Equal(t, 3, tbl.minRaise, "min raise resets to the big blind")
	assert.Equal(t, 0, tbl.streetContribs[0])

	for _, seat := range []int{1, 2, 0} {
		require.Equal(t, seat, tbl.CurrentTurnSeat())
		mustAct(t, tbl, seat, ActionCheck, 0)
	}
	assert.Equal(t, StreetTurn, tbl.Street())
	assert.Len(t, tbl.Board(), 4)

	for _, seat := range []int{1, 2, 0} {
		mustAct(t, tbl, seat, ActionCheck, 0)
	}
	assert.Equal(t, StreetRiver, tbl.Street())
	assert.Len(t, tbl.Board(), 5)

	for _, seat := range []int{1, 2, 0} {
		mustAct(t, tbl, seat, ActionCheck, 0)
	}
	assert.Equal(t, StreetSettlement, tbl.Street())
	assert.Len(t, tbl.Board(), 5)

	var sawShowdown bool
	for _, rec := range tbl.History() {
		if rec.Action == recShowdown {
			sawShowdown = true
		}
	}
	assert.True(t, sawShowdown)
	for _, i := range tbl.inHandSeats() {
		assert.True(t, tbl.seats[i].Revealed, "showdown exposes live hands")
	}
}

func TestFoldedHandKeepsBoardHidden(t *testing.T) {
	tbl := start3(t)
	mustAct(t, tbl, 0, ActionFold, 0)
	mustAct(t, tbl, 1, ActionFold, 0)
	require.Equal(t, StreetSettlement, tbl.Street())
	assert.Empty(t, tbl.Board(), "nobody paid to see a flop")
}

func TestAutoRunoutAfterAllInCall(t *testing.T) {
	tbl := newTestTable(t, 0, 1)
	tbl.StartNewHand()

	mustAct(t, tbl, 0, ActionAllIn, 0)
	require.False(t, tbl.ShouldAutoRunout(), "still p1's decision")
	mustAct(t, tbl, 1, ActionCall, 0)

	// Street advanced once at completion; the rest is paced runout.
	assert.Equal(t, StreetFlop, tbl.Street())
	assert.Equal(t, NoSeat, tbl.CurrentTurnSeat())
	require.True(t, tbl.ShouldAutoRunout())

	require.True(t, tbl.AdvanceAutoRunout())
	assert.Equal(t, StreetTurn, tbl.Street())
	require.True(t, tbl.AdvanceAutoRunout())
	assert.Equal(t, StreetRiver, tbl.Street())
	require.True(t, tbl.AdvanceAutoRunout())
	assert.Equal(t, StreetSettlement, tbl.Street())
	assert.False(t, tbl.ShouldAutoRunout())
	assert.False(t, tbl.AdvanceAutoRunout())
}

func TestAutoPlayChecksWhenFree(t *testing.T) {
	tbl := start3(t)
	mustAct(t, tbl, 0, ActionCall, 0)
	mustAct(t, tbl, 1, ActionCall, 0)
	mustAct(t, tbl, 2, ActionCheck, 0)
	require.Equal(t, StreetFlop, tbl.Street())

	// SB drops; nothing to call, so the forced action is a check.
	require.True(t, tbl.SetAutoPlay(pid(1), true))
	forced := tbl.ApplyAutoPlay()
	assert.Equal(t, 1, forced)
	assert.Equal(t, "check", tbl.seats[1].LastAction)
	assert.False(t, tbl.seats[1].Folded)
	assert.Equal(t, 2, tbl.CurrentTurnSeat())
}

func TestAutoPlayFoldsFacingBet(t *testing.T) {
	tbl := start3(t)
	require.True(t, tbl.SetAutoPlay(pid(1), true))
	require.True(t, tbl.SetAutoPlay(pid(2), true))

	mustAct(t, tbl, 0, ActionRaise, 9)
	forced := tbl.ApplyAutoPlay()
	assert.Equal(t, 2, forced)
	assert.True(t, tbl.seats[1].Folded)
	assert.True(t, tbl.seats[2].Folded)
	assert.Equal(t, StreetSettlement, tbl.Street())
	// 6 of the raise came back uncalled; the pot left was 3+3+1.
	assert.Equal(t, 7, tbl.pendingPayouts[0])
}

func TestAutoPlayAppliedDuringDeal(t *testing.T) {
	tbl := newTestTable(t, 0, 1, 2)
	require.True(t, tbl.SetAutoPlay(pid(0), false))
	tbl.StartNewHand()
	finishHandByFolds(t, tbl)
	tbl.ApplyPendingPayouts()
	tbl.FinalizePendingLeaves()

	// Flagged before the next deal: the seat is cleared at hand start.
	require.True(t, tbl.SetAutoPlay(pid(1), true))
	tbl.StartNewHand()
	assert.Nil(t, tbl.seats[1], "auto-play seats are recycled between hands")
	assert.Equal(t, 2, tbl.OccupiedCount())
}

func TestLeaveOutsideHandClearsSeat(t *testing.T) {
	tbl := newTestTable(t, 0, 1)
	require.True(t, tbl.Leave(pid(1)))
	assert.Nil(t, tbl.seats[1])
	assert.False(t, tbl.Leave(pid(1)), "second leave is a no-op")
}

func TestLeaveDuringHandForceFolds(t *testing.T) {
	tbl := start3(t)
	require.True(t, tbl.Leave(pid(1)))

	s := tbl.seats[1]
	require.NotNil(t, s, "seat stays occupied until settlement")
	assert.True(t, s.Folded)
	assert.True(t, s.PendingLeave)
	assert.Equal(t, 0, tbl.CurrentTurnSeat(), "out-of-turn leave does not move the action")

	mustAct(t, tbl, 0, ActionFold, 0)
	require.Equal(t, StreetSettlement, tbl.Street())
	tbl.ApplyPendingPayouts()
	tbl.FinalizePendingLeaves()
	assert.Nil(t, tbl.seats[1])
}

func TestLeaveInTurnAdvancesAction(t *testing.T) {
	tbl := start3(t)
	require.True(t, tbl.Leave(pid(0)))
	assert.Equal(t, 1, tbl.CurrentTurnSeat())
}

func TestAllSeatsLeavingFinishesHand(t *testing.T) {
	tbl := start3(t)
	require.True(t, tbl.Leave(pid(0)))
	require.True(t, tbl.Leave(pid(1)))
	require.True(t, tbl.Leave(pid(2)))
	assert.Equal(t, StreetSettlement, tbl.Street())

	tbl.ApplyPendingPayouts()
	tbl.FinalizePendingLeaves()
	assert.Equal(t, 0, tbl.OccupiedCount())
	tbl.StartNewHand()
	assert.Equal(t, StreetWaiting, tbl.Street())
}

func TestRevealHandAfterFoldedSettlement(t *testing.T) {
	tbl := start3(t)
	assert.False(t, tbl.RecordHandReveal(pid(0)), "mid-hand reveal refused")

	mustAct(t, tbl, 0, ActionFold, 0)
	mustAct(t, tbl, 1, ActionFold, 0)
	require.Equal(t, StreetSettlement, tbl.Street())

	require.True(t, tbl.RecordHandReveal(pid(2)))
	assert.True(t, tbl.seats[2].Revealed)
	assert.False(t, tbl.RecordHandReveal(pid(2)), "only once per hand")
}

func TestRevealHandAfterShowdownRefused(t *testing.T) {
	tbl := newTestTable(t, 0, 1)
	tbl.StartNewHand()
	mustAct(t, tbl, 0, ActionAllIn, 0)
	mustAct(t, tbl, 1, ActionCall, 0)
	for tbl.ShouldAutoRunout() {
		tbl.AdvanceAutoRunout()
	}
	require.Equal(t, StreetSettlement, tbl.Street())
	assert.False(t, tbl.RecordHandReveal(pid(0)), "showdown already exposed the hands")
}
