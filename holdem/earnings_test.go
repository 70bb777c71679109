package holdem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test6992Detection(t *testing.T) {
	assert.True(t, is6992(hand("6♠", "9♦")))
	assert.True(t, is6992(hand("9♥", "6♥")))
	assert.True(t, is6992(hand("9♠", "2♣")))
	assert.True(t, is6992(hand("2♦", "9♦")))
	assert.False(t, is6992(hand("6♠", "2♦")))
	assert.False(t, is6992(hand("9♠", "9♦")))
	assert.False(t, is6992(hand("A♠", "K♦")))
}

func TestBuildEarningsUpdates(t *testing.T) {
	tbl := start3(t)
	mustAct(t, tbl, 0, ActionFold, 0)
	mustAct(t, tbl, 1, ActionFold, 0)
	require.Equal(t, StreetSettlement, tbl.Street())

	setHole(tbl, 2, "9♠", "6♦")
	updates := tbl.BuildEarningsUpdates()
	require.Len(t, updates, 3)

	byEmail := map[string]EarningsUpdate{}
	for _, u := range updates {
		byEmail[u.Email] = u
	}
	assert.Equal(t, 0, byEmail[pid(0)].ChipsDelta)
	assert.Equal(t, -1, byEmail[pid(1)].ChipsDelta, "small blind lost")
	assert.Equal(t, 1, byEmail[pid(2)].ChipsDelta, "pending payout counts before it lands")
	for _, u := range updates {
		assert.Equal(t, 1, u.Hands)
	}

	winner := byEmail[pid(2)]
	assert.Equal(t, 1, winner.Hands6992)
	assert.Equal(t, 1, winner.ChipsDelta6992)
	assert.Zero(t, byEmail[pid(0)].Hands6992)
}

func TestEarningsSkipUndealtSeats(t *testing.T) {
	tbl := start3(t)
	_, err := tbl.ReserveSeat("late@example.com", "late", 4)
	require.NoError(t, err)
	finishHandByFolds(t, tbl)

	for _, u := range tbl.BuildEarningsUpdates() {
		assert.NotEqual(t, "late@example.com", u.Email)
	}
}
