package holdem

import (
	"fmt"
	"sort"

	"dragonspoker/card"
)

// settle computes payouts for the finished hand into pendingPayouts.
// Chips stay out of the stacks until ApplyPendingPayouts so snapshots
// during the settlement pause show both the result and the old stacks.
func (t *Table) settle() {
	t.currentTurn = NoSeat
	inHand := t.inHandSeats()

	if len(inHand) == 1 {
		w := inHand[0]
		if t.pot > 0 {
			t.pendingPayouts[w] += t.pot
			t.record(w, recPayout, t.pot, "uncontested")
		}
		t.pot = 0
		t.street = StreetSettlement
		return
	}

	ranks := make(map[int]HandRank, len(inHand))
	for _, i := range inHand {
		cards := append([]card.Card{}, t.seats[i].HoleCards...)
		ranks[i] = RankBest(append(cards, t.boardAll...))
	}

	carry := 0
	prev := 0
	for _, level := range t.contributionLevels() {
		contributors := 0
		for _, c := range t.handContribs {
			if c >= level {
				contributors++
			}
		}
		layer := (level-prev)*contributors + carry
		prev = level
		carry = 0

		eligible := make([]int, 0, len(inHand))
		for _, i := range inHand {
			if t.handContribs[i] >= level {
				eligible = append(eligible, i)
			}
		}
		if len(eligible) == 0 {
			// Dead money above every live stack rolls into the next layer.
			carry = layer
			continue
		}

		winners := bestOf(eligible, ranks)
		t.awardPot(winners, layer)
	}
	if carry > 0 {
		// No layer could claim it: hand it to the overall best hand.
		winners := bestOf(inHand, ranks)
		t.awardPot(winners, carry)
	}

	t.pot = 0
	t.street = StreetSettlement
}

// contributionLevels returns the distinct positive whole-hand
// contribution amounts, ascending. Each is one pot layer boundary.
func (t *Table) contributionLevels() []int {
	seen := map[int]bool{}
	levels := make([]int, 0, len(t.handContribs))
	for _, c := range t.handContribs {
		if c > 0 && !seen[c] {
			seen[c] = true
			levels = append(levels, c)
		}
	}
	sort.Ints(levels)
	return levels
}

func bestOf(seats []int, ranks map[int]HandRank) []int {
	winners := []int{}
	for _, i := range seats {
		if len(winners) == 0 {
			winners = append(winners, i)
			continue
		}
		switch cmp := ranks[i].Compare(ranks[winners[0]]); {
		case cmp > 0:
			winners = winners[:0]
			winners = append(winners, i)
		case cmp == 0:
			winners = append(winners, i)
		}
	}
	return winners
}

// awardPot splits one pot layer. Odd chips go to winners in position
// order starting with the seat after the dealer.
func (t *Table) awardPot(winners []int, amount int) {
	if amount <= 0 || len(winners) == 0 {
		return
	}
	ordered := append([]int{}, winners...)
	n := len(t.seats)
	pos := func(i int) int { return ((i - t.dealerSeat - 1) % n + n) % n }
	sort.Slice(ordered, func(a, b int) bool { return pos(ordered[a]) < pos(ordered[b]) })

	share := amount / len(ordered)
	rem := amount % len(ordered)
	for k, w := range ordered {
		p := share
		if k < rem {
			p++
		}
		if p == 0 {
			continue
		}
		t.pendingPayouts[w] += p
		t.record(w, recPayout, p, "side_pot")
	}
}

// PotBreakdownExclCurrentStreet lists the pot layers formed by prior
// streets only, main pot first. Adjacent layers whose eligible seats
// match are merged. Nil while nothing from prior streets is in the pot.
func (t *Table) PotBreakdownExclCurrentStreet() []int {
	if !t.street.Betting() {
		return nil
	}
	prior := make([]int, len(t.seats))
	total := 0
	for i := range prior {
		prior[i] = t.handContribs[i] - t.streetContribs[i]
		total += prior[i]
	}
	if total == 0 {
		return nil
	}

	seen := map[int]bool{}
	levels := []int{}
	for _, c := range prior {
		if c > 0 && !seen[c] {
			seen[c] = true
			levels = append(levels, c)
		}
	}
	sort.Ints(levels)

	var pots []int
	var lastEligible string
	prev := 0
	for _, level := range levels {
		contributors := 0
		for _, c := range prior {
			if c >= level {
				contributors++
			}
		}
		layer := (level - prev) * contributors
		prev = level

		key := ""
		for _, i := range t.inHandSeats() {
			if prior[i] >= level {
				key += fmt.Sprintf("%d,", i)
			}
		}
		if len(pots) > 0 && key == lastEligible {
			pots[len(pots)-1] += layer
		} else {
			pots = append(pots, layer)
			lastEligible = key
		}
	}
	return pots
}
