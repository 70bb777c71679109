package holdem

import (
	"sort"

	"dragonspoker/card"
)

// Hand categories, low to high.
const (
	HandHighCard = iota
	HandOnePair
	HandTwoPair
	HandThreeOfKind
	HandStraight
	HandFlush
	HandFullHouse
	HandFourOfKind
	HandStraightFlush
)

var handNames = [...]string{
	"high card", "one pair", "two pair", "three of a kind", "straight",
	"flush", "full house", "four of a kind", "straight flush",
}

// HandRank orders hands by category, then lexicographically by the
// category-specific tiebreakers (missing entries compare as 0).
type HandRank struct {
	Category  int
	Tiebreaks []int
}

func (r HandRank) Name() string {
	if r.Category < 0 || r.Category >= len(handNames) {
		return "unknown"
	}
	return handNames[r.Category]
}

// Compare returns <0, 0 or >0 as r sorts below, equal to or above o.
func (r HandRank) Compare(o HandRank) int {
	if r.Category != o.Category {
		return r.Category - o.Category
	}
	n := len(r.Tiebreaks)
	if len(o.Tiebreaks) > n {
		n = len(o.Tiebreaks)
	}
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(r.Tiebreaks) {
			a = r.Tiebreaks[i]
		}
		if i < len(o.Tiebreaks) {
			b = o.Tiebreaks[i]
		}
		if a != b {
			return a - b
		}
	}
	return 0
}

// RankFive ranks exactly five cards. Aces play high except in the
// wheel (A-2-3-4-5), which ranks as a 5-high straight.
func RankFive(cards []card.Card) HandRank {
	values := make([]int, 5)
	counts := map[int]int{}
	flush := true
	for i, c := range cards {
		values[i] = c.Rank()
		counts[c.Rank()]++
		if c.Suit() != cards[0].Suit() {
			flush = false
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	straightHigh := straightHighValue(counts)
	straight := straightHigh > 0

	switch {
	case straight && flush:
		return HandRank{HandStraightFlush, []int{straightHigh}}
	case flush:
		return HandRank{HandFlush, append([]int{}, values...)}
	case straight:
		return HandRank{HandStraight, []int{straightHigh}}
	}

	// Group ranks by multiplicity, larger groups and higher ranks first.
	type group struct{ rank, count int }
	groups := make([]group, 0, len(counts))
	for r, c := range counts {
		groups = append(groups, group{r, c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	tiebreaks := make([]int, 0, 5)
	for _, g := range groups {
		tiebreaks = append(tiebreaks, g.rank)
	}

	switch {
	case groups[0].count == 4:
		return HandRank{HandFourOfKind, tiebreaks}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandRank{HandFullHouse, tiebreaks[:2]}
	case groups[0].count == 3:
		return HandRank{HandThreeOfKind, tiebreaks}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandRank{HandTwoPair, tiebreaks}
	case groups[0].count == 2:
		return HandRank{HandOnePair, tiebreaks}
	}
	return HandRank{HandHighCard, append([]int{}, values...)}
}

// straightHighValue returns the straight's high card, 0 if none.
func straightHighValue(counts map[int]int) int {
	if len(counts) != 5 {
		return 0
	}
	lo, hi := 15, 0
	for r := range counts {
		if r < lo {
			lo = r
		}
		if r > hi {
			hi = r
		}
	}
	if hi-lo == 4 {
		return hi
	}
	// Wheel: A,5,4,3,2 plays as a five-high straight.
	if hi == card.RankAce && lo == 2 {
		wheel := true
		for _, r := range []int{14, 5, 4, 3, 2} {
			if counts[r] == 0 {
				wheel = false
				break
			}
		}
		if wheel {
			return 5
		}
	}
	return 0
}

// RankBest ranks the best five-card hand choosable from cards (>= 5).
func RankBest(cards []card.Card) HandRank {
	n := len(cards)
	if n == 5 {
		return RankFive(cards)
	}
	best := HandRank{Category: -1}
	pick := make([]card.Card, 5)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						pick[0], pick[1], pick[2] = cards[a], cards[b], cards[c]
						pick[3], pick[4] = cards[d], cards[e]
						if r := RankFive(pick); r.Compare(best) > 0 {
							best = r
						}
					}
				}
			}
		}
	}
	return best
}
