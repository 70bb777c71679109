package card

import "math/rand"

type CardList []Card

// NewDeck returns the 52 cards in suit-then-rank order.
func NewDeck() CardList {
	deck := make(CardList, 0, 52)
	for _, s := range Suits {
		for r := RankMin; r <= RankAce; r++ {
			deck = append(deck, Make(s, r))
		}
	}
	return deck
}

func (ds CardList) Count() int {
	return len(ds)
}

func (ds CardList) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(ds), func(i, j int) {
		ds[i], ds[j] = ds[j], ds[i]
	})
}

func (ds *CardList) PopCard() Card {
	n := ds.Count()
	if n == 0 {
		return CardInvalid
	}
	c := (*ds)[n-1]
	*ds = (*ds)[:n-1]
	return c
}

func (ds *CardList) PopCards(size int) ([]Card, bool) {
	if size > ds.Count() {
		return nil, false
	}
	cards := make([]Card, size)
	copy(cards, (*ds)[:size])
	*ds = (*ds)[size:]
	return cards, true
}
