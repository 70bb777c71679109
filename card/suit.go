package card

// Suit occupies the high nibble of a Card.
type Suit byte

const (
	Spade Suit = iota // ♠
	Heart             // ♥
	Diamond           // ♦
	Club              // ♣
)

// Suits in deck-building order.
var Suits = [...]Suit{Spade, Heart, Diamond, Club}

func (s Suit) String() string {
	switch s {
	case Spade:
		return "♠"
	case Heart:
		return "♥"
	case Diamond:
		return "♦"
	case Club:
		return "♣"
	}
	return "?"
}
