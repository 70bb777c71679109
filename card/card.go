package card

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Card encodes one playing card in a byte:
// high nibble = suit, low nibble = rank (2..14, ace always 14).
type Card byte

const CardInvalid Card = 0

const (
	RankMin = 2
	RankAce = 14
)

// Make builds a card from suit and rank. Rank outside 2..14 yields CardInvalid.
func Make(s Suit, rank int) Card {
	if rank < RankMin || rank > RankAce {
		return CardInvalid
	}
	return Card(byte(s)<<4 | byte(rank))
}

// Rank is the comparable value 2..14.
func (c Card) Rank() int {
	return int(c & 0x0F)
}

func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) Valid() bool {
	r := c.Rank()
	return r >= RankMin && r <= RankAce && c.Suit() <= Club
}

// String renders the wire form, e.g. "A♠" or "10♥".
func (c Card) String() string {
	if !c.Valid() {
		return "Invalid"
	}
	return rankLabel(c.Rank()) + c.Suit().String()
}

func rankLabel(rank int) string {
	switch rank {
	case 14:
		return "A"
	case 13:
		return "K"
	case 12:
		return "Q"
	case 11:
		return "J"
	default:
		return fmt.Sprintf("%d", rank)
	}
}

// Parse converts a wire string back into a Card. It accepts the glyph
// form ("10♥", "A♠") and the short letter form ("Th", "As").
func Parse(s string) (Card, error) {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) < 2 {
		return CardInvalid, fmt.Errorf("invalid card %q", s)
	}

	var suit Suit
	switch runes[len(runes)-1] {
	case '♠', 's', 'S':
		suit = Spade
	case '♥', 'h', 'H':
		suit = Heart
	case '♦', 'd', 'D':
		suit = Diamond
	case '♣', 'c', 'C':
		suit = Club
	default:
		return CardInvalid, fmt.Errorf("invalid suit in %q", s)
	}
	rankStr := string(runes[:len(runes)-1])

	var rank int
	switch strings.ToUpper(rankStr) {
	case "A":
		rank = 14
	case "K":
		rank = 13
	case "Q":
		rank = 12
	case "J":
		rank = 11
	case "T", "10":
		rank = 10
	default:
		if _, err := fmt.Sscanf(rankStr, "%d", &rank); err != nil || rank < RankMin || rank > 9 {
			return CardInvalid, fmt.Errorf("invalid rank in %q", s)
		}
	}
	return Make(suit, rank), nil
}

// MustParse is for tests and fixtures.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Strings renders a hand for logs and wire payloads.
func Strings(cs []Card) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}
