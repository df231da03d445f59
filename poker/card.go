package poker

import (
	"fmt"
)

// Card is a single playing card, packed the same way it travels on the
// wire: rank index in the high nibble, suit index in the low nibble.
type Card int32

var (
	strRanks = "23456789TJQKA"
	strSuits = "hdcs"
)

var charRankToIntRank = map[uint8]int32{}
var charSuitToIntSuit = map[uint8]int32{}

func init() {
	for i := range strRanks {
		charRankToIntRank[strRanks[i]] = int32(i)
	}
	for i := range strSuits {
		charSuitToIntSuit[strSuits[i]] = int32(i)
	}
}

// NewCard parses a two character card string such as "As" or "Td".
func NewCard(s string) Card {
	if len(s) != 2 {
		panic(fmt.Sprintf("invalid card string [%s]", s))
	}
	rankInt, ok := charRankToIntRank[s[0]]
	if !ok {
		panic(fmt.Sprintf("invalid card rank [%s]", s))
	}
	suitInt, ok := charSuitToIntSuit[s[1]]
	if !ok {
		panic(fmt.Sprintf("invalid card suit [%s]", s))
	}
	return Card(rankInt<<4 | suitInt)
}

// NewCards parses multiple card strings.
func NewCards(cardStrs ...string) []Card {
	cards := make([]Card, len(cardStrs))
	for i, s := range cardStrs {
		cards[i] = NewCard(s)
	}
	return cards
}

func (c Card) Rank() int32 {
	return (int32(c) >> 4) & 0xF
}

func (c Card) Suit() int32 {
	return int32(c) & 0xF
}

// Value returns the comparison value of the card, 2 through 14 with the
// ace always high. The wheel straight is handled by the evaluator.
func (c Card) Value() int {
	return int(c.Rank()) + 2
}

func (c Card) String() string {
	return string(strRanks[c.Rank()]) + string(strSuits[c.Suit()])
}

func (c *Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	if len(b) != 4 {
		return fmt.Errorf("invalid card json %s", string(b))
	}
	*c = NewCard(string(b[1:3]))
	return nil
}

func CardsToString(cards []Card) string {
	out := ""
	for i, card := range cards {
		if i > 0 {
			out += " "
		}
		out += card.String()
	}
	return out
}
