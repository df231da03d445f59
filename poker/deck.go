package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

var fullDeck []Card

func init() {
	fullDeck = make([]Card, 0, 52)
	for suit := range strSuits {
		for rank := range strRanks {
			fullDeck = append(fullDeck, Card(int32(rank)<<4|int32(suit)))
		}
	}
}

// Deck is an ordered set of cards consumed from the front. A deck is
// shuffled once at round start and never re-seeded mid round.
type Deck struct {
	cards   []Card
	randGen *rand.Rand
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// NewDeck returns a freshly shuffled 52 card deck. Pass a source for
// deterministic shuffles in tests; nil uses a crypto-random seed.
func NewDeck(source rand.Source) *Deck {
	if source == nil {
		source = newSeed()
	}
	deck := &Deck{randGen: rand.New(source)}
	deck.Shuffle()
	return deck
}

// DeckFromCards builds a scripted, unshuffled deck for tests. The given
// cards are placed at the front; the rest of the pack follows in order.
func DeckFromCards(cards ...Card) *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, 0, 52)
	deck.cards = append(deck.cards, cards...)
	seen := make(map[Card]bool, len(cards))
	for _, card := range cards {
		seen[card] = true
	}
	for _, card := range fullDeck {
		if !seen[card] {
			deck.cards = append(deck.cards, card)
		}
	}
	return deck
}

// Shuffle resets the deck to the full 52 cards and applies a uniform
// Fisher-Yates permutation.
func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)

	randGen := deck.randGen
	if randGen == nil {
		randGen = rand.New(newSeed())
	}
	for i := len(deck.cards) - 1; i > 0; i-- {
		loc := randGen.Intn(i + 1)
		deck.cards[i], deck.cards[loc] = deck.cards[loc], deck.cards[i]
	}
	return deck
}

// Draw removes and returns n cards from the front of the deck. Running
// out of cards is a programming error: round structure guarantees at most
// 7*2 hole cards + 5 community + 3 burns are ever consumed.
func (deck *Deck) Draw(n int) []Card {
	if n > len(deck.cards) {
		panic(fmt.Sprintf("deck exhausted: tried to draw %d of %d cards", n, len(deck.cards)))
	}
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards
}

// Burn discards one card from the front of the deck.
func (deck *Deck) Burn() {
	deck.Draw(1)
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}
