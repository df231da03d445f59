package poker

import (
	"sort"
)

type HandRank int

const (
	HighCard HandRank = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var rankToString = map[HandRank]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (r HandRank) String() string {
	return rankToString[r]
}

// HandResult is the classification of a player's best five card hand.
// TieBreaks orders hands within the same rank: primary group value first,
// then secondary group value, then kickers, compared lexicographically.
type HandResult struct {
	Rank        HandRank
	Description string
	Best        []Card
	TieBreaks   []int
}

// Beats reports whether r outranks other. Rank decides first, then the
// tie-break vectors.
func (r HandResult) Beats(other HandResult) bool {
	if r.Rank != other.Rank {
		return r.Rank > other.Rank
	}
	for i := 0; i < len(r.TieBreaks) && i < len(other.TieBreaks); i++ {
		if r.TieBreaks[i] != other.TieBreaks[i] {
			return r.TieBreaks[i] > other.TieBreaks[i]
		}
	}
	return false
}

// Evaluate returns the best five card hand a player can make from their
// hole cards and the community cards. All five card subsets of the
// combined cards are searched; the original take-the-five-highest-cards
// shortcut misses straights and flushes that use low cards, so it is not
// used here.
func Evaluate(holeCards []Card, communityCards []Card) HandResult {
	all := make([]Card, 0, len(holeCards)+len(communityCards))
	all = append(all, holeCards...)
	all = append(all, communityCards...)
	return evaluateBest(all)
}

func evaluateBest(cards []Card) HandResult {
	if len(cards) <= 5 {
		return classify(cards)
	}

	var best HandResult
	for i := range cards {
		targets := make([]Card, 0, len(cards)-1)
		targets = append(targets, cards[:i]...)
		targets = append(targets, cards[i+1:]...)

		result := evaluateBest(targets)
		if i == 0 || result.Beats(best) {
			best = result
		}
	}
	return best
}

func classify(cards []Card) HandResult {
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Value() > sorted[j].Value()
	})

	values := make([]int, len(sorted))
	for i, card := range sorted {
		values[i] = card.Value()
	}

	flush := isFlush(sorted)
	straight, straightHigh := straightHighValue(values)
	groups := groupByValue(values)

	var rank HandRank
	var tieBreaks []int
	switch {
	case flush && straight && straightHigh == 14:
		rank, tieBreaks = RoyalFlush, []int{14}
	case flush && straight:
		rank, tieBreaks = StraightFlush, []int{straightHigh}
	case groups[0].count == 4:
		rank, tieBreaks = FourOfAKind, []int{groups[0].value, groups[1].value}
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count == 2:
		rank, tieBreaks = FullHouse, []int{groups[0].value, groups[1].value}
	case flush:
		rank, tieBreaks = Flush, values
	case straight:
		rank, tieBreaks = Straight, []int{straightHigh}
	case groups[0].count == 3:
		rank, tieBreaks = ThreeOfAKind, groupValues(groups)
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		rank, tieBreaks = TwoPair, groupValues(groups)
	case groups[0].count == 2:
		rank, tieBreaks = OnePair, groupValues(groups)
	default:
		rank, tieBreaks = HighCard, values
	}

	return HandResult{
		Rank:        rank,
		Description: rank.String(),
		Best:        sorted,
		TieBreaks:   tieBreaks,
	}
}

func isFlush(cards []Card) bool {
	if len(cards) < 5 {
		return false
	}
	for _, card := range cards[1:] {
		if card.Suit() != cards[0].Suit() {
			return false
		}
	}
	return true
}

// straightHighValue detects five consecutive distinct values. The ace
// counts high, and as a one only to complete the 5-4-3-2-A wheel.
func straightHighValue(values []int) (bool, int) {
	distinct := make([]int, 0, len(values))
	seen := map[int]bool{}
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			distinct = append(distinct, v)
		}
	}
	if len(distinct) != 5 {
		return false, 0
	}
	sort.Ints(distinct)
	if distinct[4]-distinct[0] == 4 {
		return true, distinct[4]
	}
	// wheel: A-2-3-4-5
	if distinct[4] == 14 && distinct[3] == 5 && distinct[0] == 2 && distinct[3]-distinct[0] == 3 {
		return true, 5
	}
	return false, 0
}

type valueGroup struct {
	value int
	count int
}

// groupByValue buckets card values and orders the buckets by size, then
// by value, both descending.
func groupByValue(values []int) []valueGroup {
	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}
	groups := make([]valueGroup, 0, len(counts))
	for v, c := range counts {
		groups = append(groups, valueGroup{value: v, count: c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})
	return groups
}

func groupValues(groups []valueGroup) []int {
	values := make([]int, len(groups))
	for i, g := range groups {
		values[i] = g.value
	}
	return values
}
