package domain

import (
	"errors"
	"sort"
)

// Combination is the tier of a five-card play, ascending strength.
// Plays of one, two or three cards carry no tier.
type Combination int32

const (
	None Combination = iota
	Straight
	Flush
	FullHouse
	Quadro
	StraightFlush
)

func (t Combination) String() string {
	switch t {
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full house"
	case Quadro:
		return "quadro"
	case StraightFlush:
		return "straight flush"
	default:
		return "none"
	}
}

// tierWeight separates five-card tiers; no tiebreak score reaches it, so the
// tier always dominates the comparison.
const tierWeight = 1000

// PlayValue is the comparable strength of a valid play. Scores are only
// meaningful between plays of equal card count.
type PlayValue struct {
	Combi Combination
	Score int32
}

var (
	ErrEmptyPlay             = errors.New("empty play")
	ErrPlaySize              = errors.New("play must have 1, 2, 3 or 5 cards")
	ErrPairMismatch          = errors.New("pair ranks do not match")
	ErrTrioMismatch          = errors.New("trio ranks do not match")
	ErrNoFiveCardCombination = errors.New("no five-card combination")
)

// Evaluate classifies a set of cards into its play value. The input is not
// mutated; an invalid set yields a typed error, never a panic.
func Evaluate(cards []Card) (PlayValue, error) {
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	SortCards(sorted)

	switch len(sorted) {
	case 0:
		return PlayValue{}, ErrEmptyPlay
	case 1:
		return PlayValue{Score: Ordinal(sorted[0])}, nil
	case 2:
		if sorted[0].Rank != sorted[1].Rank {
			return PlayValue{}, ErrPairMismatch
		}
		// The higher card decides the pair.
		return PlayValue{Score: Ordinal(sorted[1])}, nil
	case 3:
		if sorted[0].Rank != sorted[1].Rank || sorted[1].Rank != sorted[2].Rank {
			return PlayValue{}, ErrTrioMismatch
		}
		// All three share rank; use the lowest-suit instance consistently.
		return PlayValue{Score: Ordinal(sorted[0])}, nil
	case 5:
		return evaluateFive(sorted)
	default:
		return PlayValue{}, ErrPlaySize
	}
}

func evaluateFive(sorted []Card) (PlayValue, error) {
	if v, ok := straightScore(sorted); ok {
		tier := Straight
		if _, flush := flushScore(sorted); flush {
			tier = StraightFlush
		}
		return PlayValue{Combi: tier, Score: int32(tier)*tierWeight + v}, nil
	}
	if v, ok := quadroScore(sorted); ok {
		return PlayValue{Combi: Quadro, Score: int32(Quadro)*tierWeight + v}, nil
	}
	if v, ok := fullHouseScore(sorted); ok {
		return PlayValue{Combi: FullHouse, Score: int32(FullHouse)*tierWeight + v}, nil
	}
	if v, ok := flushScore(sorted); ok {
		return PlayValue{Combi: Flush, Score: int32(Flush)*tierWeight + v}, nil
	}
	return PlayValue{}, ErrNoFiveCardCombination
}

// straightScore checks five consecutive ranks under the cycle that puts 2
// directly above A. Positions are (rank+2) mod 13, so a straight is a set of
// five distinct positions spanning a width-4 window; an Ace at position 0 is
// retried as position 13 so ten-to-Ace counts, scored by the Ace.
func straightScore(sorted []Card) (int32, bool) {
	pos := func(c Card) int32 { return (c.Rank + 2) % 13 }

	nums := make([]int32, 0, 5)
	seen := make(map[int32]bool, 5)
	for _, c := range sorted {
		p := pos(c)
		if seen[p] {
			return 0, false
		}
		seen[p] = true
		nums = append(nums, p)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	if nums[0]+4 == nums[4] {
		for _, c := range sorted {
			if pos(c) == nums[4] {
				return Ordinal(c), true
			}
		}
	}
	if nums[0] == 0 {
		nums[0] = 13
		sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
		if nums[0]+4 == nums[4] {
			for _, c := range sorted {
				if pos(c) == 0 {
					return Ordinal(c), true
				}
			}
		}
	}
	return 0, false
}

// flushScore requires all five cards to share suit. The suit outranks the
// high card, so the score is suit*13 + rank of the highest card.
func flushScore(sorted []Card) (int32, bool) {
	for _, c := range sorted[1:] {
		if c.Suit != sorted[0].Suit {
			return 0, false
		}
	}
	high := sorted[4]
	return high.Suit*13 + high.Rank, true
}

// quadroScore requires four of a kind plus a kicker. After sorting the second
// card is always inside the group of four.
func quadroScore(sorted []Card) (int32, bool) {
	if sameRank(sorted[:4]) || sameRank(sorted[1:]) {
		return Ordinal(sorted[1]), true
	}
	return 0, false
}

// fullHouseScore requires a trio plus a pair in either order. After sorting
// the middle card is always inside the trio.
func fullHouseScore(sorted []Card) (int32, bool) {
	lowPair := sameRank(sorted[:2]) && sameRank(sorted[2:])
	lowTrio := sameRank(sorted[:3]) && sameRank(sorted[3:])
	if lowPair || lowTrio {
		return Ordinal(sorted[2]), true
	}
	return 0, false
}

func sameRank(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Rank != cards[0].Rank {
			return false
		}
	}
	return true
}
