package domain

import "strings"

// Play is a validated move: a non-empty card sequence normalized to ascending
// ordinal order, tagged with the submitting seat and its evaluated value.
// Plays are constructed for validation and, once accepted, appended to the
// discard history; they are never mutated afterwards.
type Play struct {
	Seat  int
	Cards []Card
	Value PlayValue
}

// NewPlay copies and normalizes cards, then evaluates them. The error mirrors
// Evaluate: a set that forms no valid combination is rejected here.
func NewPlay(seat int, cards []Card) (Play, error) {
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	SortCards(sorted)

	value, err := Evaluate(sorted)
	if err != nil {
		return Play{}, err
	}
	return Play{Seat: seat, Cards: sorted, Value: value}, nil
}

// ParsePlay builds a play from canonical card codes.
func ParsePlay(seat int, codes []string) (Play, error) {
	cards, err := ParseCards(codes)
	if err != nil {
		return Play{}, err
	}
	return NewPlay(seat, cards)
}

// Size returns the number of cards in the play.
func (p Play) Size() int {
	return len(p.Cards)
}

// String renders the space-separated canonical form, e.g. "3C 3S 3H".
func (p Play) String() string {
	return strings.Join(EncodeCards(p.Cards), " ")
}
