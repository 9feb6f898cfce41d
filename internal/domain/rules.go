package domain

import "errors"

// Rejection reasons surfaced to players. None of these mutate match state.
var (
	ErrCardsNotOwned     = errors.New("cards not in hand")
	ErrMustIncludeLowest = errors.New("first play must include the 3 of clubs")
	ErrNotLeader         = errors.New("only the leader may open the round")
	ErrSizeMismatch      = errors.New("play size does not match the last play")
	ErrTooWeak           = errors.New("play does not beat the last play")
	ErrCannotPass        = errors.New("cannot pass without a play to yield to")
)

// CheckPlay decides whether a proposed play is legal for the acting seat.
// The proposed play must already be evaluated (NewPlay); hand is the acting
// seat's current hand, isLeader whether that seat controls the round, and
// lastPlay the active play to beat (nil when the round is open).
func CheckPlay(hand []Card, isLeader bool, lastPlay *Play, hasStarted bool, proposed Play) error {
	if len(proposed.Cards) == 0 {
		return ErrEmptyPlay
	}
	if !handContains(hand, proposed.Cards) {
		return ErrCardsNotOwned
	}

	if lastPlay == nil {
		if !isLeader {
			return ErrNotLeader
		}
		if !hasStarted && !containsCard(proposed.Cards, Lowest) {
			return ErrMustIncludeLowest
		}
		return nil
	}

	if proposed.Size() != lastPlay.Size() {
		return ErrSizeMismatch
	}
	if proposed.Value.Score <= lastPlay.Value.Score {
		return ErrTooWeak
	}
	return nil
}

// CheckPass decides whether a pass is legal. A leader opening a round has
// nothing to yield to and must play.
func CheckPass(isLeader bool, lastPlay *Play) error {
	if lastPlay == nil || isLeader {
		return ErrCannotPass
	}
	return nil
}

// handContains reports whether every proposed card is present in the hand,
// counting multiplicity so the same card cannot be claimed twice.
func handContains(hand []Card, cards []Card) bool {
	counts := make(map[Card]int, len(hand))
	for _, c := range hand {
		counts[c]++
	}
	for _, c := range cards {
		if counts[c] == 0 {
			return false
		}
		counts[c]--
	}
	return true
}
