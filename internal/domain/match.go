package domain

import (
	"errors"
	"math/rand"
)

// Phase is the lifecycle stage of a match.
type Phase string

const (
	// PhasePlaying is the active state between deal and termination.
	PhasePlaying Phase = "playing"
	// PhaseEnded is the state once all but one seat have gone out.
	PhaseEnded Phase = "ended"
)

// HandSize is the number of cards dealt to each seat.
const HandSize = 13

const (
	// MinPlayers and MaxPlayers bound the seats in a match.
	MinPlayers = 3
	MaxPlayers = 4
)

var (
	ErrPlayerCount     = errors.New("match needs 3 or 4 players")
	ErrNoInitialLeader = errors.New("deal produced no holder of the 3 of clubs")
	ErrBadSeat         = errors.New("seat out of range")
	ErrNotYourTurn     = errors.New("not the acting seat's turn")
	ErrMatchEnded      = errors.New("match has ended")
)

// Match is the aggregate root for one dealt game. All mutation goes through
// ApplyPlay and ApplyPass; a rejected move leaves the match untouched.
// Matches are not safe for concurrent use; callers serialize moves per match.
type Match struct {
	NumPlayers int
	Hands      [][]Card
	Stock      []Card // undealt remainder in a 3-player match
	Discards   []Play // append-only history of accepted plays
	Leader     int
	Turn       int
	LastPlay   *Play
	HasStarted bool
	Winners    []int // seats in the order they went out
	Phase      Phase
}

// NewMatch shuffles a fresh deck and deals HandSize cards to each seat. The
// holder of the 3 of clubs becomes the first leader; a 3-player deal that
// buries it in the stock is redrawn.
func NewMatch(rng *rand.Rand, numPlayers int) (*Match, error) {
	if numPlayers < MinPlayers || numPlayers > MaxPlayers {
		return nil, ErrPlayerCount
	}

	// With 4 players the whole deck is dealt and the lowest card always
	// lands in a hand. Bound the redraw anyway so a broken deck surfaces
	// as a setup error instead of a spin.
	for attempt := 0; attempt < 100; attempt++ {
		deck := ShuffleDeck(rng, NewDeck())

		m := &Match{
			NumPlayers: numPlayers,
			Hands:      make([][]Card, numPlayers),
			Leader:     -1,
			Phase:      PhasePlaying,
		}
		for seat := 0; seat < numPlayers; seat++ {
			hand := make([]Card, HandSize)
			copy(hand, deck[seat*HandSize:(seat+1)*HandSize])
			SortCards(hand)
			if containsCard(hand, Lowest) {
				m.Leader = seat
			}
			m.Hands[seat] = hand
		}
		m.Stock = append([]Card(nil), deck[numPlayers*HandSize:]...)

		if m.Leader >= 0 {
			m.Turn = m.Leader
			return m, nil
		}
	}
	return nil, ErrNoInitialLeader
}

// ApplyPlay validates and applies a play by the acting seat. On acceptance
// the cards move atomically from the hand to a new discard entry, the seat
// takes leadership (or goes out), and the turn advances past finished seats.
func (m *Match) ApplyPlay(seat int, cards []Card) (Play, error) {
	if err := m.checkActor(seat); err != nil {
		return Play{}, err
	}

	play, err := NewPlay(seat, cards)
	if err != nil {
		return Play{}, err
	}
	if err := CheckPlay(m.Hands[seat], seat == m.Leader, m.LastPlay, m.HasStarted, play); err != nil {
		return Play{}, err
	}

	m.Hands[seat] = removeCards(m.Hands[seat], play.Cards)
	m.Discards = append(m.Discards, play)
	m.HasStarted = true
	m.LastPlay = &play

	if len(m.Hands[seat]) == 0 {
		m.Winners = append(m.Winners, seat)
		// The outgoing seat cannot defend its final play, so the round
		// closes and its successor opens fresh.
		m.LastPlay = nil

		if len(m.Winners) >= m.NumPlayers-1 {
			m.Phase = PhaseEnded
			return play, nil
		}
		next := m.nextActiveSeat(seat)
		m.Leader = next
		m.Turn = next
		return play, nil
	}

	m.Leader = seat
	m.Turn = m.nextActiveSeat(seat)
	return play, nil
}

// ApplyPass validates and applies a pass. When the scan lands back on the
// seat that made the last play, every other active seat has yielded and the
// round closes.
func (m *Match) ApplyPass(seat int) error {
	if err := m.checkActor(seat); err != nil {
		return err
	}
	if err := CheckPass(seat == m.Leader, m.LastPlay); err != nil {
		return err
	}

	next := m.nextActiveSeat(seat)
	if m.LastPlay != nil && next == m.LastPlay.Seat {
		m.LastPlay = nil
	}
	m.Turn = next
	return nil
}

func (m *Match) checkActor(seat int) error {
	if m.Phase == PhaseEnded {
		return ErrMatchEnded
	}
	if seat < 0 || seat >= m.NumPlayers {
		return ErrBadSeat
	}
	if seat != m.Turn {
		return ErrNotYourTurn
	}
	return nil
}

// nextActiveSeat scans forward from seat in order, skipping seats that have
// gone out. Bounded by NumPlayers iterations.
func (m *Match) nextActiveSeat(seat int) int {
	for i := 1; i <= m.NumPlayers; i++ {
		next := (seat + i) % m.NumPlayers
		if !m.HasWon(next) {
			return next
		}
	}
	return seat
}

// HasWon reports whether the seat has already emptied its hand.
func (m *Match) HasWon(seat int) bool {
	for _, w := range m.Winners {
		if w == seat {
			return true
		}
	}
	return false
}

// Finished reports whether the match has reached its termination condition.
func (m *Match) Finished() bool {
	return m.Phase == PhaseEnded
}

// CardCounts returns the remaining card count per seat.
func (m *Match) CardCounts() []int {
	counts := make([]int, m.NumPlayers)
	for seat, hand := range m.Hands {
		counts[seat] = len(hand)
	}
	return counts
}

// removeCards returns hand without the given cards, counting multiplicity.
func removeCards(hand []Card, toRemove []Card) []Card {
	counts := make(map[Card]int, len(toRemove))
	for _, c := range toRemove {
		counts[c]++
	}
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if counts[c] > 0 {
			counts[c]--
			continue
		}
		out = append(out, c)
	}
	return out
}
