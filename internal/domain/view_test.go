package domain

import (
	"math/rand"
	"testing"
)

func TestProjectRedactsOtherHands(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m, err := NewMatch(rng, 4)
	if err != nil {
		t.Fatal(err)
	}

	for seat := 0; seat < m.NumPlayers; seat++ {
		v := m.Project(seat)
		if len(v.Hand) != HandSize {
			t.Errorf("seat %d sees %d own cards, want %d", seat, len(v.Hand), HandSize)
		}
		if len(v.CardCounts) != m.NumPlayers {
			t.Fatalf("card counts = %v", v.CardCounts)
		}
		for s, n := range v.CardCounts {
			if n != len(m.Hands[s]) {
				t.Errorf("count for seat %d = %d, want %d", s, n, len(m.Hands[s]))
			}
		}
		if v.Leader != m.Leader || v.Turn != m.Turn {
			t.Errorf("public fields diverge: %+v", v)
		}
	}
}

func TestProjectSpectator(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	m, err := NewMatch(rng, 4)
	if err != nil {
		t.Fatal(err)
	}

	for _, seat := range []int{SpectatorSeat, 99} {
		v := m.Project(seat)
		if len(v.Hand) != 0 {
			t.Errorf("spectator sees a hand: %v", v.Hand)
		}
		if v.Seat != SpectatorSeat {
			t.Errorf("seat = %d, want %d", v.Seat, SpectatorSeat)
		}
	}
}

func TestProjectCopiesHistory(t *testing.T) {
	m := fixedMatch(t, "5C 6C", "7C 7D", "9C TC")
	if _, err := m.ApplyPlay(0, mustCards(t, "5C")); err != nil {
		t.Fatal(err)
	}

	v := m.Project(1)
	if len(v.Discards) != 1 || v.Discards[0].Seat != 0 {
		t.Fatalf("discards = %+v", v.Discards)
	}
	if v.LastPlay == nil || v.LastPlay.Cards[0] != "5C" {
		t.Fatalf("last play = %+v", v.LastPlay)
	}

	// Mutating the view must not reach the match.
	v.Discards[0].Cards[0] = "XX"
	if m.Discards[0].Cards[0].String() != "5C" {
		t.Error("view aliases match state")
	}
}
