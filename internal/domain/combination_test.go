package domain

import (
	"errors"
	"strings"
	"testing"
)

func mustValue(t *testing.T, codes string) PlayValue {
	t.Helper()
	cards, err := ParseCards(strings.Fields(codes))
	if err != nil {
		t.Fatalf("parse %q: %v", codes, err)
	}
	v, err := Evaluate(cards)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", codes, err)
	}
	return v
}

// beats reports whether the first play out-ranks the second. Both must be the
// same size, matching how the legality checker compares them.
func beats(t *testing.T, stronger, weaker string) bool {
	t.Helper()
	return mustValue(t, stronger).Score > mustValue(t, weaker).Score
}

func TestEvaluateOrdering(t *testing.T) {
	tests := []struct {
		name     string
		stronger string
		weaker   string
	}{
		{"single rank beats suit", "2C", "9D"},
		{"single suit within rank", "3D", "3C"},
		{"pair by rank", "9C 9D", "3S 3H"},
		{"pair of twos on top", "2C 2D", "3S 3H"},
		{"pair suit breaker", "3C 3D", "3S 3H"},
		{"trio by rank", "2C 2D 2S", "3S 3H 3D"},
		{"straight over ace-low straight", "2C 3D 4D 5D 6D", "AC 2D 3D 4D 5D"},
		{"straight of twos over threes", "3C 4D 5D 6D 7D", "2C 3D 4D 5D 6D"},
		{"ace-high straight strongest", "AC KD QD JD TD", "9C TD JD QD KD"},
		{"straight suit breaker on tied rank", "AS KH QH JH TH", "AC KD QD JD TD"},
		{"straight flush over ace-low", "2D 3D 4D 5D 6D", "AD 2D 3D 4D 5D"},
		{"straight flush ace high", "AD KD QD JD TD", "9D TD JD QD KD"},
		{"flush suit before high card", "9D KD 8D JD TD", "AC 2C 3C 4C 6C"},
		{"flush high card within suit", "9D 2D 3D 4D 6D", "AD KD 8D JD TD"},
		{"quadro by rank", "9C 9S 9H 9D 4C", "3C 3S 3H 3D 2D"},
		{"full house by trio", "9C 9S 9H 4D 4C", "3C 3S 3H 2C 2D"},
		{"full house low trio high pair", "4C 4S 4H TD TC", "3C 3S 3H 4C 4D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !beats(t, tt.stronger, tt.weaker) {
				t.Errorf("%q should out-rank %q", tt.stronger, tt.weaker)
			}
		})
	}
}

func TestEvaluateTierDominance(t *testing.T) {
	// The weakest member of each tier must beat the strongest member of the
	// tier below, regardless of tiebreak scores.
	tiers := []struct {
		name string
		play string
		want Combination
	}{
		{"weak straight flush", "AC 2C 3C 4C 5C", StraightFlush},
		{"strong quadro", "2C 2S 2H 2D AD", Quadro},
		{"weak quadro", "3C 3S 3H 3D 4C", Quadro},
		{"strong full house", "2C 2S 2H AD AH", FullHouse},
		{"weak full house", "3C 3S 3H 4C 4D", FullHouse},
		{"strong flush", "2D AD KD QD JD", Flush},
		{"weak flush", "3C 4C 5C 6C 8C", Flush},
		{"strong straight", "AS KH QD JC TC", Straight},
	}
	for i := 0; i+1 < len(tiers); i++ {
		hi, lo := tiers[i], tiers[i+1]
		vHi := mustValue(t, hi.play)
		vLo := mustValue(t, lo.play)
		if vHi.Combi != hi.want {
			t.Fatalf("%s classified as %v, want %v", hi.name, vHi.Combi, hi.want)
		}
		if vLo.Combi != lo.want {
			t.Fatalf("%s classified as %v, want %v", lo.name, vLo.Combi, lo.want)
		}
		if vHi.Score <= vLo.Score {
			t.Errorf("%s (%d) should out-rank %s (%d)", hi.name, vHi.Score, lo.name, vLo.Score)
		}
	}
}

func TestEvaluateInvalidSets(t *testing.T) {
	tests := []struct {
		codes   string
		wantErr error
	}{
		{"", ErrEmptyPlay},
		{"3C 4C", ErrPairMismatch},
		{"3C 3S 4C", ErrTrioMismatch},
		{"3C 3S 3H 3D", ErrPlaySize},
		{"3C 4C 5C 6C 7C 8C", ErrPlaySize},
		{"3H 9H JC JH JD", ErrNoFiveCardCombination},
		{"9C 9H JS QS KC", ErrNoFiveCardCombination},
		{"6D 8D TS TH TD", ErrNoFiveCardCombination},
		// K A 2 does not wrap around into a straight.
		{"JC QD KD AD 2D", ErrNoFiveCardCombination},
	}
	for _, tt := range tests {
		cards, err := ParseCards(strings.Fields(tt.codes))
		if err != nil {
			t.Fatalf("parse %q: %v", tt.codes, err)
		}
		if _, err := Evaluate(cards); !errors.Is(err, tt.wantErr) {
			t.Errorf("Evaluate(%q) error = %v, want %v", tt.codes, err, tt.wantErr)
		}
	}
}

func TestEvaluateDecidingCards(t *testing.T) {
	// Pair scored by its higher card, trio by its lowest-suit instance.
	pair := mustValue(t, "9C 9D")
	nineD, _ := ParseCard("9D")
	if pair.Score != Ordinal(nineD) {
		t.Errorf("pair score = %d, want ordinal of 9D (%d)", pair.Score, Ordinal(nineD))
	}

	trio := mustValue(t, "9H 9D 9C")
	nineC, _ := ParseCard("9C")
	if trio.Score != Ordinal(nineC) {
		t.Errorf("trio score = %d, want ordinal of 9C (%d)", trio.Score, Ordinal(nineC))
	}
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	cards, _ := ParseCards([]string{"2D", "3C", "4D", "5D", "6D"})
	if _, err := Evaluate(cards); err != nil {
		t.Fatal(err)
	}
	if cards[0].String() != "2D" {
		t.Errorf("Evaluate reordered caller's cards: %v", EncodeCards(cards))
	}
}
