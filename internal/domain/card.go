package domain

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Rank and suit glyphs in ascending order. Threes are the lowest rank, twos
// the highest; within a rank the suit breaks ties.
const (
	rankGlyphs = "3456789TJQKA2"
	suitGlyphs = "CSHD"
)

// DeckSize is the number of distinct cards in a deck.
const DeckSize = 52

// Card is a single playing card.
// Rank 0..12 (3=0, A=11, 2=12), Suit 0..3 (Clubs=0, Spades=1, Hearts=2, Diamonds=3).
type Card struct {
	Rank int32
	Suit int32
}

// Lowest is the 3 of Clubs, the card that seeds the first turn.
var Lowest = Card{Rank: 0, Suit: 0}

// Ordinal returns the card's position in the total order (0..51).
func Ordinal(c Card) int32 {
	return c.Rank*4 + c.Suit
}

// String renders the canonical two-glyph form, e.g. "3C" or "TD".
func (c Card) String() string {
	if c.Rank < 0 || c.Rank > 12 || c.Suit < 0 || c.Suit > 3 {
		return "??"
	}
	return string(rankGlyphs[c.Rank]) + string(suitGlyphs[c.Suit])
}

// ParseCard parses the canonical two-glyph form back into a Card.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("card code %q: want rank and suit glyphs", s)
	}
	r := strings.IndexByte(rankGlyphs, s[0])
	u := strings.IndexByte(suitGlyphs, s[1])
	if r < 0 || u < 0 {
		return Card{}, fmt.Errorf("card code %q: unknown glyph", s)
	}
	return Card{Rank: int32(r), Suit: int32(u)}, nil
}

// ParseCards parses a list of card codes, preserving order.
func ParseCards(codes []string) ([]Card, error) {
	cards := make([]Card, len(codes))
	for i, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}
	return cards, nil
}

// EncodeCards renders cards as their canonical codes, preserving order.
func EncodeCards(cards []Card) []string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.String()
	}
	return codes
}

// NewDeck returns the full 52-card deck in ordinal order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for r := int32(0); r <= 12; r++ {
		for s := int32(0); s <= 3; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(rng *rand.Rand, deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortCards orders cards ascending by ordinal in place.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return Ordinal(cards[i]) < Ordinal(cards[j])
	})
}

func containsCard(cards []Card, target Card) bool {
	for _, c := range cards {
		if c == target {
			return true
		}
	}
	return false
}
