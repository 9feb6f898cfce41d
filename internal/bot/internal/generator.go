// Package internal holds the move generation shared by bot strategies.
package internal

import (
	"pusoydos/internal/domain"
)

// ValidMove is one legal play a seat could make.
type ValidMove struct {
	Play domain.Play
}

var leadSizes = []int{1, 2, 3, 5}

// GetValidMoves enumerates every legal play for the seat in the current
// match state. An empty result means the seat can only pass.
func GetValidMoves(match *domain.Match, seat int) []ValidMove {
	hand := match.Hands[seat]

	sizes := leadSizes
	if match.LastPlay != nil {
		sizes = []int{match.LastPlay.Size()}
	}

	var moves []ValidMove
	picked := make([]domain.Card, 0, 5)
	for _, k := range sizes {
		collectMoves(match, seat, hand, picked, 0, k, &moves)
	}
	return moves
}

// collectMoves walks k-subsets of hand[start:], keeping those that form a
// ranked combination and survive the table rules.
func collectMoves(match *domain.Match, seat int, hand, picked []domain.Card, start, k int, out *[]ValidMove) {
	if k == 0 {
		play, err := domain.NewPlay(seat, picked)
		if err != nil {
			return
		}
		if domain.CheckPlay(hand, match.Leader == seat, match.LastPlay, match.HasStarted, play) != nil {
			return
		}
		*out = append(*out, ValidMove{Play: play})
		return
	}
	for i := start; i <= len(hand)-k; i++ {
		collectMoves(match, seat, hand, append(picked, hand[i]), i+1, k-1, out)
	}
}
