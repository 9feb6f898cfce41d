package bot

import (
	"sort"

	botinternal "pusoydos/internal/bot/internal"
	"pusoydos/internal/domain"
)

// EasyBot plays the weakest legal combination of the smallest size,
// hoarding strong cards until forced.
type EasyBot struct{}

func (b *EasyBot) CalculateMove(match *domain.Match, seat int) (Move, error) {
	moves := botinternal.GetValidMoves(match, seat)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}

	sort.Slice(moves, func(i, j int) bool {
		pi, pj := moves[i].Play, moves[j].Play
		if pi.Size() != pj.Size() {
			return pi.Size() < pj.Size()
		}
		return pi.Value.Score < pj.Value.Score
	})
	return Move{Cards: moves[0].Play.Cards}, nil
}

// GreedyBot sheds as many cards as possible per turn, breaking ties toward
// the weakest qualifying combination.
type GreedyBot struct{}

func (b *GreedyBot) CalculateMove(match *domain.Match, seat int) (Move, error) {
	moves := botinternal.GetValidMoves(match, seat)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}

	sort.Slice(moves, func(i, j int) bool {
		pi, pj := moves[i].Play, moves[j].Play
		if pi.Size() != pj.Size() {
			return pi.Size() > pj.Size()
		}
		return pi.Value.Score < pj.Value.Score
	})
	return Move{Cards: moves[0].Play.Cards}, nil
}
