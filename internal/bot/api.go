package bot

import (
	"pusoydos/internal/domain"
)

// Move represents the decision made by a bot.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// Brain is the interface all bot strategies implement.
type Brain interface {
	CalculateMove(match *domain.Match, seat int) (Move, error)
}
