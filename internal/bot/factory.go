package bot

import (
	"fmt"
)

// BotLevel selects a strategy tier.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota
	BotLevelGreedy
)

// ParseLevel maps the identity difficulty string to a level. Unknown
// strings fall back to easy.
func ParseLevel(difficulty string) BotLevel {
	switch difficulty {
	case "hard", "greedy":
		return BotLevelGreedy
	default:
		return BotLevelEasy
	}
}

// NewBrain creates a bot brain for the given level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelEasy:
		return &EasyBot{}, nil
	case BotLevelGreedy:
		return &GreedyBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
