package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// BetTier is one stake level offered by the lobby.
type BetTier struct {
	ID      string `json:"id"`
	BaseBet int64  `json:"base_bet"`
}

type GameConfig struct {
	DefaultTier         string    `json:"default_tier"`
	Tiers               []BetTier `json:"tiers"`
	TurnDurationSeconds int       `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds is how long a short lobby waits before bots fill the table.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	BotMinDelaySeconds      int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds      int `json:"bot_max_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, nil before loading.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetBaseBet returns the base bet for a tier ID, falling back to the
// default tier and then a hardcoded floor.
func GetBaseBet(tierID string) int64 {
	if cfg == nil {
		return 100
	}

	target := tierID
	if target == "" {
		target = cfg.DefaultTier
	}

	for _, tier := range cfg.Tiers {
		if tier.ID == target {
			return tier.BaseBet
		}
	}
	for _, tier := range cfg.Tiers {
		if tier.ID == cfg.DefaultTier {
			return tier.BaseBet
		}
	}
	return 100
}
