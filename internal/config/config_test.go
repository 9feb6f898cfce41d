package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGameConfigAndBaseBets(t *testing.T) {
	if GetBaseBet("gold") != 100 {
		t.Fatal("expected floor base bet before loading")
	}

	path := filepath.Join(t.TempDir(), "game_config.json")
	payload := `{
		"default_tier": "bronze",
		"tiers": [
			{"id": "bronze", "base_bet": 50},
			{"id": "gold", "base_bet": 500}
		],
		"turn_duration_seconds": 20,
		"bot_auto_fill_delay_seconds": 10,
		"bot_min_delay_seconds": 1,
		"bot_max_delay_seconds": 3
	}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := LoadGameConfig(path); err != nil {
		t.Fatalf("LoadGameConfig: %v", err)
	}

	c := GetGameConfig()
	if c == nil || c.TurnDurationSeconds != 20 {
		t.Fatalf("config = %+v, want turn duration 20", c)
	}

	if got := GetBaseBet("gold"); got != 500 {
		t.Fatalf("GetBaseBet(gold) = %d, want 500", got)
	}
	if got := GetBaseBet(""); got != 50 {
		t.Fatalf("GetBaseBet(default) = %d, want 50", got)
	}
	if got := GetBaseBet("unknown"); got != 50 {
		t.Fatalf("GetBaseBet(unknown) = %d, want default tier 50", got)
	}
}
