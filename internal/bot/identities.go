package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one entry of the bot account pool.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy" or "hard"
	AvatarIndex int    `json:"avatar_index"`
}

var (
	identityPool  []BotIdentity
	identityByID  map[string]BotIdentity
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profile pool from the given JSON file.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		if err := json.Unmarshal(data, &identityPool); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		identityByID = make(map[string]BotIdentity)
		for _, identity := range identityPool {
			if identity.UserID != "" {
				identityByID[identity.UserID] = identity
			}
		}
	})
	return loadErr
}

// ProvisionBots ensures bot accounts exist in Nakama and carry the is_bot
// metadata. Safe to call more than once.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	provisionOnce.Do(func() {
		if identityByID == nil {
			identityByID = make(map[string]BotIdentity)
		}
		for i := range identityPool {
			identity := &identityPool[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if err != nil {
				logger.Error("ProvisionBots: failed to authenticate bot %s: %v", identity.Username, err)
				continue
			}

			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":       true,
				"difficulty":   identity.Difficulty,
				"avatar_index": identity.AvatarIndex,
			}
			if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionBots: failed to update bot account %s: %v", userID, err)
			}

			identityByID[identity.UserID] = *identity
			logger.Info("ProvisionBots: bot %s (%s) ready, difficulty %s", identity.DisplayName, userID, identity.Difficulty)
		}
	})
	return nil
}

// GetBotConfig returns the identity for a bot user ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	identity, ok := identityByID[userID]
	return identity, ok
}

// GetBotDisplayName returns the display name for a bot ID, falling back to
// its username, or "" when the ID is not a bot.
func GetBotDisplayName(userID string) string {
	identity, ok := identityByID[userID]
	if !ok {
		return ""
	}
	if identity.DisplayName == "" {
		return identity.Username
	}
	return identity.DisplayName
}

// GetBotIdentity returns a pool identity by index (mod pool size). With an
// empty pool it fabricates a throwaway identity.
func GetBotIdentity(index int) BotIdentity {
	if len(identityPool) == 0 {
		return BotIdentity{
			UserID:      "bot-" + uuid.NewString(),
			DisplayName: fmt.Sprintf("AI Player %d", index+1),
			Difficulty:  "easy",
		}
	}
	return identityPool[index%len(identityPool)]
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	_, ok := identityByID[userID]
	return ok
}
