package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a
// lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	// Find an open lobby of our game with at least one seat free.
	query := "+label.open:>=1 +label.game:pusoydos +label.phase:lobby"

	limit := 10
	authoritative := true
	minSize := 1
	maxSize := 3

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcQuickMatch: MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		b, _ := json.Marshal(QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false})
		return string(b), nil
	}

	// No open lobby; create one. Seat and owner assignment happen in
	// MatchJoin, server side.
	matchID, err := nk.MatchCreate(ctx, MatchNamePusoyDos, map[string]interface{}{})
	if err != nil {
		logger.Error("rpcQuickMatch: MatchCreate error: %v", err)
		return "", err
	}

	b, _ := json.Marshal(QuickMatchResponse{MatchID: matchID, IsNew: true})
	return string(b), nil
}
