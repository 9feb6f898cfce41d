package nakama

// Wire payloads exchanged with clients. Everything is JSON; cards travel as
// canonical two-character codes.

// MatchLabel is the JSON label used for match listing queries.
type MatchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"` // "lobby" or "playing"
}

// PlayerState describes one occupied seat in a lobby snapshot.
type PlayerState struct {
	UserID         string `json:"user_id"`
	Seat           int    `json:"seat"`
	IsOwner        bool   `json:"is_owner"`
	IsBot          bool   `json:"is_bot"`
	DisplayName    string `json:"display_name"`
	CardsRemaining int    `json:"cards_remaining"`
}

// MatchStateSnapshot is broadcast whenever seating changes.
type MatchStateSnapshot struct {
	Seats     []string      `json:"seats"`
	OwnerSeat int           `json:"owner_seat"`
	Tick      int64         `json:"tick"`
	Players   []PlayerState `json:"players"`
}

// StartGameRequest is the OpStartGame payload.
type StartGameRequest struct {
	TierID string `json:"tier_id,omitempty"`
}

// PlayCardsRequest is the OpPlayCards payload.
type PlayCardsRequest struct {
	Cards []string `json:"cards"`
}

// GameError is sent privately when a request is rejected.
type GameError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
