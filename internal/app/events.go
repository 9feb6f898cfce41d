package app

// EventKind identifies emitted game events for dispatch at the port boundary.
type EventKind string

const (
	EventGameStarted    EventKind = "game_started"
	EventHandDealt      EventKind = "hand_dealt"
	EventCardPlayed     EventKind = "card_played"
	EventTurnPassed     EventKind = "turn_passed"
	EventPlayerFinished EventKind = "player_finished"
	EventGameEnded      EventKind = "game_ended"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

// GameStartedPayload announces the deal and the seat that opens the match.
type GameStartedPayload struct {
	NumPlayers    int `json:"num_players"`
	FirstTurnSeat int `json:"first_turn_seat"`
}

// HandDealtPayload carries one seat's private hand as canonical card codes.
type HandDealtPayload struct {
	UserID string   `json:"user_id"`
	Seat   int      `json:"seat"`
	Hand   []string `json:"hand"`
}

// CardPlayedPayload reports an accepted play and the turn that follows it.
type CardPlayedPayload struct {
	Seat         int      `json:"seat"`
	Cards        []string `json:"cards"`
	NextTurnSeat int      `json:"next_turn_seat"`
	NewRound     bool     `json:"new_round"` // the table cleared and the next seat leads fresh
}

// TurnPassedPayload reports a pass and whether it closed the round.
type TurnPassedPayload struct {
	Seat         int  `json:"seat"`
	NextTurnSeat int  `json:"next_turn_seat"`
	NewRound     bool `json:"new_round"`
}

// PlayerFinishedPayload reports a seat going out and its placement (1-based).
type PlayerFinishedPayload struct {
	Seat  int `json:"seat"`
	Place int `json:"place"`
}

// GameEndedPayload reports the finish order and the wallet settlement.
type GameEndedPayload struct {
	FinishOrderSeats []int            `json:"finish_order_seats"`
	BalanceChanges   map[string]int64 `json:"balance_changes"` // userID -> signed amount
}
