package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcVoiceToken is the Nakama RPC id clients call to obtain a signed voice chat token.
	RpcVoiceToken = "voice_token"

	// MatchNamePusoyDos is the authoritative match handler name registered with Nakama.
	MatchNamePusoyDos = "pusoydos_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpPlayCards      int64 = 2
	OpPassTurn       int64 = 3
	OpRequestNewGame int64 = 4

	// Server -> Client events
	OpMatchState     int64 = 101
	OpGameStarted    int64 = 103
	OpHandDealt      int64 = 104 // sent privately
	OpCardPlayed     int64 = 105
	OpTurnPassed     int64 = 106
	OpPlayerFinished int64 = 107
	OpGameEnded      int64 = 108

	OpGameError int64 = 400
)
