package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"

	"pusoydos/internal/app"
	"pusoydos/internal/bot"
	"pusoydos/internal/config"
	"pusoydos/internal/domain"
	"pusoydos/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [4]string `json:"seats"`      // user IDs, "" means the seat is empty
	OwnerSeat int       `json:"owner_seat"` // seat index of the match owner
	Tick      int64     `json:"tick"`

	Presences map[string]runtime.Presence `json:"-"`
	App       *app.Service                `json:"-"`
	Game      *app.Game                   `json:"-"` // nil while in lobby
	Economy   ports.EconomyPort           `json:"-"`
	Bots      map[string]bot.Brain        `json:"-"` // bot user ID -> strategy

	BotsEnabled          bool  `json:"bots_enabled"`
	BotMinDelay          int   `json:"bot_min_delay"`
	BotMaxDelay          int   `json:"bot_max_delay"`
	BotAutoFillDelay     int   `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64 `json:"bot_wait_until"`
	LastSinglePlayerTick int64 `json:"last_single_player_tick"`

	TurnDuration int   `json:"turn_duration"` // seconds a human may hold the turn
	TurnDeadline int64 `json:"turn_deadline"` // tick when the current turn is forfeited
	TurnSeat     int   `json:"turn_seat"`     // game seat the deadline was armed for
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !ms.isBotSeat(seat) {
			count++
		}
	}
	return count
}

// isBotSeat reports whether the user ID in a seat belongs to a bot.
func (ms *MatchState) isBotSeat(userID string) bool {
	if _, ok := ms.Bots[userID]; ok {
		return true
	}
	return bot.IsBot(userID)
}

func (ms *MatchState) findFirstHumanSeat() int {
	for i, userID := range ms.Seats {
		if userID != "" && !ms.isBotSeat(userID) {
			return i
		}
	}
	return -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: could not load game config: %v", err)
	}

	state := &MatchState{
		OwnerSeat: -1,
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil),
		Economy:   NewNakamaEconomyAdapter(nk),
		Bots:      make(map[string]bot.Brain),
		TurnSeat:  -1,
	}

	if c := config.GetGameConfig(); c != nil {
		state.BotMinDelay = c.BotMinDelaySeconds
		state.BotMaxDelay = c.BotMaxDelaySeconds
		state.BotAutoFillDelay = c.BotAutoFillDelaySeconds
		state.TurnDuration = c.TurnDurationSeconds
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["pusoydos_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["pusoydos_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["pusoydos_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["pusoydos_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}
	if val, ok := env["pusoydos_turn_duration_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.TurnDuration = i
		}
	}

	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = 3
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 5
	}
	if state.TurnDuration == 0 {
		state.TurnDuration = 30
	}

	labelBytes, err := json.Marshal(MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "pusoydos",
		Phase: "lobby",
	})
	if err != nil {
		logger.Error("MatchInit: failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// A full table still admits a human when a bot can be displaced in the lobby.
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Game == nil {
			for _, seat := range matchState.Seats {
				if matchState.isBotSeat(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && matchState.Game == nil {
			for i, seatUserID := range matchState.Seats {
				if matchState.isBotSeat(seatUserID) {
					logger.Info("MatchJoin: replacing bot %s with human %s in seat %d", seatUserID, p.GetUserId(), i)
					delete(matchState.Bots, seatUserID)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: user %s joined but no seat was available", p.GetUserId())
		}
	}

	if owner := matchState.OwnerSeat; owner < 0 || owner >= len(matchState.Seats) || matchState.Seats[owner] == "" || matchState.isBotSeat(matchState.Seats[owner]) {
		matchState.OwnerSeat = matchState.findFirstHumanSeat()
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher)

	return matchState
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		for i, seatUserID := range matchState.Seats {
			if seatUserID == p.GetUserId() {
				// In-game the seat stays bound so the turn timer can play
				// the hand out; in the lobby it simply frees up.
				if matchState.Game == nil {
					matchState.Seats[i] = ""
				}
				break
			}
		}
	}

	matchState.OwnerSeat = matchState.findFirstHumanSeat()
	if matchState.GetHumanPlayerCount() == 0 && len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: terminating match with no humans")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame, OpRequestNewGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}
	mh.enforceTurnDeadline(ctx, matchState, dispatcher, logger)

	return matchState
}

// processBots fills short lobbies with bot seats and plays bot turns after a
// small humanizing delay.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if seat != "" {
						continue
					}
					identity := bot.GetBotIdentity(i)
					brain, err := bot.NewBrain(bot.ParseLevel(identity.Difficulty))
					if err != nil {
						logger.Error("processBots: failed to create bot brain for %s: %v", identity.UserID, err)
						continue
					}
					state.Seats[i] = identity.UserID
					state.Bots[identity.UserID] = brain
					logger.Info("processBots: added bot %s (%s) to seat %d", identity.DisplayName, identity.UserID, i)
					added = true
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastMatchState(state, dispatcher)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	if state.Game.Match.Phase != domain.PhasePlaying {
		return
	}

	currentTurn := state.Game.Match.Turn
	currentUserID := state.Game.UserAt(currentTurn)
	if !state.isBotSeat(currentUserID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	brain, exists := state.Bots[currentUserID]
	if !exists {
		var err error
		brain, err = bot.NewBrain(bot.BotLevelEasy)
		if err != nil {
			logger.Error("processBots: failed to create fallback brain: %v", err)
			return
		}
		state.Bots[currentUserID] = brain
	}

	mh.actWithBrain(ctx, state, dispatcher, logger, brain, currentTurn)
}

// enforceTurnDeadline forfeits the turn of a human who idles past the turn
// duration, playing on their behalf with the weakest strategy.
func (mh *matchHandler) enforceTurnDeadline(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.Game.Match.Phase != domain.PhasePlaying {
		state.TurnSeat = -1
		return
	}

	currentTurn := state.Game.Match.Turn
	if state.TurnSeat != currentTurn {
		state.TurnSeat = currentTurn
		state.TurnDeadline = state.Tick + int64(state.TurnDuration)
		return
	}

	currentUserID := state.Game.UserAt(currentTurn)
	if state.isBotSeat(currentUserID) || state.Tick < state.TurnDeadline {
		return
	}

	logger.Info("enforceTurnDeadline: seat %d (%s) timed out, auto-acting", currentTurn, currentUserID)
	brain, err := bot.NewBrain(bot.BotLevelEasy)
	if err != nil {
		logger.Error("enforceTurnDeadline: %v", err)
		return
	}
	mh.actWithBrain(ctx, state, dispatcher, logger, brain, currentTurn)
}

func (mh *matchHandler) actWithBrain(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, brain bot.Brain, seat int) {
	move, err := brain.CalculateMove(state.Game.Match, seat)
	if err != nil {
		logger.Error("actWithBrain: seat %d failed to calculate move: %v", seat, err)
		return
	}

	var events []app.Event
	if move.Pass {
		events, err = state.App.PassTurn(state.Game, seat)
	} else {
		events, err = state.App.PlayCards(state.Game, seat, move.Cards)
	}
	if err != nil {
		logger.Error("actWithBrain: seat %d move rejected: %v", seat, err)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher) {
	var playerStates []PlayerState
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}

		displayName := userID
		if p, exists := state.Presences[userID]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userID); name != "" {
			displayName = name
		}

		cardsRemaining := 0
		if state.Game != nil {
			if gameSeat := state.Game.SeatOf(userID); gameSeat >= 0 {
				cardsRemaining = len(state.Game.Match.Hands[gameSeat])
			}
		}

		playerStates = append(playerStates, PlayerState{
			UserID:         userID,
			Seat:           i,
			IsOwner:        i == state.OwnerSeat,
			IsBot:          state.isBotSeat(userID),
			DisplayName:    displayName,
			CardsRemaining: cardsRemaining,
		})
	}

	snapshot := MatchStateSnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Tick:      state.Tick,
		Players:   playerStates,
	}
	bytes, _ := json.Marshal(snapshot)
	dispatcher.BroadcastMessage(OpMatchState, bytes, nil, nil, true)
}

func (mh *matchHandler) senderSeat(state *MatchState, userID string) int {
	if state.Game != nil {
		return state.Game.SeatOf(userID)
	}
	for i, seatUserID := range state.Seats {
		if seatUserID == userID {
			return i
		}
	}
	return -1
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Game != nil {
		logger.Warn("handleStartGame: game already in progress")
		return
	}

	senderSeat := mh.senderSeat(state, senderID)
	if senderSeat != state.OwnerSeat {
		logger.Warn("handleStartGame: user %s is not the owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}

	var request StartGameRequest
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &request); err != nil {
			logger.Warn("handleStartGame: invalid request from %s: %v", senderID, err)
			return
		}
	}

	baseBet := config.GetBaseBet(request.TierID)
	game, events, err := state.App.StartGame(state.Seats[:], baseBet)
	if err != nil {
		logger.Error("handleStartGame: failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	state.Game = game
	state.TurnSeat = -1
	state.BotWaitUntil = 0

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	logger.Info("handleStartGame: game started with %d players", game.Match.NumPlayers)
}

func (mh *matchHandler) handlePlayCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Game == nil {
		logger.Warn("handlePlayCards: game not started")
		return
	}

	var request PlayCardsRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handlePlayCards: failed to unmarshal request: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
		return
	}

	cards, err := domain.ParseCards(request.Cards)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	senderSeat := mh.senderSeat(state, senderID)
	events, err := state.App.PlayCards(state.Game, senderSeat, cards)
	if err != nil {
		logger.Warn("handlePlayCards: user %s (seat %d) rejected: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Game == nil {
		logger.Warn("handlePassTurn: game not started")
		return
	}

	senderSeat := mh.senderSeat(state, senderID)
	events, err := state.App.PassTurn(state.Game, senderSeat)
	if err != nil {
		logger.Warn("handlePassTurn: user %s (seat %d) rejected: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent converts an app event to its wire opcode and dispatches it.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	switch ev.Kind {
	case app.EventGameStarted:
		opCode = OpGameStarted
	case app.EventHandDealt:
		opCode = OpHandDealt
	case app.EventCardPlayed:
		opCode = OpCardPlayed
	case app.EventTurnPassed:
		opCode = OpTurnPassed
	case app.EventPlayerFinished:
		opCode = OpPlayerFinished
	case app.EventGameEnded:
		opCode = OpGameEnded
		if p, ok := ev.Payload.(app.GameEndedPayload); ok {
			mh.settleWallets(ctx, state, logger, p.BalanceChanges)
			state.Game = nil
			mh.updateLabel(state, dispatcher, logger)
		}
	default:
		logger.Warn("broadcastEvent: unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("broadcastEvent: failed to marshal %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted events whose recipients are all offline (or bots) are
		// dropped rather than leaked to the table.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// settleWallets applies end-of-game balance changes to human wallets.
func (mh *matchHandler) settleWallets(ctx context.Context, state *MatchState, logger runtime.Logger, changes map[string]int64) {
	if state.Economy == nil || len(changes) == 0 {
		return
	}

	updates := make([]ports.WalletUpdate, 0, len(changes))
	for userID, amount := range changes {
		if state.isBotSeat(userID) {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
				"reason":   "game_settlement",
			},
		})
	}
	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("settleWallets: failed to update balances: %v", err)
	}
}

// sendError delivers a GameError privately to one user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(GameError{Code: code, Message: message})
	if err != nil {
		logger.Error("sendError: failed to marshal: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	if state.Game != nil {
		phase = "playing"
	}

	labelBytes, err := json.Marshal(MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "pusoydos",
		Phase: phase,
	})
	if err != nil {
		logger.Error("updateLabel: failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
