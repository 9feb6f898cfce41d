package app

import (
	"errors"
	"math/rand"
	"time"

	"pusoydos/internal/domain"
)

// Service contains the use-cases operating on match state. It is stateless
// apart from its rng; concurrency control lives in the Registry and in the
// Nakama match loop, both of which serialize moves per match.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrTooFewPlayers = errors.New("not enough players to start")
	ErrUnknownSeat   = errors.New("seat not part of the match")
)

// Game couples a dealt match with the seat to user mapping and stake.
type Game struct {
	Match   *domain.Match
	Users   []string // seat index -> user ID
	BaseBet int64
}

// UserAt returns the user occupying a seat, or "" when out of range.
func (g *Game) UserAt(seat int) string {
	if seat < 0 || seat >= len(g.Users) {
		return ""
	}
	return g.Users[seat]
}

// SeatOf returns the seat of a user, or -1 when absent.
func (g *Game) SeatOf(userID string) int {
	for seat, uid := range g.Users {
		if uid == userID {
			return seat
		}
	}
	return -1
}

// StartGame deals a new match for the occupied seats. seatUserIDs lists user
// IDs in seat order with "" for empty seats; occupied seats are compacted
// into match seats 0..n-1. Each hand is delivered privately; the opening
// seat is announced to everyone.
func (s *Service) StartGame(seatUserIDs []string, baseBet int64) (*Game, []Event, error) {
	users := make([]string, 0, len(seatUserIDs))
	for _, uid := range seatUserIDs {
		if uid != "" {
			users = append(users, uid)
		}
	}
	if len(users) < domain.MinPlayers {
		return nil, nil, ErrTooFewPlayers
	}

	match, err := domain.NewMatch(s.rng, len(users))
	if err != nil {
		return nil, nil, err
	}

	game := &Game{Match: match, Users: users, BaseBet: baseBet}

	events := make([]Event, 0, len(users)+1)
	for seat, uid := range users {
		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				UserID: uid,
				Seat:   seat,
				Hand:   domain.EncodeCards(match.Hands[seat]),
			},
			Recipients: []string{uid},
		})
	}
	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			NumPlayers:    match.NumPlayers,
			FirstTurnSeat: match.Leader,
		},
	})
	return game, events, nil
}

// PlayCards applies a play for the acting seat and emits the resulting
// events. A rejected move returns an error and no events.
func (s *Service) PlayCards(game *Game, seat int, cards []domain.Card) ([]Event, error) {
	match := game.Match
	play, err := match.ApplyPlay(seat, cards)
	if err != nil {
		return nil, err
	}

	wentOut := match.HasWon(seat)
	events := []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			Seat:         seat,
			Cards:        domain.EncodeCards(play.Cards),
			NextTurnSeat: match.Turn,
			NewRound:     match.LastPlay == nil,
		},
	}}

	if wentOut {
		events = append(events, Event{
			Kind:    EventPlayerFinished,
			Payload: PlayerFinishedPayload{Seat: seat, Place: len(match.Winners)},
		})
	}
	if match.Finished() {
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				FinishOrderSeats: append([]int(nil), match.Winners...),
				BalanceChanges:   s.settle(game),
			},
		})
	}
	return events, nil
}

// PassTurn applies a pass for the acting seat.
func (s *Service) PassTurn(game *Game, seat int) ([]Event, error) {
	match := game.Match
	if err := match.ApplyPass(seat); err != nil {
		return nil, err
	}
	return []Event{{
		Kind: EventTurnPassed,
		Payload: TurnPassedPayload{
			Seat:         seat,
			NextTurnSeat: match.Turn,
			NewRound:     match.LastPlay == nil,
		},
	}}, nil
}

// settle computes the wallet changes at termination: every seat that did not
// place first pays the base bet per card left in hand, and the first-place
// seat collects the pot.
func (s *Service) settle(game *Game) map[string]int64 {
	match := game.Match
	if !match.Finished() || game.BaseBet <= 0 || len(match.Winners) == 0 {
		return nil
	}

	changes := make(map[string]int64, match.NumPlayers)
	first := match.Winners[0]
	var pot int64
	for seat, uid := range game.Users {
		if seat == first {
			continue
		}
		loss := game.BaseBet * int64(len(match.Hands[seat]))
		if loss == 0 {
			continue
		}
		changes[uid] = -loss
		pot += loss
	}
	if pot > 0 {
		changes[game.UserAt(first)] = pot
	}
	return changes
}
