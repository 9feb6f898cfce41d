package app

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"pusoydos/internal/domain"
)

// MoveKind distinguishes the two legal actions a seat may submit.
type MoveKind int

const (
	MovePlay MoveKind = iota
	MovePass
)

var ErrMatchNotFound = errors.New("match not found")

// Registry tracks live matches by ID and serializes moves per match. It
// backs standalone deployments; under Nakama the match loop owns the Game
// directly and the registry is unused.
type Registry struct {
	mu      sync.RWMutex
	service *Service
	games   map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	game *Game
}

func NewRegistry(service *Service) *Registry {
	return &Registry{
		service: service,
		games:   make(map[string]*entry),
	}
}

// CreateMatch deals a new match and returns its ID together with the start
// events.
func (r *Registry) CreateMatch(seatUserIDs []string, baseBet int64) (string, []Event, error) {
	game, events, err := r.service.StartGame(seatUserIDs, baseBet)
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.games[id] = &entry{game: game}
	r.mu.Unlock()
	return id, events, nil
}

// SubmitMove applies a play or pass for the acting seat and returns that
// seat's refreshed view along with the emitted events.
func (r *Registry) SubmitMove(matchID string, seat int, kind MoveKind, cardCodes []string) (domain.View, []Event, error) {
	e, err := r.lookup(matchID)
	if err != nil {
		return domain.View{}, nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var events []Event
	switch kind {
	case MovePass:
		events, err = r.service.PassTurn(e.game, seat)
	default:
		var cards []domain.Card
		cards, err = domain.ParseCards(cardCodes)
		if err == nil {
			events, err = r.service.PlayCards(e.game, seat, cards)
		}
	}
	if err != nil {
		return domain.View{}, nil, err
	}
	return e.game.Match.Project(seat), events, nil
}

// ProjectView returns the match state as visible from a seat. Pass
// domain.SpectatorSeat for the public projection.
func (r *Registry) ProjectView(matchID string, seat int) (domain.View, error) {
	e, err := r.lookup(matchID)
	if err != nil {
		return domain.View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Match.Project(seat), nil
}

// Remove drops a match from the registry.
func (r *Registry) Remove(matchID string) {
	r.mu.Lock()
	delete(r.games, matchID)
	r.mu.Unlock()
}

func (r *Registry) lookup(matchID string) (*entry, error) {
	r.mu.RLock()
	e, ok := r.games[matchID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrMatchNotFound
	}
	return e, nil
}
