package app

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pusoydos/internal/domain"
)

func mustCards(t *testing.T, codes string) []domain.Card {
	t.Helper()
	cards, err := domain.ParseCards(strings.Fields(codes))
	require.NoError(t, err)
	return cards
}

func TestStartGameCompactsSeatsAndDealsPrivately(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))

	game, events, err := svc.StartGame([]string{"alice", "", "bob", "carol"}, 50)
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob", "carol"}, game.Users)
	assert.Equal(t, 3, game.Match.NumPlayers)
	assert.Equal(t, int64(50), game.BaseBet)

	require.Len(t, events, 4)
	for seat, uid := range game.Users {
		ev := events[seat]
		require.Equal(t, EventHandDealt, ev.Kind)
		assert.Equal(t, []string{uid}, ev.Recipients)

		p, ok := ev.Payload.(HandDealtPayload)
		require.True(t, ok)
		assert.Equal(t, uid, p.UserID)
		assert.Equal(t, seat, p.Seat)
		assert.Len(t, p.Hand, domain.HandSize)
	}

	started := events[3]
	require.Equal(t, EventGameStarted, started.Kind)
	assert.Empty(t, started.Recipients, "game start is a broadcast")
	p, ok := started.Payload.(GameStartedPayload)
	require.True(t, ok)
	assert.Equal(t, game.Match.Leader, p.FirstTurnSeat)
}

func TestStartGameRequiresEnoughPlayers(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))

	_, _, err := svc.StartGame([]string{"alice", "", "bob", ""}, 0)
	assert.ErrorIs(t, err, ErrTooFewPlayers)
}

// endgameFixture builds a running 3-player match where seat 2 is already out,
// seat 0 leads holding a single card, and seat 1 holds two.
func endgameFixture(t *testing.T) *Game {
	t.Helper()
	match := &domain.Match{
		NumPlayers: 3,
		Hands: [][]domain.Card{
			mustCards(t, "5C"),
			mustCards(t, "7H 9D"),
			nil,
		},
		Leader:     0,
		Turn:       0,
		HasStarted: true,
		Winners:    []int{2},
		Phase:      domain.PhasePlaying,
	}
	return &Game{
		Match:   match,
		Users:   []string{"alice", "bob", "carol"},
		BaseBet: 10,
	}
}

func TestPlayCardsFinishesGameAndSettles(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	game := endgameFixture(t)

	events, err := svc.PlayCards(game, 0, mustCards(t, "5C"))
	require.NoError(t, err)
	require.Len(t, events, 3)

	require.Equal(t, EventCardPlayed, events[0].Kind)
	played, ok := events[0].Payload.(CardPlayedPayload)
	require.True(t, ok)
	assert.Equal(t, []string{"5C"}, played.Cards)

	require.Equal(t, EventPlayerFinished, events[1].Kind)
	finished, ok := events[1].Payload.(PlayerFinishedPayload)
	require.True(t, ok)
	assert.Equal(t, 0, finished.Seat)
	assert.Equal(t, 2, finished.Place)

	require.Equal(t, EventGameEnded, events[2].Kind)
	ended, ok := events[2].Payload.(GameEndedPayload)
	require.True(t, ok)
	assert.Equal(t, []int{2, 0}, ended.FinishOrderSeats)

	// Seat 1 still holds two cards at ten gold per card; first place collects.
	assert.Equal(t, map[string]int64{
		"bob":   -20,
		"carol": 20,
	}, ended.BalanceChanges)

	assert.True(t, game.Match.Finished())
}

func TestPlayCardsRejectionEmitsNothing(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	game := endgameFixture(t)

	events, err := svc.PlayCards(game, 1, mustCards(t, "7H"))
	assert.ErrorIs(t, err, domain.ErrNotYourTurn)
	assert.Empty(t, events)
	assert.Len(t, game.Match.Hands[1], 2)
}

func TestPassTurnReportsRoundClose(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	game := endgameFixture(t)

	lastPlay, err := domain.ParsePlay(0, []string{"6C"})
	require.NoError(t, err)
	game.Match.Winners = nil
	game.Match.Hands[2] = mustCards(t, "8S TC")
	game.Match.LastPlay = &lastPlay
	game.Match.Leader = 0
	game.Match.Turn = 2

	events, err := svc.PassTurn(game, 2)
	require.NoError(t, err)
	require.Len(t, events, 1)

	p, ok := events[0].Payload.(TurnPassedPayload)
	require.True(t, ok)
	assert.Equal(t, 2, p.Seat)
	assert.Equal(t, 0, p.NextTurnSeat)
	assert.True(t, p.NewRound, "scan reached the last player, round closes")
	assert.Nil(t, game.Match.LastPlay)
}
