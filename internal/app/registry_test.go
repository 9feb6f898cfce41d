package app

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pusoydos/internal/domain"
)

func newTestRegistry() *Registry {
	return NewRegistry(NewService(rand.New(rand.NewSource(3))))
}

func TestRegistryCreateAndProject(t *testing.T) {
	reg := newTestRegistry()

	id, events, err := reg.CreateMatch([]string{"alice", "bob", "carol"}, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Len(t, events, 4)

	for seat := 0; seat < 3; seat++ {
		view, err := reg.ProjectView(id, seat)
		require.NoError(t, err)
		assert.Equal(t, seat, view.Seat)
		assert.Len(t, view.Hand, domain.HandSize)
	}

	spectator, err := reg.ProjectView(id, domain.SpectatorSeat)
	require.NoError(t, err)
	assert.Empty(t, spectator.Hand)
	assert.Equal(t, []int{13, 13, 13}, spectator.CardCounts)
}

func TestRegistryUnknownMatch(t *testing.T) {
	reg := newTestRegistry()

	_, err := reg.ProjectView("nope", 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, _, err = reg.SubmitMove("nope", 0, MovePass, nil)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRegistrySubmitMovePlaysAndRemoves(t *testing.T) {
	reg := newTestRegistry()

	id, _, err := reg.CreateMatch([]string{"alice", "bob", "carol"}, 0)
	require.NoError(t, err)

	// The holder of the lowest card opens the match with it.
	leader := -1
	for seat := 0; seat < 3; seat++ {
		view, err := reg.ProjectView(id, seat)
		require.NoError(t, err)
		for _, code := range view.Hand {
			if code == "3C" {
				leader = seat
			}
		}
	}
	require.GreaterOrEqual(t, leader, 0, "someone must hold the three of clubs")

	view, events, err := reg.SubmitMove(id, leader, MovePlay, []string{"3C"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventCardPlayed, events[0].Kind)
	assert.Len(t, view.Hand, domain.HandSize-1)
	assert.True(t, view.HasStarted)

	// A second 3C is no longer available.
	_, _, err = reg.SubmitMove(id, leader, MovePlay, []string{"3C"})
	assert.Error(t, err)

	reg.Remove(id)
	_, err = reg.ProjectView(id, 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
