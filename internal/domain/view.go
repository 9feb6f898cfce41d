package domain

// SpectatorSeat requests a projection with every hand redacted.
const SpectatorSeat = -1

// PlaySnapshot is the public record of one accepted play.
type PlaySnapshot struct {
	Seat  int      `json:"seat"`
	Cards []string `json:"cards"`
}

// View is the redacted projection of a match for one requester. Only the
// requester's own hand is revealed; every other seat is reduced to a card
// count. Discard history, leader, turn, last play and winners are public.
type View struct {
	Seat       int            `json:"seat"`
	NumPlayers int            `json:"num_players"`
	Hand       []string       `json:"hand,omitempty"`
	CardCounts []int          `json:"card_counts"`
	Discards   []PlaySnapshot `json:"discards"`
	Leader     int            `json:"leader"`
	Turn       int            `json:"turn"`
	LastPlay   *PlaySnapshot  `json:"last_play,omitempty"`
	HasStarted bool           `json:"has_started"`
	Winners    []int          `json:"winners"`
	Phase      Phase          `json:"phase"`
}

// Project derives the state visible to the given seat. SpectatorSeat (or any
// out-of-range seat) sees only public information. This is the sole path by
// which match state leaves the engine.
func (m *Match) Project(seat int) View {
	v := View{
		Seat:       seat,
		NumPlayers: m.NumPlayers,
		CardCounts: m.CardCounts(),
		Discards:   make([]PlaySnapshot, 0, len(m.Discards)),
		Leader:     m.Leader,
		Turn:       m.Turn,
		HasStarted: m.HasStarted,
		Winners:    append([]int(nil), m.Winners...),
		Phase:      m.Phase,
	}

	for _, p := range m.Discards {
		v.Discards = append(v.Discards, snapshotPlay(p))
	}
	if m.LastPlay != nil {
		snap := snapshotPlay(*m.LastPlay)
		v.LastPlay = &snap
	}
	if seat >= 0 && seat < m.NumPlayers {
		v.Hand = EncodeCards(m.Hands[seat])
	} else {
		v.Seat = SpectatorSeat
	}
	return v
}

func snapshotPlay(p Play) PlaySnapshot {
	return PlaySnapshot{Seat: p.Seat, Cards: EncodeCards(p.Cards)}
}
