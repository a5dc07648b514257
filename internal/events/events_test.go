package events

import (
	"context"
	"testing"

	"github.com/janpfeifer/GoSet/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := game.NewWithDeck(game.NewDeckFromCards(game.AllCards()))
	for i := range 3 {
		g.SelectCard(i)
	}

	e := New(TrioSelected, "session-1", g.View())
	assert.Equal(t, TrioSelected, e.Type)
	assert.Equal(t, "session-1", e.SessionID)
	assert.True(t, e.Match)
	assert.Equal(t, game.MatchReward, e.Score)
	assert.Equal(t, game.NumCards-game.InitialOpenCards, e.DeckSize)
	assert.False(t, e.Time.IsZero())
	// The trio is scored but still on the table.
	assert.Equal(t, 0, e.Matched)

	// Match is only reported for selected trios.
	e = New(GameStarted, "session-1", g.View())
	assert.False(t, e.Match)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "goset.events.game_over", Subject("goset.events", GameOver))
	assert.Equal(t, "goset.events.trio_selected", Subject("goset.events", TrioSelected))
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	require.NoError(t, p.Publish(context.Background(), Event{Type: GameStarted}))
	p.Close()
}

func TestNewNATSPublisherUnreachable(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", "goset.events")
	assert.Error(t, err)
}
