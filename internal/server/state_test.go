package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/GoSet/internal/events"
	"github.com/janpfeifer/GoSet/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Publisher that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() {}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	var types []events.Type
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

// canonicalGame deals the unshuffled deck: open cards {0,1,2} match, {0,1,3} don't.
func canonicalGame() *game.Game {
	return game.NewWithDeck(game.NewDeckFromCards(game.AllCards()))
}

func startServer(t *testing.T, ctx context.Context, opts ...Option) *ServerState {
	t.Helper()
	started := make(chan *ServerState, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, "", started, opts...)
	}()
	select {
	case s := <-started:
		return s
	case err := <-errCh:
		t.Fatalf("Server failed to start: %v", err)
	}
	return nil
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType game.MessageType, payload any) {
	t.Helper()
	msg, err := game.NewWsMessage(msgType, payload)
	require.NoError(t, err)
	require.NoError(t, wsjson.Write(ctx, conn, msg))
}

func receive(t *testing.T, ctx context.Context, conn *websocket.Conn) any {
	t.Helper()
	var msg game.WsMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	p, err := msg.Parse()
	require.NoError(t, err)
	return p
}

func receiveState(t *testing.T, ctx context.Context, conn *websocket.Conn) *game.StateMessage {
	t.Helper()
	p := receive(t, ctx, conn)
	state, ok := p.(*game.StateMessage)
	require.True(t, ok, "expected StateMessage, got %T: %+v", p, p)
	return state
}

func selectCards(t *testing.T, ctx context.Context, conn *websocket.Conn, indices ...int) *game.StateMessage {
	t.Helper()
	var state *game.StateMessage
	for _, idx := range indices {
		send(t, ctx, conn, game.MsgTypeSelect, game.SelectMessage{Index: idx})
		state = receiveState(t, ctx, conn)
	}
	return state
}

func TestGameWebsocket(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rec := &recorder{}
	s := startServer(t, ctx, WithPublisher(rec), WithNewGame(canonicalGame))
	wsURL := "ws://" + s.Address + "/ws"

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	// A game is dealt on connection.
	state := receiveState(t, ctx, conn)
	require.NotEmpty(t, state.SessionID)
	assert.Len(t, state.Game.OpenCards, game.InitialOpenCards)
	assert.Equal(t, 0, state.Game.Score)
	assert.True(t, state.Game.CanDeal)
	assert.Equal(t, 1, s.NumSessions())

	// Known match.
	state = selectCards(t, ctx, conn, 0, 1, 2)
	assert.True(t, state.Game.ThreeSelected)
	assert.True(t, state.Game.SelectedMatch)
	assert.Equal(t, game.MatchReward, state.Game.Score)

	// Deal confirms the match and replaces the cards.
	send(t, ctx, conn, game.MsgTypeDeal, nil)
	state = receiveState(t, ctx, conn)
	assert.False(t, state.Game.ThreeSelected)
	assert.Equal(t, 3, state.Game.Matched)
	assert.Len(t, state.Game.OpenCards, game.InitialOpenCards)
	assert.Equal(t, game.AllCards()[12], state.Game.OpenCards[0].Card)

	// Known non-match.
	state = selectCards(t, ctx, conn, 3, 4, 6)
	assert.True(t, state.Game.ThreeSelected)
	assert.False(t, state.Game.SelectedMatch)
	assert.Equal(t, game.MatchReward-game.MismatchPenalty, state.Game.Score)

	// Out of range index: reported to the client, game untouched.
	send(t, ctx, conn, game.MsgTypeSelect, game.SelectMessage{Index: 99})
	p := receive(t, ctx, conn)
	errMsg, ok := p.(*game.ErrorMessage)
	require.True(t, ok, "expected ErrorMessage, got %T", p)
	assert.Contains(t, errMsg.Message, ErrInvalidIndex.Error())

	// Hint.
	send(t, ctx, conn, game.MsgTypeHint, nil)
	p = receive(t, ctx, conn)
	hint, ok := p.(*game.HintMessage)
	require.True(t, ok, "expected HintMessage, got %T", p)
	assert.True(t, hint.Found)

	// Shuffle keeps the cards.
	before := state.Game.OpenCards
	send(t, ctx, conn, game.MsgTypeShuffle, nil)
	state = receiveState(t, ctx, conn)
	assert.ElementsMatch(t, before, state.Game.OpenCards)

	// New game.
	send(t, ctx, conn, game.MsgTypeNewGame, nil)
	state = receiveState(t, ctx, conn)
	assert.Equal(t, 0, state.Game.Score)
	assert.Equal(t, 0, state.Game.Matched)

	assert.Equal(t, []events.Type{
		events.GameStarted, events.TrioSelected, events.TrioSelected, events.GameStarted,
	}, rec.types())

	// Session goes away with the connection.
	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))
	assert.Eventually(t, func() bool { return s.NumSessions() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestGameWebsocketUnknownMessage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := startServer(t, ctx)
	conn, _, err := websocket.Dial(ctx, "ws://"+s.Address+"/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()
	receiveState(t, ctx, conn)

	// Server-only messages are rejected, unknown ones too.
	for _, msgType := range []game.MessageType{game.MsgTypeState, "bogus"} {
		send(t, ctx, conn, msgType, nil)
		p := receive(t, ctx, conn)
		assert.IsType(t, &game.ErrorMessage{}, p, "message type %q", msgType)
	}

	// The session is still alive.
	state := selectCards(t, ctx, conn, 0)
	assert.Equal(t, 1, countSelected(state.Game))
}

func TestGameWebsocketSessionsAreIndependent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := startServer(t, ctx, WithNewGame(canonicalGame))
	wsURL := "ws://" + s.Address + "/ws"

	conn1, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn1.CloseNow()
	conn2, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn2.CloseNow()

	state1 := receiveState(t, ctx, conn1)
	state2 := receiveState(t, ctx, conn2)
	assert.NotEqual(t, state1.SessionID, state2.SessionID)

	state1 = selectCards(t, ctx, conn1, 0, 1, 3)
	assert.Equal(t, -game.MismatchPenalty, state1.Game.Score)

	send(t, ctx, conn2, game.MsgTypeShuffle, nil)
	state2 = receiveState(t, ctx, conn2)
	assert.Equal(t, 0, state2.Game.Score)
	assert.Equal(t, 0, countSelected(state2.Game))

	s.mu.RLock()
	ids := make([]string, 0, len(s.Sessions))
	for id := range s.Sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	want := []string{state1.SessionID, state2.SessionID}
	slices.Sort(want)
	assert.Equal(t, want, ids)
}

func TestGameOverEvent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Twelve cards, nothing to deal: after matching {0,1,2}, the remaining nine still hold matches,
	// so play on until none is left using hints.
	rec := &recorder{}
	s := startServer(t, ctx, WithPublisher(rec), WithNewGame(func() *game.Game {
		return game.NewWithDeck(game.NewDeckFromCards(game.AllCards()[:game.InitialOpenCards]))
	}))
	conn, _, err := websocket.Dial(ctx, "ws://"+s.Address+"/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	state := receiveState(t, ctx, conn)
	for !state.Game.Over {
		send(t, ctx, conn, game.MsgTypeHint, nil)
		hint := receive(t, ctx, conn).(*game.HintMessage)
		require.True(t, hint.Found)
		selectCards(t, ctx, conn, hint.Indices[:]...)
		send(t, ctx, conn, game.MsgTypeDeal, nil)
		state = receiveState(t, ctx, conn)
	}
	assert.False(t, state.Game.CanDeal)
	assert.Equal(t, 0, state.Game.AvailableMatches)
	assert.Contains(t, rec.types(), events.GameOver)
}

func TestHintOnClosedConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := NewServerState(nil)
	results := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			results <- err
			return
		}
		session := &Session{ID: "closed", Game: canonicalGame(), conn: conn, publisher: events.Nop{}}
		conn.CloseNow()
		msg, err := game.NewWsMessage(game.MsgTypeHint, nil)
		if err != nil {
			results <- err
			return
		}
		results <- s.handleMessage(r.Context(), session, msg)
	}))
	defer srv.Close()

	conn, _, err := websocket.Dial(ctx, "ws"+srv.URL[len("http"):], nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	select {
	case err := <-results:
		require.Error(t, err)
		assert.ErrorIs(t, err, errConnection, "write failures end the session instead of being reported to the client")
	case <-ctx.Done():
		t.Fatal("handler did not return")
	}
}

func countSelected(v game.View) int {
	n := 0
	for _, c := range v.OpenCards {
		if c.Selected {
			n++
		}
	}
	return n
}
