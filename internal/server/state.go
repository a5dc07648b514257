package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/janpfeifer/GoSet/internal/events"
	"github.com/janpfeifer/GoSet/internal/game"
	"k8s.io/klog/v2"
)

// ErrInvalidIndex is reported to clients that select a card that is not on the table.
var ErrInvalidIndex = errors.New("invalid card index")

// errConnection marks failures to write to the client: the connection is unusable
// and the session ends, instead of reporting the error back to the client.
var errConnection = errors.New("connection failed")

// writeTimeout bounds each message sent to a client.
const writeTimeout = 5 * time.Second

// Session is one player's game, owned by one WebSocket connection.
// Only the goroutine serving the connection touches the Game.
type Session struct {
	ID        string
	Game      *game.Game
	Started   time.Time
	over      bool // Whether the GameOver event was published for the current game.
	conn      *websocket.Conn
	publisher events.Publisher
}

// ServerState holds the sessions of all connected clients.
type ServerState struct {
	mu       sync.RWMutex
	Address  string
	Sessions map[string]*Session

	// NewGame creates the game for new sessions and for every "new_game" request.
	NewGame func() *game.Game

	publisher events.Publisher
}

// NewServerState creates an empty server state. If publisher is nil, events are dropped.
func NewServerState(publisher events.Publisher) *ServerState {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &ServerState{
		Sessions:  make(map[string]*Session),
		NewGame:   game.New,
		publisher: publisher,
	}
}

// NumSessions returns the number of connected sessions.
func (s *ServerState) NumSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Sessions)
}

func (s *ServerState) addSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sessions[session.ID] = session
}

func (s *ServerState) removeSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Sessions, id)
}

// HandleWS upgrades the connection and serves one game session over it, until the client leaves.
func (s *ServerState) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		klog.Errorf("HandleWS: failed to accept websocket: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	session := &Session{
		ID:        uuid.NewString(),
		conn:      conn,
		publisher: s.publisher,
	}
	s.addSession(session)
	defer s.removeSession(session.ID)
	klog.Infof("Session %s: connected from %s", session.ID, r.RemoteAddr)

	session.startGame(ctx, s.NewGame())
	if err := session.sendState(ctx); err != nil {
		klog.Errorf("Session %s: %v", session.ID, err)
		return
	}

	for {
		var msg game.WsMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				klog.Infof("Session %s: client left", session.ID)
			} else {
				klog.V(1).Infof("Session %s: read error: %v", session.ID, err)
			}
			return
		}
		klog.V(2).Infof("Session %s: received %s", session.ID, msg.Type)

		if err := s.handleMessage(ctx, session, msg); err != nil {
			if errors.Is(err, errConnection) {
				klog.Errorf("Session %s: %v", session.ID, err)
				return
			}
			klog.Warningf("Session %s: %s request failed: %v", session.ID, msg.Type, err)
			if err := session.sendError(ctx, err); err != nil {
				klog.Errorf("Session %s: %v", session.ID, err)
				return
			}
		}
	}
}

// handleMessage applies one client request to the session's game and sends back the result.
// Returned errors are client errors, to be reported back to the client, except for
// those wrapping errConnection.
func (s *ServerState) handleMessage(ctx context.Context, session *Session, msg game.WsMessage) error {
	p, err := msg.Parse()
	if err != nil {
		return fmt.Errorf("failed to parse message: %w", err)
	}

	g := session.Game
	switch m := p.(type) {
	case *game.NewGameMessage:
		session.startGame(ctx, s.NewGame())

	case *game.SelectMessage:
		if m.Index < 0 || m.Index >= len(g.OpenCards()) {
			return fmt.Errorf("%w %d: there are %d open cards", ErrInvalidIndex, m.Index, len(g.OpenCards()))
		}
		g.SelectCard(m.Index)
		if g.IsThreeSelected() {
			view := g.View()
			klog.V(1).Infof("Session %s: trio selected, match=%t, score=%d", session.ID, view.SelectedMatch, view.Score)
			session.publish(ctx, events.New(events.TrioSelected, session.ID, view))
		}

	case *game.DealMessage:
		g.DealThreeMore()

	case *game.ShuffleMessage:
		g.ShuffleOpenCards()

	case *game.HintMessage:
		indices, found := g.Hint()
		return session.send(ctx, game.MsgTypeHint, game.HintMessage{Found: found, Indices: indices})

	default:
		return fmt.Errorf("unexpected %q message from client", msg.Type)
	}

	if g := session.Game; g.IsOver() && !session.over {
		session.over = true
		klog.Infof("Session %s: game over, score=%d, matched=%d", session.ID, g.Score(), len(g.MatchedCards()))
		session.publish(ctx, events.New(events.GameOver, session.ID, g.View()))
	}
	return session.sendState(ctx)
}

// startGame discards the current game, if any, and starts playing g.
func (session *Session) startGame(ctx context.Context, g *game.Game) {
	session.Game = g
	session.Started = time.Now()
	session.over = false
	klog.V(1).Infof("Session %s: new game dealt", session.ID)
	session.publish(ctx, events.New(events.GameStarted, session.ID, g.View()))
}

// publish sends an event; failures are logged and don't affect the game.
func (session *Session) publish(ctx context.Context, e events.Event) {
	if err := session.publisher.Publish(ctx, e); err != nil {
		klog.Warningf("Session %s: failed to publish event: %v", session.ID, err)
	}
}

func (session *Session) send(ctx context.Context, msgType game.MessageType, payload any) error {
	msg, err := game.NewWsMessage(msgType, payload)
	if err != nil {
		return fmt.Errorf("failed to create %s message: %w", msgType, err)
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, session.conn, msg); err != nil {
		return fmt.Errorf("%w: failed to send %s message: %w", errConnection, msgType, err)
	}
	return nil
}

func (session *Session) sendState(ctx context.Context) error {
	return session.send(ctx, game.MsgTypeState, game.StateMessage{
		SessionID: session.ID,
		Game:      session.Game.View(),
	})
}

func (session *Session) sendError(ctx context.Context, err error) error {
	return session.send(ctx, game.MsgTypeError, game.ErrorMessage{Message: err.Error()})
}
