package frontend

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/GoSet/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// GlobalClientState manages the connection and the last game state received from the server.
type GlobalClientState struct {
	SessionID string
	Game      *game.View
	Hint      []int // Indices of the open cards of the last hint, cleared on every move.
	Error     string
	Conn      *websocket.Conn

	// Listeners for state updates
	Listeners map[string]func()
}

var State *GlobalClientState

func InitState() {
	if State == nil {
		klog.V(1).Infof("InitState: creating new state (was nil)")
		State = &GlobalClientState{
			Listeners: make(map[string]func()),
		}
	} else {
		klog.V(1).Infof("InitState: state already exists")
	}
}

func (s *GlobalClientState) Notify() {
	klog.V(1).Infof("GlobalClientState: Notifying %d listeners", len(s.Listeners))
	for _, l := range s.Listeners {
		if l != nil {
			l()
		}
	}
}

// ConnectWS connects to the server, which deals a new game for the connection.
func (s *GlobalClientState) ConnectWS() error {
	if s.Conn != nil {
		klog.Infof("ConnectWS: Closing existing connection")
		s.Conn.CloseNow()
	}

	u := app.Window().URL()
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	wsURL := fmt.Sprintf("%s://%s/ws", scheme, u.Host)
	klog.Infof("ConnectWS: Connecting to %s", wsURL)

	// We use a context that lasts for the duration of the connection setup.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		klog.Errorf("ConnectWS: Dial failed: %v", err)
		return fmt.Errorf("dial failed: %w", err)
	}

	s.Conn = conn
	klog.Infof("ConnectWS: Connected. Starting read loop.")
	go s.readLoop(conn)
	return nil
}

func (s *GlobalClientState) readLoop(conn *websocket.Conn) {
	ctx := context.Background()
	klog.Infof("readLoop: started")
	for {
		var msg game.WsMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			klog.Errorf("readLoop: WS read error: %v", err)
			if s.Conn == conn {
				s.Error = "Connection to the server lost."
				s.Notify()
			}
			break
		}

		klog.V(1).Infof("readLoop: received message type: %s", msg.Type)
		s.handleMessage(msg)
	}
}

func (s *GlobalClientState) handleMessage(msg game.WsMessage) {
	p, err := msg.Parse()
	if err != nil {
		klog.Errorf("handleMessage: Failed to parse %s message: %v", msg.Type, err)
		return
	}

	switch m := p.(type) {
	case *game.StateMessage:
		klog.V(1).Infof("handleMessage: %s", &m.Game)
		s.SessionID = m.SessionID
		s.Game = &m.Game
		s.Hint = nil
		s.Error = ""

	case *game.HintMessage:
		if m.Found {
			s.Hint = m.Indices[:]
		} else {
			s.Hint = nil
			s.Error = "No set on the table: deal three more cards."
		}

	case *game.ErrorMessage:
		klog.Warningf("handleMessage: Server error: %s", m.Message)
		s.Error = m.Message

	default:
		klog.Errorf("handleMessage: Unexpected message type %s", msg.Type)
		return
	}
	s.Notify()
}

// send a message to the server, if connected.
func (s *GlobalClientState) send(msgType game.MessageType, payload any) {
	if s.Conn == nil {
		return
	}
	msg, err := game.NewWsMessage(msgType, payload)
	if err != nil {
		klog.Errorf("send: Failed to create %s message: %v", msgType, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	if err := wsjson.Write(ctx, s.Conn, msg); err != nil {
		klog.Errorf("send: Failed to send %s message: %v", msgType, err)
	}
}

// SendNewGame asks the server to discard the current game and deal a new one.
func (s *GlobalClientState) SendNewGame() { s.send(game.MsgTypeNewGame, nil) }

// SendSelect selects or deselects the open card at index.
func (s *GlobalClientState) SendSelect(index int) {
	s.send(game.MsgTypeSelect, game.SelectMessage{Index: index})
}

// SendDeal asks for three more cards, or collects a pending match.
func (s *GlobalClientState) SendDeal() { s.send(game.MsgTypeDeal, nil) }

// SendShuffle shuffles the open cards.
func (s *GlobalClientState) SendShuffle() { s.send(game.MsgTypeShuffle, nil) }

// SendHint asks the server for a set among the open cards.
func (s *GlobalClientState) SendHint() { s.send(game.MsgTypeHint, nil) }
