// Package events publishes what happens in games to interested listeners (e.g.: a scoreboard),
// over NATS when configured.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/janpfeifer/GoSet/internal/game"
	"github.com/nats-io/nats.go"
	"k8s.io/klog/v2"
)

// Type of event.
type Type string

const (
	GameStarted  Type = "game_started"  // A new game was dealt.
	TrioSelected Type = "trio_selected" // Three cards were selected and scored, not yet taken off the table.
	GameOver     Type = "game_over"     // Deck empty and no match left on the table.
)

// Event is a summary of a game at the moment something happened.
type Event struct {
	Type      Type      `json:"type"`
	SessionID string    `json:"session_id"`
	Match     bool      `json:"match,omitempty"` // Only for TrioSelected.
	Score     int       `json:"score"`
	Matched   int       `json:"matched"`
	DeckSize  int       `json:"deck_size"`
	Time      time.Time `json:"time"`
}

// New creates an event of the given type from the current view of a game.
func New(eventType Type, sessionID string, view game.View) Event {
	return Event{
		Type:      eventType,
		SessionID: sessionID,
		Match:     eventType == TrioSelected && view.SelectedMatch,
		Score:     view.Score,
		Matched:   view.Matched,
		DeckSize:  view.DeckSize,
		Time:      time.Now(),
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

// Nop is a Publisher that drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close()                               {}

// NATSPublisher publishes events as JSON to "<prefix>.<event type>".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, subjectPrefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("goset"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				klog.Warningf("events: disconnected from NATS: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			klog.Infof("events: reconnected to NATS at %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %q: %w", url, err)
	}
	klog.Infof("events: publishing to NATS at %s, subject prefix %q", conn.ConnectedUrl(), subjectPrefix)
	return &NATSPublisher{conn: conn, prefix: subjectPrefix}, nil
}

// Subject returns the subject events of the given type are published to.
func (p *NATSPublisher) Subject(eventType Type) string {
	return Subject(p.prefix, eventType)
}

// Subject joins a subject prefix and an event type.
func Subject(prefix string, eventType Type) string {
	return prefix + "." + string(eventType)
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(p.Subject(e.Type), data); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	return nil
}

// Close flushes pending events and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		klog.Warningf("events: failed to drain NATS connection: %v", err)
		p.conn.Close()
	}
}
