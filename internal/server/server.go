package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/janpfeifer/GoSet/internal/events"
	"github.com/janpfeifer/GoSet/internal/frontend"
	"github.com/janpfeifer/GoSet/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// options of Run.
type options struct {
	publisher       events.Publisher
	webDir          string
	shutdownTimeout time.Duration
	newGame         func() *game.Game
}

// Option configures Run.
type Option func(*options)

// WithPublisher sets where game events are published. By default they are dropped.
func WithPublisher(p events.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithWebDir sets the directory of the static assets served under /web/.
func WithWebDir(dir string) Option {
	return func(o *options) { o.webDir = dir }
}

// WithShutdownTimeout bounds the graceful shutdown once the context is canceled.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) { o.shutdownTimeout = d }
}

// WithNewGame sets how games are created. Mostly for tests, to use a known deck.
func WithNewGame(newGame func() *game.Game) Option {
	return func(o *options) { o.newGame = newGame }
}

// Run starts the server and blocks until the context is canceled.
//
// If addr is empty, it listens on an automatic port on localhost.
// Once listening, the server state (with the actual Address) is sent to started, if not nil.
func Run(ctx context.Context, addr string, started chan<- *ServerState, opts ...Option) error {
	o := options{
		webDir:          "web",
		shutdownTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// Initialize global client state for server-side prerendering without panic
	frontend.InitState()

	// Initialize server state
	serverState := NewServerState(o.publisher)
	if o.newGame != nil {
		serverState.NewGame = o.newGame
	}

	// Register go-app routes so the server knows how to prerender them
	app.Route("/", func() app.Composer { return &frontend.Board{} })

	// The web assets and the compiled webassembly
	// are served natively by the go-app framework
	h := &app.Handler{
		Name:        "GoSet",
		Description: "Find sets of three cards",
		Version:     game.Version,
		Styles: []string{
			"/web/css/pico.min.css", // Load pico.css
			"/web/css/main.css",     // Custom styles if any
		},
	}

	pages := http.NewServeMux()
	pages.HandleFunc("/healthz", serverState.handleHealth)
	pages.Handle("/web/", http.StripPrefix("/web/", http.FileServer(http.Dir(o.webDir))))
	pages.Handle("/", h)

	// The WebSocket endpoint is kept out of the access log wrapper: it needs to hijack the connection.
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", serverState.HandleWS)
	mux.Handle("/", handlers.CombinedLoggingHandler(klog.NewStandardLogger("INFO").Writer(), pages))

	handler := handlers.RecoveryHandler(
		handlers.RecoveryLogger(klog.NewStandardLogger("ERROR")),
		handlers.PrintRecoveryStack(true),
	)(mux)

	if addr == "" {
		addr = "localhost:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %q: %w", addr, err)
	}
	serverState.Address = listener.Addr().String()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		klog.Infof("Server started on %s", serverState.Address)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.Errorf("Server error: %v", err)
		}
	}()
	if started != nil {
		started <- serverState
	}

	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), o.shutdownTimeout)
	defer cancel()

	klog.Infof("Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// healthResponse is the body of /healthz.
type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}

func (s *ServerState) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{
		Status:   "ok",
		Version:  game.Version,
		Sessions: s.NumSessions(),
	}); err != nil {
		klog.Errorf("handleHealth: failed to write response: %v", err)
	}
}
