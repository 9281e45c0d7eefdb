package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nkarlsen/lyngctl/internal/logging"
	"github.com/nkarlsen/lyngctl/internal/protocol"
)

// Commander is the slice of the device client the bridge needs
type Commander interface {
	Raw(ctx context.Context, command string, waitForReply bool) (string, error)
	Subscribe(kind protocol.Kind, handler protocol.Handler) protocol.Subscription
	Unsubscribe(sub protocol.Subscription)
	Endpoint() string
	Connected() bool
}

// Config holds the bridge server configuration
type Config struct {
	Addr string // listen address, e.g. ":8084"
}

// Server pushes processor state over WebSocket and relays commands
type Server struct {
	cfg       Config
	commander Commander
	hub       *hub
	upgrader  websocket.Upgrader
	httpSrv   *http.Server
}

// New creates a bridge server for a connected processor
func New(cfg Config, commander Commander) *Server {
	s := &Server{
		cfg:       cfg,
		commander: commander,
		hub:       newHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The bridge is meant for the local network
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	return s
}

// Run serves until the context is cancelled
func (s *Server) Run(ctx context.Context) error {
	sub := s.commander.Subscribe(protocol.KindAny, s.onUpdate)
	defer s.commander.Unsubscribe(sub)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.handleWS(ctx, w, r)
	})
	mux.HandleFunc("/healthz", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: mux,
	}

	logging.Info("Bridge listening",
		zap.String("addr", s.cfg.Addr),
		zap.String("processor", s.commander.Endpoint()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.closeAll()
		s.httpSrv.Shutdown(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("bridge server failed: %w", err)
		}
		return nil
	}
}

// Handler returns the HTTP handler without starting a listener.
// Used by tests and by embedders that bring their own server.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.handleWS(ctx, w, r)
	})
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// onUpdate relays one processor state update to every client
func (s *Server) onUpdate(update protocol.StateUpdate) {
	data, err := json.Marshal(NewEvent(update))
	if err != nil {
		return
	}
	s.hub.broadcast(data)
}

func (s *Server) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	c := &client{
		srv:        s,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		remoteAddr: r.RemoteAddr,
	}
	s.hub.add(c)

	go c.writePump()
	go c.readPump(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := struct {
		Processor string `json:"processor"`
		Connected bool   `json:"connected"`
	}{
		Processor: s.commander.Endpoint(),
		Connected: s.commander.Connected(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
