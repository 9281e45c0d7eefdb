package transport

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/nkarlsen/lyngctl/internal/logging"
)

// socketSession is a Session over a TCP connection to the processor's
// IP control port
type socketSession struct {
	conn     net.Conn
	endpoint string
	state    atomic.Int32
}

func openSocket(ctx context.Context, ep *Endpoint, cfg Config) (Session, error) {
	s := &socketSession{endpoint: ep.String()}
	s.state.Store(int32(StateConnecting))
	logging.LogConnection(s.endpoint, "tcp_connecting")

	dialer := net.Dialer{Timeout: cfg.connectTimeout()}
	conn, err := dialer.DialContext(ctx, "tcp", ep.Address())
	if err != nil {
		s.state.Store(int32(StateDisconnected))
		return nil, fmt.Errorf("failed to connect to %s: %w", ep.Address(), err)
	}

	// Command/reply traffic is tiny and latency-sensitive
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}

	s.conn = conn
	s.state.Store(int32(StateConnected))
	logging.LogConnection(s.endpoint, "tcp_connected")
	return s, nil
}

func (s *socketSession) Endpoint() string { return s.endpoint }

func (s *socketSession) State() State { return State(s.state.Load()) }

func (s *socketSession) Read(p []byte) (int, error) {
	return s.conn.Read(p)
}

func (s *socketSession) Write(p []byte) (int, error) {
	return s.conn.Write(p)
}

// ClearInput is a no-op for sockets. The engine's continuous read loop
// keeps the socket drained into its own line queue, and the engine
// discards queued stale lines before each command; poking the socket
// here would race with the blocked read.
func (s *socketSession) ClearInput() error {
	return nil
}

func (s *socketSession) Close() error {
	if !s.state.CompareAndSwap(int32(StateConnected), int32(StateDisconnected)) {
		return nil
	}
	logging.LogConnection(s.endpoint, "tcp_closed")
	return s.conn.Close()
}
