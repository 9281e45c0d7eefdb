package protocol

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/nkarlsen/lyngctl/internal/logging"
	"github.com/nkarlsen/lyngctl/internal/models"
	"github.com/nkarlsen/lyngctl/internal/transport"
)

// Config holds protocol engine tuning. Zero values fall back to the
// processors' defaults.
type Config struct {
	// ReplyTimeout bounds the wait for a command reply (default 2s)
	ReplyTimeout time.Duration

	// CommandInterval is the minimum gap between consecutive commands
	// (default 50ms)
	CommandInterval time.Duration

	// EOL terminates outgoing commands and incoming lines (default CR)
	EOL byte

	// ConnectTimeout bounds transport establishment
	ConnectTimeout time.Duration

	// Serial holds RS-232 parameters for serial endpoints
	Serial models.SerialParams
}

func (c Config) withDefaults() Config {
	if c.ReplyTimeout <= 0 {
		c.ReplyTimeout = models.DefaultTimeout
	}
	if c.CommandInterval < 0 {
		c.CommandInterval = 0
	} else if c.CommandInterval == 0 {
		c.CommandInterval = models.MinTimeBetweenGeneralCommands
	}
	if c.EOL == 0 {
		c.EOL = models.CommandEOL[0]
	}
	return c
}

// Engine is the protocol core: it owns the transport session, enforces
// the single-command-in-flight discipline, throttles sends, and fans
// every received line out to the pending reply waiter and the state
// update dispatcher.
type Engine struct {
	session    transport.Session
	cfg        Config
	throttle   *Throttle
	dispatcher *Dispatcher

	// sendSlot is a capacity-1 semaphore. Blocked senders are woken in
	// FIFO order by the runtime, which gives arrival-order fairness
	// that sync.Mutex does not guarantee.
	sendSlot chan struct{}

	// pending is the in-flight command's reply channel, nil when no
	// command is waiting. At most one is ever open.
	mu      sync.Mutex
	pending chan string

	connected atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
	readDone  chan struct{}
}

// Connect opens a transport session to the endpoint and starts the
// engine's read loop
func Connect(ctx context.Context, endpoint string, cfg Config) (*Engine, error) {
	sess, err := transport.Open(ctx, endpoint, transport.Config{
		ConnectTimeout: cfg.ConnectTimeout,
		Serial:         cfg.Serial,
	})
	if err != nil {
		return nil, NewConnectionError(endpoint, "failed to open transport", err)
	}
	return NewEngine(sess, cfg), nil
}

// NewEngine wraps an already-connected session. The engine takes
// ownership of the session and starts reading immediately.
func NewEngine(sess transport.Session, cfg Config) *Engine {
	e := &Engine{
		session:    sess,
		cfg:        cfg.withDefaults(),
		dispatcher: NewDispatcher(),
		sendSlot:   make(chan struct{}, 1),
		done:       make(chan struct{}),
		readDone:   make(chan struct{}),
	}
	e.throttle = NewThrottle(e.cfg.CommandInterval)
	e.connected.Store(true)

	go e.readLoop()
	return e
}

// Endpoint returns the endpoint this engine is connected to
func (e *Engine) Endpoint() string {
	return e.session.Endpoint()
}

// Connected reports whether the transport is still up
func (e *Engine) Connected() bool {
	return e.connected.Load()
}

// ConnectivityState returns the transport session state
func (e *Engine) ConnectivityState() transport.State {
	return e.session.State()
}

// Subscribe registers a handler for state updates of the given kind
// (KindAny for all). Updates are delivered in registration order,
// kind-specific handlers before catch-all handlers.
func (e *Engine) Subscribe(kind Kind, handler Handler) Subscription {
	return e.dispatcher.Subscribe(kind, handler)
}

// Unsubscribe removes a handler registered with Subscribe
func (e *Engine) Unsubscribe(sub Subscription) {
	e.dispatcher.Unsubscribe(sub)
}

// Send issues a command and, when waitForReply is true, returns the
// first non-echo reply line. The default reply timeout applies.
func (e *Engine) Send(ctx context.Context, command string, waitForReply bool) (string, error) {
	return e.SendTimeout(ctx, command, waitForReply, e.cfg.ReplyTimeout)
}

// SendTimeout is Send with an explicit reply deadline.
//
// At most one command is in flight at a time. Concurrent callers are
// admitted in arrival order. Each cycle clears stale buffered input
// before writing so a late reply to an earlier command can never
// satisfy this one. The slot is released on every exit path.
func (e *Engine) SendTimeout(ctx context.Context, command string, waitForReply bool, timeout time.Duration) (string, error) {
	if err := e.acquire(ctx); err != nil {
		return "", err
	}
	defer e.release()

	replyCh, err := e.issue(ctx, command, waitForReply)
	if err != nil || !waitForReply {
		return "", err
	}
	defer e.clearPending()

	return e.awaitReply(ctx, command, replyCh, timeout)
}

// SendMulti issues a command whose reply spans multiple lines (source
// and preset discovery). It returns every non-echo line received: the
// first must arrive within the reply timeout, and collection stops once
// the stream has been idle for the given window.
func (e *Engine) SendMulti(ctx context.Context, command string, window time.Duration) ([]string, error) {
	if window <= 0 {
		window = 200 * time.Millisecond
	}

	if err := e.acquire(ctx); err != nil {
		return nil, err
	}
	defer e.release()

	replyCh, err := e.issue(ctx, command, true)
	if err != nil {
		return nil, err
	}
	defer e.clearPending()

	first, err := e.awaitReply(ctx, command, replyCh, e.cfg.ReplyTimeout)
	if err != nil {
		return nil, err
	}

	lines := []string{first}
	idle := time.NewTimer(window)
	defer idle.Stop()

	for {
		select {
		case line := <-replyCh:
			if Classify(line).Class == ClassEcho {
				continue
			}
			lines = append(lines, line)
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(window)
		case <-idle.C:
			return lines, nil
		case <-ctx.Done():
			return lines, ctx.Err()
		case <-e.done:
			return lines, e.disconnectError("connection lost while collecting reply")
		}
	}
}

// Close shuts the engine down: the read loop stops, any suspended Send
// fails with a ConnectionError, and the transport session is closed.
// Close is idempotent.
func (e *Engine) Close() error {
	e.shutdown(nil)
	err := e.session.Close()
	<-e.readDone
	return err
}

// acquire takes the single in-flight-command slot
func (e *Engine) acquire(ctx context.Context) error {
	select {
	case e.sendSlot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return e.disconnectError("engine closed")
	}
}

func (e *Engine) release() {
	<-e.sendSlot
}

// issue performs the front half of a command cycle: throttle, clear
// stale input, register the pending reply slot, write. The returned
// channel is nil when waitForReply is false.
func (e *Engine) issue(ctx context.Context, command string, waitForReply bool) (chan string, error) {
	if !e.connected.Load() {
		return nil, e.disconnectError("not connected")
	}

	if err := e.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	// Discard anything the device sent before this command existed.
	// Deliberate: a stale reply must never satisfy the new request.
	if err := e.session.ClearInput(); err != nil {
		logging.Warn("Failed to clear transport input",
			zap.String("endpoint", e.Endpoint()),
			zap.Error(err),
		)
	}

	var replyCh chan string
	if waitForReply {
		replyCh = make(chan string, 32)
	}
	e.mu.Lock()
	e.pending = replyCh
	e.mu.Unlock()

	wire := command + string(e.cfg.EOL)
	logging.LogLine(e.Endpoint(), "sent", wire)

	e.throttle.Mark()
	if _, err := e.session.Write([]byte(wire)); err != nil {
		e.clearPending()
		return nil, NewConnectionError(e.Endpoint(), "write failed", err)
	}

	return replyCh, nil
}

// awaitReply waits for the first non-echo line on replyCh
func (e *Engine) awaitReply(ctx context.Context, command string, replyCh chan string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var partial []string
	for {
		select {
		case line := <-replyCh:
			cl := Classify(line)
			if cl.Class == ClassEcho {
				// Echo never satisfies the wait; keep reading
				partial = append(partial, line)
				continue
			}
			return cl.Text, nil

		case <-timer.C:
			partialText := strings.Join(partial, "\\r")
			logging.Warn("Timeout waiting for reply",
				zap.String("endpoint", e.Endpoint()),
				zap.String("command", command),
				zap.Duration("timeout", timeout),
				zap.String("received", partialText),
			)
			return "", &TimeoutError{Command: command, Timeout: timeout, Partial: partialText}

		case <-ctx.Done():
			return "", ctx.Err()

		case <-e.done:
			return "", e.disconnectError("connection lost while waiting for reply")
		}
	}
}

func (e *Engine) clearPending() {
	e.mu.Lock()
	e.pending = nil
	e.mu.Unlock()
}

// readLoop drains the transport for the lifetime of the connection. It
// runs whether or not a command is pending: unsolicited updates arrive
// at any time, and reply bytes must be captured without loss.
func (e *Engine) readLoop() {
	defer close(e.readDone)

	scanner := bufio.NewScanner(e.session)
	scanner.Split(splitOnEOL(e.cfg.EOL))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		logging.LogLine(e.Endpoint(), "received", line)
		e.handleLine(line)
	}

	// A single malformed line never lands here; only transport failure
	// or Close ends the scan
	e.shutdown(scanner.Err())
}

// handleLine routes one received line. The reply path and the push
// path are not exclusive: a line is offered to the pending reply slot
// (if any) and, independently, dispatched to subscribers when it
// matches a state update pattern.
func (e *Engine) handleLine(line string) {
	cl := Classify(line)

	if cl.Class == ClassStateUpdate {
		logging.Debug("State update",
			zap.String("endpoint", e.Endpoint()),
			zap.String("kind", string(cl.Update.Kind)),
			zap.Strings("fields", cl.Update.Fields),
		)
		e.dispatcher.Dispatch(*cl.Update)
	}

	e.mu.Lock()
	pending := e.pending
	e.mu.Unlock()

	delivered := false
	if pending != nil {
		select {
		case pending <- line:
			delivered = true
		default:
			// Waiter is far behind; protocol chatter, not a hard error
		}
	}

	if !delivered && cl.Class == ClassReply {
		logging.Debug("Discarding line with no pending request",
			zap.String("endpoint", e.Endpoint()),
			zap.String("line", logging.EscapeLine(line)),
		)
	}
}

// shutdown marks the engine dead and wakes every waiter. Safe to call
// from the read loop and from Close.
func (e *Engine) shutdown(err error) {
	e.closeOnce.Do(func() {
		e.connected.Store(false)
		e.closeErr = err
		close(e.done)
		if err != nil {
			logging.Warn("Connection lost",
				zap.String("endpoint", e.Endpoint()),
				zap.Error(err),
			)
		} else {
			logging.LogConnection(e.Endpoint(), "engine_closed")
		}
	})
}

func (e *Engine) disconnectError(message string) error {
	err := e.closeErr
	if err == nil {
		err = ErrClosed
	}
	return NewConnectionError(e.Endpoint(), message, err)
}

// splitOnEOL returns a bufio.SplitFunc that frames lines on the given
// terminator byte. A trailing unterminated fragment is returned at EOF
// so diagnostics do not lose partial input.
func splitOnEOL(eol byte) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if i := bytes.IndexByte(data, eol); i >= 0 {
			return i + 1, data[:i], nil
		}
		if atEOF && len(data) > 0 {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
}
