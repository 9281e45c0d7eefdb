package protocol

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nkarlsen/lyngctl/internal/transport"
)

// fakeSession is an in-memory transport. The test plays the processor:
// it observes commands on the written channel and feeds reply bytes
// through an io.Pipe into the engine's read loop.
type fakeSession struct {
	reader  *io.PipeReader
	feed    *io.PipeWriter
	written chan string
	clears  atomic.Int32
	closed  atomic.Bool
}

func newFakeSession() *fakeSession {
	r, w := io.Pipe()
	return &fakeSession{
		reader:  r,
		feed:    w,
		written: make(chan string, 16),
	}
}

func (f *fakeSession) Read(p []byte) (int, error) { return f.reader.Read(p) }

func (f *fakeSession) Write(p []byte) (int, error) {
	if f.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	f.written <- string(p)
	return len(p), nil
}

func (f *fakeSession) Close() error {
	if f.closed.CompareAndSwap(false, true) {
		f.reader.Close()
		f.feed.Close()
	}
	return nil
}

func (f *fakeSession) Endpoint() string { return "fake:84" }

func (f *fakeSession) State() transport.State {
	if f.closed.Load() {
		return transport.StateDisconnected
	}
	return transport.StateConnected
}

func (f *fakeSession) ClearInput() error {
	f.clears.Add(1)
	return nil
}

// push delivers device output to the engine
func (f *fakeSession) push(t *testing.T, s string) {
	t.Helper()
	if _, err := f.feed.Write([]byte(s)); err != nil {
		t.Fatalf("push(%q): %v", s, err)
	}
}

// expectCommand waits for the next command the engine wrote
func (f *fakeSession) expectCommand(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-f.written:
		if got != want {
			t.Fatalf("wrote %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("engine never wrote %q", want)
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeSession) {
	t.Helper()
	sess := newFakeSession()
	e := NewEngine(sess, Config{CommandInterval: -1, ReplyTimeout: time.Second})
	t.Cleanup(func() { e.Close() })
	return e, sess
}

func TestSendReply(t *testing.T) {
	e, sess := newTestEngine(t)

	go func() {
		sess.expectCommand(t, "!DEVICE?\r")
		sess.push(t, "!DEVICE(40)\"MP-60\"\r")
	}()

	reply, err := e.Send(context.Background(), "!DEVICE?", true)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != `!DEVICE(40)"MP-60"` {
		t.Errorf("reply = %q", reply)
	}
}

func TestSendSkipsEcho(t *testing.T) {
	e, sess := newTestEngine(t)

	go func() {
		sess.expectCommand(t, "!VOL?\r")
		sess.push(t, "#!VOL?\r!VOL(-300)\r")
	}()

	reply, err := e.Send(context.Background(), "!VOL?", true)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != "!VOL(-300)" {
		t.Errorf("reply = %q, want the line after the echo", reply)
	}
}

func TestSendNoWait(t *testing.T) {
	e, sess := newTestEngine(t)

	reply, err := e.Send(context.Background(), "!POWERONMAIN", false)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != "" {
		t.Errorf("reply = %q, want empty for fire-and-forget", reply)
	}
	sess.expectCommand(t, "!POWERONMAIN\r")
}

func TestSendTimeout(t *testing.T) {
	e, sess := newTestEngine(t)

	go func() {
		sess.expectCommand(t, "!PING?\r")
		// Only the echo comes back; the reply never does
		sess.push(t, "#!PING?\r")
	}()

	_, err := e.SendTimeout(context.Background(), "!PING?", true, 100*time.Millisecond)
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("Send() error = %v, want TimeoutError", err)
	}
	if te.Command != "!PING?" {
		t.Errorf("TimeoutError.Command = %q", te.Command)
	}
	if !strings.Contains(te.Partial, "#!PING?") {
		t.Errorf("TimeoutError.Partial = %q, want the echo recorded", te.Partial)
	}
}

func TestSlotReleasedAfterTimeout(t *testing.T) {
	e, sess := newTestEngine(t)

	go func() { sess.expectCommand(t, "!MUTE?\r") }()
	if _, err := e.SendTimeout(context.Background(), "!MUTE?", true, 50*time.Millisecond); err == nil {
		t.Fatal("first Send() succeeded, want timeout")
	}

	// A failed command must not wedge the engine
	go func() {
		sess.expectCommand(t, "!POWER?\r")
		sess.push(t, "!POWER(1)\r")
	}()
	reply, err := e.Send(context.Background(), "!POWER?", true)
	if err != nil {
		t.Fatalf("second Send() error = %v", err)
	}
	if reply != "!POWER(1)" {
		t.Errorf("reply = %q", reply)
	}
}

func TestReplyAlsoDispatched(t *testing.T) {
	e, sess := newTestEngine(t)

	updates := make(chan StateUpdate, 1)
	e.Subscribe(KindVolume, func(u StateUpdate) { updates <- u })

	go func() {
		sess.expectCommand(t, "!VOL?\r")
		sess.push(t, "!VOL(-300)\r")
	}()

	reply, err := e.Send(context.Background(), "!VOL?", true)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != "!VOL(-300)" {
		t.Errorf("reply = %q", reply)
	}

	select {
	case u := <-updates:
		if u.Fields[0] != "-300" {
			t.Errorf("update fields = %v", u.Fields)
		}
	case <-time.After(time.Second):
		t.Error("reply line was not dispatched as a state update")
	}
}

func TestUnsolicitedUpdate(t *testing.T) {
	e, sess := newTestEngine(t)

	updates := make(chan StateUpdate, 1)
	e.Subscribe(KindSource, func(u StateUpdate) { updates <- u })

	// No command pending; the processor pushes on its own
	sess.push(t, "!SRC(4)\"Blu-ray\"\r")

	select {
	case u := <-updates:
		if u.Fields[1] != "Blu-ray" {
			t.Errorf("update fields = %v", u.Fields)
		}
	case <-time.After(time.Second):
		t.Error("unsolicited update never reached the subscriber")
	}
}

func TestSendMulti(t *testing.T) {
	e, sess := newTestEngine(t)

	go func() {
		sess.expectCommand(t, "!SRCS?\r")
		sess.push(t, "#!SRCS?\r!SRC(0)\"TV\"\r!SRC(1)\"Blu-ray\"\r!SRC(4)\"Stream\"\r")
	}()

	lines, err := e.SendMulti(context.Background(), "!SRCS?", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("SendMulti() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(lines), lines)
	}
	if lines[2] != `!SRC(4)"Stream"` {
		t.Errorf("lines[2] = %q", lines[2])
	}
}

func TestConnectionLossFailsSend(t *testing.T) {
	e, sess := newTestEngine(t)

	go func() {
		sess.expectCommand(t, "!VOL?\r")
		sess.Close()
	}()

	_, err := e.Send(context.Background(), "!VOL?", true)
	var ce *ConnectionError
	if !errors.As(err, &ce) {
		t.Fatalf("Send() error = %v, want ConnectionError", err)
	}

	// Subsequent sends fail fast instead of waiting out the timeout
	start := time.Now()
	if _, err := e.Send(context.Background(), "!VOL?", true); !errors.As(err, &ce) {
		t.Fatalf("Send() after loss error = %v, want ConnectionError", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Send() after loss waited instead of failing fast")
	}
}

func TestCloseUnblocksWaiter(t *testing.T) {
	e, sess := newTestEngine(t)

	go func() {
		sess.expectCommand(t, "!MUTE?\r")
		e.Close()
	}()

	_, err := e.SendTimeout(context.Background(), "!MUTE?", true, 10*time.Second)
	var ce *ConnectionError
	if !errors.As(err, &ce) {
		t.Fatalf("Send() error = %v, want ConnectionError", err)
	}
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Send() error = %v, want ErrClosed in chain", err)
	}
	if e.Connected() {
		t.Error("Connected() = true after Close")
	}
}

func TestSendContextCancel(t *testing.T) {
	e, sess := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sess.expectCommand(t, "!SRC?\r")
		cancel()
	}()

	_, err := e.SendTimeout(ctx, "!SRC?", true, 10*time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Send() error = %v, want context.Canceled", err)
	}
}

func TestConcurrentSendsSerialized(t *testing.T) {
	e, sess := newTestEngine(t)

	const n = 5
	done := make(chan error, n)

	// Reply to each command as it arrives; interleaved writes would
	// break the lockstep and hang the responder
	go func() {
		for i := 0; i < n; i++ {
			select {
			case <-sess.written:
				sess.push(t, "!PONG\r")
			case <-time.After(5 * time.Second):
				return
			}
		}
	}()

	for i := 0; i < n; i++ {
		go func() {
			_, err := e.Send(context.Background(), "!PING?", true)
			done <- err
		}()
	}

	for i := 0; i < n; i++ {
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("concurrent Send() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("concurrent sends deadlocked")
		}
	}
}

func TestConcurrentSendsFIFOOrder(t *testing.T) {
	e, sess := newTestEngine(t)

	results := make(chan error, 4)
	send := func(cmd string) {
		_, err := e.Send(context.Background(), cmd, true)
		results <- err
	}

	// The first sender takes the in-flight slot and is held there
	// until its reply arrives
	go send("!DEVICE?")
	sess.expectCommand(t, "!DEVICE?\r")

	// Enqueue waiters one at a time; each stagger gives the previous
	// goroutine time to block on the slot, so arrival order is known
	waiters := []struct {
		command string
		reply   string
	}{
		{"!VOL?", "!VOL(-300)\r"},
		{"!MUTE?", "!MUTEOFF\r"},
		{"!SRC?", "!SRC(0)\"TV\"\r"},
	}
	for _, w := range waiters {
		go send(w.command)
		time.Sleep(100 * time.Millisecond)
	}

	// Release the first sender; the waiters must then reach the wire
	// in arrival order
	sess.push(t, "!DEVICE(40)\"MP-60\"\r")

	for _, w := range waiters {
		sess.expectCommand(t, w.command+"\r")
		sess.push(t, w.reply)
	}

	for i := 0; i < len(waiters)+1; i++ {
		select {
		case err := <-results:
			if err != nil {
				t.Errorf("Send() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("a sender never completed")
		}
	}
}

func TestClearInputBeforeEachCommand(t *testing.T) {
	e, sess := newTestEngine(t)

	go func() {
		sess.expectCommand(t, "!POWER?\r")
		sess.push(t, "!POWER(1)\r")
	}()
	if _, err := e.Send(context.Background(), "!POWER?", true); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got := sess.clears.Load(); got != 1 {
		t.Errorf("ClearInput called %d times, want 1", got)
	}
}
