package device

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nkarlsen/lyngctl/internal/models"
	"github.com/nkarlsen/lyngctl/internal/protocol"
	"github.com/nkarlsen/lyngctl/internal/transport"
)

// scriptedSession plays the processor side of the wire
type scriptedSession struct {
	reader  *io.PipeReader
	feed    *io.PipeWriter
	written chan string
	closed  atomic.Bool
}

func newScriptedSession() *scriptedSession {
	r, w := io.Pipe()
	return &scriptedSession{reader: r, feed: w, written: make(chan string, 16)}
}

func (s *scriptedSession) Read(p []byte) (int, error) { return s.reader.Read(p) }

func (s *scriptedSession) Write(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	s.written <- string(p)
	return len(p), nil
}

func (s *scriptedSession) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.reader.Close()
		s.feed.Close()
	}
	return nil
}

func (s *scriptedSession) Endpoint() string { return "test:84" }

func (s *scriptedSession) State() transport.State {
	if s.closed.Load() {
		return transport.StateDisconnected
	}
	return transport.StateConnected
}

func (s *scriptedSession) ClearInput() error { return nil }

// respond answers each expected command with the scripted reply
func (s *scriptedSession) respond(t *testing.T, script map[string]string) {
	t.Helper()
	go func() {
		for {
			cmd, ok := <-s.written
			if !ok {
				return
			}
			reply, found := script[cmd]
			if !found {
				continue
			}
			if reply != "" {
				s.feed.Write([]byte(reply))
			}
		}
	}()
}

func newTestClient(t *testing.T, modelID string) (*Client, *scriptedSession) {
	t.Helper()
	model, err := models.Lookup(modelID)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", modelID, err)
	}
	sess := newScriptedSession()
	eng := protocol.NewEngine(sess, protocol.Config{
		CommandInterval: -1,
		ReplyTimeout:    time.Second,
	})
	c := newClient(eng, *model, Options{ListWindow: 50 * time.Millisecond})
	c.volThrottle = protocol.NewThrottle(0)
	t.Cleanup(func() { c.Close() })
	return c, sess
}

func TestClientVolumeRoundTrip(t *testing.T) {
	c, sess := newTestClient(t, "mp60")
	sess.respond(t, map[string]string{
		"!VOL?\r": "!VOL(-425)\r",
	})

	got, err := c.Volume.Get(context.Background())
	if err != nil {
		t.Fatalf("Volume.Get() error = %v", err)
	}
	if got != -42.5 {
		t.Errorf("Volume.Get() = %v, want -42.5", got)
	}
}

func TestClientVolumeSetClamps(t *testing.T) {
	c, sess := newTestClient(t, "mp50")

	// +30 dB exceeds the MP-50's +20.0 dB ceiling
	if err := c.Volume.Set(context.Background(), 30.0); err != nil {
		t.Fatalf("Volume.Set() error = %v", err)
	}

	select {
	case cmd := <-sess.written:
		if cmd != "!VOL(200)\r" {
			t.Errorf("wrote %q, want clamped !VOL(200)", cmd)
		}
	case <-time.After(time.Second):
		t.Fatal("no command written")
	}
}

func TestClientPing(t *testing.T) {
	c, sess := newTestClient(t, "mp60")
	sess.respond(t, map[string]string{
		"!PING?\r": "!PONG\r",
	})

	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestClientMuteGet(t *testing.T) {
	c, sess := newTestClient(t, "mp60")
	sess.respond(t, map[string]string{
		"!MUTE?\r": "!MUTEON\r",
	})

	muted, err := c.Mute.Get(context.Background())
	if err != nil {
		t.Fatalf("Mute.Get() error = %v", err)
	}
	if !muted {
		t.Error("Mute.Get() = false, want true")
	}
}

func TestClientSourceDiscover(t *testing.T) {
	c, sess := newTestClient(t, "mp60")
	sess.respond(t, map[string]string{
		"!SRCS?\r": "!SRC(0)\"TV\"\r!SRC(1)\"\"\r!SRC(4)\"Roon\"\r",
	})

	sources, err := c.Source.Discover(context.Background())
	if err != nil {
		t.Fatalf("Source.Discover() error = %v", err)
	}
	// Unnamed sources fall back to the factory input name.
	want := []Entry{{0, "TV"}, {1, "HDMI"}, {4, "Roon"}}
	if len(sources) != len(want) {
		t.Fatalf("Discover() = %v, want %v", sources, want)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("source %d = %v, want %v", i, sources[i], want[i])
		}
	}
}

func TestClientTrimClamps(t *testing.T) {
	c, sess := newTestClient(t, "mp60")

	// Center allows 10 dB; 15 dB must clamp to 100
	if err := c.Trim.Set(context.Background(), TrimCenter, 15.0); err != nil {
		t.Fatalf("Trim.Set() error = %v", err)
	}
	select {
	case cmd := <-sess.written:
		if cmd != "!TRIMCENTER(100)\r" {
			t.Errorf("wrote %q, want !TRIMCENTER(100)", cmd)
		}
	case <-time.After(time.Second):
		t.Fatal("no command written")
	}

	// Bass allows the wider 12 dB range
	if err := c.Trim.Set(context.Background(), TrimBass, -15.0); err != nil {
		t.Fatalf("Trim.Set() error = %v", err)
	}
	select {
	case cmd := <-sess.written:
		if cmd != "!TRIMBASS(-120)\r" {
			t.Errorf("wrote %q, want !TRIMBASS(-120)", cmd)
		}
	case <-time.After(time.Second):
		t.Fatal("no command written")
	}
}

func TestClientDTSDialogUnsupported(t *testing.T) {
	c, _ := newTestClient(t, "mp50")

	if err := c.DTSDialog.Up(context.Background()); !errors.Is(err, ErrNotSupported) {
		t.Errorf("DTSDialog.Up() error = %v, want ErrNotSupported", err)
	}
	if _, err := c.DTSDialog.Get(context.Background()); !errors.Is(err, ErrNotSupported) {
		t.Errorf("DTSDialog.Get() error = %v, want ErrNotSupported", err)
	}

	// Availability is a plain false, not an error, on the MP-50
	avail, err := c.DTSDialog.Available(context.Background())
	if err != nil {
		t.Fatalf("DTSDialog.Available() error = %v", err)
	}
	if avail {
		t.Error("DTSDialog.Available() = true on mp50")
	}
}

func TestClientLipsyncRange(t *testing.T) {
	c, sess := newTestClient(t, "mp60")
	sess.respond(t, map[string]string{
		"!LIPSYNCRANGE?\r": "!LIPSYNCRANGE(0,500)\r",
	})

	r, err := c.Lipsync.Range(context.Background())
	if err != nil {
		t.Fatalf("Lipsync.Range() error = %v", err)
	}
	if r.Min != 0 || r.Max != 500 {
		t.Errorf("Range() = %+v, want {0 500}", r)
	}
}

func TestClientZone2(t *testing.T) {
	c, sess := newTestClient(t, "mp60")
	sess.respond(t, map[string]string{
		"!POWERZONE2?\r": "!POWERZONE2(1)\r",
		"!ZVOL?\r":       "!ZVOL(-510)\r",
		"!ZSRC?\r":       "!ZSRC(2)\"Kitchen\"\r",
	})

	on, err := c.Zone2.Power.Get(context.Background())
	if err != nil || !on {
		t.Errorf("Zone2.Power.Get() = %v, %v", on, err)
	}
	vol, err := c.Zone2.Volume.Get(context.Background())
	if err != nil || vol != -51.0 {
		t.Errorf("Zone2.Volume.Get() = %v, %v", vol, err)
	}
	src, err := c.Zone2.Source.Get(context.Background())
	if err != nil || src.Name != "Kitchen" {
		t.Errorf("Zone2.Source.Get() = %v, %v", src, err)
	}
}
