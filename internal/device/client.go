package device

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nkarlsen/lyngctl/internal/logging"
	"github.com/nkarlsen/lyngctl/internal/models"
	"github.com/nkarlsen/lyngctl/internal/protocol"
)

// Options tunes the connection. The zero value uses the model's
// defaults.
type Options struct {
	ReplyTimeout   time.Duration
	ConnectTimeout time.Duration
	Serial         models.SerialParams

	// ListWindow is the idle window that terminates multi-line
	// discovery replies
	ListWindow time.Duration
}

// Client is a connected Lyngdorf processor. Control groups mirror the
// processor's command families.
type Client struct {
	eng   *protocol.Engine
	model models.Config

	// volThrottle spaces volume commands further apart than general
	// commands; the volume DSP drops commands that arrive faster
	volThrottle *protocol.Throttle
	listWindow  time.Duration

	Power       Power
	Volume      Volume
	Mute        Mute
	Source      Source
	RoomPerfect RoomPerfect
	AudioMode   AudioMode
	Trim        Trim
	Lipsync     Lipsync
	Loudness    Loudness
	DTSDialog   DTSDialog
	Zone2       Zone2
}

// Connect opens a connection to a processor and prepares it for use.
// The endpoint is a serial device path or host[:port]; modelID selects
// the command capabilities and volume range (mp50 or mp60).
//
// Verbosity is set to level 1 so the processor pushes status updates.
func Connect(ctx context.Context, modelID, endpoint string, opts Options) (*Client, error) {
	model, err := models.Lookup(modelID)
	if err != nil {
		return nil, err
	}

	serial := model.Serial
	if opts.Serial.BaudRate != 0 {
		serial = opts.Serial
	}

	eng, err := protocol.Connect(ctx, endpoint, protocol.Config{
		ReplyTimeout:    opts.ReplyTimeout,
		CommandInterval: model.CommandInterval,
		ConnectTimeout:  opts.ConnectTimeout,
		Serial:          serial,
	})
	if err != nil {
		return nil, err
	}

	c := newClient(eng, *model, opts)

	// Level 1: status updates without command echo
	if err := c.SetVerbosity(ctx, 1); err != nil {
		eng.Close()
		return nil, fmt.Errorf("failed to enable status updates: %w", err)
	}

	logging.Info("Connected to processor",
		zap.String("model", model.ID),
		zap.String("endpoint", endpoint),
	)
	return c, nil
}

// newClient wires the control groups around an engine
func newClient(eng *protocol.Engine, model models.Config, opts Options) *Client {
	listWindow := opts.ListWindow
	if listWindow <= 0 {
		listWindow = 200 * time.Millisecond
	}

	c := &Client{
		eng:         eng,
		model:       model,
		volThrottle: protocol.NewThrottle(model.VolumeCommandInterval),
		listWindow:  listWindow,
	}
	c.Power = Power{c: c}
	c.Volume = Volume{c: c}
	c.Mute = Mute{c: c}
	c.Source = Source{c: c}
	c.RoomPerfect = RoomPerfect{c: c}
	c.AudioMode = AudioMode{c: c}
	c.Trim = Trim{c: c}
	c.Lipsync = Lipsync{c: c}
	c.Loudness = Loudness{c: c}
	c.DTSDialog = DTSDialog{c: c}
	c.Zone2 = Zone2{
		Power:  Zone2Power{c: c},
		Volume: Zone2Volume{c: c},
		Mute:   Zone2Mute{c: c},
		Source: Zone2Source{c: c},
	}
	return c
}

// Model returns the model configuration this client was opened with
func (c *Client) Model() models.Config {
	return c.model
}

// Endpoint returns the connected endpoint
func (c *Client) Endpoint() string {
	return c.eng.Endpoint()
}

// Connected reports whether the underlying connection is up
func (c *Client) Connected() bool {
	return c.eng.Connected()
}

// Close shuts down the connection
func (c *Client) Close() error {
	return c.eng.Close()
}

// Subscribe registers a handler for pushed status updates
func (c *Client) Subscribe(kind protocol.Kind, handler protocol.Handler) protocol.Subscription {
	return c.eng.Subscribe(kind, handler)
}

// Unsubscribe removes a handler registered with Subscribe
func (c *Client) Unsubscribe(sub protocol.Subscription) {
	c.eng.Unsubscribe(sub)
}

// Raw sends a protocol command verbatim and returns the reply line.
// Intended for the CLI's send command and diagnostics.
func (c *Client) Raw(ctx context.Context, command string, waitForReply bool) (string, error) {
	return c.eng.Send(ctx, command, waitForReply)
}

// Name queries the device name
func (c *Client) Name(ctx context.Context) (string, error) {
	reply, err := c.eng.Send(ctx, "!DEVICE?", true)
	if err != nil {
		return "", err
	}
	return parseArg(reply, "!DEVICE")
}

// Ping checks the command channel round trip
func (c *Client) Ping(ctx context.Context) error {
	reply, err := c.eng.Send(ctx, "!PING?", true)
	if err != nil {
		return err
	}
	if reply != "!PONG" {
		return &protocol.ProtocolError{Line: reply, Message: "expected !PONG"}
	}
	return nil
}

// Interface queries which control interface is active (IP or SERIAL)
func (c *Client) Interface(ctx context.Context) (string, error) {
	reply, err := c.eng.Send(ctx, "!INTERFACE?", true)
	if err != nil {
		return "", err
	}
	return parseArg(reply, "!INTERFACE")
}

// SetVerbosity sets the feedback level: 0 silent, 1 status updates,
// 2 status updates plus command echo
func (c *Client) SetVerbosity(ctx context.Context, level int) error {
	if level < 0 {
		level = 0
	} else if level > 2 {
		level = 2
	}
	_, err := c.eng.Send(ctx, fmt.Sprintf("!VERB(%d)", level), false)
	return err
}

// Verbosity queries the current feedback level
func (c *Client) Verbosity(ctx context.Context) (int, error) {
	reply, err := c.eng.Send(ctx, "!VERB?", true)
	if err != nil {
		return 0, err
	}
	return parseInt(reply, "!VERB")
}

// send issues a command without waiting for a reply
func (c *Client) send(ctx context.Context, command string) error {
	_, err := c.eng.Send(ctx, command, false)
	return err
}

// query issues a command and returns the reply line
func (c *Client) query(ctx context.Context, command string) (string, error) {
	return c.eng.Send(ctx, command, true)
}

// queryList issues a discovery command whose reply spans several lines
func (c *Client) queryList(ctx context.Context, command string) ([]string, error) {
	return c.eng.SendMulti(ctx, command, c.listWindow)
}

// sendVolume issues a volume-path command with the wider volume
// command spacing applied on top of the engine's general throttle
func (c *Client) sendVolume(ctx context.Context, command string) error {
	if err := c.volThrottle.Wait(ctx); err != nil {
		return err
	}
	err := c.send(ctx, command)
	if err == nil {
		c.volThrottle.Mark()
	}
	return err
}
