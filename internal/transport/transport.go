package transport

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nkarlsen/lyngctl/internal/models"
)

// State describes the lifecycle of a session
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// Config holds connection parameters for opening a session
type Config struct {
	// ConnectTimeout bounds the dial/open. Zero means DefaultConnectTimeout.
	ConnectTimeout time.Duration

	// Serial holds the RS-232 line parameters. Zero-value fields fall
	// back to the processors' fixed defaults (115200 8N1).
	Serial models.SerialParams
}

// DefaultConnectTimeout is used when Config.ConnectTimeout is zero
const DefaultConnectTimeout = 5 * time.Second

func (c *Config) connectTimeout() time.Duration {
	if c.ConnectTimeout > 0 {
		return c.ConnectTimeout
	}
	return DefaultConnectTimeout
}

// Session is a connected byte stream to a device.
//
// Read and Write follow io semantics; Read blocks until bytes arrive or
// the connection fails. ClearInput discards any bytes the device has
// sent that have not been read yet, so a new command cycle starts from
// a clean buffer. Close transitions the session to Disconnected and
// unblocks a pending Read.
type Session interface {
	io.ReadWriteCloser

	// Endpoint returns the endpoint string the session was opened with
	Endpoint() string

	// State returns the current lifecycle state
	State() State

	// ClearInput discards unread input buffered by the OS or driver
	ClearInput() error
}

// Open establishes a session to the given endpoint. The endpoint kind
// (serial vs socket) is inferred from its shape; see ParseEndpoint.
func Open(ctx context.Context, endpoint string, cfg Config) (Session, error) {
	ep, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	switch ep.Kind {
	case EndpointSerial:
		return openSerial(ep, cfg)
	case EndpointSocket:
		return openSocket(ctx, ep, cfg)
	default:
		return nil, fmt.Errorf("unsupported endpoint kind %q", ep.Kind)
	}
}
