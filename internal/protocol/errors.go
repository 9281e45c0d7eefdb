package protocol

import (
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by operations on an engine after Close
var ErrClosed = errors.New("protocol engine closed")

// ConnectionError indicates the transport is unavailable or was lost.
// The engine never retries internally; the caller decides the
// reconnection policy.
type ConnectionError struct {
	Endpoint string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connection error (%s): %s: %v", e.Endpoint, e.Message, e.Err)
	}
	return fmt.Sprintf("connection error (%s): %s", e.Endpoint, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates a ConnectionError
func NewConnectionError(endpoint, message string, err error) *ConnectionError {
	return &ConnectionError{Endpoint: endpoint, Message: message, Err: err}
}

// TimeoutError indicates no qualifying reply arrived within the
// deadline. Partial carries whatever input was received during the
// wait, for diagnostics.
type TimeoutError struct {
	Command string
	Timeout time.Duration
	Partial string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("timeout waiting %s for reply to %q (received: %q)",
			e.Timeout, e.Command, e.Partial)
	}
	return fmt.Sprintf("timeout waiting %s for reply to %q", e.Timeout, e.Command)
}

// ProtocolError is reserved for frames that cannot be classified at
// all. It is logged and the line discarded; it is never fatal to the
// engine.
type ProtocolError struct {
	Line    string
	Message string
}

// Error implements the error interface
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s (line %q)", e.Message, e.Line)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsConnectionError reports whether err is (or wraps) a ConnectionError
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
