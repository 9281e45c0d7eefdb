package transport

import (
	"fmt"
	"sync/atomic"

	"go.bug.st/serial"

	"github.com/nkarlsen/lyngctl/internal/logging"
	"github.com/nkarlsen/lyngctl/internal/models"
)

// serialSession is a Session over an RS-232 port
type serialSession struct {
	port     serial.Port
	endpoint string
	state    atomic.Int32
}

func openSerial(ep *Endpoint, cfg Config) (Session, error) {
	params := cfg.Serial
	if params.BaudRate == 0 {
		params.BaudRate = models.DefaultBaudRate
	}
	if params.DataBits == 0 {
		params.DataBits = 8
	}
	if params.StopBits == 0 {
		params.StopBits = 1
	}

	mode := &serial.Mode{
		BaudRate: params.BaudRate,
		DataBits: params.DataBits,
		Parity:   parityMode(params.Parity),
		StopBits: stopBitsMode(params.StopBits),
	}

	s := &serialSession{endpoint: ep.String()}
	s.state.Store(int32(StateConnecting))
	logging.LogConnection(s.endpoint, "serial_opening")

	port, err := serial.Open(ep.Device, mode)
	if err != nil {
		s.state.Store(int32(StateDisconnected))
		return nil, fmt.Errorf("failed to open serial port %s: %w", ep.Device, err)
	}

	s.port = port
	s.state.Store(int32(StateConnected))
	logging.LogConnection(s.endpoint, "serial_opened")
	return s, nil
}

func parityMode(p string) serial.Parity {
	switch p {
	case "E":
		return serial.EvenParity
	case "O":
		return serial.OddParity
	default:
		return serial.NoParity
	}
}

func stopBitsMode(n int) serial.StopBits {
	if n == 2 {
		return serial.TwoStopBits
	}
	return serial.OneStopBit
}

func (s *serialSession) Endpoint() string { return s.endpoint }

func (s *serialSession) State() State { return State(s.state.Load()) }

func (s *serialSession) Read(p []byte) (int, error) {
	n, err := s.port.Read(p)
	if err == nil && n == 0 {
		// go.bug.st/serial signals a closed port with a zero-byte read
		return 0, fmt.Errorf("serial port %s closed", s.endpoint)
	}
	return n, err
}

func (s *serialSession) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// ClearInput discards bytes buffered by the driver that have not been
// read yet, matching the pre-command buffer reset the protocol requires
func (s *serialSession) ClearInput() error {
	return s.port.ResetInputBuffer()
}

func (s *serialSession) Close() error {
	if !s.state.CompareAndSwap(int32(StateConnected), int32(StateDisconnected)) {
		return nil
	}
	logging.LogConnection(s.endpoint, "serial_closed")
	return s.port.Close()
}
