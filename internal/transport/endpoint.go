package transport

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/nkarlsen/lyngctl/internal/models"
)

// EndpointKind distinguishes serial ports from TCP sockets
type EndpointKind string

const (
	EndpointSerial EndpointKind = "serial"
	EndpointSocket EndpointKind = "socket"
)

// Endpoint is a parsed endpoint string
type Endpoint struct {
	Kind EndpointKind

	// Device is the serial port path (serial endpoints only)
	Device string

	// Host and Port identify the TCP peer (socket endpoints only)
	Host string
	Port int

	// Raw is the original endpoint string
	Raw string
}

// Address returns the dial address for socket endpoints
func (e *Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String returns a canonical form of the endpoint
func (e *Endpoint) String() string {
	if e.Kind == EndpointSerial {
		return e.Device
	}
	return "socket://" + e.Address()
}

// ParseEndpoint classifies an endpoint string as a serial port or a TCP
// socket and extracts its parts. Socket endpoints may use the explicit
// "socket://host:port" form or a bare "host[:port]"; the port defaults
// to the processors' control port (84). Anything that looks like a
// filesystem path or a COM port is treated as serial.
func ParseEndpoint(s string) (*Endpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty endpoint")
	}

	// Explicit socket:// scheme (pyserial-style URL, kept for familiarity)
	if addr, ok := strings.CutPrefix(s, "socket://"); ok {
		host, port, err := splitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid socket endpoint %q: %w", s, err)
		}
		return &Endpoint{Kind: EndpointSocket, Host: host, Port: port, Raw: s}, nil
	}

	if strings.Contains(s, "://") {
		return nil, fmt.Errorf("unsupported endpoint scheme in %q", s)
	}

	// Path-like or COM port: serial
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, ".") ||
		strings.HasPrefix(strings.ToUpper(s), "COM") {
		return &Endpoint{Kind: EndpointSerial, Device: s, Raw: s}, nil
	}

	// host:port, bare hostname or IP: socket
	host, port, err := splitHostPort(s)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", s, err)
	}
	return &Endpoint{Kind: EndpointSocket, Host: host, Port: port, Raw: s}, nil
}

// splitHostPort splits "host[:port]", defaulting the port to 84
func splitHostPort(s string) (string, int, error) {
	if s == "" {
		return "", 0, fmt.Errorf("empty address")
	}

	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		// No port given; use the default control port
		return s, models.DefaultIPPort, nil
	}
	if host == "" {
		return "", 0, fmt.Errorf("missing host")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port %q", portStr)
	}
	return host, port, nil
}
