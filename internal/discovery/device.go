package discovery

import (
	"fmt"
	"time"
)

// Device represents a discovered Lyngdorf processor
type Device struct {
	// Model is the model identifier (mp50, mp60)
	Model string

	// Hostname is the mDNS hostname (e.g. "mp-60-123456.local")
	Hostname string

	// IP is the resolved address, IPv4 preferred
	IP string

	// Port is the control protocol port (84)
	Port int

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable description
func (d *Device) String() string {
	return fmt.Sprintf("Lyngdorf %s (%s) at %s:%d", d.Model, d.Hostname, d.IP, d.Port)
}

// Endpoint returns the address to pass to the protocol engine
func (d *Device) Endpoint() string {
	return fmt.Sprintf("%s:%d", d.IP, d.Port)
}

// GetMetadata retrieves a TXT record value, empty if absent
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
