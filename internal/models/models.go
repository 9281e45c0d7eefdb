package models

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Connection defaults shared by all supported models
const (
	DefaultBaudRate = 115200
	DefaultTimeout  = 2 * time.Second
	DefaultIPPort   = 84

	// CommandEOL terminates commands sent to the device, ResponseEOL
	// terminates lines received from it. Both are a bare carriage return.
	CommandEOL  = "\r"
	ResponseEOL = "\r"
)

// Rate limiting between consecutive commands. Volume commands need a
// longer gap or the device starts dropping replies.
const (
	MinTimeBetweenVolumeCommands  = 100 * time.Millisecond
	MinTimeBetweenGeneralCommands = 50 * time.Millisecond
)

// SerialParams holds the RS-232 parameters for a model
type SerialParams struct {
	BaudRate int
	DataBits int
	Parity   string // "N", "E", "O"
	StopBits int
	Timeout  time.Duration
}

// Config describes the capabilities and timing of one processor model
type Config struct {
	ID          string
	Name        string
	Description string

	// Volume limits in protocol units (0.1 dB steps)
	MinVolume  int
	MaxVolume  int
	VolumeStep int

	// Optional features
	SupportsDTSDialog  bool
	SupportsStreamType bool
	Supports16ChAES    bool

	// Command pacing
	CommandInterval       time.Duration
	VolumeCommandInterval time.Duration

	Serial SerialParams
	IPPort int
}

// ClampVolume clamps a protocol-unit volume value to the model's range
func (c *Config) ClampVolume(value int) int {
	if value < c.MinVolume {
		return c.MinVolume
	}
	if value > c.MaxVolume {
		return c.MaxVolume
	}
	return value
}

var configs = map[string]*Config{
	"mp50": {
		ID:          "mp50",
		Name:        "MP-50",
		Description: "Lyngdorf MP-50 Surround Sound Processor",
		MinVolume:   -999, // -99.9 dB
		MaxVolume:   200,  // +20.0 dB
		VolumeStep:  1,

		CommandInterval:       MinTimeBetweenGeneralCommands,
		VolumeCommandInterval: MinTimeBetweenVolumeCommands,

		Serial: SerialParams{
			BaudRate: DefaultBaudRate,
			DataBits: 8,
			Parity:   "N",
			StopBits: 1,
			Timeout:  DefaultTimeout,
		},
		IPPort: DefaultIPPort,
	},
	"mp60": {
		ID:          "mp60",
		Name:        "MP-60",
		Description: "Lyngdorf MP-60 Surround Sound Processor",
		MinVolume:   -999, // -99.9 dB
		MaxVolume:   240,  // +24.0 dB
		VolumeStep:  1,

		SupportsDTSDialog:  true,
		SupportsStreamType: true,
		Supports16ChAES:    true, // optional module

		CommandInterval:       MinTimeBetweenGeneralCommands,
		VolumeCommandInterval: MinTimeBetweenVolumeCommands,

		Serial: SerialParams{
			BaudRate: DefaultBaudRate,
			DataBits: 8,
			Parity:   "N",
			StopBits: 1,
			Timeout:  DefaultTimeout,
		},
		IPPort: DefaultIPPort,
	},
}

// Lookup returns the configuration for a model ID (e.g. "mp50")
func Lookup(modelID string) (*Config, error) {
	cfg, ok := configs[modelID]
	if !ok {
		return nil, fmt.Errorf("unsupported model %q (supported: %v)", modelID, Supported())
	}
	return cfg, nil
}

// Supported returns the sorted list of supported model IDs
func Supported() []string {
	ids := make([]string, 0, len(configs))
	for id := range configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DBToProtocol converts a dB value to the protocol integer.
// The protocol uses 0.1 dB precision: -45.5 dB becomes -455.
func DBToProtocol(db float64) int {
	return int(math.Round(db * 10))
}

// ProtocolToDB converts a protocol integer to a dB value.
// -455 becomes -45.5 dB.
func ProtocolToDB(value int) float64 {
	return float64(value) / 10.0
}
