package device

import (
	"context"
	"fmt"

	"github.com/nkarlsen/lyngctl/internal/models"
)

// Volume controls the main zone volume. Levels are in dB; the
// processor's resolution is 0.1 dB.
type Volume struct {
	c *Client
}

// Set sets the volume, clamped to the model's range
func (v Volume) Set(ctx context.Context, db float64) error {
	value := v.c.model.ClampVolume(models.DBToProtocol(db))
	return v.c.sendVolume(ctx, fmt.Sprintf("!VOL(%d)", value))
}

// Up raises the volume by the processor's default step
func (v Volume) Up(ctx context.Context) error {
	return v.c.sendVolume(ctx, "!VOL+")
}

// UpBy raises the volume by the given amount in dB
func (v Volume) UpBy(ctx context.Context, db float64) error {
	return v.c.sendVolume(ctx, fmt.Sprintf("!VOL+(%d)", models.DBToProtocol(db)))
}

// Down lowers the volume by the processor's default step
func (v Volume) Down(ctx context.Context) error {
	return v.c.sendVolume(ctx, "!VOL-")
}

// DownBy lowers the volume by the given amount in dB
func (v Volume) DownBy(ctx context.Context, db float64) error {
	return v.c.sendVolume(ctx, fmt.Sprintf("!VOL-(%d)", models.DBToProtocol(db)))
}

// Get queries the current volume in dB
func (v Volume) Get(ctx context.Context) (float64, error) {
	reply, err := v.c.query(ctx, "!VOL?")
	if err != nil {
		return 0, err
	}
	return parseDB(reply, "!VOL")
}

// GetMax queries the configured maximum volume in dB
func (v Volume) GetMax(ctx context.Context) (float64, error) {
	reply, err := v.c.query(ctx, "!MAXVOL?")
	if err != nil {
		return 0, err
	}
	return parseDB(reply, "!MAXVOL")
}

// SetMax sets the maximum volume in dB
func (v Volume) SetMax(ctx context.Context, db float64) error {
	return v.c.send(ctx, fmt.Sprintf("!MAXVOL(%d)", models.DBToProtocol(db)))
}

// GetDefault queries the power-on default volume in dB
func (v Volume) GetDefault(ctx context.Context) (float64, error) {
	reply, err := v.c.query(ctx, "!DEFVOL?")
	if err != nil {
		return 0, err
	}
	return parseDB(reply, "!DEFVOL")
}

// SetDefault sets the power-on default volume in dB
func (v Volume) SetDefault(ctx context.Context, db float64) error {
	return v.c.send(ctx, fmt.Sprintf("!DEFVOL(%d)", models.DBToProtocol(db)))
}

// DisableDefault makes the processor resume the last volume on boot
func (v Volume) DisableDefault(ctx context.Context) error {
	return v.c.send(ctx, "!DEFVOL(OFF)")
}

// Mute controls main zone mute
type Mute struct {
	c *Client
}

// On mutes the main zone
func (m Mute) On(ctx context.Context) error {
	return m.c.send(ctx, "!MUTEON")
}

// Off unmutes the main zone
func (m Mute) Off(ctx context.Context) error {
	return m.c.send(ctx, "!MUTEOFF")
}

// Toggle flips the mute state
func (m Mute) Toggle(ctx context.Context) error {
	return m.c.send(ctx, "!MUTE")
}

// Get queries the mute state. The processor answers with !MUTEON or
// !MUTEOFF rather than a numeric argument.
func (m Mute) Get(ctx context.Context) (bool, error) {
	reply, err := m.c.query(ctx, "!MUTE?")
	if err != nil {
		return false, err
	}
	return reply == "!MUTEON", nil
}

// Loudness controls the loudness compensation filter
type Loudness struct {
	c *Client
}

// Set enables or disables loudness compensation
func (l Loudness) Set(ctx context.Context, enabled bool) error {
	value := 0
	if enabled {
		value = 1
	}
	return l.c.send(ctx, fmt.Sprintf("!LOUDNESS(%d)", value))
}

// Get queries the loudness compensation state
func (l Loudness) Get(ctx context.Context) (bool, error) {
	reply, err := l.c.query(ctx, "!LOUDNESS?")
	if err != nil {
		return false, err
	}
	return parseBool(reply, "!LOUDNESS")
}
