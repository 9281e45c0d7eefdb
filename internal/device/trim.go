package device

import (
	"context"
	"fmt"

	"github.com/nkarlsen/lyngctl/internal/models"
)

// TrimChannel names a channel trim group
type TrimChannel string

const (
	TrimBass      TrimChannel = "BASS"
	TrimTreble    TrimChannel = "TREB"
	TrimCenter    TrimChannel = "CENTER"
	TrimLFE       TrimChannel = "LFE"
	TrimSurrounds TrimChannel = "SURRS"
	TrimHeight    TrimChannel = "HEIGHT"
)

// trimRange returns the adjustment range for a channel in dB. Bass and
// treble allow 12 dB either way, the speaker groups 10 dB.
func trimRange(ch TrimChannel) float64 {
	switch ch {
	case TrimBass, TrimTreble:
		return 12.0
	default:
		return 10.0
	}
}

// Trim adjusts per-channel level trims in dB
type Trim struct {
	c *Client
}

// Get queries a channel trim in dB
func (t Trim) Get(ctx context.Context, ch TrimChannel) (float64, error) {
	prefix := "!TRIM" + string(ch)
	reply, err := t.c.query(ctx, prefix+"?")
	if err != nil {
		return 0, err
	}
	return parseDB(reply, prefix)
}

// Set sets a channel trim in dB, clamped to the channel's range
func (t Trim) Set(ctx context.Context, ch TrimChannel, db float64) error {
	limit := models.DBToProtocol(trimRange(ch))
	value := models.DBToProtocol(db)
	if value < -limit {
		value = -limit
	} else if value > limit {
		value = limit
	}
	return t.c.send(ctx, fmt.Sprintf("!TRIM%s(%d)", ch, value))
}

// DTSDialog adjusts DTS:X dialog control, available on the MP-60 when
// the stream carries dialog control metadata
type DTSDialog struct {
	c *Client
}

// ErrNotSupported is returned for commands the connected model does
// not implement
var ErrNotSupported = fmt.Errorf("not supported by this model")

// Available reports whether the current stream offers dialog control
func (d DTSDialog) Available(ctx context.Context) (bool, error) {
	if !d.c.model.SupportsDTSDialog {
		return false, nil
	}
	reply, err := d.c.query(ctx, "!DTSDIALOGAVAILABLE?")
	if err != nil {
		return false, err
	}
	return parseBool(reply, "!DTSDIALOGAVAILABLE")
}

// Get queries the dialog control level in dB
func (d DTSDialog) Get(ctx context.Context) (float64, error) {
	if !d.c.model.SupportsDTSDialog {
		return 0, ErrNotSupported
	}
	reply, err := d.c.query(ctx, "!DTSDIALOG?")
	if err != nil {
		return 0, err
	}
	return parseDB(reply, "!DTSDIALOG")
}

// Up raises the dialog control level
func (d DTSDialog) Up(ctx context.Context) error {
	if !d.c.model.SupportsDTSDialog {
		return ErrNotSupported
	}
	return d.c.send(ctx, "!DTSDIALOGUP")
}

// Down lowers the dialog control level
func (d DTSDialog) Down(ctx context.Context) error {
	if !d.c.model.SupportsDTSDialog {
		return ErrNotSupported
	}
	return d.c.send(ctx, "!DTSDIALOGDN")
}
