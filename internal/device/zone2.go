package device

import (
	"context"
	"fmt"

	"github.com/nkarlsen/lyngctl/internal/models"
)

// Zone2 groups the second zone's controls
type Zone2 struct {
	Power  Zone2Power
	Volume Zone2Volume
	Mute   Zone2Mute
	Source Zone2Source
}

// Zone2Power controls zone 2 power
type Zone2Power struct {
	c *Client
}

func (p Zone2Power) On(ctx context.Context) error {
	return p.c.send(ctx, "!POWERONZONE2")
}

func (p Zone2Power) Off(ctx context.Context) error {
	return p.c.send(ctx, "!POWEROFFZONE2")
}

func (p Zone2Power) Get(ctx context.Context) (bool, error) {
	reply, err := p.c.query(ctx, "!POWERZONE2?")
	if err != nil {
		return false, err
	}
	return parseBool(reply, "!POWERZONE2")
}

// Zone2Volume controls zone 2 volume in dB
type Zone2Volume struct {
	c *Client
}

func (v Zone2Volume) Set(ctx context.Context, db float64) error {
	value := v.c.model.ClampVolume(models.DBToProtocol(db))
	return v.c.sendVolume(ctx, fmt.Sprintf("!ZVOL(%d)", value))
}

func (v Zone2Volume) Up(ctx context.Context) error {
	return v.c.sendVolume(ctx, "!ZVOL+")
}

func (v Zone2Volume) UpBy(ctx context.Context, db float64) error {
	return v.c.sendVolume(ctx, fmt.Sprintf("!ZVOL+(%d)", models.DBToProtocol(db)))
}

func (v Zone2Volume) Down(ctx context.Context) error {
	return v.c.sendVolume(ctx, "!ZVOL-")
}

func (v Zone2Volume) DownBy(ctx context.Context, db float64) error {
	return v.c.sendVolume(ctx, fmt.Sprintf("!ZVOL-(%d)", models.DBToProtocol(db)))
}

func (v Zone2Volume) Get(ctx context.Context) (float64, error) {
	reply, err := v.c.query(ctx, "!ZVOL?")
	if err != nil {
		return 0, err
	}
	return parseDB(reply, "!ZVOL")
}

// Zone2Mute controls zone 2 mute
type Zone2Mute struct {
	c *Client
}

func (m Zone2Mute) On(ctx context.Context) error {
	return m.c.send(ctx, "!ZMUTEON")
}

func (m Zone2Mute) Off(ctx context.Context) error {
	return m.c.send(ctx, "!ZMUTEOFF")
}

func (m Zone2Mute) Toggle(ctx context.Context) error {
	return m.c.send(ctx, "!ZMUTE")
}

func (m Zone2Mute) Get(ctx context.Context) (bool, error) {
	reply, err := m.c.query(ctx, "!ZMUTE?")
	if err != nil {
		return false, err
	}
	return reply == "!ZMUTEON", nil
}

// Zone2Source controls zone 2 input selection
type Zone2Source struct {
	c *Client
}

func (s Zone2Source) Discover(ctx context.Context) ([]Entry, error) {
	lines, err := s.c.queryList(ctx, "!ZSRCS?")
	if err != nil {
		return nil, err
	}
	return parseList(lines, "!ZSRC"), nil
}

func (s Zone2Source) Set(ctx context.Context, index int) error {
	return s.c.send(ctx, fmt.Sprintf("!ZSRC(%d)", index))
}

func (s Zone2Source) Get(ctx context.Context) (CurrentSource, error) {
	reply, err := s.c.query(ctx, "!ZSRC?")
	if err != nil {
		return CurrentSource{}, err
	}
	idx, name, err := parseIndexName(reply, "!ZSRC")
	if err != nil {
		return CurrentSource{}, err
	}
	return CurrentSource{Index: idx, Name: name}, nil
}

func (s Zone2Source) Next(ctx context.Context) error {
	return s.c.send(ctx, "!ZSRC+")
}

func (s Zone2Source) Previous(ctx context.Context) error {
	return s.c.send(ctx, "!ZSRC-")
}
