package device

import (
	"context"
	"fmt"

	"github.com/nkarlsen/lyngctl/internal/models"
)

// Source controls input selection for the main zone
type Source struct {
	c *Client
}

// CurrentSource is the selected input and its user-assigned name
type CurrentSource struct {
	Index int
	Name  string
}

// Discover lists the processor's enabled sources. Sources the user
// never renamed come back with an empty label; those get the factory
// input name.
func (s Source) Discover(ctx context.Context) ([]Entry, error) {
	lines, err := s.c.queryList(ctx, "!SRCS?")
	if err != nil {
		return nil, err
	}
	entries := parseList(lines, "!SRC")
	for i := range entries {
		if entries[i].Name == "" {
			entries[i].Name = models.AudioInputName(entries[i].Index)
		}
	}
	return entries, nil
}

// Set selects a source by index
func (s Source) Set(ctx context.Context, index int) error {
	return s.c.send(ctx, fmt.Sprintf("!SRC(%d)", index))
}

// Get queries the currently selected source
func (s Source) Get(ctx context.Context) (CurrentSource, error) {
	reply, err := s.c.query(ctx, "!SRC?")
	if err != nil {
		return CurrentSource{}, err
	}
	idx, name, err := parseIndexName(reply, "!SRC")
	if err != nil {
		return CurrentSource{}, err
	}
	return CurrentSource{Index: idx, Name: name}, nil
}

// Next selects the next source
func (s Source) Next(ctx context.Context) error {
	return s.c.send(ctx, "!SRC+")
}

// Previous selects the previous source
func (s Source) Previous(ctx context.Context) error {
	return s.c.send(ctx, "!SRC-")
}

// Info queries the name of a specific source without selecting it
func (s Source) Info(ctx context.Context, index int) (CurrentSource, error) {
	reply, err := s.c.query(ctx, fmt.Sprintf("!SRC(%d)?", index))
	if err != nil {
		return CurrentSource{}, err
	}
	idx, name, err := parseIndexName(reply, "!SRC")
	if err != nil {
		return CurrentSource{}, err
	}
	return CurrentSource{Index: idx, Name: name}, nil
}

// GetOffset queries the volume offset of the current source in dB
func (s Source) GetOffset(ctx context.Context) (float64, error) {
	reply, err := s.c.query(ctx, "!SRCOFF?")
	if err != nil {
		return 0, err
	}
	return parseDB(reply, "!SRCOFF")
}

// SetOffset sets the volume offset of the current source, clamped to
// the processor's -10.0 to +10.0 dB range
func (s Source) SetOffset(ctx context.Context, db float64) error {
	value := models.DBToProtocol(db)
	if value < -100 {
		value = -100
	} else if value > 100 {
		value = 100
	}
	return s.c.send(ctx, fmt.Sprintf("!SRCOFF(%d)", value))
}
