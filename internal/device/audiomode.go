package device

import (
	"context"
	"fmt"
)

// AudioMode controls the audio processing mode (native, Dolby upmix,
// DTS Neural:X and so on; the set depends on the active stream)
type AudioMode struct {
	c *Client
}

// Discover lists the processing modes available for the current stream
func (a AudioMode) Discover(ctx context.Context) ([]Entry, error) {
	lines, err := a.c.queryList(ctx, "!AUDMODEL?")
	if err != nil {
		return nil, err
	}
	return parseList(lines, "!AUDMODE"), nil
}

// Get queries the active processing mode
func (a AudioMode) Get(ctx context.Context) (Position, error) {
	reply, err := a.c.query(ctx, "!AUDMODE?")
	if err != nil {
		return Position{}, err
	}
	idx, name, err := parseIndexName(reply, "!AUDMODE")
	if err != nil {
		return Position{}, err
	}
	return Position{Index: idx, Name: name}, nil
}

// Set selects a processing mode by index
func (a AudioMode) Set(ctx context.Context, index int) error {
	return a.c.send(ctx, fmt.Sprintf("!AUDMODE(%d)", index))
}

// Next cycles to the next processing mode
func (a AudioMode) Next(ctx context.Context) error {
	return a.c.send(ctx, "!AUDMODE+")
}

// Previous cycles to the previous processing mode
func (a AudioMode) Previous(ctx context.Context) error {
	return a.c.send(ctx, "!AUDMODE-")
}
