package device

import (
	"context"
	"fmt"
)

// RoomPerfect controls the room correction focus position and voicing.
// Position 0 is bypass, 1 through 8 are focus positions, 9 is global.
type RoomPerfect struct {
	c *Client
}

// Position is a focus position or voicing selection
type Position struct {
	Index int
	Name  string
}

// DiscoverPositions lists the calibrated focus positions
func (r RoomPerfect) DiscoverPositions(ctx context.Context) ([]Entry, error) {
	lines, err := r.c.queryList(ctx, "!RPFOCS?")
	if err != nil {
		return nil, err
	}
	return parseList(lines, "!RPFOC"), nil
}

// GetPosition queries the active focus position
func (r RoomPerfect) GetPosition(ctx context.Context) (Position, error) {
	reply, err := r.c.query(ctx, "!RPFOC?")
	if err != nil {
		return Position{}, err
	}
	idx, name, err := parseIndexName(reply, "!RPFOC")
	if err != nil {
		return Position{}, err
	}
	return Position{Index: idx, Name: name}, nil
}

// SetPosition selects a focus position by index
func (r RoomPerfect) SetPosition(ctx context.Context, index int) error {
	return r.c.send(ctx, fmt.Sprintf("!RPFOC(%d)", index))
}

// NextPosition cycles to the next focus position
func (r RoomPerfect) NextPosition(ctx context.Context) error {
	return r.c.send(ctx, "!RPFOC+")
}

// PreviousPosition cycles to the previous focus position
func (r RoomPerfect) PreviousPosition(ctx context.Context) error {
	return r.c.send(ctx, "!RPFOC-")
}

// DiscoverVoicings lists the available voicings
func (r RoomPerfect) DiscoverVoicings(ctx context.Context) ([]Entry, error) {
	lines, err := r.c.queryList(ctx, "!RPVOIS?")
	if err != nil {
		return nil, err
	}
	return parseList(lines, "!RPVOI"), nil
}

// GetVoicing queries the active voicing
func (r RoomPerfect) GetVoicing(ctx context.Context) (Position, error) {
	reply, err := r.c.query(ctx, "!RPVOI?")
	if err != nil {
		return Position{}, err
	}
	idx, name, err := parseIndexName(reply, "!RPVOI")
	if err != nil {
		return Position{}, err
	}
	return Position{Index: idx, Name: name}, nil
}

// SetVoicing selects a voicing by index
func (r RoomPerfect) SetVoicing(ctx context.Context, index int) error {
	return r.c.send(ctx, fmt.Sprintf("!RPVOI(%d)", index))
}

// NextVoicing cycles to the next voicing
func (r RoomPerfect) NextVoicing(ctx context.Context) error {
	return r.c.send(ctx, "!RPVOI+")
}

// PreviousVoicing cycles to the previous voicing
func (r RoomPerfect) PreviousVoicing(ctx context.Context) error {
	return r.c.send(ctx, "!RPVOI-")
}
