package device

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nkarlsen/lyngctl/internal/protocol"
)

// Lipsync controls the audio delay used to line up sound with video
type Lipsync struct {
	c *Client
}

// LipsyncRange is the valid delay window in milliseconds. The bounds
// depend on the active video mode.
type LipsyncRange struct {
	Min int
	Max int
}

// Get queries the lipsync delay in milliseconds
func (l Lipsync) Get(ctx context.Context) (int, error) {
	reply, err := l.c.query(ctx, "!LIPSYNC?")
	if err != nil {
		return 0, err
	}
	return parseInt(reply, "!LIPSYNC")
}

// Set sets the lipsync delay in milliseconds
func (l Lipsync) Set(ctx context.Context, ms int) error {
	return l.c.send(ctx, fmt.Sprintf("!LIPSYNC(%d)", ms))
}

// Up raises the delay by 5 ms
func (l Lipsync) Up(ctx context.Context) error {
	return l.c.send(ctx, "!LIPSYNC+")
}

// Down lowers the delay by 5 ms
func (l Lipsync) Down(ctx context.Context) error {
	return l.c.send(ctx, "!LIPSYNC-")
}

// Range queries the valid delay window
func (l Lipsync) Range(ctx context.Context) (LipsyncRange, error) {
	reply, err := l.c.query(ctx, "!LIPSYNCRANGE?")
	if err != nil {
		return LipsyncRange{}, err
	}
	arg, err := parseArg(reply, "!LIPSYNCRANGE")
	if err != nil {
		return LipsyncRange{}, err
	}
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return LipsyncRange{}, &protocol.ProtocolError{Line: reply, Message: "expected min,max"}
	}
	min, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	max, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return LipsyncRange{}, &protocol.ProtocolError{Line: reply, Message: "range bounds are not integers"}
	}
	return LipsyncRange{Min: min, Max: max}, nil
}
