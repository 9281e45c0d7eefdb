package device

import "context"

// Power controls main zone power
type Power struct {
	c *Client
}

// On turns the main zone on
func (p Power) On(ctx context.Context) error {
	return p.c.send(ctx, "!POWERONMAIN")
}

// Off puts the main zone in standby
func (p Power) Off(ctx context.Context) error {
	return p.c.send(ctx, "!POWEROFFMAIN")
}

// Get queries the main zone power state
func (p Power) Get(ctx context.Context) (bool, error) {
	reply, err := p.c.query(ctx, "!POWER?")
	if err != nil {
		return false, err
	}
	return parseBool(reply, "!POWER")
}
