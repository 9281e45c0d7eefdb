package protocol

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nkarlsen/lyngctl/internal/logging"
)

// Throttle enforces a minimum interval between consecutive commands.
// Some processors drop replies when commands arrive back to back, so
// the engine waits out the remainder of the interval before each write.
//
// There is no queueing here; serialization comes from the engine's
// single-command-in-flight slot. The only state is the last send
// timestamp.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	lastSend time.Time

	// now is swappable for tests
	now func() time.Time
}

// NewThrottle creates a throttle with the given minimum inter-command
// interval. A zero or negative interval disables throttling.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		now:      time.Now,
	}
}

// Wait suspends until at least the minimum interval has elapsed since
// the last Mark. It returns early with the context's error if the
// context is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	remaining := t.interval - t.now().Sub(t.lastSend)
	t.mu.Unlock()

	if remaining <= 0 {
		return nil
	}

	logging.Debug("Throttling before next command",
		zap.Duration("delay", remaining),
	)

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Mark records the current time as the last send timestamp
func (t *Throttle) Mark() {
	t.mu.Lock()
	t.lastSend = t.now()
	t.mu.Unlock()
}
