package bridge

import (
	"sync"
	"testing"
)

func newHubTestClient() *client {
	return &client{
		send:       make(chan []byte, 1),
		done:       make(chan struct{}),
		remoteAddr: "test:1",
	}
}

// A stalled client is dropped by the hub while its own read goroutine
// may still be queuing a command response. That interleaving must not
// panic; the response is simply dropped.
func TestReplyAfterRemove(t *testing.T) {
	h := newHub()
	c := newHubTestClient()
	h.add(c)

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		h.remove(c)
	}()
	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < 100; i++ {
			c.reply(CommandResponse{Type: "response", ID: "1", Reply: "!PONG"})
		}
	}()
	close(start)
	wg.Wait()

	select {
	case <-c.done:
	default:
		t.Error("remove did not signal client shutdown")
	}

	// Broadcasting after the drop must not reach the removed client
	h.broadcast([]byte(`{"type":"update"}`))
}

func TestRemoveTwice(t *testing.T) {
	h := newHub()
	c := newHubTestClient()
	h.add(c)

	h.remove(c)
	h.remove(c)
	c.shutdown()
}
