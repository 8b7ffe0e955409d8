package peer

import (
	"fmt"
	"sync"

	"github.com/alexanderramin/boardsync/internal/domain"
)

// Compile-time interface check.
var _ Channel = (*MemoryChannel)(nil)

// memoryLink is the state shared by both ends of a MemoryPair.
type memoryLink struct {
	mu        sync.Mutex
	connected bool
	closed    bool
}

// MemoryChannel is one end of an in-process channel pair. Messages are
// delivered to the other end on that end's own goroutine, in send order.
type MemoryChannel struct {
	link   *memoryLink
	remote *MemoryChannel

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []string
	handler func(string)
	pending int
	done    chan struct{}
}

// NewMemoryPair returns two connected endpoints. Call Close on either end
// to stop both delivery goroutines.
func NewMemoryPair() (*MemoryChannel, *MemoryChannel) {
	link := &memoryLink{connected: true}
	a := newMemoryChannel(link)
	b := newMemoryChannel(link)
	a.remote, b.remote = b, a
	go a.deliverLoop()
	go b.deliverLoop()
	return a, b
}

func newMemoryChannel(link *memoryLink) *MemoryChannel {
	c := &MemoryChannel{link: link, done: make(chan struct{})}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *MemoryChannel) IsConnected() bool {
	c.link.mu.Lock()
	defer c.link.mu.Unlock()
	return c.link.connected && !c.link.closed
}

// SetConnected flips the link for both ends. Messages already queued are
// still delivered.
func (c *MemoryChannel) SetConnected(connected bool) {
	c.link.mu.Lock()
	defer c.link.mu.Unlock()
	c.link.connected = connected
}

func (c *MemoryChannel) Send(payload string) error {
	if !c.IsConnected() {
		return fmt.Errorf("memory channel send: %w", domain.ErrChannelUnavailable)
	}
	c.remote.enqueue(payload)
	return nil
}

func (c *MemoryChannel) OnMessage(handler func(payload string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// Flush blocks until every message queued for this end has been handed to
// its handler.
func (c *MemoryChannel) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pending > 0 {
		c.cond.Wait()
	}
}

// Close disconnects the pair and stops both delivery goroutines. Undelivered
// messages are discarded.
func (c *MemoryChannel) Close() {
	c.link.mu.Lock()
	if c.link.closed {
		c.link.mu.Unlock()
		return
	}
	c.link.closed = true
	c.link.mu.Unlock()
	c.stop()
	c.remote.stop()
}

func (c *MemoryChannel) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = nil
	c.pending = 0
	close(c.done)
	c.cond.Broadcast()
}

func (c *MemoryChannel) enqueue(payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, payload)
	c.pending++
	c.cond.Broadcast()
}

func (c *MemoryChannel) deliverLoop() {
	for {
		c.mu.Lock()
		for len(c.queue) == 0 && !c.stopped() {
			c.cond.Wait()
		}
		if c.stopped() {
			c.mu.Unlock()
			return
		}
		payload := c.queue[0]
		c.queue = c.queue[1:]
		h := c.handler
		c.mu.Unlock()

		if h != nil {
			h(payload)
		}

		c.mu.Lock()
		if c.pending > 0 {
			c.pending--
		}
		c.cond.Broadcast()
		c.mu.Unlock()
	}
}

// stopped must be called with c.mu held.
func (c *MemoryChannel) stopped() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
