package peer

import (
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/alexanderramin/boardsync/internal/domain"
)

// Compile-time interface check.
var _ Channel = (*DataChannel)(nil)

// DataChannel adapts a pion data channel to Channel. It may be created
// before the underlying channel exists (the answering side only learns of
// it from OnDataChannel); until bind is called it reports disconnected.
// Text messages that arrive before a handler is registered are held and
// handed to the first handler in arrival order, ahead of anything that
// arrives while they are being replayed.
type DataChannel struct {
	mu       sync.Mutex
	dc       *webrtc.DataChannel
	handler  func(string)
	held     []string
	draining bool
	opened   chan struct{}
	once     sync.Once
}

// NewDataChannel wraps dc. A nil dc yields an unbound adapter.
func NewDataChannel(dc *webrtc.DataChannel) *DataChannel {
	c := &DataChannel{opened: make(chan struct{})}
	if dc != nil {
		c.bind(dc)
	}
	return c
}

func (c *DataChannel) bind(dc *webrtc.DataChannel) {
	c.mu.Lock()
	c.dc = dc
	c.mu.Unlock()

	dc.OnOpen(func() {
		c.once.Do(func() { close(c.opened) })
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		if !msg.IsString {
			return
		}
		c.deliver(string(msg.Data))
	})
	if dc.ReadyState() == webrtc.DataChannelStateOpen {
		c.once.Do(func() { close(c.opened) })
	}
}

// Opened is closed once the underlying channel reaches the open state.
func (c *DataChannel) Opened() <-chan struct{} {
	return c.opened
}

// Label returns the underlying channel label, or "" when unbound.
func (c *DataChannel) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dc == nil {
		return ""
	}
	return c.dc.Label()
}

func (c *DataChannel) IsConnected() bool {
	c.mu.Lock()
	dc := c.dc
	c.mu.Unlock()
	return dc != nil && dc.ReadyState() == webrtc.DataChannelStateOpen
}

func (c *DataChannel) Send(payload string) error {
	c.mu.Lock()
	dc := c.dc
	c.mu.Unlock()
	if dc == nil || dc.ReadyState() != webrtc.DataChannelStateOpen {
		return fmt.Errorf("data channel send: %w", domain.ErrChannelUnavailable)
	}
	if err := dc.SendText(payload); err != nil {
		return fmt.Errorf("data channel send: %w", err)
	}
	return nil
}

// deliver hands payload to the handler, or queues it while there is no
// handler or held messages are still being replayed.
func (c *DataChannel) deliver(payload string) {
	c.mu.Lock()
	h := c.handler
	if h == nil || c.draining {
		c.held = append(c.held, payload)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	h(payload)
}

// OnMessage registers handler. Held messages are replayed to it first, on
// the caller's goroutine. A nil handler detaches the current one.
func (c *DataChannel) OnMessage(handler func(payload string)) {
	c.mu.Lock()
	c.handler = handler
	if handler == nil || c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	for len(c.held) > 0 {
		batch := c.held
		c.held = nil
		c.mu.Unlock()
		for _, payload := range batch {
			handler(payload)
		}
		c.mu.Lock()
	}
	c.draining = false
	c.mu.Unlock()
}

// Close closes the underlying channel if bound.
func (c *DataChannel) Close() error {
	c.mu.Lock()
	dc := c.dc
	c.mu.Unlock()
	if dc == nil {
		return nil
	}
	return dc.Close()
}
