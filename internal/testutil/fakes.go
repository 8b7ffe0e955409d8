package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/boardsync/internal/codec"
	"github.com/alexanderramin/boardsync/internal/domain"
)

// RecordingChannel is a peer channel double that records every payload sent
// through it. Inbound messages are injected with Deliver.
type RecordingChannel struct {
	mu        sync.Mutex
	connected bool
	sent      []string
	handler   func(string)
}

// NewRecordingChannel creates a RecordingChannel in the given connection state.
func NewRecordingChannel(connected bool) *RecordingChannel {
	return &RecordingChannel{connected: connected}
}

func (c *RecordingChannel) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *RecordingChannel) SetConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = connected
}

func (c *RecordingChannel) Send(payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, payload)
	return nil
}

func (c *RecordingChannel) OnMessage(handler func(payload string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// Deliver invokes the registered handler synchronously, as if payload had
// arrived from the peer.
func (c *RecordingChannel) Deliver(payload string) {
	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()
	if h != nil {
		h(payload)
	}
}

// Sent returns a copy of all payloads sent so far.
func (c *RecordingChannel) Sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

// LastBoard decodes the most recent payload. It returns nil when nothing
// has been sent.
func (c *RecordingChannel) LastBoard() (*domain.Board, error) {
	sent := c.Sent()
	if len(sent) == 0 {
		return nil, nil
	}
	return codec.Decode([]byte(sent[len(sent)-1]))
}

// FailingRepo is a board repo whose Load and Save return the configured
// errors. Successful saves are kept so Load can return them.
type FailingRepo struct {
	mu      sync.Mutex
	LoadErr error
	SaveErr error
	saved   *domain.Board
	saves   int
}

func (r *FailingRepo) Load(_ context.Context) (*domain.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	if r.saved == nil {
		return domain.SeedBoard(), nil
	}
	return r.saved.Clone(), nil
}

func (r *FailingRepo) Save(_ context.Context, b *domain.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.saved = b.Clone()
	return nil
}

// Attempts returns how many times Save was called, successful or not.
func (r *FailingRepo) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
