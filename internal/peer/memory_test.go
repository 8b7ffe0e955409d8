package peer

import (
	"sync"
	"testing"

	"github.com/alexanderramin/boardsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu   sync.Mutex
	msgs []string
}

func (c *collector) handle(payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, payload)
}

func (c *collector) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.msgs...)
}

func TestMemoryPair_DeliversInOrder(t *testing.T) {
	a, b := NewMemoryPair()
	defer a.Close()

	var got collector
	b.OnMessage(got.handle)

	for _, m := range []string{"one", "two", "three"} {
		require.NoError(t, a.Send(m))
	}
	b.Flush()

	assert.Equal(t, []string{"one", "two", "three"}, got.all())
}

func TestMemoryPair_NotDeliveredToSender(t *testing.T) {
	a, b := NewMemoryPair()
	defer a.Close()

	var atA, atB collector
	a.OnMessage(atA.handle)
	b.OnMessage(atB.handle)

	require.NoError(t, a.Send("hello"))
	b.Flush()
	a.Flush()

	assert.Empty(t, atA.all())
	assert.Equal(t, []string{"hello"}, atB.all())
}

func TestMemoryPair_Disconnected(t *testing.T) {
	a, b := NewMemoryPair()
	defer a.Close()

	a.SetConnected(false)
	assert.False(t, a.IsConnected())
	assert.False(t, b.IsConnected(), "the link state is shared")

	err := a.Send("dropped")
	assert.ErrorIs(t, err, domain.ErrChannelUnavailable)

	b.SetConnected(true)
	assert.True(t, a.IsConnected())
}

func TestMemoryPair_Close(t *testing.T) {
	a, b := NewMemoryPair()
	b.Close()
	a.Close()

	assert.False(t, a.IsConnected())
	assert.ErrorIs(t, b.Send("x"), domain.ErrChannelUnavailable)
	a.Flush()
}
