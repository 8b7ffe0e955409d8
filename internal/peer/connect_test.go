package peer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnect_LoopbackPair negotiates two sessions in-process through a
// MemorySignaler pair and exchanges text messages over the board channel.
func TestConnect_LoopbackPair(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping WebRTC negotiation in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	offerSig, answerSig := NewMemorySignalerPair()

	type result struct {
		s   *Session
		err error
	}
	answered := make(chan result, 1)
	go func() {
		s, err := Connect(ctx, answerSig, RoleAnswer, ICEConfig{}, logger)
		answered <- result{s, err}
	}()

	offerer, err := Connect(ctx, offerSig, RoleOffer, ICEConfig{}, logger)
	require.NoError(t, err)
	defer offerer.Close()

	r := <-answered
	require.NoError(t, r.err)
	answerer := r.s
	defer answerer.Close()

	require.NoError(t, offerer.WaitOpen(ctx))
	require.NoError(t, answerer.WaitOpen(ctx))
	assert.True(t, offerer.Channel().IsConnected())
	assert.Equal(t, BoardChannelLabel, answerer.Channel().Label())

	received := make(chan string, 1)
	answerer.Channel().OnMessage(func(payload string) { received <- payload })
	require.NoError(t, offerer.Channel().Send(`{"tasks":{},"columns":{},"columnOrder":[]}`))

	select {
	case got := <-received:
		assert.JSONEq(t, `{"tasks":{},"columns":{},"columnOrder":[]}`, got)
	case <-ctx.Done():
		t.Fatal("message not received")
	}
}

func TestDataChannel_Unbound(t *testing.T) {
	c := NewDataChannel(nil)
	assert.False(t, c.IsConnected())
	assert.Error(t, c.Send("x"))
	assert.Empty(t, c.Label())
	assert.NoError(t, c.Close())
}
