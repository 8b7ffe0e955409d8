package peer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/pion/webrtc/v4"
)

// Signaler exchanges session descriptions with the remote peer. Signaling is
// vanilla ICE: every candidate is gathered before Publish, so a connection
// needs exactly one offer and one answer.
type Signaler interface {
	// Publish hands a complete local description to the remote peer.
	Publish(ctx context.Context, desc webrtc.SessionDescription) error

	// Await blocks until the remote peer's description arrives.
	Await(ctx context.Context) (webrtc.SessionDescription, error)
}

// Compile-time interface checks.
var (
	_ Signaler = (*MemorySignaler)(nil)
	_ Signaler = (*StreamSignaler)(nil)
)

// MemorySignaler is an in-process Signaler for tests. Each end of a pair
// receives what the other end publishes.
type MemorySignaler struct {
	inbox  chan webrtc.SessionDescription
	outbox chan webrtc.SessionDescription
}

// NewMemorySignalerPair creates two linked signalers.
func NewMemorySignalerPair() (*MemorySignaler, *MemorySignaler) {
	ab := make(chan webrtc.SessionDescription, 1)
	ba := make(chan webrtc.SessionDescription, 1)
	return &MemorySignaler{inbox: ba, outbox: ab}, &MemorySignaler{inbox: ab, outbox: ba}
}

func (s *MemorySignaler) Publish(ctx context.Context, desc webrtc.SessionDescription) error {
	select {
	case s.outbox <- desc:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *MemorySignaler) Await(ctx context.Context) (webrtc.SessionDescription, error) {
	select {
	case desc := <-s.inbox:
		return desc, nil
	case <-ctx.Done():
		return webrtc.SessionDescription{}, ctx.Err()
	}
}

// StreamSignaler signals over a pair of text streams, one description per
// line encoded as base64 JSON. It supports copy/paste signaling between two
// terminals.
type StreamSignaler struct {
	wmu   sync.Mutex
	w     io.Writer
	lines *LineReader
}

// NewStreamSignaler creates a StreamSignaler writing to w and reading from
// lines. The caller may keep reading lines once signaling is done.
func NewStreamSignaler(lines *LineReader, w io.Writer) *StreamSignaler {
	return &StreamSignaler{w: w, lines: lines}
}

// EncodeDescription returns the single-line form of desc.
func EncodeDescription(desc webrtc.SessionDescription) (string, error) {
	data, err := sonic.ConfigStd.Marshal(desc)
	if err != nil {
		return "", fmt.Errorf("encoding session description: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDescription parses the output of EncodeDescription.
func DecodeDescription(line string) (webrtc.SessionDescription, error) {
	var desc webrtc.SessionDescription
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(line))
	if err != nil {
		return desc, fmt.Errorf("decoding session description: %w", err)
	}
	if err := sonic.ConfigStd.Unmarshal(data, &desc); err != nil {
		return desc, fmt.Errorf("decoding session description: %w", err)
	}
	if desc.SDP == "" {
		return desc, errors.New("decoding session description: empty SDP")
	}
	return desc, nil
}

func (s *StreamSignaler) Publish(_ context.Context, desc webrtc.SessionDescription) error {
	line, err := EncodeDescription(desc)
	if err != nil {
		return err
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if _, err := fmt.Fprintln(s.w, line); err != nil {
		return fmt.Errorf("writing session description: %w", err)
	}
	return nil
}

// Await reads lines until one is not blank and decodes it.
func (s *StreamSignaler) Await(ctx context.Context) (webrtc.SessionDescription, error) {
	for {
		line, err := s.lines.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return webrtc.SessionDescription{}, fmt.Errorf("reading session description: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		return DecodeDescription(line)
	}
}
