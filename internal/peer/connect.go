package peer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pion/webrtc/v4"
)

// Role selects which side of the offer/answer exchange a peer plays.
type Role string

const (
	RoleOffer  Role = "offer"
	RoleAnswer Role = "answer"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleOffer, RoleAnswer:
		return r, nil
	default:
		return "", fmt.Errorf("invalid peer role %q (expected offer or answer)", s)
	}
}

// BoardChannelLabel names the data channel that carries board snapshots.
const BoardChannelLabel = "board"

const iceGatherTimeout = 10 * time.Second

// ICEConfig holds the ICE servers used during candidate gathering. An empty
// config gathers host candidates only, which is enough on one machine or LAN.
type ICEConfig struct {
	Servers []webrtc.ICEServer
}

// ICEConfigFromURLs builds an ICEConfig with one server entry per URL.
func ICEConfigFromURLs(urls []string) ICEConfig {
	var cfg ICEConfig
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		cfg.Servers = append(cfg.Servers, webrtc.ICEServer{URLs: []string{u}})
	}
	return cfg
}

// Session is an established peer connection and its board channel.
type Session struct {
	pc      *webrtc.PeerConnection
	channel *DataChannel
	logger  *slog.Logger
}

// Channel returns the board channel. It reports disconnected until the
// underlying data channel opens.
func (s *Session) Channel() *DataChannel {
	return s.channel
}

// WaitOpen blocks until the board channel is open or ctx is done.
func (s *Session) WaitOpen(ctx context.Context) error {
	select {
	case <-s.channel.Opened():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for board channel: %w", ctx.Err())
	}
}

// Close tears down the channel and the peer connection.
func (s *Session) Close() error {
	s.channel.Close()
	return s.pc.Close()
}

// Connect negotiates a peer connection through signaler and returns once the
// remote description is applied. The board channel opens asynchronously;
// use Session.WaitOpen to block on it. Reconnection is left to the caller.
func Connect(ctx context.Context, signaler Signaler, role Role, cfg ICEConfig, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc, err := newPeerConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating peer connection: %w", err)
	}
	s := &Session{pc: pc, channel: NewDataChannel(nil), logger: logger}

	pc.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		logger.Debug("ICE connection state changed", "role", string(role), "state", state.String())
	})

	switch role {
	case RoleOffer:
		err = s.offer(ctx, signaler)
	case RoleAnswer:
		err = s.answer(ctx, signaler)
	default:
		err = fmt.Errorf("invalid peer role %q", role)
	}
	if err != nil {
		pc.Close()
		return nil, err
	}
	logger.Info("peer connection negotiated", "role", string(role))
	return s, nil
}

func (s *Session) offer(ctx context.Context, signaler Signaler) error {
	dc, err := s.pc.CreateDataChannel(BoardChannelLabel, nil)
	if err != nil {
		return fmt.Errorf("creating board data channel: %w", err)
	}
	s.channel.bind(dc)

	offer, err := s.pc.CreateOffer(nil)
	if err != nil {
		return fmt.Errorf("creating SDP offer: %w", err)
	}
	if err := s.setLocalAndGather(ctx, offer); err != nil {
		return err
	}
	if err := signaler.Publish(ctx, *s.pc.LocalDescription()); err != nil {
		return fmt.Errorf("publishing SDP offer: %w", err)
	}

	answer, err := signaler.Await(ctx)
	if err != nil {
		return fmt.Errorf("waiting for SDP answer: %w", err)
	}
	if answer.Type != webrtc.SDPTypeAnswer {
		return fmt.Errorf("expected SDP answer, got %s", answer.Type)
	}
	if err := s.pc.SetRemoteDescription(answer); err != nil {
		return fmt.Errorf("setting remote description: %w", err)
	}
	return nil
}

func (s *Session) answer(ctx context.Context, signaler Signaler) error {
	s.pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != BoardChannelLabel {
			s.logger.Debug("ignoring unexpected data channel", "label", dc.Label())
			return
		}
		s.channel.bind(dc)
	})

	offer, err := signaler.Await(ctx)
	if err != nil {
		return fmt.Errorf("waiting for SDP offer: %w", err)
	}
	if offer.Type != webrtc.SDPTypeOffer {
		return fmt.Errorf("expected SDP offer, got %s", offer.Type)
	}
	if err := s.pc.SetRemoteDescription(offer); err != nil {
		return fmt.Errorf("setting remote description: %w", err)
	}

	answer, err := s.pc.CreateAnswer(nil)
	if err != nil {
		return fmt.Errorf("creating SDP answer: %w", err)
	}
	if err := s.setLocalAndGather(ctx, answer); err != nil {
		return err
	}
	if err := signaler.Publish(ctx, *s.pc.LocalDescription()); err != nil {
		return fmt.Errorf("publishing SDP answer: %w", err)
	}
	return nil
}

// setLocalAndGather applies desc and waits for ICE gathering to finish so the
// published description carries every candidate.
func (s *Session) setLocalAndGather(ctx context.Context, desc webrtc.SessionDescription) error {
	gatherComplete := webrtc.GatheringCompletePromise(s.pc)
	if err := s.pc.SetLocalDescription(desc); err != nil {
		return fmt.Errorf("setting local description: %w", err)
	}
	select {
	case <-gatherComplete:
		return nil
	case <-time.After(iceGatherTimeout):
		return fmt.Errorf("ICE gathering timed out after %s", iceGatherTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newPeerConnection(cfg ICEConfig) (*webrtc.PeerConnection, error) {
	// Loopback candidates let two peers on one host (and tests) connect.
	settingEngine := webrtc.SettingEngine{}
	settingEngine.SetIncludeLoopbackCandidate(true)

	api := webrtc.NewAPI(webrtc.WithSettingEngine(settingEngine))
	return api.NewPeerConnection(webrtc.Configuration{ICEServers: cfg.Servers})
}
