package store

import (
	"log/slog"

	"github.com/alexanderramin/boardsync/internal/peer"
)

// Option configures a Store.
type Option func(*Store)

// WithChannel attaches ch at construction time. See Store.Attach.
func WithChannel(ch peer.Channel) Option {
	return func(s *Store) {
		s.pendingChannel = ch
	}
}

// WithIDGenerator replaces the uuid generator used for new columns and tasks.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithObserver(obs UseCaseObserver) Option {
	return func(s *Store) {
		if obs != nil {
			s.observer = obs
		}
	}
}
