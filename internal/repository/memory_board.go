package repository

import (
	"context"
	"sync"

	"github.com/alexanderramin/boardsync/internal/codec"
	"github.com/alexanderramin/boardsync/internal/domain"
)

// MemoryBoardRepo keeps the encoded snapshot in process memory. It goes
// through the codec like the durable repos so that tests observe the same
// serialization behavior.
type MemoryBoardRepo struct {
	mu      sync.Mutex
	payload []byte
	saves   int
}

// NewMemoryBoardRepo creates an empty MemoryBoardRepo.
func NewMemoryBoardRepo() *MemoryBoardRepo {
	return &MemoryBoardRepo{}
}

func (r *MemoryBoardRepo) Load(_ context.Context) (*domain.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.payload == nil {
		return domain.SeedBoard(), nil
	}
	return decodeSnapshot("memory", r.payload)
}

func (r *MemoryBoardRepo) Save(_ context.Context, b *domain.Board) error {
	payload, err := codec.Encode(b)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payload = payload
	r.saves++
	return nil
}

// SetRaw stores payload verbatim, bypassing the codec.
func (r *MemoryBoardRepo) SetRaw(payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payload = append([]byte(nil), payload...)
}

// Saves returns how many times Save succeeded.
func (r *MemoryBoardRepo) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
