package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/boardsync/internal/domain"
	"github.com/alexanderramin/boardsync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBoardRepo_RoundTrip(t *testing.T) {
	repo := NewMemoryBoardRepo()
	ctx := context.Background()

	b, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SeedBoard(), b)

	want := testutil.ScenarioBoard()
	require.NoError(t, repo.Save(ctx, want))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, repo.Saves())
}

func TestMemoryBoardRepo_SetRawCorrupt(t *testing.T) {
	repo := NewMemoryBoardRepo()
	repo.SetRaw([]byte(`{"columns":{}}`))

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorruptState)
}
