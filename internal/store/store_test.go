package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/boardsync/internal/codec"
	"github.com/alexanderramin/boardsync/internal/domain"
	"github.com/alexanderramin/boardsync/internal/repository"
	"github.com/alexanderramin/boardsync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	store   *Store
	repo    *repository.MemoryBoardRepo
	channel *testutil.RecordingChannel
}

func newHarness(t *testing.T, initial *domain.Board, connected bool) *harness {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewMemoryBoardRepo()
	if initial != nil {
		require.NoError(t, repo.Save(ctx, initial))
	}
	ch := testutil.NewRecordingChannel(connected)
	s := New(repo,
		WithChannel(ch),
		WithIDGenerator(testutil.SequentialIDs("id")),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	)
	require.NoError(t, s.Open(ctx))
	return &harness{store: s, repo: repo, channel: ch}
}

func (h *harness) persisted(t *testing.T) *domain.Board {
	t.Helper()
	b, err := h.repo.Load(context.Background())
	require.NoError(t, err)
	return b
}

func requireValid(t *testing.T, b *domain.Board) {
	t.Helper()
	require.Empty(t, b.Validate())
}

func TestOpen_SeedWhenNothingPersisted(t *testing.T) {
	h := newHarness(t, nil, true)
	assert.Equal(t, domain.SeedBoard(), h.store.Board())
	assert.Empty(t, h.channel.Sent(), "opening never broadcasts")
}

func TestOpen_CorruptStateFallsBackToSeed(t *testing.T) {
	repo := repository.NewMemoryBoardRepo()
	repo.SetRaw([]byte(`{"tasks":`))
	var logs bytes.Buffer
	s := New(repo, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	require.NoError(t, s.Open(context.Background()))
	assert.Equal(t, domain.SeedBoard(), s.Board())
	assert.Contains(t, logs.String(), "corrupt")
}

func TestOpen_LoadFailureReturned(t *testing.T) {
	boom := errors.New("connection refused")
	s := New(&testutil.FailingRepo{LoadErr: boom})

	err := s.Open(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestAddColumn(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)

	col, err := h.store.AddColumn(context.Background(), "Review")
	require.NoError(t, err)
	assert.Equal(t, "id-1", col.ID)
	assert.Equal(t, "Review", col.Title)
	assert.Empty(t, col.TaskIDs)

	b := h.store.Board()
	assert.Equal(t, []string{"A", "B", "id-1"}, b.ColumnOrder)
	assert.Equal(t, col, b.Columns["id-1"])
	requireValid(t, b)
	assert.Equal(t, b, h.persisted(t))
}

func TestLocalChange_BroadcastExactlyOnce(t *testing.T) {
	ctx := context.Background()
	ops := map[string]func(s *Store) error{
		"add column": func(s *Store) error {
			_, err := s.AddColumn(ctx, "New")
			return err
		},
		"remove column": func(s *Store) error { return s.RemoveColumn(ctx, "B") },
		"add task": func(s *Store) error {
			_, err := s.AddTask(ctx, "A", domain.TaskDraft{})
			return err
		},
		"remove task": func(s *Store) error { return s.RemoveTask(ctx, "t1", "A") },
		"update task": func(s *Store) error {
			return s.UpdateTask(ctx, domain.Task{ID: "t2", Title: "renamed", Priority: domain.PriorityLow})
		},
		"reorder": func(s *Store) error {
			return s.Reorder(ctx, domain.Locator{ContainerID: "A", Index: 0}, domain.Locator{ContainerID: "A", Index: 1}, domain.KindTask)
		},
		"import": func(s *Store) error { return s.Import(ctx, domain.SeedBoard()) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, testutil.ScenarioBoard(), true)

			require.NoError(t, op(h.store))

			sent := h.channel.Sent()
			require.Len(t, sent, 1)
			got, err := codec.Decode([]byte(sent[0]))
			require.NoError(t, err)
			assert.Equal(t, h.store.Board(), got)
			assert.Equal(t, h.store.Board(), h.persisted(t))
			requireValid(t, got)
		})
	}
}

func TestLocalChange_NotConnectedIsDropped(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), false)

	_, err := h.store.AddColumn(context.Background(), "Offline")
	require.NoError(t, err)

	assert.Empty(t, h.channel.Sent())
	assert.Contains(t, h.persisted(t).Columns, "id-1", "persistence does not depend on the channel")

	h.channel.SetConnected(true)
	_, err = h.store.AddColumn(context.Background(), "Online")
	require.NoError(t, err)
	assert.Len(t, h.channel.Sent(), 1, "dropped broadcasts are not retried")
}

func TestLocalChange_NoChannel(t *testing.T) {
	repo := repository.NewMemoryBoardRepo()
	s := New(repo)
	require.NoError(t, s.Open(context.Background()))

	_, err := s.AddColumn(context.Background(), "Solo")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Saves())
}

func TestReconcile_NoEcho(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	remote := testutil.NewTestBoard(testutil.WithColumn("X", "Remote", "r1"))

	require.NoError(t, h.store.Reconcile(context.Background(), remote))

	assert.Empty(t, h.channel.Sent())
	assert.Equal(t, remote, h.store.Board())
	assert.Equal(t, remote, h.persisted(t))
}

func TestReconcile_VerbatimEvenWhenInconsistent(t *testing.T) {
	h := newHarness(t, nil, true)
	remote := testutil.NewTestBoard(testutil.WithColumn("X", "Remote", "r1"))
	remote.ColumnOrder = append(remote.ColumnOrder, "ghost")

	require.NoError(t, h.store.Reconcile(context.Background(), remote))
	assert.Equal(t, remote, h.store.Board())
}

func TestReconcile_CopiesInput(t *testing.T) {
	h := newHarness(t, nil, false)
	remote := testutil.ScenarioBoard()
	require.NoError(t, h.store.Reconcile(context.Background(), remote))

	remote.ColumnOrder[0] = "mutated"
	assert.Equal(t, []string{"A", "B"}, h.store.Board().ColumnOrder)
}

func TestReconcile_Nil(t *testing.T) {
	h := newHarness(t, nil, false)
	assert.Error(t, h.store.Reconcile(context.Background(), nil))
}

func TestInboundMessage_ReconcilesWithoutEcho(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	remote := testutil.NewTestBoard(testutil.WithColumn("X", "Remote"))
	payload, err := codec.Encode(remote)
	require.NoError(t, err)

	h.channel.Deliver(string(payload))

	assert.Equal(t, remote, h.store.Board())
	assert.Empty(t, h.channel.Sent())
}

func TestInboundMessage_GarbageDropped(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	before := h.store.Board()

	h.channel.Deliver("not a board")
	h.channel.Deliver(`{"tasks":{}}`)

	assert.Equal(t, before, h.store.Board())
	assert.Equal(t, before, h.persisted(t))
}

func TestAttach_ReplacingDetachesOldChannel(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	next := testutil.NewRecordingChannel(true)
	h.store.Attach(next)
	before := h.store.Board()

	stale, err := codec.Encode(testutil.NewTestBoard(testutil.WithColumn("X", "Stale")))
	require.NoError(t, err)
	h.channel.Deliver(string(stale))
	assert.Equal(t, before, h.store.Board(), "old channel no longer drives the store")

	_, err = h.store.AddColumn(context.Background(), "Fresh")
	require.NoError(t, err)
	assert.Empty(t, h.channel.Sent())
	assert.Len(t, next.Sent(), 1)

	remote, err := codec.Encode(testutil.NewTestBoard(testutil.WithColumn("Y", "Remote")))
	require.NoError(t, err)
	next.Deliver(string(remote))
	assert.Contains(t, h.store.Board().Columns, "Y")
}

func TestReorder_Scenario(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)

	err := h.store.Reorder(context.Background(),
		domain.Locator{ContainerID: "A", Index: 0},
		domain.Locator{ContainerID: "B", Index: 1},
		domain.KindTask)
	require.NoError(t, err)

	b := h.store.Board()
	assert.Equal(t, []string{"t2"}, b.Columns["A"].TaskIDs)
	assert.Equal(t, []string{"t3", "t1"}, b.Columns["B"].TaskIDs)
	requireValid(t, b)
}

func TestReorder_UnknownContainer(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	before := h.store.Board()

	err := h.store.Reorder(context.Background(),
		domain.Locator{ContainerID: "nope", Index: 0},
		domain.Locator{ContainerID: "B", Index: 0},
		domain.KindTask)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before, h.store.Board())
	assert.Empty(t, h.channel.Sent())
}

func TestRemoveColumn_Cascade(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)

	require.NoError(t, h.store.RemoveColumn(context.Background(), "A"))

	b := h.store.Board()
	assert.NotContains(t, b.Tasks, "t1")
	assert.NotContains(t, b.Tasks, "t2")
	assert.Contains(t, b.Tasks, "t3")
	assert.Equal(t, []string{"B"}, b.ColumnOrder)
	assert.NotContains(t, b.Columns, "A")
	assert.Equal(t, 1, b.TaskCount(), "count drops by exactly the removed column's tasks")
	requireValid(t, b)
}

func TestRemoveColumn_NotFound(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	saves := h.repo.Saves()

	err := h.store.RemoveColumn(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, saves, h.repo.Saves(), "no persist on failure")
	assert.Empty(t, h.channel.Sent())
}

func TestAddTask(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	title := "Write docs"
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	high := domain.PriorityHigh

	task, err := h.store.AddTask(context.Background(), "B", domain.TaskDraft{Title: &title, DueDate: &due, Priority: &high})
	require.NoError(t, err)
	assert.Equal(t, "id-1", task.ID)
	assert.Equal(t, domain.PriorityHigh, task.Priority)

	b := h.store.Board()
	assert.Equal(t, []string{"t3", "id-1"}, b.Columns["B"].TaskIDs)
	assert.Equal(t, task, b.Tasks["id-1"])
	requireValid(t, b)
}

func TestAddTask_DefaultPriority(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), false)

	task, err := h.store.AddTask(context.Background(), "A", domain.TaskDraft{})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityNone, task.Priority)
}

func TestAddTask_ColumnNotFound(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	before := h.store.Board()

	_, err := h.store.AddTask(context.Background(), "nope", domain.TaskDraft{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before, h.store.Board())
}

func TestRemoveTask(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)

	require.NoError(t, h.store.RemoveTask(context.Background(), "t1", "A"))

	b := h.store.Board()
	assert.NotContains(t, b.Tasks, "t1")
	assert.Equal(t, []string{"t2"}, b.Columns["A"].TaskIDs)
	requireValid(t, b)
}

func TestRemoveTask_WrongOrMissingColumnIsSilent(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	ctx := context.Background()

	require.NoError(t, h.store.RemoveTask(ctx, "t3", "missing"))
	b := h.store.Board()
	assert.NotContains(t, b.Tasks, "t3")
	assert.Equal(t, []string{"t3"}, b.Columns["B"].TaskIDs, "the column side is left alone")

	require.NoError(t, h.store.RemoveTask(ctx, "t1", "B"))
	assert.Equal(t, []string{"t1", "t2"}, h.store.Board().Columns["A"].TaskIDs)
}

func TestUpdateTask_Replaces(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	updated := domain.Task{ID: "t1", Title: "Renamed", Description: "more", Priority: domain.PriorityMedium}

	require.NoError(t, h.store.UpdateTask(context.Background(), updated))

	b := h.store.Board()
	assert.Equal(t, updated, b.Tasks["t1"])
	assert.Equal(t, []string{"t1", "t2"}, b.Columns["A"].TaskIDs, "placement unchanged")
}

func TestUpdateTask_UpsertsUnknownTask(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)

	require.NoError(t, h.store.UpdateTask(context.Background(), domain.Task{ID: "t9", Title: "new"}))

	b := h.store.Board()
	require.Contains(t, b.Tasks, "t9")
	assert.Equal(t, "new", b.Tasks["t9"].Title)
	_, placed := b.ColumnOf("t9")
	assert.False(t, placed, "an upserted task is not placed in any column")
	requireValid(t, b)
}

func TestUpdateTask_EmptyID(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	assert.Error(t, h.store.UpdateTask(context.Background(), domain.Task{Title: "anon"}))
	assert.Empty(t, h.channel.Sent())
}

func TestSaveFailure_Absorbed(t *testing.T) {
	ctx := context.Background()
	repo := &testutil.FailingRepo{SaveErr: errors.New("disk full")}
	ch := testutil.NewRecordingChannel(true)
	var logs bytes.Buffer
	s := New(repo, WithChannel(ch), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, s.Open(ctx))

	col, err := s.AddColumn(ctx, "Still here")
	require.NoError(t, err)

	assert.Contains(t, s.Board().Columns, col.ID, "memory keeps the change")
	assert.Len(t, ch.Sent(), 1, "the peer still hears about it")
	assert.Equal(t, 1, repo.Attempts())
	assert.Contains(t, logs.String(), "disk full")
}

func TestAnnounce(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), false)
	ctx := context.Background()

	assert.ErrorIs(t, h.store.Announce(ctx), domain.ErrChannelUnavailable)

	h.channel.SetConnected(true)
	saves := h.repo.Saves()
	require.NoError(t, h.store.Announce(ctx))
	got, err := h.channel.LastBoard()
	require.NoError(t, err)
	assert.Equal(t, h.store.Board(), got)
	assert.Equal(t, saves, h.repo.Saves())
}

func TestOnChange(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), true)
	ctx := context.Background()

	var mu sync.Mutex
	var origins []domain.Origin
	h.store.OnChange(func(b *domain.Board, origin domain.Origin) {
		mu.Lock()
		defer mu.Unlock()
		origins = append(origins, origin)
		b.ColumnOrder = nil
	})

	_, err := h.store.AddColumn(ctx, "C")
	require.NoError(t, err)
	require.NoError(t, h.store.Reconcile(ctx, testutil.ScenarioBoard()))
	require.Error(t, h.store.RemoveColumn(ctx, "missing"))

	assert.Equal(t, []domain.Origin{domain.OriginLocal, domain.OriginRemote}, origins)
	assert.Equal(t, []string{"A", "B"}, h.store.Board().ColumnOrder, "listeners get a private copy")
}

func TestBoard_ReturnsCopy(t *testing.T) {
	h := newHarness(t, testutil.ScenarioBoard(), false)

	b := h.store.Board()
	b.Columns["A"].TaskIDs[0] = "tampered"
	delete(b.Tasks, "t1")

	fresh := h.store.Board()
	assert.Equal(t, "t1", fresh.Columns["A"].TaskIDs[0])
	assert.Contains(t, fresh.Tasks, "t1")
}

func TestNew_NilRepoPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}
