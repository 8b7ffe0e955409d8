// Package store owns the single authoritative board of a peer. Every
// mutation produces a new board that is persisted and, when it originated
// locally, sent to the connected peer. Boards received from the peer replace
// the local board wholesale (last writer wins) and are never sent back.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/boardsync/internal/codec"
	"github.com/alexanderramin/boardsync/internal/domain"
	"github.com/alexanderramin/boardsync/internal/peer"
	"github.com/alexanderramin/boardsync/internal/reorder"
	"github.com/alexanderramin/boardsync/internal/repository"
)

// ChangeListener is notified after every committed change with a private
// copy of the new board. Listeners run while the store is serialized and
// must not call mutating Store methods.
type ChangeListener func(board *domain.Board, origin domain.Origin)

// Store serializes board mutations. Operations run one at a time in arrival
// order, whether they come from the local host or from the peer.
type Store struct {
	opMu sync.Mutex // serializes operations and sends

	stateMu sync.RWMutex
	board   *domain.Board

	repo           repository.BoardRepo
	channel        peer.Channel
	pendingChannel peer.Channel
	newID          func() string
	logger         *slog.Logger
	observer       UseCaseObserver

	listenersMu sync.Mutex
	listeners   []ChangeListener
}

// New creates a store over repo. The store starts from the seed board; call
// Open to load the persisted one.
func New(repo repository.BoardRepo, opts ...Option) *Store {
	if repo == nil {
		panic("store.New: repo is nil")
	}
	s := &Store{
		board:    domain.SeedBoard(),
		repo:     repo,
		newID:    uuid.NewString,
		logger:   slog.Default(),
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pendingChannel != nil {
		s.Attach(s.pendingChannel)
		s.pendingChannel = nil
	}
	return s
}

// Open loads the persisted board. Corrupt persisted data is not fatal: the
// store falls back to the seed board and logs a warning. Other load failures
// are returned and leave the current board in place.
func (s *Store) Open(ctx context.Context) (err error) {
	defer s.observe(ctx, "open", time.Now(), nil, &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	b, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCorruptState) {
			return fmt.Errorf("loading board: %w", err)
		}
		s.logger.WarnContext(ctx, "persisted board is corrupt, starting from seed board", "error", err)
		b = domain.SeedBoard()
		err = nil
	}
	s.setBoard(b)
	return nil
}

// Board returns a copy of the current board.
func (s *Store) Board() *domain.Board {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.board.Clone()
}

// OnChange registers a listener for committed changes.
func (s *Store) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Attach sets the peer channel and registers the store's inbound handler on
// it, detaching the handler from any previous channel. Payloads that do not
// decode are logged and dropped.
func (s *Store) Attach(ch peer.Channel) {
	s.opMu.Lock()
	old := s.channel
	s.channel = ch
	s.opMu.Unlock()
	if old != nil {
		old.OnMessage(nil)
	}
	if ch != nil {
		ch.OnMessage(s.receive)
	}
}

func (s *Store) receive(payload string) {
	ctx := context.Background()
	b, err := codec.Decode([]byte(payload))
	if err != nil {
		s.logger.WarnContext(ctx, "dropping undecodable peer message", "bytes", len(payload), "error", err)
		return
	}
	if err := s.Reconcile(ctx, b); err != nil {
		s.logger.WarnContext(ctx, "reconciling peer board failed", "error", err)
	}
}

// AddColumn appends a new, empty column.
func (s *Store) AddColumn(ctx context.Context, title string) (col domain.Column, err error) {
	fields := map[string]any{}
	defer s.observe(ctx, "add-column", time.Now(), fields, &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.mutable()
	col = domain.Column{ID: s.newID(), Title: title, TaskIDs: []string{}}
	next.Columns[col.ID] = col
	next.ColumnOrder = append(next.ColumnOrder, col.ID)
	fields["column_id"] = col.ID

	s.commit(ctx, next, domain.OriginLocal, fields)
	return col.Clone(), nil
}

// RemoveColumn deletes a column together with every task placed in it.
func (s *Store) RemoveColumn(ctx context.Context, columnID string) (err error) {
	fields := map[string]any{"column_id": columnID}
	defer s.observe(ctx, "remove-column", time.Now(), fields, &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.mutable()
	col, ok := next.Columns[columnID]
	if !ok {
		return fmt.Errorf("column %q: %w", columnID, domain.ErrNotFound)
	}
	for _, taskID := range col.TaskIDs {
		delete(next.Tasks, taskID)
	}
	delete(next.Columns, columnID)
	next.ColumnOrder = without(next.ColumnOrder, columnID)
	fields["removed_tasks"] = len(col.TaskIDs)

	s.commit(ctx, next, domain.OriginLocal, fields)
	return nil
}

// AddTask creates a task from draft and appends it to the column.
func (s *Store) AddTask(ctx context.Context, columnID string, draft domain.TaskDraft) (task domain.Task, err error) {
	fields := map[string]any{"column_id": columnID}
	defer s.observe(ctx, "add-task", time.Now(), fields, &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.mutable()
	col, ok := next.Columns[columnID]
	if !ok {
		return domain.Task{}, fmt.Errorf("column %q: %w", columnID, domain.ErrNotFound)
	}
	task = draft.Build(s.newID())
	next.Tasks[task.ID] = task
	col.TaskIDs = append(col.TaskIDs, task.ID)
	next.Columns[columnID] = col
	fields["task_id"] = task.ID

	s.commit(ctx, next, domain.OriginLocal, fields)
	return task.Clone(), nil
}

// RemoveTask deletes the task record and strips its id from the named
// column. An unknown task or column is not an error.
func (s *Store) RemoveTask(ctx context.Context, taskID, columnID string) (err error) {
	fields := map[string]any{"task_id": taskID, "column_id": columnID}
	defer s.observe(ctx, "remove-task", time.Now(), fields, &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.mutable()
	delete(next.Tasks, taskID)
	if col, ok := next.Columns[columnID]; ok {
		col.TaskIDs = without(col.TaskIDs, taskID)
		next.Columns[columnID] = col
	}

	s.commit(ctx, next, domain.OriginLocal, fields)
	return nil
}

// UpdateTask replaces the task with the same id. A task that does not exist
// yet is inserted into the task table but not placed in any column.
func (s *Store) UpdateTask(ctx context.Context, task domain.Task) (err error) {
	fields := map[string]any{"task_id": task.ID}
	defer s.observe(ctx, "update-task", time.Now(), fields, &err)
	if task.ID == "" {
		return errors.New("updating task: empty id")
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.mutable()
	_, existed := next.Tasks[task.ID]
	next.Tasks[task.ID] = task.Clone()
	fields["inserted"] = !existed

	s.commit(ctx, next, domain.OriginLocal, fields)
	return nil
}

// Reorder moves a column or a task. See reorder.Apply.
func (s *Store) Reorder(ctx context.Context, source, destination domain.Locator, kind domain.ItemKind) (err error) {
	fields := map[string]any{
		"kind":        string(kind),
		"source":      fmt.Sprintf("%s[%d]", source.ContainerID, source.Index),
		"destination": fmt.Sprintf("%s[%d]", destination.ContainerID, destination.Index),
	}
	defer s.observe(ctx, "reorder", time.Now(), fields, &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next, err := reorder.Apply(s.current(), source, destination, kind)
	if err != nil {
		return err
	}
	s.commit(ctx, next, domain.OriginLocal, fields)
	return nil
}

// Reconcile adopts a board received from the peer verbatim. It is persisted
// but never sent back.
func (s *Store) Reconcile(ctx context.Context, remote *domain.Board) (err error) {
	fields := map[string]any{}
	defer s.observe(ctx, "reconcile", time.Now(), fields, &err)
	if remote == nil {
		return fmt.Errorf("reconciling board: nil board")
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.commit(ctx, remote.Clone(), domain.OriginRemote, fields)
	return nil
}

// Import replaces the board with b as a local change, so a connected peer
// receives it.
func (s *Store) Import(ctx context.Context, b *domain.Board) (err error) {
	fields := map[string]any{}
	defer s.observe(ctx, "import", time.Now(), fields, &err)
	if b == nil {
		return fmt.Errorf("importing board: nil board")
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	fields["tasks"] = len(b.Tasks)
	fields["columns"] = len(b.Columns)
	s.commit(ctx, b.Clone(), domain.OriginLocal, fields)
	return nil
}

// Announce sends the current board to the peer without changing or
// persisting it. It returns domain.ErrChannelUnavailable when no connected
// channel is attached.
func (s *Store) Announce(ctx context.Context) (err error) {
	defer s.observe(ctx, "announce", time.Now(), nil, &err)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.channel == nil || !s.channel.IsConnected() {
		return fmt.Errorf("announcing board: %w", domain.ErrChannelUnavailable)
	}
	return s.send(s.current())
}

// commit installs next, persists it and, for local changes, sends it to the
// peer. Persistence and send failures are logged, not returned: the in-memory
// board stays authoritative. Callers must hold opMu.
func (s *Store) commit(ctx context.Context, next *domain.Board, origin domain.Origin, fields map[string]any) {
	s.setBoard(next)
	fields["origin"] = origin.String()

	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "saving board failed", "origin", origin.String(), "error", err)
		fields["saved"] = false
	} else {
		fields["saved"] = true
	}

	sent := false
	if origin == domain.OriginLocal {
		if s.channel == nil || !s.channel.IsConnected() {
			s.logger.DebugContext(ctx, "board not sent", "error", domain.ErrChannelUnavailable)
		} else if err := s.send(next); err != nil {
			s.logger.WarnContext(ctx, "sending board failed", "error", err)
		} else {
			sent = true
		}
	}
	fields["sent"] = sent

	s.notify(next, origin)
}

func (s *Store) send(b *domain.Board) error {
	payload, err := codec.Encode(b)
	if err != nil {
		return err
	}
	return s.channel.Send(string(payload))
}

func (s *Store) notify(b *domain.Board, origin domain.Origin) {
	s.listenersMu.Lock()
	listeners := append([]ChangeListener(nil), s.listeners...)
	s.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(b.Clone(), origin)
	}
}

func (s *Store) current() *domain.Board {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.board
}

func (s *Store) setBoard(b *domain.Board) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.board = b
}

// mutable returns a clone of the current board with non-nil tables.
func (s *Store) mutable() *domain.Board {
	next := s.current().Clone()
	if next.Tasks == nil {
		next.Tasks = map[string]domain.Task{}
	}
	if next.Columns == nil {
		next.Columns = map[string]domain.Column{}
	}
	if next.ColumnOrder == nil {
		next.ColumnOrder = []string{}
	}
	return next
}

// without returns ids minus every occurrence of id, in a new slice.
func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
