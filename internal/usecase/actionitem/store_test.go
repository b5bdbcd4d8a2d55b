package actionitem

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/meeting-action-board/errors"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

type memoryRepo struct {
	mu      sync.Mutex
	items   []entities.ActionItem
	saves   int
	failing bool
}

func (r *memoryRepo) Load(context.Context) ([]entities.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.ActionItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *memoryRepo) Save(_ context.Context, items []entities.ActionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("disk full")
	}
	r.saves++
	r.items = make([]entities.ActionItem, len(items))
	copy(r.items, items)
	return nil
}

func newTestStore(t *testing.T, repo *memoryRepo) *Store {
	t.Helper()
	s := NewStore(repo, nil, WithIDGenerator(sequentialIDs()), WithClock(fixedClock))
	require.NoError(t, s.Load(context.Background()))
	return s
}

func ptr[T any](v T) *T { return &v }

func TestStore_AddAssignsFreshIDAndPersists(t *testing.T) {
	repo := &memoryRepo{}
	s := newTestStore(t, repo)
	ctx := context.Background()

	id, err := s.Add(ctx, entities.ActionItem{ID: "ignored", Task: " Write notes "})
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	item, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Write notes", item.Task)
	assert.Equal(t, entities.DefaultAssignee, item.Assignee)
	assert.Equal(t, entities.PriorityMedium, item.Priority)
	assert.Equal(t, entities.StatusToDo, item.Status)
	assert.Equal(t, entities.SourceManual, item.Source)
	assert.Equal(t, fixedClock(), item.CreatedAt)

	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, s.List(), repo.items)
}

func TestStore_LoadReadsPersistedBoard(t *testing.T) {
	repo := &memoryRepo{items: []entities.ActionItem{{ID: "a", Task: "Persisted"}}}
	s := newTestStore(t, repo)
	assert.Equal(t, 1, s.Len())

	id, err := s.Add(context.Background(), entities.ActionItem{Task: "New"})
	require.NoError(t, err)
	assert.NotEqual(t, "a", id)
}

func TestStore_UpdateUnknownIDIsNotFound(t *testing.T) {
	repo := &memoryRepo{}
	s := newTestStore(t, repo)
	ctx := context.Background()
	_, err := s.Add(ctx, entities.ActionItem{Task: "Only"})
	require.NoError(t, err)
	before := s.List()
	saves := repo.saves

	_, err = s.Update(ctx, "missing", Update{Task: ptr("changed")})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_NOT_FOUND))
	assert.Equal(t, before, s.List())
	assert.Equal(t, saves, repo.saves)

	err = s.Delete(ctx, "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_NOT_FOUND))
	assert.Equal(t, before, s.List())
}

func TestStore_UpdateFields(t *testing.T) {
	s := newTestStore(t, &memoryRepo{})
	ctx := context.Background()
	id, err := s.Add(ctx, entities.ActionItem{Task: "Draft plan", MeetingID: "m1"})
	require.NoError(t, err)

	deadline := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	item, err := s.Update(ctx, id, Update{
		Assignee: ptr("Dana"),
		Deadline: &deadline,
		Priority: ptr(entities.PriorityHigh),
		Status:   ptr(entities.StatusInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana", item.Assignee)
	assert.Equal(t, "2026-11-01", entities.FormatDeadline(item.Deadline))
	assert.Equal(t, entities.PriorityHigh, item.Priority)
	assert.Equal(t, entities.StatusInProgress, item.Status)

	item, err = s.Update(ctx, id, Update{ClearDeadline: true})
	require.NoError(t, err)
	assert.Nil(t, item.Deadline)
}

func TestStore_UpdateRejectsInvalidValues(t *testing.T) {
	s := newTestStore(t, &memoryRepo{})
	ctx := context.Background()
	id, err := s.Add(ctx, entities.ActionItem{Task: "Draft plan", MeetingID: "m1"})
	require.NoError(t, err)
	before := s.List()

	tests := []struct {
		name  string
		u     Update
		field string
	}{
		{"blank task", Update{Task: ptr("  ")}, "task"},
		{"bad status", Update{Status: ptr(entities.Status("blocked"))}, "status"},
		{"bad priority", Update{Priority: ptr(entities.Priority("Urgent!"))}, "priority"},
		{"meeting id change", Update{MeetingID: ptr("m2")}, "meeting_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Update(ctx, id, tt.u)
			require.Error(t, err)
			var appErr apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrorCode_VALIDATION_FAILED, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
			assert.Equal(t, before, s.List())
		})
	}
}

func TestStore_MeetingIDCanBeSetOnce(t *testing.T) {
	s := newTestStore(t, &memoryRepo{})
	ctx := context.Background()
	id, err := s.Add(ctx, entities.ActionItem{Task: "Loose"})
	require.NoError(t, err)

	item, err := s.Update(ctx, id, Update{MeetingID: ptr("m1")})
	require.NoError(t, err)
	assert.Equal(t, "m1", item.MeetingID)

	_, err = s.Update(ctx, id, Update{MeetingID: ptr("m2")})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_VALIDATION_FAILED))
}

func TestStore_PersistenceFailureLeavesMemoryUnchanged(t *testing.T) {
	repo := &memoryRepo{}
	s := newTestStore(t, repo)
	ctx := context.Background()
	id, err := s.Add(ctx, entities.ActionItem{Task: "Keep me"})
	require.NoError(t, err)
	before := s.List()

	repo.failing = true

	_, err = s.Add(ctx, entities.ActionItem{Task: "Lost"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_PERSISTENCE_FAILED))

	_, err = s.Update(ctx, id, Update{Status: ptr(entities.StatusDone)})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_PERSISTENCE_FAILED))

	err = s.Delete(ctx, id)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_PERSISTENCE_FAILED))

	_, err = s.Merge(ctx, []entities.Candidate{{Task: "New"}}, "m1")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_PERSISTENCE_FAILED))

	err = s.Clear(ctx)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_PERSISTENCE_FAILED))

	assert.Equal(t, before, s.List())

	// the store stays usable once storage recovers
	repo.failing = false
	_, err = s.Update(ctx, id, Update{Status: ptr(entities.StatusDone)})
	require.NoError(t, err)
}

func TestStore_MergeIdempotentAndUniqueIDs(t *testing.T) {
	repo := &memoryRepo{}
	s := newTestStore(t, repo)
	ctx := context.Background()
	candidates := []entities.Candidate{{Task: "Send slides"}, {Task: "Review budget"}}

	first, err := s.Merge(ctx, candidates, "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Added)
	afterFirst := s.List()
	saves := repo.saves

	second, err := s.Merge(ctx, candidates, "m1")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, afterFirst, s.List())
	assert.Equal(t, saves, repo.saves)

	_, err = s.AddMany(ctx, []entities.ActionItem{{Task: "x"}, {Task: "y"}})
	require.NoError(t, err)
	_, err = s.Add(ctx, entities.ActionItem{Task: "z"})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, item := range s.List() {
		assert.False(t, seen[item.ID])
		seen[item.ID] = true
	}
	assert.Len(t, seen, 5)
}

func TestStore_DeleteAndClear(t *testing.T) {
	repo := &memoryRepo{}
	s := newTestStore(t, repo)
	ctx := context.Background()
	ids, err := s.AddMany(ctx, []entities.ActionItem{{Task: "a"}, {Task: "b"}, {Task: "c"}})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, ids[1]))
	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Task)
	assert.Equal(t, "c", list[1].Task)

	require.NoError(t, s.Clear(ctx))
	assert.Zero(t, s.Len())
	assert.Empty(t, repo.items)
}

func TestStore_ListReturnsCopy(t *testing.T) {
	s := newTestStore(t, &memoryRepo{})
	_, err := s.Add(context.Background(), entities.ActionItem{Task: "Original"})
	require.NoError(t, err)

	list := s.List()
	list[0].Task = "Mutated"
	assert.Equal(t, "Original", s.List()[0].Task)
}
