package actionitem

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-action-board/errors"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
	"github.com/johnquangdev/meeting-action-board/internal/domain/repositories"
)

// Update lists the fields to change on an item; nil fields are left alone
type Update struct {
	Task          *string
	Assignee      *string
	Deadline      *time.Time
	ClearDeadline bool
	Priority      *entities.Priority
	Status        *entities.Status
	Context       *string
	MeetingID     *string
}

// Store is the board: an ordered list of action items kept in memory and
// written through to a BoardRepository on every mutation. A mutation is only
// applied in memory after the write succeeded.
type Store struct {
	mu     sync.RWMutex
	repo   repositories.BoardRepository
	merger Merger
	items  []entities.ActionItem
	newID  func() string
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithMerger replaces the default exact-match merger
func WithMerger(m Merger) Option {
	return func(s *Store) { s.merger = m }
}

// WithClock sets the time source for created_at
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the identifier source
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates an empty store; call Load to read the persisted board
func NewStore(repo repositories.BoardRepository, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		repo:   repo,
		merger: NewMerger(),
		items:  []entities.ActionItem{},
		newID:  uuid.NewString,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.merger.NewID = s.newID
	s.merger.Now = s.now
	return s
}

// Load replaces the in-memory board with the persisted one
func (s *Store) Load(ctx context.Context) error {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return apperrors.ErrPersistenceFailed("load", err)
	}
	if items == nil {
		items = []entities.ActionItem{}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Info("board loaded", zap.Int("items", len(items)))
	return nil
}

// List returns a copy of the board in insertion order
func (s *Store) List() []entities.ActionItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.ActionItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items on the board
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns one item by id
func (s *Store) Get(id string) (entities.ActionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	return entities.ActionItem{}, apperrors.ErrActionItemNotFound(id)
}

// Add appends an item under a fresh identifier and returns that identifier.
// Any id on the input is ignored.
func (s *Store) Add(ctx context.Context, item entities.ActionItem) (string, error) {
	ids, err := s.AddMany(ctx, []entities.ActionItem{item})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddMany appends items with fresh identifiers in a single write
func (s *Store) AddMany(ctx context.Context, items []entities.ActionItem) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := make(map[string]struct{}, len(s.items)+len(items))
	for _, it := range s.items {
		used[it.ID] = struct{}{}
	}

	next := make([]entities.ActionItem, len(s.items), len(s.items)+len(items))
	copy(next, s.items)
	ids := make([]string, 0, len(items))
	now := s.now().UTC()
	for _, item := range items {
		item = withDefaults(item, now)
		item.ID = uniqueID(s.newID, used)
		next = append(next, item)
		ids = append(ids, item.ID)
	}

	if err := s.commit(ctx, "add", next); err != nil {
		return nil, err
	}
	return ids, nil
}

// Update applies u to the item with the given id and returns the new version
func (s *Store) Update(ctx context.Context, id string, u Update) (entities.ActionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return entities.ActionItem{}, apperrors.ErrActionItemNotFound(id)
	}

	item, err := apply(s.items[i], u)
	if err != nil {
		return entities.ActionItem{}, err
	}

	next := make([]entities.ActionItem, len(s.items))
	copy(next, s.items)
	next[i] = item
	if err := s.commit(ctx, "update", next); err != nil {
		return entities.ActionItem{}, err
	}
	return item, nil
}

// Delete removes the item with the given id
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return apperrors.ErrActionItemNotFound(id)
	}

	next := make([]entities.ActionItem, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	return s.commit(ctx, "delete", next)
}

// Merge adds the non-duplicate candidates of one extraction
func (s *Store) Merge(ctx context.Context, candidates []entities.Candidate, meetingID string) (MergeReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, report := s.merger.Merge(s.items, candidates, meetingID)
	if report.Added == 0 {
		return report, nil
	}
	if err := s.commit(ctx, "merge", next); err != nil {
		return MergeReport{}, err
	}

	s.logger.Info("merged action items",
		zap.String("meeting_id", meetingID),
		zap.Int("added", report.Added),
		zap.Int("duplicates", report.Duplicates),
	)
	return report, nil
}

// Clear removes every item
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, "clear", []entities.ActionItem{})
}

// commit writes next and swaps it in. Callers hold the write lock.
func (s *Store) commit(ctx context.Context, op string, next []entities.ActionItem) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("failed to persist board",
			zap.String("operation", op),
			zap.Error(err),
		)
		return apperrors.ErrPersistenceFailed(op, err)
	}
	s.items = next
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func withDefaults(item entities.ActionItem, now time.Time) entities.ActionItem {
	item.Task = strings.TrimSpace(item.Task)
	item.Assignee = strings.TrimSpace(item.Assignee)
	if item.Assignee == "" {
		item.Assignee = entities.DefaultAssignee
	}
	if item.Priority == "" {
		item.Priority = entities.PriorityMedium
	}
	if !item.Status.Valid() {
		item.Status = entities.StatusToDo
	}
	if item.Source == "" {
		item.Source = entities.SourceManual
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	return item
}

func apply(item entities.ActionItem, u Update) (entities.ActionItem, error) {
	if u.Task != nil {
		task := strings.TrimSpace(*u.Task)
		if task == "" {
			return item, apperrors.ErrValidationFailed("task", entities.ErrEmptyTask)
		}
		item.Task = task
	}
	if u.Assignee != nil {
		item.Assignee = strings.TrimSpace(*u.Assignee)
		if item.Assignee == "" {
			item.Assignee = entities.DefaultAssignee
		}
	}
	if u.ClearDeadline {
		item.Deadline = nil
	} else if u.Deadline != nil {
		d := *u.Deadline
		item.Deadline = &d
	}
	if u.Priority != nil {
		switch *u.Priority {
		case entities.PriorityLow, entities.PriorityMedium, entities.PriorityHigh:
			item.Priority = *u.Priority
		default:
			return item, apperrors.ErrValidationFailed("priority", entities.ErrInvalidPriority)
		}
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return item, apperrors.ErrValidationFailed("status", entities.ErrInvalidStatus)
		}
		item.Status = *u.Status
	}
	if u.Context != nil {
		item.Context = strings.TrimSpace(*u.Context)
	}
	if u.MeetingID != nil {
		meetingID := strings.TrimSpace(*u.MeetingID)
		if item.MeetingID != "" && meetingID != item.MeetingID {
			return item, apperrors.ErrValidationFailed("meeting_id", entities.ErrImmutableField)
		}
		item.MeetingID = meetingID
	}
	return item, nil
}
