package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-action-board/errors"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
	"github.com/johnquangdev/meeting-action-board/internal/domain/repositories"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/actionitem"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/extraction"
	usecaseErrors "github.com/johnquangdev/meeting-action-board/internal/usecase/errors"
)

// Extractor produces candidates from transcript text
type Extractor interface {
	Extract(ctx context.Context, transcript, meetingID string) (*extraction.Result, error)
}

// Controller exposes the user operations on a board
type Controller struct {
	store     *actionitem.Store
	extractor Extractor
	source    repositories.TranscriptSource
	logger    *zap.Logger
}

// NewController creates a controller. extractor and source may be nil when
// extraction or the meeting integration is not configured.
func NewController(store *actionitem.Store, extractor Extractor, source repositories.TranscriptSource, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: store, extractor: extractor, source: source, logger: logger}
}

// Store returns the underlying board store
func (c *Controller) Store() *actionitem.Store {
	return c.store
}

// Item returns one action item
func (c *Controller) Item(id string) (entities.ActionItem, error) {
	return c.store.Get(id)
}

// Items returns every action item in board order
func (c *Controller) Items() []entities.ActionItem {
	return c.store.List()
}

// MoveStatus sets the status of an item. Any column can be reached from any other.
func (c *Controller) MoveStatus(ctx context.Context, id, status string) (entities.ActionItem, error) {
	s, err := entities.ParseStatus(status)
	if err != nil {
		return entities.ActionItem{}, apperrors.ErrValidationFailed("status", err)
	}
	return c.store.Update(ctx, id, actionitem.Update{Status: &s})
}

// ItemPatch is a partial edit. ID, Source and CreatedAt exist only so that an
// attempt to change them can be rejected.
type ItemPatch struct {
	ID        *string
	Source    *string
	CreatedAt *string

	Task      *string
	Assignee  *string
	Deadline  *string
	Priority  *string
	Status    *string
	Context   *string
	MeetingID *string
}

// EditItem applies a patch to the mutable fields of an item
func (c *Controller) EditItem(ctx context.Context, id string, patch ItemPatch) (entities.ActionItem, error) {
	if err := rejectImmutable(patch); err != nil {
		return entities.ActionItem{}, err
	}

	u := actionitem.Update{
		Task:      patch.Task,
		Assignee:  patch.Assignee,
		Context:   patch.Context,
		MeetingID: patch.MeetingID,
	}
	if patch.Deadline != nil {
		d, err := entities.ParseDeadline(*patch.Deadline)
		if err != nil {
			return entities.ActionItem{}, apperrors.ErrValidationFailed("deadline", err)
		}
		if d == nil {
			u.ClearDeadline = true
		} else {
			u.Deadline = d
		}
	}
	if patch.Priority != nil {
		p, err := entities.ParsePriority(*patch.Priority)
		if err != nil {
			return entities.ActionItem{}, apperrors.ErrValidationFailed("priority", err)
		}
		u.Priority = &p
	}
	if patch.Status != nil {
		s, err := entities.ParseStatus(*patch.Status)
		if err != nil {
			return entities.ActionItem{}, apperrors.ErrValidationFailed("status", err)
		}
		u.Status = &s
	}
	return c.store.Update(ctx, id, u)
}

func rejectImmutable(patch ItemPatch) error {
	switch {
	case patch.ID != nil:
		return apperrors.ErrValidationFailed("id", entities.ErrImmutableField)
	case patch.Source != nil:
		return apperrors.ErrValidationFailed("source", entities.ErrImmutableField)
	case patch.CreatedAt != nil:
		return apperrors.ErrValidationFailed("created_at", entities.ErrImmutableField)
	}
	return nil
}

// ManualItem holds the fields of a hand-written action item
type ManualItem struct {
	Task      string
	Assignee  string
	Deadline  string
	Priority  string
	Status    string
	Context   string
	MeetingID string
}

// AddManual validates and adds a hand-written item, returning it with its new id
func (c *Controller) AddManual(ctx context.Context, in ManualItem) (entities.ActionItem, error) {
	task := strings.TrimSpace(in.Task)
	if task == "" {
		return entities.ActionItem{}, apperrors.ErrValidationFailed("task", entities.ErrEmptyTask)
	}

	item := entities.ActionItem{
		Task:      task,
		Assignee:  in.Assignee,
		Source:    entities.SourceManual,
		Status:    entities.StatusToDo,
		Priority:  entities.PriorityMedium,
		Context:   strings.TrimSpace(in.Context),
		MeetingID: strings.TrimSpace(in.MeetingID),
	}
	if in.Deadline != "" {
		d, err := entities.ParseDeadline(in.Deadline)
		if err != nil {
			return entities.ActionItem{}, apperrors.ErrValidationFailed("deadline", err)
		}
		item.Deadline = d
	}
	if in.Priority != "" {
		p, err := entities.ParsePriority(in.Priority)
		if err != nil {
			return entities.ActionItem{}, apperrors.ErrValidationFailed("priority", err)
		}
		item.Priority = p
	}
	if in.Status != "" {
		s, err := entities.ParseStatus(in.Status)
		if err != nil {
			return entities.ActionItem{}, apperrors.ErrValidationFailed("status", err)
		}
		item.Status = s
	}

	id, err := c.store.Add(ctx, item)
	if err != nil {
		return entities.ActionItem{}, err
	}
	return c.store.Get(id)
}

// DeleteItem removes an item
func (c *Controller) DeleteItem(ctx context.Context, id string) error {
	return c.store.Delete(ctx, id)
}

// ClearAll removes every item from the board
func (c *Controller) ClearAll(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// ImportReport is the outcome of a bulk import
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	IDs      []string `json:"ids"`
}

// BulkImport adds every row that has a task. Malformed rows and rows without
// a task are skipped and counted; unparseable optional values fall back to defaults. Valid rows are
// written in one go.
func (c *Controller) BulkImport(ctx context.Context, rows []entities.ImportRow) (ImportReport, error) {
	report := ImportReport{IDs: []string{}}
	items := make([]entities.ActionItem, 0, len(rows))
	for _, row := range rows {
		task := strings.TrimSpace(row.Task)
		if row.Malformed || task == "" {
			report.Skipped++
			continue
		}
		items = append(items, importedItem(task, row))
	}

	if len(items) > 0 {
		ids, err := c.store.AddMany(ctx, items)
		if err != nil {
			return ImportReport{}, err
		}
		report.IDs = ids
	}
	report.Imported = len(items)

	c.logger.Info("bulk import finished",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

func importedItem(task string, row entities.ImportRow) entities.ActionItem {
	item := entities.ActionItem{
		Task:      task,
		Assignee:  strings.TrimSpace(row.Assignee),
		Priority:  entities.PriorityMedium,
		Status:    entities.StatusToDo,
		Source:    entities.SourceImported,
		Context:   strings.TrimSpace(row.Context),
		MeetingID: strings.TrimSpace(row.MeetingID),
	}
	if d, err := entities.ParseDeadline(row.Deadline); err == nil {
		item.Deadline = d
	}
	if p, err := entities.ParsePriority(row.Priority); err == nil {
		item.Priority = p
	}
	if s, err := entities.ParseStatus(row.Status); err == nil {
		item.Status = s
	}
	return item
}

// ExtractionReport combines the extraction and merge outcomes
type ExtractionReport struct {
	MeetingID  string                 `json:"meeting_id"`
	Candidates int                    `json:"candidates"`
	Dropped    int                    `json:"dropped"`
	Chunks     int                    `json:"chunks"`
	Merge      actionitem.MergeReport `json:"merge"`
}

// ExtractAndMerge runs extraction on the transcript and merges the result. The
// store is not locked while the model runs; nothing is merged unless the whole
// extraction succeeded.
func (c *Controller) ExtractAndMerge(ctx context.Context, transcript, meetingID string) (ExtractionReport, error) {
	meetingID = strings.TrimSpace(meetingID)
	report := ExtractionReport{MeetingID: meetingID, Merge: actionitem.MergeReport{AddedIDs: []string{}}}
	if c.extractor == nil {
		return report, apperrors.ErrExtractionFailed(fmt.Errorf("extraction is not configured"))
	}

	result, err := c.extractor.Extract(ctx, transcript, meetingID)
	if err != nil {
		return report, err
	}
	report.Candidates = len(result.Candidates)
	report.Dropped = result.Dropped
	report.Chunks = result.Chunks

	if err := ctx.Err(); err != nil {
		return report, apperrors.ErrExtractionFailed(err)
	}
	merge, err := c.store.Merge(ctx, result.Candidates, meetingID)
	if err != nil {
		return report, err
	}
	report.Merge = merge
	return report, nil
}

// MeetingTranscript is the latest transcript of a conference record
type MeetingTranscript struct {
	Record     entities.ConferenceRecord    `json:"record"`
	Transcript entities.TranscriptInfo      `json:"transcript"`
	Segments   []entities.TranscriptSegment `json:"segments"`
	Stats      entities.TranscriptStats     `json:"stats"`
}

// Text renders the transcript lines
func (m MeetingTranscript) Text() string {
	return entities.FormatTranscript(m.Segments)
}

// FindMeetings lists conference records by meeting code or time window
func (c *Controller) FindMeetings(ctx context.Context, q repositories.ConferenceQuery) ([]entities.ConferenceRecord, error) {
	if c.source == nil {
		return nil, apperrors.ErrTranscriptSourceFailed("find conference records", usecaseErrors.ErrSourceNotConfigured)
	}
	if strings.TrimSpace(q.MeetingCode) == "" && (q.Start.IsZero() || q.End.IsZero()) {
		return nil, apperrors.ErrValidationFailed("query", fmt.Errorf("meeting code or start and end time required"))
	}
	if !q.Start.IsZero() && !q.End.IsZero() && q.End.Before(q.Start) {
		return nil, apperrors.ErrValidationFailed("end", fmt.Errorf("end is before start"))
	}
	return c.source.FindConferenceRecords(ctx, q)
}

// TranscriptForMeeting fetches the latest transcript of a conference record
func (c *Controller) TranscriptForMeeting(ctx context.Context, conferenceRecordID string) (MeetingTranscript, error) {
	if c.source == nil {
		return MeetingTranscript{}, apperrors.ErrTranscriptSourceFailed("list transcripts", usecaseErrors.ErrSourceNotConfigured)
	}
	conferenceRecordID = strings.TrimPrefix(strings.TrimSpace(conferenceRecordID), "conferenceRecords/")
	if conferenceRecordID == "" {
		return MeetingTranscript{}, apperrors.ErrValidationFailed("meeting_id", fmt.Errorf("conference record id required"))
	}

	transcripts, err := c.source.ListTranscripts(ctx, conferenceRecordID)
	if err != nil {
		return MeetingTranscript{}, err
	}
	latest, ok := entities.LatestTranscript(transcripts)
	if !ok {
		return MeetingTranscript{}, apperrors.ErrNotFound("Transcript").WithDetail("meeting_id", conferenceRecordID)
	}

	segments, err := c.source.FetchSegments(ctx, latest.Name)
	if err != nil {
		return MeetingTranscript{}, err
	}
	return MeetingTranscript{
		Record:     entities.ConferenceRecord{Name: "conferenceRecords/" + conferenceRecordID},
		Transcript: latest,
		Segments:   segments,
		Stats:      entities.ComputeTranscriptStats(segments),
	}, nil
}

// ExtractFromMeeting fetches the latest transcript of a conference record and
// merges the extracted items under that record's id
func (c *Controller) ExtractFromMeeting(ctx context.Context, conferenceRecordID string) (ExtractionReport, error) {
	mt, err := c.TranscriptForMeeting(ctx, conferenceRecordID)
	if err != nil {
		return ExtractionReport{}, err
	}
	return c.ExtractAndMerge(ctx, mt.Text(), mt.Record.ID())
}

// Column is one status group of the board
type Column struct {
	Status entities.Status       `json:"status"`
	Label  string                `json:"label"`
	Count  int                   `json:"count"`
	Items  []entities.ActionItem `json:"items"`
}

// View is the board grouped by status
type View struct {
	Total       int       `json:"total"`
	Columns     []Column  `json:"columns"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Board returns the items grouped into the three status columns
func (c *Controller) Board() View {
	items := c.store.List()
	view := View{Total: len(items), GeneratedAt: time.Now().UTC()}
	for _, status := range entities.Statuses {
		col := Column{Status: status, Label: status.Label(), Items: []entities.ActionItem{}}
		for _, item := range items {
			if item.Status == status {
				col.Items = append(col.Items, item)
			}
		}
		col.Count = len(col.Items)
		view.Columns = append(view.Columns, col)
	}
	return view
}
