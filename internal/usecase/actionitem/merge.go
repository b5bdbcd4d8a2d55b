package actionitem

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

// MergeReport counts what a merge did with its candidates
type MergeReport struct {
	Added      int      `json:"added"`
	Duplicates int      `json:"duplicates"`
	Ignored    int      `json:"ignored"`
	AddedIDs   []string `json:"added_ids"`
}

// Merger reconciles extracted candidates with the current board
type Merger struct {
	// Threshold is the word-set similarity at or above which two tasks are
	// duplicates. 1 or more means exact normalized match only.
	Threshold float64
	NewID     func() string
	Now       func() time.Time
}

// NewMerger returns a merger with exact-match deduplication
func NewMerger() Merger {
	return Merger{Threshold: 1, NewID: uuid.NewString, Now: time.Now}
}

// Merge returns existing with the non-duplicate candidates appended. A candidate
// is a duplicate when an AI-extracted item of the same meeting, or an earlier
// candidate of the same batch, carries the same normalized task. Duplicates are
// skipped so existing items keep their edits. existing is never modified.
func (m Merger) Merge(existing []entities.ActionItem, candidates []entities.Candidate, meetingID string) ([]entities.ActionItem, MergeReport) {
	newID := m.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := m.Now
	if now == nil {
		now = time.Now
	}

	merged := make([]entities.ActionItem, len(existing), len(existing)+len(candidates))
	copy(merged, existing)
	report := MergeReport{AddedIDs: []string{}}

	used := make(map[string]struct{}, len(existing))
	var seen []string
	for _, item := range existing {
		used[item.ID] = struct{}{}
		if item.Source == entities.SourceAIExtracted && item.MeetingID == meetingID {
			seen = append(seen, NormalizeTask(item.Task))
		}
	}

	createdAt := now().UTC()
	for _, c := range candidates {
		key := NormalizeTask(c.Task)
		if key == "" {
			report.Ignored++
			continue
		}
		if m.isDuplicate(key, seen) {
			report.Duplicates++
			continue
		}
		seen = append(seen, key)

		item := entities.NewActionItem(c.Task, entities.SourceAIExtracted, createdAt)
		item.ID = uniqueID(newID, used)
		if a := strings.TrimSpace(c.Assignee); a != "" {
			item.Assignee = a
		}
		item.Deadline = c.Deadline
		if c.Priority != "" {
			item.Priority = c.Priority
		}
		item.Context = c.Context
		item.MeetingID = meetingID

		merged = append(merged, item)
		report.Added++
		report.AddedIDs = append(report.AddedIDs, item.ID)
	}
	return merged, report
}

func (m Merger) isDuplicate(key string, seen []string) bool {
	for _, s := range seen {
		if s == key {
			return true
		}
		if m.Threshold > 0 && m.Threshold < 1 && Similarity(key, s) >= m.Threshold {
			return true
		}
	}
	return false
}

// uniqueID draws ids until one is not in used and records it
func uniqueID(newID func() string, used map[string]struct{}) string {
	for i := 0; i < 8; i++ {
		id := newID()
		if _, taken := used[id]; !taken && id != "" {
			used[id] = struct{}{}
			return id
		}
	}
	for {
		id := uuid.NewString()
		if _, taken := used[id]; !taken {
			used[id] = struct{}{}
			return id
		}
	}
}
