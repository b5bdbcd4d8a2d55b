package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultAssignee is used when nobody was named for a task
const DefaultAssignee = "Unassigned"

// Status is the board column an action item sits in
type Status string

const (
	StatusToDo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists the board columns in display order
var Statuses = []Status{StatusToDo, StatusInProgress, StatusDone}

// ParseStatus accepts the canonical values plus common spellings ("To Do", "InProgress", ...)
func ParseStatus(s string) (Status, error) {
	switch normalizeEnum(s) {
	case "todo", "to_do":
		return StatusToDo, nil
	case "in_progress", "inprogress", "doing":
		return StatusInProgress, nil
	case "done", "completed":
		return StatusDone, nil
	}
	return "", ErrInvalidStatus
}

// Label returns the human readable column name
func (s Status) Label() string {
	switch s {
	case StatusToDo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Valid reports whether s is one of the three board columns
func (s Status) Valid() bool {
	return s == StatusToDo || s == StatusInProgress || s == StatusDone
}

// Priority of an action item
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority maps loose priority text onto the three levels
func ParsePriority(s string) (Priority, error) {
	switch normalizeEnum(s) {
	case "low", "minor":
		return PriorityLow, nil
	case "medium", "med", "normal":
		return PriorityMedium, nil
	case "high", "urgent", "critical":
		return PriorityHigh, nil
	}
	return "", ErrInvalidPriority
}

// Source records how an action item entered the board
type Source string

const (
	SourceAIExtracted Source = "ai_extracted"
	SourceManual      Source = "manual"
	SourceImported    Source = "imported"
)

// ParseSource parses a persisted source value
func ParseSource(s string) (Source, error) {
	switch normalizeEnum(s) {
	case "ai_extracted", "ai", "aiextracted":
		return SourceAIExtracted, nil
	case "manual":
		return SourceManual, nil
	case "imported":
		return SourceImported, nil
	}
	return "", ErrInvalidSource
}

// ActionItem is a task on the board
type ActionItem struct {
	ID        string
	Task      string
	Assignee  string
	Deadline  *time.Time
	Priority  Priority
	Status    Status
	Source    Source
	CreatedAt time.Time
	MeetingID string
	Context   string
}

// NewActionItem creates an item with a fresh identifier and board defaults
func NewActionItem(task string, source Source, now time.Time) ActionItem {
	return ActionItem{
		ID:        uuid.NewString(),
		Task:      strings.TrimSpace(task),
		Assignee:  DefaultAssignee,
		Priority:  PriorityMedium,
		Status:    StatusToDo,
		Source:    source,
		CreatedAt: now.UTC(),
	}
}

// Candidate is an action item proposed by extraction, not yet on the board
type Candidate struct {
	Task     string
	Assignee string
	Deadline *time.Time
	Priority Priority
	Context  string
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}

// ImportRow is one untyped row of an import file. Only Task is required;
// the other values are parsed leniently. Malformed marks a record the CSV
// reader could not split into fields.
type ImportRow struct {
	Malformed bool

	Task      string
	Assignee  string
	Deadline  string
	Priority  string
	Status    string
	Context   string
	MeetingID string
}
