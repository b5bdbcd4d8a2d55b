package item

import "time"

// ItemResponse represents an action item in responses
type ItemResponse struct {
	ID          string    `json:"id"`
	Task        string    `json:"task"`
	Assignee    string    `json:"assignee"`
	Deadline    string    `json:"deadline,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	MeetingID   string    `json:"meeting_id,omitempty"`
	Context     string    `json:"context,omitempty"`
}

// ColumnResponse is one status column of the board
type ColumnResponse struct {
	Status string          `json:"status"`
	Label  string          `json:"label"`
	Count  int             `json:"count"`
	Items  []*ItemResponse `json:"items"`
}

// BoardResponse represents the whole board
type BoardResponse struct {
	Total       int              `json:"total"`
	Columns     []ColumnResponse `json:"columns"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// ImportResponse represents the outcome of a bulk import
type ImportResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	IDs      []string `json:"ids"`
}

// ExtractResponse represents the outcome of extraction and merge
type ExtractResponse struct {
	MeetingID  string   `json:"meeting_id,omitempty"`
	Candidates int      `json:"candidates"`
	Dropped    int      `json:"dropped"`
	Chunks     int      `json:"chunks"`
	Added      int      `json:"added"`
	Duplicates int      `json:"duplicates"`
	Ignored    int      `json:"ignored"`
	AddedIDs   []string `json:"added_ids"`
}

// UploadResponse points at an export stored in object storage
type UploadResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	Format    string    `json:"format"`
	ItemCount int       `json:"item_count"`
	ExpiresAt time.Time `json:"expires_at"`
}
