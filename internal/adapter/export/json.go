package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

// Record is the exported shape of an action item; field names match the CSV columns
type Record struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Assignee  string `json:"assignee"`
	Deadline  string `json:"deadline"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
	MeetingID string `json:"meeting_id"`
	Context   string `json:"context"`
}

// Metadata wraps an export
type Metadata struct {
	ExportedAt time.Time `json:"exported_at"`
	ItemCount  int       `json:"item_count"`
	MeetingID  string    `json:"meeting_id,omitempty"`
}

// Document is the JSON export
type Document struct {
	Metadata    Metadata `json:"metadata"`
	ActionItems []Record `json:"action_items"`
}

// NewRecord converts an item for export
func NewRecord(item entities.ActionItem) Record {
	row := itemRow(item)
	return Record{
		ID:        row[0],
		Task:      row[1],
		Assignee:  row[2],
		Deadline:  row[3],
		Priority:  row[4],
		Status:    row[5],
		Source:    row[6],
		CreatedAt: row[7],
		MeetingID: row[8],
		Context:   row[9],
	}
}

// NewDocument builds the JSON export of items
func NewDocument(items []entities.ActionItem, meetingID string, exportedAt time.Time) Document {
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, NewRecord(item))
	}
	return Document{
		Metadata: Metadata{
			ExportedAt: exportedAt.UTC(),
			ItemCount:  len(records),
			MeetingID:  meetingID,
		},
		ActionItems: records,
	}
}

// WriteJSON writes the JSON export of items
func WriteJSON(w io.Writer, items []entities.ActionItem, meetingID string, exportedAt time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(items, meetingID, exportedAt))
}
