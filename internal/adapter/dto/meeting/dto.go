package meeting

import (
	"time"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

// SearchQuery selects conference records by code or by start time window (RFC 3339)
type SearchQuery struct {
	Code  string `query:"code" validate:"omitempty,max=64"`
	Start string `query:"start" validate:"required_without=Code"`
	End   string `query:"end" validate:"required_with=Start"`
}

// TranscriptQuery selects the transcript rendering
type TranscriptQuery struct {
	Format string `query:"format" validate:"omitempty,oneof=json txt text"`
}

// MeetingResponse represents a conference record
type MeetingResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	MeetingCode string     `json:"meeting_code,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

// TranscriptResponse represents the latest transcript of a meeting
type TranscriptResponse struct {
	MeetingID  string                       `json:"meeting_id"`
	Transcript string                       `json:"transcript"`
	State      string                       `json:"state,omitempty"`
	Stats      entities.TranscriptStats     `json:"stats"`
	Segments   []entities.TranscriptSegment `json:"segments"`
	Text       string                       `json:"text"`
}
