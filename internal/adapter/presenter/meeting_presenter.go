package presenter

import (
	"time"

	"github.com/johnquangdev/meeting-action-board/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/board"
)

// ToMeetingResponse converts a conference record
func ToMeetingResponse(r entities.ConferenceRecord) *meeting.MeetingResponse {
	return &meeting.MeetingResponse{
		ID:          r.ID(),
		Name:        r.Name,
		MeetingCode: r.MeetingCode(),
		StartTime:   optionalTime(r.StartTime),
		EndTime:     optionalTime(r.EndTime),
	}
}

// ToMeetingResponses converts a slice of conference records
func ToMeetingResponses(records []entities.ConferenceRecord) []*meeting.MeetingResponse {
	responses := make([]*meeting.MeetingResponse, len(records))
	for i, r := range records {
		responses[i] = ToMeetingResponse(r)
	}
	return responses
}

// ToTranscriptResponse converts a fetched transcript
func ToTranscriptResponse(mt board.MeetingTranscript) *meeting.TranscriptResponse {
	segments := mt.Segments
	if segments == nil {
		segments = []entities.TranscriptSegment{}
	}
	return &meeting.TranscriptResponse{
		MeetingID:  mt.Record.ID(),
		Transcript: mt.Transcript.Name,
		State:      mt.Transcript.State,
		Stats:      mt.Stats,
		Segments:   segments,
		Text:       mt.Text(),
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
