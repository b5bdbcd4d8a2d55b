package repositories

import (
	"context"
	"time"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

// ConferenceQuery selects conference records by meeting code or by start time window
type ConferenceQuery struct {
	MeetingCode string
	Start       time.Time
	End         time.Time
}

// TranscriptSource supplies meeting transcripts
type TranscriptSource interface {
	FindConferenceRecords(ctx context.Context, q ConferenceQuery) ([]entities.ConferenceRecord, error)
	ListTranscripts(ctx context.Context, conferenceRecordID string) ([]entities.TranscriptInfo, error)
	FetchSegments(ctx context.Context, transcriptName string) ([]entities.TranscriptSegment, error)
}
