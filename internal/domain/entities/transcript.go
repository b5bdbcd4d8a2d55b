package entities

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultSpeaker labels segments whose speaker could not be resolved
const DefaultSpeaker = "Speaker"

// TranscriptSegment is one speaker turn. Read-only input to extraction.
type TranscriptSegment struct {
	Speaker   string    `json:"speaker"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Text      string    `json:"text"`
}

// ConferenceRecord is a single occurrence of a meeting
type ConferenceRecord struct {
	Name      string    `json:"name"`
	Space     string    `json:"space"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ID returns the record identifier without the resource prefix
func (r ConferenceRecord) ID() string {
	return strings.TrimPrefix(r.Name, "conferenceRecords/")
}

// MeetingCode returns the space identifier shown to users
func (r ConferenceRecord) MeetingCode() string {
	if i := strings.LastIndex(r.Space, "/"); i >= 0 {
		return r.Space[i+1:]
	}
	return r.Space
}

// TranscriptInfo describes a transcript artifact of a conference record
type TranscriptInfo struct {
	Name      string    `json:"name"`
	State     string    `json:"state"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// LatestTranscript picks the most recently started transcript
func LatestTranscript(transcripts []TranscriptInfo) (TranscriptInfo, bool) {
	if len(transcripts) == 0 {
		return TranscriptInfo{}, false
	}
	sorted := make([]TranscriptInfo, len(transcripts))
	copy(sorted, transcripts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})
	return sorted[len(sorted)-1], true
}

// FormatTranscript renders segments as "[start] speaker: text" lines, one per segment
func FormatTranscript(segments []TranscriptSegment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		speaker := s.Speaker
		if speaker == "" {
			speaker = DefaultSpeaker
		}
		text := strings.Join(strings.Fields(s.Text), " ")
		if text == "" {
			continue
		}
		stamp := ""
		if !s.StartTime.IsZero() {
			stamp = s.StartTime.UTC().Format(time.RFC3339)
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", stamp, speaker, text))
	}
	return strings.Join(lines, "\n")
}

// TranscriptStats summarizes a transcript for display
type TranscriptStats struct {
	Entries          int      `json:"entries"`
	Speakers         []string `json:"speakers"`
	Characters       int      `json:"characters"`
	EstimatedMinutes float64  `json:"estimated_minutes"`
}

// ComputeTranscriptStats counts entries, unique speakers and characters. The
// duration estimate assumes half a minute per entry.
func ComputeTranscriptStats(segments []TranscriptSegment) TranscriptStats {
	seen := make(map[string]struct{})
	stats := TranscriptStats{Entries: len(segments), Speakers: []string{}}
	for _, s := range segments {
		stats.Characters += len([]rune(s.Text))
		if _, ok := seen[s.Speaker]; !ok {
			seen[s.Speaker] = struct{}{}
			stats.Speakers = append(stats.Speakers, s.Speaker)
		}
	}
	sort.Strings(stats.Speakers)
	stats.EstimatedMinutes = float64(len(segments)) * 0.5
	return stats
}
