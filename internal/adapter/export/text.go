package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

// WriteText writes a plain text report grouped by board column
func WriteText(w io.Writer, items []entities.ActionItem, exportedAt time.Time) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Action Items (%d) exported %s\n", len(items), exportedAt.UTC().Format(time.RFC3339))

	for _, status := range entities.Statuses {
		var column []entities.ActionItem
		for _, item := range items {
			if item.Status == status {
				column = append(column, item)
			}
		}

		fmt.Fprintf(&sb, "\n== %s (%d) ==\n", status.Label(), len(column))
		for _, item := range column {
			fmt.Fprintf(&sb, "- [%s] %s\n", item.Priority, item.Task)
			fmt.Fprintf(&sb, "  Assignee: %s\n", item.Assignee)
			if item.Deadline != nil {
				fmt.Fprintf(&sb, "  Deadline: %s\n", entities.FormatDeadline(item.Deadline))
			}
			if item.MeetingID != "" {
				fmt.Fprintf(&sb, "  Meeting: %s\n", item.MeetingID)
			}
			if item.Context != "" {
				fmt.Fprintf(&sb, "  Context: %s\n", strings.ReplaceAll(item.Context, "\n", " "))
			}
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteTranscript writes speaker segments as a plain text document
func WriteTranscript(w io.Writer, record entities.ConferenceRecord, segments []entities.TranscriptSegment) error {
	stats := entities.ComputeTranscriptStats(segments)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Meeting: %s\n", record.ID())
	if !record.StartTime.IsZero() {
		fmt.Fprintf(&sb, "Started: %s\n", record.StartTime.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "Entries: %d  Speakers: %s  Estimated duration: %.1f min\n\n",
		stats.Entries, strings.Join(stats.Speakers, ", "), stats.EstimatedMinutes)
	sb.WriteString(entities.FormatTranscript(segments))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
