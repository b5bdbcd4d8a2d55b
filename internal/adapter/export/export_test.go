package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

func sampleItems() []entities.ActionItem {
	deadline := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	return []entities.ActionItem{
		{
			ID: "a1", Task: "Send slides, v2", Assignee: "Alice", Deadline: &deadline,
			Priority: entities.PriorityHigh, Status: entities.StatusToDo, Source: entities.SourceAIExtracted,
			CreatedAt: created, MeetingID: "abc-123", Context: "said \"today\"\nafter demo",
		},
		{
			ID: "a2", Task: "Book room", Assignee: entities.DefaultAssignee,
			Priority: entities.PriorityLow, Status: entities.StatusDone, Source: entities.SourceManual,
			CreatedAt: created,
		},
	}
}

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleItems()))

	lines := strings.SplitN(buf.String(), "\n", 2)
	assert.Equal(t, "id,task,assignee,deadline,priority,status,source,created_at,meeting_id,context", lines[0])
	assert.Contains(t, lines[1], `a1,"Send slides, v2",Alice,2026-10-20,High,todo,ai_extracted,2026-10-14T09:00:00Z,abc-123,`)
}

func TestCSVStoredRoundTrip(t *testing.T) {
	items := sampleItems()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, items))

	rows, err := ReadRows(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for i, row := range rows {
		got, err := ItemFromRow(row)
		require.NoError(t, err)
		assert.Equal(t, items[i], got)
	}
}

func TestItemFromRow_OldFileWithoutContextColumn(t *testing.T) {
	old := "id,task,assignee,deadline,priority,status,source,created_at,meeting_id\n" +
		"x1,Legacy task,Bob,,Medium,In Progress,manual,2025-01-02T03:04:05Z,\n"
	rows, err := ReadRows(strings.NewReader(old))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	item, err := ItemFromRow(rows[0])
	require.NoError(t, err)
	assert.Equal(t, "Legacy task", item.Task)
	assert.Equal(t, entities.StatusInProgress, item.Status)
	assert.Empty(t, item.Context)
	assert.Nil(t, item.Deadline)
}

func TestItemFromRow_DefaultsAndMissingID(t *testing.T) {
	item, err := ItemFromRow(map[string]string{"id": "z", "task": "t", "priority": "??", "status": "later"})
	require.NoError(t, err)
	assert.Equal(t, entities.PriorityMedium, item.Priority)
	assert.Equal(t, entities.StatusToDo, item.Status)
	assert.Equal(t, entities.DefaultAssignee, item.Assignee)

	_, err = ItemFromRow(map[string]string{"task": "no id"})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestParseImport(t *testing.T) {
	doc := "\ufeffTitle,Assignee,Priority\nWrite report,Carol,high\n,Nobody,low\n\nPlan offsite,,\n"
	rows, err := ParseImport(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, entities.ImportRow{Task: "Write report", Assignee: "Carol", Priority: "high"}, rows[0])
	assert.Equal(t, "", rows[1].Task)
	assert.Equal(t, "Plan offsite", rows[2].Task)

	_, err = ParseImport(strings.NewReader("owner,priority\nBob,High\n"))
	assert.Error(t, err)

	rows, err = ParseImport(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseImport_StrayQuotesAreLiteral(t *testing.T) {
	doc := "task,assignee\nWrite report,Bob\nFix the \"urgent\" bug,Carol\nReview budget,Dan\n"
	rows, err := ParseImport(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, `Fix the "urgent" bug`, rows[1].Task)
	assert.Equal(t, "Carol", rows[1].Assignee)
	assert.Equal(t, "Review budget", rows[2].Task)
	for _, row := range rows {
		assert.False(t, row.Malformed)
	}
}

func TestReadRows_StrictForBoardFiles(t *testing.T) {
	_, err := ReadRows(strings.NewReader("id,task\n1,Fix the \"urgent\" bug\n"))
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleItems(), "abc-123", now))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc.Metadata.ItemCount)
	assert.Equal(t, now, doc.Metadata.ExportedAt)
	assert.Equal(t, "abc-123", doc.Metadata.MeetingID)
	require.Len(t, doc.ActionItems, 2)
	assert.Equal(t, "2026-10-20", doc.ActionItems[0].Deadline)
	assert.Equal(t, "ai_extracted", doc.ActionItems[0].Source)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	first := raw["action_items"].([]any)[0].(map[string]any)
	for _, c := range Columns {
		assert.Contains(t, first, c)
	}
}

func TestWriteText_GroupsByStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleItems(), time.Now()))
	out := buf.String()

	todo := strings.Index(out, "== To Do (1) ==")
	inProgress := strings.Index(out, "== In Progress (0) ==")
	done := strings.Index(out, "== Done (1) ==")
	require.True(t, todo >= 0 && inProgress > todo && done > inProgress, out)
	assert.Contains(t, out, "- [High] Send slides, v2")
	assert.Contains(t, out, "Deadline: 2026-10-20")
}

func TestRenderAndFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	assert.Equal(t, "application/json", f.ContentType())

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)

	now := time.Date(2026, 10, 14, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "action_items_20261014_123000.txt", FormatText.FileName(now))

	body, err := Render(FormatCSV, sampleItems(), "", now)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("id,task")))
}

func TestWriteTranscript(t *testing.T) {
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := WriteTranscript(&buf, entities.ConferenceRecord{Name: "conferenceRecords/r1", StartTime: start},
		[]entities.TranscriptSegment{{Speaker: "Alice", StartTime: start, Text: "Hi"}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Meeting: r1")
	assert.Contains(t, buf.String(), "[2026-10-01T09:00:00Z] Alice: Hi")
}
