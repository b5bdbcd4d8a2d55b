package actionitem

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
}

func testMerger() Merger {
	return Merger{Threshold: 1, NewID: sequentialIDs(), Now: fixedClock}
}

func TestNormalizeTask(t *testing.T) {
	assert.Equal(t, "send slides", NormalizeTask("  Send   Slides. "))
	assert.Equal(t, "send slides", NormalizeTask("send slides!"))
	assert.Equal(t, "", NormalizeTask("   "))
}

func TestMerge_AppendsNewCandidates(t *testing.T) {
	deadline := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	merged, report := testMerger().Merge(nil, []entities.Candidate{
		{Task: "Send slides", Assignee: "Alice", Deadline: &deadline, Priority: entities.PriorityHigh},
		{Task: "Book room"},
	}, "abc-123")

	require.Len(t, merged, 2)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, []string{"id-1", "id-2"}, report.AddedIDs)

	first := merged[0]
	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, "Send slides", first.Task)
	assert.Equal(t, "Alice", first.Assignee)
	assert.Equal(t, &deadline, first.Deadline)
	assert.Equal(t, entities.PriorityHigh, first.Priority)
	assert.Equal(t, entities.StatusToDo, first.Status)
	assert.Equal(t, entities.SourceAIExtracted, first.Source)
	assert.Equal(t, "abc-123", first.MeetingID)
	assert.Equal(t, fixedClock(), first.CreatedAt)

	second := merged[1]
	assert.Equal(t, entities.DefaultAssignee, second.Assignee)
	assert.Equal(t, entities.PriorityMedium, second.Priority)
}

func TestMerge_SkipsCaseAndWhitespaceDuplicate(t *testing.T) {
	existing := []entities.ActionItem{{
		ID:        "keep",
		Task:      "Send slides",
		Assignee:  "Alice (edited)",
		Priority:  entities.PriorityLow,
		Status:    entities.StatusToDo,
		Source:    entities.SourceAIExtracted,
		MeetingID: "abc-123",
	}}

	merged, report := testMerger().Merge(existing, []entities.Candidate{
		{Task: "  send   slides ", Assignee: "Bob", Priority: entities.PriorityHigh},
	}, "abc-123")

	assert.Equal(t, existing, merged)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 1, report.Duplicates)
}

func TestMerge_DuplicateScope(t *testing.T) {
	existing := []entities.ActionItem{
		{ID: "a", Task: "Send slides", Source: entities.SourceAIExtracted, MeetingID: "other"},
		{ID: "b", Task: "Send slides", Source: entities.SourceManual, MeetingID: "abc-123"},
	}

	merged, report := testMerger().Merge(existing, []entities.Candidate{{Task: "Send slides"}}, "abc-123")
	assert.Len(t, merged, 3)
	assert.Equal(t, 1, report.Added)
}

func TestMerge_IsIdempotentForFixedCandidates(t *testing.T) {
	m := testMerger()
	candidates := []entities.Candidate{
		{Task: "Send slides"},
		{Task: "SEND SLIDES."},
		{Task: "Review budget"},
		{Task: "   "},
	}

	once, first := m.Merge(nil, candidates, "m1")
	twice, second := m.Merge(once, candidates, "m1")

	assert.Equal(t, once, twice)
	assert.Equal(t, 2, first.Added)
	assert.Equal(t, 1, first.Duplicates)
	assert.Equal(t, 1, first.Ignored)
	assert.Equal(t, 0, second.Added)
}

func TestMerge_DoesNotMutateExisting(t *testing.T) {
	existing := make([]entities.ActionItem, 1, 10)
	existing[0] = entities.ActionItem{ID: "x", Task: "Old"}

	merged, _ := testMerger().Merge(existing, []entities.Candidate{{Task: "New"}}, "m1")
	require.Len(t, merged, 2)
	assert.Len(t, existing, 1)
	assert.Equal(t, entities.ActionItem{}, existing[:2][1])
}

func TestMerge_FuzzyThreshold(t *testing.T) {
	existing := []entities.ActionItem{{ID: "a", Task: "Send the slides to the client", Source: entities.SourceAIExtracted, MeetingID: "m1"}}
	candidates := []entities.Candidate{{Task: "Send slides to the client"}}

	_, exact := testMerger().Merge(existing, candidates, "m1")
	assert.Equal(t, 1, exact.Added)

	fuzzy := testMerger()
	fuzzy.Threshold = 0.7
	_, report := fuzzy.Merge(existing, candidates, "m1")
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 1, report.Duplicates)
}

func TestMerge_IDsStayUniqueAgainstExisting(t *testing.T) {
	existing := []entities.ActionItem{{ID: "id-1", Task: "Existing"}}
	merged, _ := testMerger().Merge(existing, []entities.Candidate{{Task: "One"}, {Task: "Two"}}, "m1")

	ids := map[string]bool{}
	for _, item := range merged {
		assert.False(t, ids[item.ID], "duplicate id %s", item.ID)
		ids[item.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("a b", "a b"))
	assert.Equal(t, 0.0, Similarity("", "a"))
	assert.InDelta(t, 0.5, Similarity("a b", "a c b d"), 1e-9)
}
