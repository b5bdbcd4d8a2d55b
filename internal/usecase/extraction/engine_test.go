package extraction

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/meeting-action-board/errors"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

type fakeCompleter struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, _, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return `{"action_items":[]}`, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func TestExtract_EmptyTranscript(t *testing.T) {
	llm := &fakeCompleter{}
	engine := NewEngine(llm, 0, nil)

	result, err := engine.Extract(context.Background(), "  \n ", "abc-123")
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.NotNil(t, result.Candidates)
	assert.Zero(t, result.Dropped)
	assert.Empty(t, llm.prompts)
}

func TestExtract_ConcatenatesChunks(t *testing.T) {
	llm := &fakeCompleter{responses: []string{
		`{"action_items":[{"task":"First"}]}`,
		`{"action_items":[{"task":"Second"},{"task":""}]}`,
	}}
	engine := NewEngine(llm, 20, nil)

	result, err := engine.Extract(context.Background(), "alice: first thing\nbob: second thing", "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Chunks)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "First", result.Candidates[0].Task)
	assert.Equal(t, "Second", result.Candidates[1].Task)
	assert.Equal(t, 1, result.Dropped)
	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[0], "part 1 of 2")
	assert.Contains(t, llm.prompts[1], "Meeting: m1")

	err = result.DropSummary()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_PARSE_FAILED))
}

func TestExtract_ModelErrorIsExtractionFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	engine := NewEngine(&fakeCompleter{err: cause}, 0, nil)

	result, err := engine.Extract(context.Background(), "alice: do it", "m1")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_EXTRACTION_FAILED))
	assert.ErrorIs(t, err, cause)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	llm := &fakeCompleter{}
	result, err := NewEngine(llm, 0, nil).Extract(ctx, "alice: do it", "m1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, llm.prompts)
}

func TestExtract_NoModelConfigured(t *testing.T) {
	_, err := NewEngine(nil, 0, nil).Extract(context.Background(), "alice: do it", "")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_EXTRACTION_FAILED))
}

func TestExtractSegments(t *testing.T) {
	llm := &fakeCompleter{responses: []string{`[{"task":"Send slides","assignee":"Alice"}]`}}
	result, err := NewEngine(llm, 0, nil).ExtractSegments(context.Background(), []entities.TranscriptSegment{
		{Speaker: "Alice", Text: "I'll send the slides."},
	}, "m1")
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	assert.True(t, strings.Contains(llm.prompts[0], "Alice: I'll send the slides."))
	assert.NoError(t, result.DropSummary())
}
