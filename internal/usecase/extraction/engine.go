package extraction

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-action-board/errors"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

// DefaultMaxChunkChars bounds the transcript text sent in one model call
const DefaultMaxChunkChars = 24000

// Completer is the model call used by the engine
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// Result holds the candidates of one extraction and the entries that were dropped
type Result struct {
	Candidates  []entities.Candidate
	Dropped     int
	DropReasons []string
	Chunks      int
}

// DropSummary reports dropped entries as a single PARSE_FAILED error, nil when none were dropped
func (r *Result) DropSummary() error {
	if r == nil || r.Dropped == 0 {
		return nil
	}
	return apperrors.ErrParseFailed(r.Dropped)
}

// Engine turns transcript text into action item candidates. It holds no state
// between calls.
type Engine struct {
	llm           Completer
	maxChunkChars int
	logger        *zap.Logger
}

// NewEngine creates an extraction engine
func NewEngine(llm Completer, maxChunkChars int, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxChunkChars <= 0 {
		maxChunkChars = DefaultMaxChunkChars
	}
	return &Engine{llm: llm, maxChunkChars: maxChunkChars, logger: logger}
}

// Extract sends the transcript to the model chunk by chunk and concatenates the
// candidates. Any model error fails the whole extraction. An empty transcript
// returns an empty result without calling the model.
func (e *Engine) Extract(ctx context.Context, transcript, meetingID string) (*Result, error) {
	result := &Result{Candidates: []entities.Candidate{}}
	if strings.TrimSpace(transcript) == "" {
		return result, nil
	}
	if e.llm == nil {
		return nil, apperrors.ErrExtractionFailed(fmt.Errorf("extraction model not configured"))
	}

	chunks := SplitTranscript(transcript, e.maxChunkChars)
	result.Chunks = len(chunks)
	system := SystemPrompt()

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.ErrExtractionFailed(err)
		}

		content, err := e.llm.CompleteJSON(ctx, system, UserPrompt(chunk, i, len(chunks), meetingID))
		if err != nil {
			e.logger.Error("action item extraction failed",
				zap.String("meeting_id", meetingID),
				zap.Int("chunk", i+1),
				zap.Int("chunks", len(chunks)),
				zap.Error(err),
			)
			return nil, apperrors.ErrExtractionFailed(err)
		}

		for _, outcome := range ParseResponse(content) {
			if outcome.Dropped {
				result.Dropped++
				result.DropReasons = append(result.DropReasons, outcome.Reason)
				continue
			}
			result.Candidates = append(result.Candidates, outcome.Candidate)
		}
	}

	if result.Dropped > 0 {
		e.logger.Warn("dropped malformed action items",
			zap.String("meeting_id", meetingID),
			zap.Int("dropped", result.Dropped),
			zap.Strings("reasons", result.DropReasons),
		)
	}
	e.logger.Info("extracted action items",
		zap.String("meeting_id", meetingID),
		zap.Int("candidates", len(result.Candidates)),
		zap.Int("chunks", result.Chunks),
	)
	return result, nil
}

// ExtractSegments formats speaker segments as transcript lines and extracts from them
func (e *Engine) ExtractSegments(ctx context.Context, segments []entities.TranscriptSegment, meetingID string) (*Result, error) {
	return e.Extract(ctx, entities.FormatTranscript(segments), meetingID)
}
