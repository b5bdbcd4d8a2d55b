package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-action-board/errors"
	"github.com/johnquangdev/meeting-action-board/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-action-board/internal/adapter/export"
	"github.com/johnquangdev/meeting-action-board/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-action-board/internal/domain/repositories"
	httpmw "github.com/johnquangdev/meeting-action-board/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/board"
)

// Meeting handles conference record and transcript HTTP requests
type Meeting struct {
	controller *board.Controller
	logger     *zap.Logger
}

// NewMeeting creates a new meeting handler
func NewMeeting(controller *board.Controller, logger *zap.Logger) *Meeting {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Meeting{controller: controller, logger: logger}
}

// Search finds conference records by meeting code or time window
// GET /v1/meetings?code=abc-defg-hij
// GET /v1/meetings?start=2026-10-01T00:00:00Z&end=2026-10-02T00:00:00Z
func (h *Meeting) Search(c echo.Context) error {
	var q meeting.SearchQuery
	if err := bindAndValidate(c, &q); err != nil {
		return HandleError(h.logger, c, err)
	}

	query := repositories.ConferenceQuery{MeetingCode: q.Code}
	if q.Code == "" {
		start, err := time.Parse(time.RFC3339, q.Start)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrValidationFailed("start", err))
		}
		end, err := time.Parse(time.RFC3339, q.End)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrValidationFailed("end", err))
		}
		query.Start, query.End = start, end
	}

	records, err := h.controller.FindMeetings(c.Request().Context(), query)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingResponses(records))
}

// Transcript returns the latest transcript of a conference record
// GET /v1/meetings/:id/transcript[?format=txt]
func (h *Meeting) Transcript(c echo.Context) error {
	var q meeting.TranscriptQuery
	if err := bindAndValidate(c, &q); err != nil {
		return HandleError(h.logger, c, err)
	}

	mt, err := h.controller.TranscriptForMeeting(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if q.Format == "txt" || q.Format == "text" {
		var buf bytes.Buffer
		if err := export.WriteTranscript(&buf, mt.Record, mt.Segments); err != nil {
			return HandleError(h.logger, c, errors.ErrExportFailed("txt", err))
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", "transcript_"+mt.Record.ID()+".txt"))
		return c.Blob(http.StatusOK, export.FormatText.ContentType(), buf.Bytes())
	}
	return HandleSuccess(h.logger, c, presenter.ToTranscriptResponse(mt))
}

// Extract runs extraction on the latest transcript of a conference record
// POST /v1/meetings/:id/extract
func (h *Meeting) Extract(c echo.Context) error {
	if conn, ok := httpmw.GetConnection(c); ok {
		h.logger.Info("extracting meeting transcript",
			zap.String("conference_record", c.Param("id")),
			zap.String("account", conn.Email),
		)
	}
	report, err := h.controller.ExtractFromMeeting(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToExtractResponse(report))
}
