package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-action-board/errors"
	"github.com/johnquangdev/meeting-action-board/internal/adapter/dto/item"
	"github.com/johnquangdev/meeting-action-board/internal/adapter/export"
	"github.com/johnquangdev/meeting-action-board/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
	"github.com/johnquangdev/meeting-action-board/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/board"
	usecaseErrors "github.com/johnquangdev/meeting-action-board/internal/usecase/errors"
)

// maxImportBytes bounds the size of an uploaded import file
var maxImportBytes int64 = 10 << 20

// Uploader stores rendered exports
type Uploader interface {
	UploadExport(ctx context.Context, fileName string, content []byte, contentType string) (*storage.Upload, error)
	ListExports(ctx context.Context) ([]string, error)
}

// Board handles board and action item HTTP requests
type Board struct {
	controller *board.Controller
	uploader   Uploader
	logger     *zap.Logger
	now        func() time.Time
}

// NewBoard creates a new board handler. uploader may be nil when object storage is disabled.
func NewBoard(controller *board.Controller, uploader Uploader, logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{
		controller: controller,
		uploader:   uploader,
		logger:     logger,
		now:        time.Now,
	}
}

// GetBoard returns the items grouped by status
// GET /v1/board
func (h *Board) GetBoard(c echo.Context) error {
	return HandleSuccess(h.logger, c, presenter.ToBoardResponse(h.controller.Board()))
}

// ClearBoard deletes every item
// DELETE /v1/board
func (h *Board) ClearBoard(c echo.Context) error {
	count := len(h.controller.Items())
	if err := h.controller.ClearAll(c.Request().Context()); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]int{"deleted": count})
}

// ExportBoard downloads the board, or uploads it and returns a link
// GET /v1/board/export?format=csv|json|txt[&meeting_id=...][&upload=true]
func (h *Board) ExportBoard(c echo.Context) error {
	var q item.ExportQuery
	if err := bindAndValidate(c, &q); err != nil {
		return HandleError(h.logger, c, err)
	}

	format, err := export.ParseFormat(q.Format)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrValidationFailed("format", usecaseErrors.ErrUnsupportedFormat))
	}

	items := h.controller.Items()
	if q.MeetingID != "" {
		items = filterByMeeting(items, q.MeetingID)
	}

	now := h.now()
	content, err := export.Render(format, items, q.MeetingID, now)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrExportFailed(string(format), err))
	}
	fileName := format.FileName(now)

	if q.Upload {
		if h.uploader == nil {
			return HandleError(h.logger, c, errors.ErrStorageFailed("upload", usecaseErrors.ErrStorageNotConfigured))
		}
		upload, err := h.uploader.UploadExport(c.Request().Context(), fileName, content, format.ContentType())
		if err != nil {
			return HandleError(h.logger, c, errors.ErrStorageFailed("upload", err))
		}
		return HandleSuccess(h.logger, c, &item.UploadResponse{
			Key:       upload.Key,
			URL:       upload.URL,
			Size:      upload.Size,
			Format:    string(format),
			ItemCount: len(items),
			ExpiresAt: upload.ExpiresAt,
		})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Blob(http.StatusOK, format.ContentType(), content)
}

// ListExports returns the keys of uploaded exports
// GET /v1/board/exports
func (h *Board) ListExports(c echo.Context) error {
	if h.uploader == nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("list", usecaseErrors.ErrStorageNotConfigured))
	}
	keys, err := h.uploader.ListExports(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("list", err))
	}
	if keys == nil {
		keys = []string{}
	}
	return HandleSuccess(h.logger, c, map[string][]string{"exports": keys})
}

// ListItems returns every item in board order
// GET /v1/items
func (h *Board) ListItems(c echo.Context) error {
	return HandleSuccess(h.logger, c, presenter.ToItemResponses(h.controller.Items()))
}

// GetItem returns one item
// GET /v1/items/:id
func (h *Board) GetItem(c echo.Context) error {
	a, err := h.controller.Item(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToItemResponse(a))
}

// CreateItem adds a manual item
// POST /v1/items
func (h *Board) CreateItem(c echo.Context) error {
	var req item.CreateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	a, err := h.controller.AddManual(c.Request().Context(), board.ManualItem{
		Task:      req.Task,
		Assignee:  req.Assignee,
		Deadline:  req.Deadline,
		Priority:  req.Priority,
		Status:    req.Status,
		Context:   req.Context,
		MeetingID: req.MeetingID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccessStatus(h.logger, c, http.StatusCreated, presenter.ToItemResponse(a))
}

// UpdateItem edits the mutable fields of an item
// PATCH /v1/items/:id
func (h *Board) UpdateItem(c echo.Context) error {
	var req item.UpdateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	a, err := h.controller.EditItem(c.Request().Context(), c.Param("id"), board.ItemPatch{
		ID:        req.ID,
		Source:    req.Source,
		CreatedAt: req.CreatedAt,
		Task:      req.Task,
		Assignee:  req.Assignee,
		Deadline:  req.Deadline,
		Priority:  req.Priority,
		Status:    req.Status,
		Context:   req.Context,
		MeetingID: req.MeetingID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToItemResponse(a))
}

// MoveStatus moves an item to another column
// PUT /v1/items/:id/status
func (h *Board) MoveStatus(c echo.Context) error {
	var req item.MoveStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	a, err := h.controller.MoveStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToItemResponse(a))
}

// DeleteItem removes an item
// DELETE /v1/items/:id
func (h *Board) DeleteItem(c echo.Context) error {
	id := c.Param("id")
	if err := h.controller.DeleteItem(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"id": id})
}

// ImportItems bulk imports a CSV sent as multipart "file" or as the raw body
// POST /v1/items/import
func (h *Board) ImportItems(c echo.Context) error {
	body, closeBody, err := importBody(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	defer closeBody()

	data, err := io.ReadAll(io.LimitReader(body, maxImportBytes+1))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrValidationFailed("file", err))
	}
	if int64(len(data)) > maxImportBytes {
		return HandleError(h.logger, c, errors.ErrValidationFailed("file", usecaseErrors.ErrImportTooLarge).
			WithDetail("limit_bytes", strconv.FormatInt(maxImportBytes, 10)))
	}

	rows, err := export.ParseImport(bytes.NewReader(data))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrValidationFailed("file", err))
	}
	if len(rows) == 0 {
		return HandleError(h.logger, c, errors.ErrValidationFailed("file", usecaseErrors.ErrEmptyImport))
	}

	report, err := h.controller.BulkImport(c.Request().Context(), rows)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToImportResponse(report))
}

func importBody(c echo.Context) (io.Reader, func(), error) {
	if ValidateContentType(c, echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, nil, errors.ErrValidationFailed("file", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, nil, errors.ErrInternal(err)
		}
		return f, func() { _ = f.Close() }, nil
	}
	if c.Request().Body == nil {
		return nil, nil, errors.ErrValidationFailed("file", usecaseErrors.ErrEmptyImport)
	}
	return c.Request().Body, func() {}, nil
}

// Extract runs extraction over a pasted transcript and merges the result
// POST /v1/extract
func (h *Board) Extract(c echo.Context) error {
	var req item.ExtractRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	report, err := h.controller.ExtractAndMerge(c.Request().Context(), req.Transcript, req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToExtractResponse(report))
}

func filterByMeeting(items []entities.ActionItem, meetingID string) []entities.ActionItem {
	out := make([]entities.ActionItem, 0, len(items))
	for _, a := range items {
		if a.MeetingID == meetingID {
			out = append(out, a)
		}
	}
	return out
}
