package presenter

import (
	"github.com/johnquangdev/meeting-action-board/internal/adapter/dto/item"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/board"
)

// ToItemResponse converts an ActionItem entity to ItemResponse DTO
func ToItemResponse(a entities.ActionItem) *item.ItemResponse {
	return &item.ItemResponse{
		ID:          a.ID,
		Task:        a.Task,
		Assignee:    a.Assignee,
		Deadline:    entities.FormatDeadline(a.Deadline),
		Priority:    string(a.Priority),
		Status:      string(a.Status),
		StatusLabel: a.Status.Label(),
		Source:      string(a.Source),
		CreatedAt:   a.CreatedAt,
		MeetingID:   a.MeetingID,
		Context:     a.Context,
	}
}

// ToItemResponses converts a slice of items
func ToItemResponses(items []entities.ActionItem) []*item.ItemResponse {
	responses := make([]*item.ItemResponse, len(items))
	for i, a := range items {
		responses[i] = ToItemResponse(a)
	}
	return responses
}

// ToBoardResponse converts a board view
func ToBoardResponse(v board.View) *item.BoardResponse {
	columns := make([]item.ColumnResponse, len(v.Columns))
	for i, col := range v.Columns {
		columns[i] = item.ColumnResponse{
			Status: string(col.Status),
			Label:  col.Label,
			Count:  col.Count,
			Items:  ToItemResponses(col.Items),
		}
	}
	return &item.BoardResponse{
		Total:       v.Total,
		Columns:     columns,
		GeneratedAt: v.GeneratedAt,
	}
}

// ToImportResponse converts a bulk import report
func ToImportResponse(r board.ImportReport) *item.ImportResponse {
	ids := r.IDs
	if ids == nil {
		ids = []string{}
	}
	return &item.ImportResponse{Imported: r.Imported, Skipped: r.Skipped, IDs: ids}
}

// ToExtractResponse flattens an extraction report
func ToExtractResponse(r board.ExtractionReport) *item.ExtractResponse {
	ids := r.Merge.AddedIDs
	if ids == nil {
		ids = []string{}
	}
	return &item.ExtractResponse{
		MeetingID:  r.MeetingID,
		Candidates: r.Candidates,
		Dropped:    r.Dropped,
		Chunks:     r.Chunks,
		Added:      r.Merge.Added,
		Duplicates: r.Merge.Duplicates,
		Ignored:    r.Merge.Ignored,
		AddedIDs:   ids,
	}
}
