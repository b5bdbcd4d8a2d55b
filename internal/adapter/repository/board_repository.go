package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-action-board/internal/adapter/export"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
	"github.com/johnquangdev/meeting-action-board/internal/domain/repositories"
)

var _ repositories.BoardRepository = (*CSVBoardRepository)(nil)

// CSVBoardRepository stores the board in a single CSV file
type CSVBoardRepository struct {
	path   string
	logger *zap.Logger
}

// NewCSVBoardRepository creates a repository backed by the file at path
func NewCSVBoardRepository(path string, logger *zap.Logger) *CSVBoardRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVBoardRepository{path: path, logger: logger}
}

// Path returns the board file location
func (r *CSVBoardRepository) Path() string {
	return r.path
}

// Load reads the board. A missing file is an empty board; rows without an id are skipped.
func (r *CSVBoardRepository) Load(ctx context.Context) ([]entities.ActionItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []entities.ActionItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}

	rows, err := export.ReadRows(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse board file %s: %w", r.path, err)
	}

	items := make([]entities.ActionItem, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		item, err := export.ItemFromRow(row)
		if err != nil {
			r.logger.Warn("skipping board row", zap.Int("row", i+2), zap.Error(err))
			continue
		}
		if _, dup := seen[item.ID]; dup {
			r.logger.Warn("skipping duplicate board row", zap.String("id", item.ID))
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}

// Save replaces the board file. The new content is written to a temporary
// file in the same directory and renamed over the old one, so a failed write
// leaves the previous board intact.
func (r *CSVBoardRepository) Save(ctx context.Context, items []entities.ActionItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, items); err != nil {
		return fmt.Errorf("failed to encode board: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create board directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write board: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync board: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close board: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace board file: %w", err)
	}
	return nil
}
