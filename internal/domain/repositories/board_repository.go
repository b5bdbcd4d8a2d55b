package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

// BoardRepository persists the whole board at once. Save must either fully
// replace the stored board or leave it untouched.
type BoardRepository interface {
	Load(ctx context.Context) ([]entities.ActionItem, error)
	Save(ctx context.Context, items []entities.ActionItem) error
}
