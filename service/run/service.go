package run

import (
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// Service defines the promotion runs store interface.
type Service interface {
	Add(ctx context.Context, r model.Run) (model.Run, error)
	Update(ctx context.Context, r model.Run) (model.Run, error)
	FindByID(ctx context.Context, id uint64) (model.Run, error)
	FindAll(ctx context.Context) ([]model.Run, error)
	FindOldestActive(ctx context.Context) (model.Run, error)
}
