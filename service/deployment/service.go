package deployment

import (
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// Service defines the deployment records store interface. Records are append-only:
// Update is allowed only while the record is pending.
type Service interface {
	Add(ctx context.Context, d model.Deployment) (model.Deployment, error)
	Update(ctx context.Context, d model.Deployment) (model.Deployment, error)
	FindByRun(ctx context.Context, runID uint64) ([]model.Deployment, error)
	FindAll(ctx context.Context) ([]model.Deployment, error)
}
