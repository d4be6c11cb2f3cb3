package decision

import (
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// Service defines the promotion decisions store interface. Decisions are terminal:
// there is one per run and environment, and it is never revised.
type Service interface {
	Add(ctx context.Context, d model.Decision) (model.Decision, error)
	Find(ctx context.Context, runID uint64, environment string) (model.Decision, error)
	FindByRun(ctx context.Context, runID uint64) ([]model.Decision, error)
}
