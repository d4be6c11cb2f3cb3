package promoter

import (
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// Service defines the promotion controller interface. Advance applies exactly one state
// transition to the run; the caller drives the run to a terminal status by calling it
// repeatedly. Domain failures abort the run and do not surface as errors; a run that is
// suspended at an undecided gate yields model.ErrPendingApproval.
type Service interface {
	Advance(ctx context.Context, r model.Run) (model.Run, error)
}
