package validation

import (
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// Service defines the interface of the service that is in charge of input validation.
type Service interface {
	StartRun(ctx context.Context, f model.FormStartRun) (model.FormStartRun, error)
}
