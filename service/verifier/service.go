package verifier

import (
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// Service defines the health verifier interface. A metric that fails its criteria is a
// result, not an error; the promotion policy on partial failure belongs to the caller.
type Service interface {
	Verify(ctx context.Context, endpoint string, criteria model.Criteria) ([]model.VerificationResult, error)
}
