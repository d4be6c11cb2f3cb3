package deployer

import (
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// Service defines the deployer interface. Deploy returns the record of the attempt;
// the record is failed and an error is returned when the endpoint is not resolved in time.
type Service interface {
	Deploy(ctx context.Context, artifact model.ReleaseArtifact, env model.Environment) (model.Deployment, error)
}
