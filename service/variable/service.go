package variable

import (
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// Service defines the interface of the service that is in charge of the configuration placeholders.
type Service interface {
	Replace(ctx context.Context, data []byte, vars []model.Variable) []byte
	ForRelease(artifact model.ReleaseArtifact, env model.Environment) []model.Variable
}
