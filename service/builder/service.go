package builder

import (
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// Service defines the builder interface. The image build itself is delegated to the
// container engine; the service only drives it and reports the outcome.
type Service interface {
	Build(ctx context.Context, artifact model.ReleaseArtifact) (string, error)
	Push(ctx context.Context, artifact model.ReleaseArtifact) (string, error)
}
