package chart

import (
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// Service defines the interface of the optional chart-repository collaborator.
type Service interface {
	Publish(ctx context.Context, artifact model.ReleaseArtifact) error
}
