package vcs

import "context"

// Service defines the interface of the service that reads the source control state.
type Service interface {
	CurrentBranch(ctx context.Context) (string, error)
	CommitHash(ctx context.Context) (string, error)
}
