package provisioner

import "context"

// Service defines the interface of the service that prepares a namespace for deployments.
type Service interface {
	Ensure(ctx context.Context, namespace string) error
}
