package model

import "time"

const (
	// DeploymentStatusPending defines the status that means the deploy attempt is in progress.
	DeploymentStatusPending = "pending"
	// DeploymentStatusReady defines the status that means the deployment is exposed and its endpoint is resolved.
	DeploymentStatusReady = "ready"
	// DeploymentStatusFailed defines the status that means the deploy attempt failed or timed out.
	DeploymentStatusFailed = "failed"
)

// Deployment is a model that represents the result of one deploy attempt into one environment.
// A record is immutable once it reaches a terminal status; a retry creates a new record.
type Deployment struct {
	ID          uint64     `json:"id"`
	RunID       uint64     `json:"runId"`
	Environment string     `json:"environment"`
	Namespace   string     `json:"namespace"`
	Image       string     `json:"image"`
	ReleaseID   string     `json:"releaseId"`
	Endpoint    string     `json:"endpoint"`
	Status      string     `json:"status"`
	Reason      string     `json:"reason"`
	CreatedAt   time.Time  `json:"createdAt"`
	ReadySince  *time.Time `json:"readySince"`
}
