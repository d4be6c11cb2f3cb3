package model

import "time"

const (
	// RunStatusEnqueued defines the status that means the run is recently added and not started yet.
	RunStatusEnqueued = "enqueued"
	// RunStatusBuilding defines the status that means the application is building the release image.
	RunStatusBuilding = "building"
	// RunStatusPromoting defines the status that means the run is deploying and verifying the current environment.
	RunStatusPromoting = "promoting"
	// RunStatusAwaitingApproval defines the status that means the run is suspended at a manual gate.
	RunStatusAwaitingApproval = "awaiting_approval"
	// RunStatusDone defines the terminal status that means all configured environments are promoted.
	RunStatusDone = "done"
	// RunStatusAborted defines the terminal status that means the run was halted by a failure or rejection.
	RunStatusAborted = "aborted"
)

// Run is a model that represents a single promotion attempt of one release artifact
// through the ordered environments. A re-run is a new record; there are no backward transitions.
type Run struct {
	ID           uint64          `json:"id"`
	Artifact     ReleaseArtifact `json:"artifact"`
	ReleaseID    string          `json:"releaseId"`
	Status       string          `json:"status"`
	EnvIndex     int             `json:"envIndex"`
	DeployToProd bool            `json:"deployToProd"`
	SkipBuild    bool            `json:"skipBuild"`
	Note         string          `json:"note"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Terminal reports whether the run reached a state that allows no further transitions.
func (r Run) Terminal() bool {
	return r.Status == RunStatusDone || r.Status == RunStatusAborted
}

// FormStartRun represents a form of a new promotion run.
type FormStartRun struct {
	Branch       string `json:"branch"`
	Tag          string `json:"tag"`
	Registry     string `json:"registry"`
	Image        string `json:"image"`
	DeployToProd bool   `json:"deployToProd"`
	SkipBuild    bool   `json:"skipBuild"`
}
