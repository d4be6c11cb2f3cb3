package controller

import (
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// Service defines the controller interface.
type Service interface {
	StartRun(context.Context, model.FormStartRun) (model.Run, error)
	Runs(context.Context) ([]model.Run, error)
	RunByID(context.Context, uint64) (model.Run, error)
	RunDeployments(context.Context, uint64) ([]model.Deployment, error)
	RunDecisions(context.Context, uint64) ([]model.Decision, error)
	Deployments(context.Context) ([]model.Deployment, error)
	Environments(context.Context) ([]model.Environment, error)
	Approve(context.Context, uint64) (model.Decision, error)
	Reject(context.Context, uint64) (model.Decision, error)
	PromoteRunsJob(context.Context)
}
