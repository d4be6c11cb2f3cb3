package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/beldeveloper/app-promoter/service"
)

// PromoteRunsFrequency defines the frequency of the run promotion job.
const PromoteRunsFrequency = time.Second * 2

// NewController creates a new instance of the application controller.
func NewController(services service.Container) Controller {
	return Controller{services: services}
}

// Controller implements the application controller.
type Controller struct {
	services service.Container
}

// StartRun validates the form and enqueues a new promotion run.
func (c Controller) StartRun(ctx context.Context, f model.FormStartRun) (model.Run, error) {
	f, err := c.services.Validation.StartRun(ctx, f)
	if err != nil {
		if errors.Is(err, model.ErrBadInput) {
			return model.Run{}, err
		}
		return model.Run{}, fmt.Errorf("controller.StartRun: error during validation: %w", err)
	}
	artifact := model.ReleaseArtifact{
		Registry: f.Registry,
		Image:    f.Image,
		Tag:      f.Tag,
		Branch:   f.Branch,
	}
	r, err := c.services.Runs.Add(ctx, model.Run{
		Artifact:     artifact,
		ReleaseID:    artifact.ReleaseID(),
		Status:       model.RunStatusEnqueued,
		DeployToProd: f.DeployToProd,
		SkipBuild:    f.SkipBuild,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		return r, fmt.Errorf("controller.StartRun: couldn't add the run: %w", err)
	}
	log.Printf("The run #%d is enqueued; release %s\n", r.ID, r.ReleaseID)
	return r, nil
}

// Runs returns the list of promotion runs.
func (c Controller) Runs(ctx context.Context) ([]model.Run, error) {
	return c.services.Runs.FindAll(ctx)
}

// RunByID returns one promotion run.
func (c Controller) RunByID(ctx context.Context, id uint64) (model.Run, error) {
	return c.services.Runs.FindByID(ctx, id)
}

// RunDeployments returns the deployment records of one run.
func (c Controller) RunDeployments(ctx context.Context, id uint64) ([]model.Deployment, error) {
	_, err := c.services.Runs.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("controller.RunDeployments: find run: %w", err)
	}
	return c.services.Deployments.FindByRun(ctx, id)
}

// RunDecisions returns the gate decisions of one run.
func (c Controller) RunDecisions(ctx context.Context, id uint64) ([]model.Decision, error) {
	_, err := c.services.Runs.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("controller.RunDecisions: find run: %w", err)
	}
	return c.services.Decisions.FindByRun(ctx, id)
}

// Deployments returns the list of all deployment records.
func (c Controller) Deployments(ctx context.Context) ([]model.Deployment, error) {
	return c.services.Deployments.FindAll(ctx)
}

// Environments returns the configured environments in promotion order.
func (c Controller) Environments(ctx context.Context) ([]model.Environment, error) {
	return c.services.Environments.List(), nil
}

// Approve records the operator approval for the gate the run is suspended at.
func (c Controller) Approve(ctx context.Context, id uint64) (model.Decision, error) {
	return c.decide(ctx, id, true)
}

// Reject records the operator rejection for the gate the run is suspended at.
func (c Controller) Reject(ctx context.Context, id uint64) (model.Decision, error) {
	return c.decide(ctx, id, false)
}

func (c Controller) decide(ctx context.Context, id uint64, approved bool) (model.Decision, error) {
	r, err := c.services.Runs.FindByID(ctx, id)
	if err != nil {
		return model.Decision{}, fmt.Errorf("controller.decide: find run: %w", err)
	}
	if r.Status != model.RunStatusAwaitingApproval {
		return model.Decision{}, fmt.Errorf("%w: the run #%d is not awaiting approval", model.ErrBadInput, r.ID)
	}
	env, err := c.services.Environments.Get(r.EnvIndex)
	if err != nil {
		return model.Decision{}, fmt.Errorf("controller.decide: get environment: %w", err)
	}
	d, err := c.services.Decisions.Add(ctx, model.Decision{
		RunID:       r.ID,
		Environment: env.Name,
		Approved:    approved,
		ApprovedBy:  model.DecisionByOperator,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return d, fmt.Errorf("controller.decide: add decision: %w", err)
	}
	log.Printf("The %s gate of the run #%d is decided; approved = %t\n", env.Name, r.ID, approved)
	return d, nil
}

// PromoteRunsJob is a job that drives the oldest active run forward, one transition per tick.
// A single run is promoted at a time.
func (c Controller) PromoteRunsJob(ctx context.Context) {
	t := time.NewTicker(PromoteRunsFrequency)
	defer t.Stop()
	var r model.Run
	var err error
	for {
		select {
		case <-t.C:
			r, err = c.services.Runs.FindOldestActive(ctx)
			if err != nil {
				if !errors.Is(err, model.ErrNotFound) {
					log.Printf("controller.PromoteRunsJob: couldn't fetch the active run: %v\n", err)
				}
				break
			}
			r, err = c.services.Promoter.Advance(ctx, r)
			if err != nil {
				// a suspended run stays suspended until an operator decides
				if !errors.Is(err, model.ErrPendingApproval) {
					log.Printf("controller.PromoteRunsJob: couldn't advance the run: %v; run ID = %d\n", err, r.ID)
				}
				break
			}
			if r.Terminal() {
				log.Printf("The run #%d is finished; status = %s\n", r.ID, r.Status)
			}
		case <-ctx.Done():
			return
		}
	}
}
