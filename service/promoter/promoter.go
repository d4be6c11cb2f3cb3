package promoter

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/beldeveloper/app-promoter/service/builder"
	"github.com/beldeveloper/app-promoter/service/chart"
	"github.com/beldeveloper/app-promoter/service/decision"
	"github.com/beldeveloper/app-promoter/service/deployer"
	"github.com/beldeveloper/app-promoter/service/deployment"
	"github.com/beldeveloper/app-promoter/service/environment"
	"github.com/beldeveloper/app-promoter/service/provisioner"
	"github.com/beldeveloper/app-promoter/service/run"
	"github.com/beldeveloper/app-promoter/service/verifier"
	"github.com/beldeveloper/go-errors-context"
)

// NewPromoter creates a new instance of the promotion controller.
func NewPromoter(
	environments environment.Service,
	runs run.Service,
	deployments deployment.Service,
	decisions decision.Service,
	builder builder.Service,
	charts chart.Service,
	provisioner provisioner.Service,
	deployer deployer.Service,
	verifier verifier.Service,
) Promoter {
	return Promoter{
		environments: environments,
		runs:         runs,
		deployments:  deployments,
		decisions:    decisions,
		builder:      builder,
		charts:       charts,
		provisioner:  provisioner,
		deployer:     deployer,
		verifier:     verifier,
	}
}

// Promoter implements the promotion controller. It moves a run forward through the
// enqueued, building, promoting, and awaiting_approval statuses until the run is done
// or aborted. There are no backward transitions; a re-run is a new run.
type Promoter struct {
	environments environment.Service
	runs         run.Service
	deployments  deployment.Service
	decisions    decision.Service
	builder      builder.Service
	charts       chart.Service
	provisioner  provisioner.Service
	deployer     deployer.Service
	verifier     verifier.Service
}

// Advance applies one state transition to the run and persists the outcome.
func (s Promoter) Advance(ctx context.Context, r model.Run) (model.Run, error) {
	if r.Terminal() {
		return r, errors.WrapContext(model.ErrRunFinished, errors.Context{
			Path:   "service.promoter.Advance",
			Params: errors.Params{"run": r.ID, "status": r.Status},
		})
	}
	var err error
	switch r.Status {
	case model.RunStatusEnqueued:
		r, err = s.start(ctx, r)
	case model.RunStatusBuilding:
		r, err = s.build(ctx, r)
	case model.RunStatusPromoting:
		r, err = s.promote(ctx, r)
	case model.RunStatusAwaitingApproval:
		r, err = s.resolveGate(ctx, r)
	default:
		return r, errors.WrapContext(fmt.Errorf("%w: unexpected status %s", model.ErrBadInput, r.Status), errors.Context{
			Path:   "service.promoter.Advance",
			Params: errors.Params{"run": r.ID},
		})
	}
	if err != nil {
		return r, errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.Advance",
			Params: errors.Params{"run": r.ID},
		})
	}
	return r, nil
}

func (s Promoter) start(ctx context.Context, r model.Run) (model.Run, error) {
	if r.SkipBuild {
		log.Printf("Run #%d: skipping the build of %s", r.ID, r.Artifact.Reference())
		return s.save(ctx, r, model.RunStatusPromoting, "")
	}
	return s.save(ctx, r, model.RunStatusBuilding, "")
}

func (s Promoter) build(ctx context.Context, r model.Run) (model.Run, error) {
	log.Printf("Run #%d: building %s", r.ID, r.Artifact.Reference())
	imageID, err := s.builder.Build(ctx, r.Artifact)
	if err != nil {
		log.Println(errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.build",
			Params: errors.Params{"run": r.ID, "image": r.Artifact.Reference()},
		}))
		return s.save(ctx, r, model.RunStatusAborted, "the image build failed")
	}
	log.Printf("Run #%d: built image %s", r.ID, imageID)
	digest, err := s.builder.Push(ctx, r.Artifact)
	if err != nil {
		log.Println(errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.build: push",
			Params: errors.Params{"run": r.ID, "image": r.Artifact.Reference()},
		}))
		return s.save(ctx, r, model.RunStatusAborted, "the image push failed")
	}
	log.Printf("Run #%d: pushed %s", r.ID, digest)
	err = s.charts.Publish(ctx, r.Artifact)
	if err != nil {
		log.Println(errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.build: publish chart",
			Params: errors.Params{"run": r.ID},
		}))
		return s.save(ctx, r, model.RunStatusAborted, "the chart publishing failed")
	}
	return s.save(ctx, r, model.RunStatusPromoting, "")
}

func (s Promoter) promote(ctx context.Context, r model.Run) (model.Run, error) {
	if r.EnvIndex >= s.environments.Len() {
		return s.save(ctx, r, model.RunStatusDone, "")
	}
	env, err := s.environments.Get(r.EnvIndex)
	if err != nil {
		return r, errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.promote: get environment",
			Params: errors.Params{"run": r.ID, "position": r.EnvIndex},
		})
	}
	if env.ReleaseBranchOnly && r.Artifact.Branch != s.environments.ReleaseBranch() {
		note := fmt.Sprintf(
			"%s is restricted to the %s branch; the %s branch stops here",
			env.Name, s.environments.ReleaseBranch(), r.Artifact.Branch,
		)
		log.Printf("Run #%d: %s", r.ID, note)
		return s.save(ctx, r, model.RunStatusDone, note)
	}
	approved, suspend, err := s.checkGate(ctx, r, env)
	if err != nil {
		return r, errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.promote: check gate",
			Params: errors.Params{"run": r.ID, "environment": env.Name},
		})
	}
	if suspend {
		log.Printf("Run #%d: awaiting approval for %s", r.ID, env.Name)
		return s.save(ctx, r, model.RunStatusAwaitingApproval, "")
	}
	if !approved {
		log.Println(errors.WrapContext(model.ErrGateRejected, errors.Context{
			Path:   "service.promoter.promote",
			Params: errors.Params{"run": r.ID, "environment": env.Name},
		}))
		return s.save(ctx, r, model.RunStatusAborted, fmt.Sprintf("the %s gate was rejected", env.Name))
	}
	return s.deploy(ctx, r, env)
}

// checkGate resolves the entry gate of the environment. It records the decision for
// automatic gates and for manual gates pre-approved by the deploy-to-prod intent;
// a manual gate without a decision suspends the run.
func (s Promoter) checkGate(ctx context.Context, r model.Run, env model.Environment) (approved, suspend bool, err error) {
	d, err := s.decisions.Find(ctx, r.ID, env.Name)
	if err == nil {
		return d.Approved, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return false, false, err
	}
	switch env.Gate {
	case model.GatePolicyManual:
		if !r.DeployToProd {
			return false, true, nil
		}
	case model.GatePolicyAutomatic:
	default:
		return false, false, fmt.Errorf("%w: unexpected gate policy %s", model.ErrBadInput, env.Gate)
	}
	_, err = s.decisions.Add(ctx, model.Decision{
		RunID:       r.ID,
		Environment: env.Name,
		Approved:    true,
		ApprovedBy:  model.DecisionByAutomatic,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return false, false, err
	}
	return true, false, nil
}

func (s Promoter) deploy(ctx context.Context, r model.Run, env model.Environment) (model.Run, error) {
	log.Printf("Run #%d: deploying %s to %s", r.ID, r.Artifact.Reference(), env.Name)
	err := s.provisioner.Ensure(ctx, env.Namespace)
	if err != nil {
		log.Println(errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.deploy: ensure namespace",
			Params: errors.Params{"run": r.ID, "namespace": env.Namespace},
		}))
		return s.save(ctx, r, model.RunStatusAborted, fmt.Sprintf("provisioning the %s namespace failed", env.Namespace))
	}
	rec, err := s.deployments.Add(ctx, model.Deployment{
		RunID:       r.ID,
		Environment: env.Name,
		Namespace:   env.Namespace,
		Image:       r.Artifact.Reference(),
		ReleaseID:   r.ReleaseID,
		Status:      model.DeploymentStatusPending,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return r, errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.deploy: add record",
			Params: errors.Params{"run": r.ID, "environment": env.Name},
		})
	}
	res, deployErr := s.deployer.Deploy(ctx, r.Artifact, env)
	rec.Endpoint = res.Endpoint
	rec.Status = res.Status
	rec.Reason = res.Reason
	rec.ReadySince = res.ReadySince
	rec, err = s.deployments.Update(ctx, rec)
	if err != nil {
		return r, errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.deploy: update record",
			Params: errors.Params{"run": r.ID, "deployment": rec.ID},
		})
	}
	if deployErr != nil {
		log.Println(errors.WrapContext(deployErr, errors.Context{
			Path:   "service.promoter.deploy",
			Params: errors.Params{"run": r.ID, "environment": env.Name},
		}))
		return s.save(ctx, r, model.RunStatusAborted, fmt.Sprintf("the deployment to %s failed", env.Name))
	}
	return s.verify(ctx, r, env, rec)
}

func (s Promoter) verify(ctx context.Context, r model.Run, env model.Environment, rec model.Deployment) (model.Run, error) {
	log.Printf("Run #%d: verifying %s at %s", r.ID, env.Name, rec.Endpoint)
	results, err := s.verifier.Verify(ctx, rec.Endpoint, env.Criteria)
	if err != nil {
		log.Println(errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.verify",
			Params: errors.Params{"run": r.ID, "endpoint": rec.Endpoint},
		}))
		return s.save(ctx, r, model.RunStatusAborted, fmt.Sprintf("the health verification of %s failed", env.Name))
	}
	var failed []string
	for _, res := range results {
		if !res.Passed {
			failed = append(failed, fmt.Sprintf("%s=%s", res.Metric, res.Observed))
		}
	}
	if len(failed) > 0 {
		log.Println(errors.WrapContext(model.ErrVerificationFailed, errors.Context{
			Path:   "service.promoter.verify",
			Params: errors.Params{"run": r.ID, "metrics": strings.Join(failed, ", ")},
		}))
		note := fmt.Sprintf("the health verification of %s failed: %s", env.Name, strings.Join(failed, ", "))
		return s.save(ctx, r, model.RunStatusAborted, note)
	}
	log.Printf("Run #%d: %s is healthy", r.ID, env.Name)
	r.EnvIndex++
	if r.EnvIndex >= s.environments.Len() {
		return s.save(ctx, r, model.RunStatusDone, "")
	}
	return s.save(ctx, r, model.RunStatusPromoting, r.Note)
}

// resolveGate polls the decision of the gate the run is suspended at. The run stays
// suspended until an operator decision appears.
func (s Promoter) resolveGate(ctx context.Context, r model.Run) (model.Run, error) {
	env, err := s.environments.Get(r.EnvIndex)
	if err != nil {
		return r, errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.resolveGate: get environment",
			Params: errors.Params{"run": r.ID, "position": r.EnvIndex},
		})
	}
	d, err := s.decisions.Find(ctx, r.ID, env.Name)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return r, errors.WrapContext(model.ErrPendingApproval, errors.Context{
			Path:   "service.promoter.resolveGate",
			Params: errors.Params{"run": r.ID, "environment": env.Name},
		})
	case err != nil:
		return r, errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.resolveGate: find decision",
			Params: errors.Params{"run": r.ID, "environment": env.Name},
		})
	}
	if !d.Approved {
		log.Println(errors.WrapContext(model.ErrGateRejected, errors.Context{
			Path:   "service.promoter.resolveGate",
			Params: errors.Params{"run": r.ID, "environment": env.Name, "by": d.ApprovedBy},
		}))
		return s.save(ctx, r, model.RunStatusAborted, fmt.Sprintf("the %s gate was rejected", env.Name))
	}
	log.Printf("Run #%d: the %s gate was approved by %s", r.ID, env.Name, d.ApprovedBy)
	return s.save(ctx, r, model.RunStatusPromoting, r.Note)
}

func (s Promoter) save(ctx context.Context, r model.Run, status, note string) (model.Run, error) {
	r.Status = status
	if note != "" {
		r.Note = note
	}
	r.UpdatedAt = time.Now()
	r, err := s.runs.Update(ctx, r)
	if err != nil {
		return r, errors.WrapContext(err, errors.Context{
			Path:   "service.promoter.save",
			Params: errors.Params{"run": r.ID, "status": status},
		})
	}
	return r, nil
}
