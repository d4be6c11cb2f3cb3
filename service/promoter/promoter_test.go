package promoter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/beldeveloper/app-promoter/service/decision"
	"github.com/beldeveloper/app-promoter/service/deployment"
	"github.com/beldeveloper/app-promoter/service/environment"
	"github.com/beldeveloper/app-promoter/service/marshaller"
	"github.com/beldeveloper/app-promoter/service/run"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBuilder struct {
	buildErr error
	pushErr  error
}

func (s stubBuilder) Build(ctx context.Context, artifact model.ReleaseArtifact) (string, error) {
	if s.buildErr != nil {
		return "", s.buildErr
	}
	return "sha256:0001", nil
}

func (s stubBuilder) Push(ctx context.Context, artifact model.ReleaseArtifact) (string, error) {
	if s.pushErr != nil {
		return "", s.pushErr
	}
	return artifact.Reference() + "@sha256:0002", nil
}

type stubChart struct {
	err error
}

func (s stubChart) Publish(ctx context.Context, artifact model.ReleaseArtifact) error {
	return s.err
}

type stubProvisioner struct {
	namespaces []string
	err        error
}

func (s *stubProvisioner) Ensure(ctx context.Context, namespace string) error {
	if s.err != nil {
		return s.err
	}
	s.namespaces = append(s.namespaces, namespace)
	return nil
}

type stubDeployer struct {
	failEnv string
}

func (s stubDeployer) Deploy(ctx context.Context, artifact model.ReleaseArtifact, env model.Environment) (model.Deployment, error) {
	rec := model.Deployment{
		Environment: env.Name,
		Namespace:   env.Namespace,
		Image:       artifact.Reference(),
		ReleaseID:   artifact.ReleaseID(),
		CreatedAt:   time.Now(),
	}
	if env.Name == s.failEnv {
		rec.Status = model.DeploymentStatusFailed
		rec.Reason = "endpoint is not resolved"
		return rec, model.ErrDeployTimeout
	}
	now := time.Now()
	rec.Status = model.DeploymentStatusReady
	rec.Endpoint = env.Namespace + ":80"
	rec.ReadySince = &now
	return rec, nil
}

type stubVerifier struct {
	failEndpoint string
}

func (s stubVerifier) Verify(ctx context.Context, endpoint string, criteria model.Criteria) ([]model.VerificationResult, error) {
	if endpoint == s.failEndpoint {
		return []model.VerificationResult{
			{Metric: model.MetricStatusCode, Observed: "503", Passed: false},
		}, nil
	}
	return []model.VerificationResult{
		{Metric: model.MetricStatusCode, Observed: "200", Passed: true},
	}, nil
}

type fixture struct {
	promoter    Promoter
	runs        *run.Memory
	deployments *deployment.Memory
	decisions   *decision.Memory
	provisioner *stubProvisioner
}

func newFixture(t *testing.T, builder stubBuilder, deployer stubDeployer, verifier stubVerifier) fixture {
	t.Helper()
	registry, err := environment.NewRegistry("", marshaller.NewYaml())
	require.NoError(t, err)
	f := fixture{
		runs:        run.NewMemory(),
		deployments: deployment.NewMemory(),
		decisions:   decision.NewMemory(),
		provisioner: &stubProvisioner{},
	}
	f.promoter = NewPromoter(
		registry,
		f.runs,
		f.deployments,
		f.decisions,
		builder,
		stubChart{},
		f.provisioner,
		deployer,
		verifier,
	)
	return f
}

func (f fixture) newRun(t *testing.T, branch string, deployToProd bool) model.Run {
	t.Helper()
	artifact := model.ReleaseArtifact{Registry: "registry.example.com", Image: "app", Tag: "v1", Branch: branch}
	r, err := f.runs.Add(context.Background(), model.Run{
		Artifact:     artifact,
		ReleaseID:    artifact.ReleaseID(),
		Status:       model.RunStatusEnqueued,
		DeployToProd: deployToProd,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	require.NoError(t, err)
	return r
}

// drive advances the run until it is terminal or suspended at a gate with no decision.
func (f fixture) drive(t *testing.T, r model.Run) model.Run {
	t.Helper()
	for i := 0; i < 50 && !r.Terminal(); i++ {
		var err error
		r, err = f.promoter.Advance(context.Background(), r)
		if errors.Is(err, model.ErrPendingApproval) {
			return r
		}
		require.NoError(t, err)
	}
	return r
}

func TestPromoteFeatureBranchStopsBeforeProduction(t *testing.T) {
	f := newFixture(t, stubBuilder{}, stubDeployer{}, stubVerifier{})
	r := f.newRun(t, "feature/login", false)

	r = f.drive(t, r)

	assert.Equal(t, model.RunStatusDone, r.Status)
	assert.Contains(t, r.Note, "restricted to the master branch")

	records, err := f.deployments.FindByRun(context.Background(), r.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, model.EnvironmentLocal, records[0].Environment)
	assert.Equal(t, model.EnvironmentDevelopment, records[1].Environment)
	assert.Equal(t, model.EnvironmentStaging, records[2].Environment)
	for _, rec := range records {
		assert.Equal(t, model.DeploymentStatusReady, rec.Status)
	}

	// no decision is recorded for the skipped production gate
	_, err = f.decisions.Find(context.Background(), r.ID, model.EnvironmentProduction)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPromoteFeatureBranchSkipsProductionDespiteProdIntent(t *testing.T) {
	f := newFixture(t, stubBuilder{}, stubDeployer{}, stubVerifier{})
	r := f.newRun(t, "feature/login", true)

	r = f.drive(t, r)

	assert.Equal(t, model.RunStatusDone, r.Status)
	assert.Contains(t, r.Note, "stops here")

	records, err := f.deployments.FindByRun(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestPromoteReleaseBranchWithProdIntent(t *testing.T) {
	f := newFixture(t, stubBuilder{}, stubDeployer{}, stubVerifier{})
	r := f.newRun(t, "master", true)

	r = f.drive(t, r)

	assert.Equal(t, model.RunStatusDone, r.Status)

	records, err := f.deployments.FindByRun(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	d, err := f.decisions.Find(context.Background(), r.ID, model.EnvironmentProduction)
	require.NoError(t, err)
	assert.True(t, d.Approved)
	assert.Equal(t, model.DecisionByAutomatic, d.ApprovedBy)

	assert.Equal(t, []string{"app-local", "app-dev", "app-staging", "app-production"}, f.provisioner.namespaces)
}

func TestPromoteSuspendsAtManualGate(t *testing.T) {
	f := newFixture(t, stubBuilder{}, stubDeployer{}, stubVerifier{})
	r := f.newRun(t, "master", false)

	r = f.drive(t, r)

	assert.Equal(t, model.RunStatusAwaitingApproval, r.Status)
	assert.Equal(t, 3, r.EnvIndex)

	records, err := f.deployments.FindByRun(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	// the operator approves and the promotion resumes
	_, err = f.decisions.Add(context.Background(), model.Decision{
		RunID:       r.ID,
		Environment: model.EnvironmentProduction,
		Approved:    true,
		ApprovedBy:  model.DecisionByOperator,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)

	r = f.drive(t, r)
	assert.Equal(t, model.RunStatusDone, r.Status)

	records, err = f.deployments.FindByRun(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, model.EnvironmentProduction, records[3].Environment)
}

func TestPromoteAbortsOnRejectedGate(t *testing.T) {
	f := newFixture(t, stubBuilder{}, stubDeployer{}, stubVerifier{})
	r := f.newRun(t, "master", false)

	r = f.drive(t, r)
	require.Equal(t, model.RunStatusAwaitingApproval, r.Status)

	_, err := f.decisions.Add(context.Background(), model.Decision{
		RunID:       r.ID,
		Environment: model.EnvironmentProduction,
		Approved:    false,
		ApprovedBy:  model.DecisionByOperator,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)

	r = f.drive(t, r)
	assert.Equal(t, model.RunStatusAborted, r.Status)
	assert.Contains(t, r.Note, "production gate was rejected")

	records, err := f.deployments.FindByRun(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestPromoteAbortsOnFailedVerification(t *testing.T) {
	f := newFixture(t, stubBuilder{}, stubDeployer{}, stubVerifier{failEndpoint: "app-dev:80"})
	r := f.newRun(t, "feature/login", false)

	r = f.drive(t, r)

	assert.Equal(t, model.RunStatusAborted, r.Status)
	assert.Contains(t, r.Note, "development")
	assert.Contains(t, r.Note, model.MetricStatusCode)

	records, err := f.deployments.FindByRun(context.Background(), r.ID)
	require.NoError(t, err)
	// the deployment itself succeeded before the verification failed
	require.Len(t, records, 2)
	assert.Equal(t, model.DeploymentStatusReady, records[1].Status)
}

func TestPromoteAbortsOnFailedDeploy(t *testing.T) {
	f := newFixture(t, stubBuilder{}, stubDeployer{failEnv: model.EnvironmentLocal}, stubVerifier{})
	r := f.newRun(t, "feature/login", false)

	r = f.drive(t, r)

	assert.Equal(t, model.RunStatusAborted, r.Status)
	assert.Contains(t, r.Note, "local")

	records, err := f.deployments.FindByRun(context.Background(), r.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.DeploymentStatusFailed, records[0].Status)
	assert.NotEmpty(t, records[0].Reason)
}

func TestPromoteAbortsOnFailedBuild(t *testing.T) {
	f := newFixture(t, stubBuilder{buildErr: errors.New("no space left")}, stubDeployer{}, stubVerifier{})
	r := f.newRun(t, "master", true)

	r = f.drive(t, r)

	assert.Equal(t, model.RunStatusAborted, r.Status)
	assert.Contains(t, r.Note, "build failed")

	records, err := f.deployments.FindByRun(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPromoteSkipsBuild(t *testing.T) {
	f := newFixture(t, stubBuilder{buildErr: errors.New("must not be called")}, stubDeployer{}, stubVerifier{})
	artifact := model.ReleaseArtifact{Image: "app", Tag: "v1", Branch: "feature/login"}
	r, err := f.runs.Add(context.Background(), model.Run{
		Artifact:  artifact,
		ReleaseID: artifact.ReleaseID(),
		Status:    model.RunStatusEnqueued,
		SkipBuild: true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)

	r, err = f.promoter.Advance(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusPromoting, r.Status)

	r = f.drive(t, r)
	assert.Equal(t, model.RunStatusDone, r.Status)
}

func TestAdvanceRejectsTerminalRun(t *testing.T) {
	f := newFixture(t, stubBuilder{}, stubDeployer{}, stubVerifier{})
	r := f.newRun(t, "feature/login", false)
	r = f.drive(t, r)
	require.True(t, r.Terminal())

	_, err := f.promoter.Advance(context.Background(), r)
	assert.ErrorIs(t, err, model.ErrRunFinished)
}
