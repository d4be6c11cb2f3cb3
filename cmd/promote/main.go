// Package main provides the one-shot promotion command. It drives a single run through
// the configured environments in the current process, with in-memory state and an
// interactive prompt at the manual gates.
package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/beldeveloper/app-promoter/service/builder"
	"github.com/beldeveloper/app-promoter/service/chart"
	"github.com/beldeveloper/app-promoter/service/decision"
	"github.com/beldeveloper/app-promoter/service/deployer"
	"github.com/beldeveloper/app-promoter/service/deployment"
	"github.com/beldeveloper/app-promoter/service/environment"
	"github.com/beldeveloper/app-promoter/service/marshaller"
	appOs "github.com/beldeveloper/app-promoter/service/os"
	"github.com/beldeveloper/app-promoter/service/promoter"
	"github.com/beldeveloper/app-promoter/service/provisioner"
	"github.com/beldeveloper/app-promoter/service/run"
	"github.com/beldeveloper/app-promoter/service/validation"
	"github.com/beldeveloper/app-promoter/service/variable"
	"github.com/beldeveloper/app-promoter/service/vcs"
	"github.com/beldeveloper/app-promoter/service/verifier"
	"github.com/spf13/cobra"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

func main() {
	if err := newPromoteCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type promoteFlags struct {
	branch       string
	tag          string
	registry     string
	image        string
	deployToProd bool
	skipBuild    bool
	config       string
	app          string
	contextDir   string
	chartRepo    string
	kubeconfig   string
}

func newPromoteCmd() *cobra.Command {
	var f promoteFlags

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote a release through the configured environments",
		Long: `Promote builds the release image and deploys it to every configured environment
in order, verifying the health of each deployment before moving to the next one.
A manual gate asks for confirmation unless --deploy-to-prod pre-approves it.

The branch and tag default to the checked-out branch and commit of the working
directory.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPromote(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&f.branch, "branch", "", "source branch of the release (defaults to the checked-out branch)")
	cmd.Flags().StringVar(&f.tag, "tag", "", "image tag of the release (defaults to the checked-out commit hash)")
	cmd.Flags().StringVar(&f.registry, "registry", "", "image registry prefix")
	cmd.Flags().StringVar(&f.image, "image", "", "image name of the release")
	cmd.Flags().BoolVar(&f.deployToProd, "deploy-to-prod", false, "pre-approve the manual production gate")
	cmd.Flags().BoolVar(&f.skipBuild, "skip-build", false, "promote an already pushed image")
	cmd.Flags().StringVar(&f.config, "config", "", "path to the environments configuration file")
	cmd.Flags().StringVar(&f.app, "app", "", "application name used for the cluster objects")
	cmd.Flags().StringVar(&f.contextDir, "context-dir", ".", "docker build context directory")
	cmd.Flags().StringVar(&f.chartRepo, "chart-repo", "", "chart repository URL (publishing is skipped when empty)")
	cmd.Flags().StringVar(&f.kubeconfig, "kubeconfig", os.Getenv("KUBECONFIG"), "path to the kubeconfig file")

	return cmd
}

func runPromote(ctx context.Context, f promoteFlags) error {
	osSvc := appOs.NewOS()
	git := vcs.NewGit(model.FilePath(f.contextDir), osSvc)
	if f.branch == "" {
		branch, err := git.CurrentBranch(ctx)
		if err != nil {
			return fmt.Errorf("resolve branch: %w", err)
		}
		f.branch = branch
	}
	if f.tag == "" {
		hash, err := git.CommitHash(ctx)
		if err != nil {
			return fmt.Errorf("resolve tag: %w", err)
		}
		f.tag = hash
	}
	form, err := validation.NewValidation().StartRun(ctx, model.FormStartRun{
		Branch:       f.branch,
		Tag:          f.tag,
		Registry:     f.registry,
		Image:        f.image,
		DeployToProd: f.deployToProd,
		SkipBuild:    f.skipBuild,
	})
	if err != nil {
		return err
	}
	registry, err := environment.NewRegistry(model.FilePath(f.config), marshaller.NewYaml())
	if err != nil {
		return fmt.Errorf("load environments: %w", err)
	}
	clientset, err := kubernetesClientset(f.kubeconfig)
	if err != nil {
		return fmt.Errorf("connect to the cluster: %w", err)
	}
	runs := run.NewMemory()
	deployments := deployment.NewMemory()
	decisions := decision.NewMemory()
	p := promoter.NewPromoter(
		registry,
		runs,
		deployments,
		decisions,
		builder.NewDocker(builder.Config{
			ContextDir:   f.contextDir,
			RegistryUser: os.Getenv("APP_PROMOTER_REGISTRY_USER"),
			RegistryPass: os.Getenv("APP_PROMOTER_REGISTRY_PASSWORD"),
		}),
		chart.NewHelm(chart.Config{
			ChartDir: f.contextDir + "/" + string(model.ChartDir),
			Repo:     f.chartRepo,
		}, osSvc, variable.NewVariable()),
		provisioner.NewKubernetes(clientset),
		deployer.NewKubernetes(clientset, deployer.Config{AppName: f.app}),
		verifier.NewHTTP(),
	)
	artifact := model.ReleaseArtifact{
		Registry: form.Registry,
		Image:    form.Image,
		Tag:      form.Tag,
		Branch:   form.Branch,
	}
	r, err := runs.Add(ctx, model.Run{
		Artifact:     artifact,
		ReleaseID:    artifact.ReleaseID(),
		Status:       model.RunStatusEnqueued,
		DeployToProd: form.DeployToProd,
		SkipBuild:    form.SkipBuild,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		return err
	}
	log.Printf("Promoting release %s\n", r.ReleaseID)
	for !r.Terminal() {
		r, err = p.Advance(ctx, r)
		if stderrors.Is(err, model.ErrPendingApproval) {
			err = decideGate(ctx, r, registry, decisions)
		}
		if err != nil {
			return err
		}
	}
	if r.Note != "" {
		log.Println(r.Note)
	}
	if r.Status == model.RunStatusAborted {
		return fmt.Errorf("the promotion of %s is aborted", r.ReleaseID)
	}
	log.Printf("The promotion of %s is done\n", r.ReleaseID)
	return nil
}

// decideGate asks the operator to approve or reject the gate the run is suspended at.
func decideGate(ctx context.Context, r model.Run, registry environment.Registry, decisions decision.Service) error {
	env, err := registry.Get(r.EnvIndex)
	if err != nil {
		return err
	}
	fmt.Printf("Deploy %s to %s? [y/N]: ", r.Artifact.Reference(), env.Name)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read the gate answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	_, err = decisions.Add(ctx, model.Decision{
		RunID:       r.ID,
		Environment: env.Name,
		Approved:    answer == "y" || answer == "yes",
		ApprovedBy:  model.DecisionByOperator,
		CreatedAt:   time.Now(),
	})
	return err
}

func kubernetesClientset(kubeconfig string) (kubernetes.Interface, error) {
	var cfg *rest.Config
	var err error
	if kubeconfig != "" {
		cfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	} else {
		cfg, err = rest.InClusterConfig()
	}
	if err != nil {
		return nil, err
	}
	return kubernetes.NewForConfig(cfg)
}
