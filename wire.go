//go:build wireinject
// +build wireinject

package main

import (
	"github.com/beldeveloper/app-promoter/controller"
	"github.com/beldeveloper/app-promoter/service"
	"github.com/beldeveloper/app-promoter/service/builder"
	"github.com/beldeveloper/app-promoter/service/chart"
	"github.com/beldeveloper/app-promoter/service/decision"
	"github.com/beldeveloper/app-promoter/service/deployer"
	"github.com/beldeveloper/app-promoter/service/deployment"
	"github.com/beldeveloper/app-promoter/service/environment"
	"github.com/beldeveloper/app-promoter/service/marshaller"
	"github.com/beldeveloper/app-promoter/service/os"
	"github.com/beldeveloper/app-promoter/service/promoter"
	"github.com/beldeveloper/app-promoter/service/provisioner"
	"github.com/beldeveloper/app-promoter/service/run"
	"github.com/beldeveloper/app-promoter/service/validation"
	"github.com/beldeveloper/app-promoter/service/variable"
	"github.com/beldeveloper/app-promoter/service/vcs"
	"github.com/beldeveloper/app-promoter/service/verifier"
	"github.com/google/wire"
)

func InitializeController() (controller.Service, error) {
	wire.Build(
		environment.NewRegistry,
		run.NewPostgres,
		deployment.NewPostgres,
		decision.NewPostgres,
		builder.NewDocker,
		chart.NewHelm,
		provisioner.NewKubernetes,
		deployer.NewKubernetes,
		verifier.NewHTTP,
		promoter.NewPromoter,
		os.NewOS,
		variable.NewVariable,
		marshaller.NewYaml,
		validation.NewValidation,
		vcs.NewGit,
		controller.NewController,
		postgresConn,
		postgresSchema,
		workDir,
		environmentsFile,
		builderConfig,
		deployerConfig,
		chartConfig,
		kubernetesClientset,
		wire.Struct(new(service.Container), "*"),
		wire.Bind(new(environment.Service), new(environment.Registry)),
		wire.Bind(new(run.Service), new(run.Postgres)),
		wire.Bind(new(deployment.Service), new(deployment.Postgres)),
		wire.Bind(new(decision.Service), new(decision.Postgres)),
		wire.Bind(new(promoter.Service), new(promoter.Promoter)),
		wire.Bind(new(builder.Service), new(builder.Docker)),
		wire.Bind(new(chart.Service), new(chart.Helm)),
		wire.Bind(new(provisioner.Service), new(provisioner.Kubernetes)),
		wire.Bind(new(deployer.Service), new(deployer.Kubernetes)),
		wire.Bind(new(verifier.Service), new(verifier.HTTP)),
		wire.Bind(new(vcs.Service), new(vcs.Git)),
		wire.Bind(new(os.Service), new(os.OS)),
		wire.Bind(new(validation.Service), new(validation.Validation)),
		wire.Bind(new(variable.Service), new(variable.Variable)),
		wire.Bind(new(controller.Service), new(controller.Controller)),
	)
	return controller.Controller{}, nil
}
