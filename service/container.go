package service

import (
	"github.com/beldeveloper/app-promoter/service/builder"
	"github.com/beldeveloper/app-promoter/service/chart"
	"github.com/beldeveloper/app-promoter/service/decision"
	"github.com/beldeveloper/app-promoter/service/deployer"
	"github.com/beldeveloper/app-promoter/service/deployment"
	"github.com/beldeveloper/app-promoter/service/environment"
	"github.com/beldeveloper/app-promoter/service/os"
	"github.com/beldeveloper/app-promoter/service/promoter"
	"github.com/beldeveloper/app-promoter/service/provisioner"
	"github.com/beldeveloper/app-promoter/service/run"
	"github.com/beldeveloper/app-promoter/service/validation"
	"github.com/beldeveloper/app-promoter/service/variable"
	"github.com/beldeveloper/app-promoter/service/vcs"
	"github.com/beldeveloper/app-promoter/service/verifier"
)

// Container keeps all services in one place.
type Container struct {
	Environments environment.Service
	Runs         run.Service
	Deployments  deployment.Service
	Decisions    decision.Service
	Promoter     promoter.Service
	Builder      builder.Service
	Chart        chart.Service
	Provisioner  provisioner.Service
	Deployer     deployer.Service
	Verifier     verifier.Service
	VCS          vcs.Service
	OS           os.Service
	Variable     variable.Service
	Validation   validation.Service
}
