package environment

import (
	"fmt"
	"os"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/beldeveloper/app-promoter/service/marshaller"
	"github.com/beldeveloper/go-errors-context"
)

// DefaultReleaseBranch defines the branch that is allowed to reach the gated environments.
const DefaultReleaseBranch = "master"

// registryCfg is the layout of the environments configuration document.
type registryCfg struct {
	ReleaseBranch string              `yaml:"release_branch"`
	Environments  []model.Environment `yaml:"environments"`
}

// NewRegistry creates the environment registry. An empty file path loads the default
// local/development/staging/production sequence with a manual production gate.
func NewRegistry(cfgFile model.FilePath, cfgMarshaller marshaller.Service) (Registry, error) {
	cfg := defaultCfg()
	if cfgFile != "" {
		data, err := os.ReadFile(string(cfgFile))
		if err != nil {
			return Registry{}, errors.WrapContext(err, errors.Context{
				Path:   "service.environment.NewRegistry: read file",
				Params: errors.Params{"file": cfgFile},
			})
		}
		cfg = registryCfg{}
		err = cfgMarshaller.Unmarshal(data, &cfg)
		if err != nil {
			return Registry{}, errors.WrapContext(err, errors.Context{
				Path:   "service.environment.NewRegistry: unmarshal",
				Params: errors.Params{"file": cfgFile},
			})
		}
	}
	if cfg.ReleaseBranch == "" {
		cfg.ReleaseBranch = DefaultReleaseBranch
	}
	err := validate(cfg.Environments)
	if err != nil {
		return Registry{}, errors.WrapContext(err, errors.Context{Path: "service.environment.NewRegistry: validate"})
	}
	return Registry{environments: cfg.Environments, releaseBranch: cfg.ReleaseBranch}, nil
}

// Registry implements the environment registry with a static ordered list.
// Promotion only proceeds forward through the list.
type Registry struct {
	environments  []model.Environment
	releaseBranch string
}

// List returns the environments in promotion order.
func (r Registry) List() []model.Environment {
	res := make([]model.Environment, len(r.environments))
	copy(res, r.environments)
	return res
}

// Get returns the environment at the given position of the promotion order.
func (r Registry) Get(index int) (model.Environment, error) {
	if index < 0 || index >= len(r.environments) {
		return model.Environment{}, fmt.Errorf("%w: environment at position %d", model.ErrNotFound, index)
	}
	return r.environments[index], nil
}

// Len returns the number of configured environments.
func (r Registry) Len() int {
	return len(r.environments)
}

// ReleaseBranch returns the branch that the gated environments are restricted to.
func (r Registry) ReleaseBranch() string {
	return r.releaseBranch
}

func validate(environments []model.Environment) error {
	if len(environments) == 0 {
		return fmt.Errorf("%w: the environments list must not be empty", model.ErrBadInput)
	}
	names := make(map[string]bool, len(environments))
	namespaces := make(map[string]bool, len(environments))
	for _, e := range environments {
		if e.Name == "" {
			return fmt.Errorf("%w: environment name must not be empty", model.ErrBadInput)
		}
		if e.Namespace == "" {
			return fmt.Errorf("%w: environment %s: namespace must not be empty", model.ErrBadInput, e.Name)
		}
		if names[e.Name] {
			return fmt.Errorf("%w: environment %s is listed twice", model.ErrBadInput, e.Name)
		}
		if namespaces[e.Namespace] {
			return fmt.Errorf("%w: namespace %s is used by two environments", model.ErrBadInput, e.Namespace)
		}
		switch e.Gate {
		case model.GatePolicyAutomatic, model.GatePolicyManual:
		default:
			return fmt.Errorf("%w: environment %s: invalid gate policy %q", model.ErrBadInput, e.Name, e.Gate)
		}
		names[e.Name] = true
		namespaces[e.Namespace] = true
	}
	return nil
}

func defaultCfg() registryCfg {
	criteria := model.Criteria{Path: "/", StatusCode: 200}
	return registryCfg{
		ReleaseBranch: DefaultReleaseBranch,
		Environments: []model.Environment{
			{Name: model.EnvironmentLocal, Namespace: "app-local", Gate: model.GatePolicyAutomatic, Criteria: criteria},
			{Name: model.EnvironmentDevelopment, Namespace: "app-dev", Gate: model.GatePolicyAutomatic, Criteria: criteria},
			{Name: model.EnvironmentStaging, Namespace: "app-staging", Gate: model.GatePolicyAutomatic, Criteria: criteria},
			{
				Name:              model.EnvironmentProduction,
				Namespace:         "app-production",
				Gate:              model.GatePolicyManual,
				ReleaseBranchOnly: true,
				Criteria:          criteria,
			},
		},
	}
}
