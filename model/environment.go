package model

const (
	// GatePolicyAutomatic defines the gate policy that approves the promotion without external input.
	GatePolicyAutomatic = "automatic"
	// GatePolicyManual defines the gate policy that suspends the promotion until an operator decides.
	GatePolicyManual = "manual_approval"
)

const (
	// EnvironmentLocal is the name of the default first environment.
	EnvironmentLocal = "local"
	// EnvironmentDevelopment is the name of the default second environment.
	EnvironmentDevelopment = "development"
	// EnvironmentStaging is the name of the default third environment.
	EnvironmentStaging = "staging"
	// EnvironmentProduction is the name of the default last environment.
	EnvironmentProduction = "production"
)

// Environment is a model that represents a single deployment target.
// The order of environments in the registry is the promotion order.
type Environment struct {
	Name              string   `yaml:"name" json:"name"`
	Namespace         string   `yaml:"namespace" json:"namespace"`
	Gate              string   `yaml:"gate" json:"gate"`
	ReleaseBranchOnly bool     `yaml:"release_branch_only" json:"releaseBranchOnly"`
	Criteria          Criteria `yaml:"criteria" json:"criteria"`
}
