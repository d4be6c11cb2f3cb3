package variable

import (
	"bytes"
	"context"

	"github.com/beldeveloper/app-promoter/model"
)

// NewVariable creates a new instance of the variables service.
func NewVariable() Variable {
	return Variable{}
}

// Variable implements the variables service.
type Variable struct {
}

// Replace puts the variables values to the configuration.
func (s Variable) Replace(ctx context.Context, data []byte, vars []model.Variable) []byte {
	for _, v := range vars {
		data = bytes.ReplaceAll(data, []byte("{"+v.Name+"}"), []byte(v.Value))
	}
	return data
}

// ForRelease returns the built-in placeholders of one release in one environment.
func (s Variable) ForRelease(artifact model.ReleaseArtifact, env model.Environment) []model.Variable {
	return []model.Variable{
		{Name: "RELEASE_ID", Value: artifact.ReleaseID()},
		{Name: "IMAGE", Value: artifact.Reference()},
		{Name: "REGISTRY", Value: artifact.Registry},
		{Name: "TAG", Value: artifact.Tag},
		{Name: "BRANCH", Value: artifact.Branch},
		{Name: "ENVIRONMENT", Value: env.Name},
		{Name: "NAMESPACE", Value: env.Namespace},
	}
}
