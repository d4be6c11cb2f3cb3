package environment

import "github.com/beldeveloper/app-promoter/model"

// Service defines the environment registry interface.
type Service interface {
	List() []model.Environment
	Get(index int) (model.Environment, error)
	Len() int
	ReleaseBranch() string
}
