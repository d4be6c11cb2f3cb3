package vcs

import (
	"context"
	"strings"

	"github.com/beldeveloper/app-promoter/model"
	appOs "github.com/beldeveloper/app-promoter/service/os"
	"github.com/beldeveloper/go-errors-context"
)

// NewGit creates a new instance of the Git VCS service.
func NewGit(workDir model.FilePath, os appOs.Service) Git {
	return Git{workDir: string(workDir), os: os}
}

// Git implements the VCS service for Git. It is used to default the promotion inputs
// that the operator did not pass explicitly.
type Git struct {
	workDir string
	os      appOs.Service
}

// CurrentBranch returns the name of the checked-out branch in the working directory.
func (g Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.os.RunCmd(ctx, model.Cmd{
		Name: "git",
		Args: []string{"rev-parse", "--abbrev-ref", "HEAD"},
		Dir:  g.workDir,
	})
	if err != nil {
		return "", errors.WrapContext(err, errors.Context{
			Path:   "service.vcs.git.CurrentBranch",
			Params: errors.Params{"dir": g.workDir},
		})
	}
	return strings.TrimSpace(out), nil
}

// CommitHash returns the short hash of the checked-out commit in the working directory.
func (g Git) CommitHash(ctx context.Context) (string, error) {
	out, err := g.os.RunCmd(ctx, model.Cmd{
		Name: "git",
		Args: []string{"rev-parse", "--short", "HEAD"},
		Dir:  g.workDir,
	})
	if err != nil {
		return "", errors.WrapContext(err, errors.Context{
			Path:   "service.vcs.git.CommitHash",
			Params: errors.Params{"dir": g.workDir},
		})
	}
	return strings.TrimSpace(out), nil
}
