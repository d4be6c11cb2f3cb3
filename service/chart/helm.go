package chart

import (
	"context"
	"log"
	"os"

	"github.com/beldeveloper/app-promoter/model"
	appOs "github.com/beldeveloper/app-promoter/service/os"
	"github.com/beldeveloper/app-promoter/service/variable"
	"github.com/beldeveloper/go-errors-context"
)

// Config carries the chart repository settings. An empty Repo disables publishing.
type Config struct {
	ChartDir string
	Repo     string
}

// NewHelm creates a new instance of the chart publisher.
func NewHelm(cfg Config, os appOs.Service, variables variable.Service) Helm {
	return Helm{cfg: cfg, os: os, variables: variables}
}

// Helm implements the chart publisher by driving the helm CLI with typed arguments.
type Helm struct {
	cfg       Config
	os        appOs.Service
	variables variable.Service
}

// Publish renders the chart values for the release, packages the chart, and uploads it
// to the configured repository. It is a no-op when no repository is configured.
func (s Helm) Publish(ctx context.Context, artifact model.ReleaseArtifact) error {
	if s.cfg.Repo == "" {
		return nil
	}
	err := s.renderValues(ctx, artifact)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "service.chart.Publish: render values",
			Params: errors.Params{"release": artifact.ReleaseID()},
		})
	}
	_, err = s.os.RunCmd(ctx, model.Cmd{
		Name: "helm",
		Args: []string{"package", ".", "--app-version", artifact.Tag, "--version", artifact.Tag, "--destination", "dist"},
		Dir:  s.cfg.ChartDir,
		Log:  true,
	})
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "service.chart.Publish: package",
			Params: errors.Params{"release": artifact.ReleaseID()},
		})
	}
	_, err = s.os.RunCmd(ctx, model.Cmd{
		Name: "helm",
		Args: []string{"push", "dist/" + artifact.Image + "-" + artifact.Tag + ".tgz", s.cfg.Repo},
		Dir:  s.cfg.ChartDir,
		Log:  true,
	})
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "service.chart.Publish: push",
			Params: errors.Params{"release": artifact.ReleaseID(), "repo": s.cfg.Repo},
		})
	}
	log.Printf("The chart for %s is published to %s\n", artifact.ReleaseID(), s.cfg.Repo)
	return nil
}

// renderValues writes the values file from its template, with the release placeholders
// substituted. The template stays untouched.
func (s Helm) renderValues(ctx context.Context, artifact model.ReleaseArtifact) error {
	tpl := s.cfg.ChartDir + "/" + string(model.ChartValuesFile) + ".tpl"
	data, err := os.ReadFile(tpl)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	data = s.variables.Replace(ctx, data, s.variables.ForRelease(artifact, model.Environment{}))
	return os.WriteFile(s.cfg.ChartDir+"/"+string(model.ChartValuesFile), data, 0644)
}
