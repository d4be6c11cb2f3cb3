package builder

import (
	"archive/tar"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/beldeveloper/go-errors-context"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	dockerclient "github.com/docker/docker/client"
)

// Config carries the build settings of the docker builder.
type Config struct {
	ContextDir   string
	Dockerfile   string
	RegistryUser string
	RegistryPass string
}

// NewDocker creates a new instance of the docker builder.
func NewDocker(cfg Config) Docker {
	if cfg.Dockerfile == "" {
		cfg.Dockerfile = "Dockerfile"
	}
	return Docker{cfg: cfg}
}

// Docker implements the builder on top of the Docker engine API.
type Docker struct {
	cfg Config
}

// Build creates the release image from the configured build context and returns the image ID.
func (s Docker) Build(ctx context.Context, artifact model.ReleaseArtifact) (string, error) {
	cli, err := dockerclient.NewClientWithOpts(dockerclient.FromEnv, dockerclient.WithAPIVersionNegotiation())
	if err != nil {
		return "", errors.WrapContext(err, errors.Context{Path: "service.builder.Build: new client"})
	}
	defer cli.Close()
	buildCtx, err := buildContext(s.cfg.ContextDir)
	if err != nil {
		return "", errors.WrapContext(err, errors.Context{
			Path:   "service.builder.Build: build context",
			Params: errors.Params{"dir": s.cfg.ContextDir},
		})
	}
	resp, err := cli.ImageBuild(ctx, buildCtx, build.ImageBuildOptions{
		Tags:       []string{artifact.Reference()},
		Dockerfile: s.cfg.Dockerfile,
		Remove:     true,
	})
	if err != nil {
		return "", errors.WrapContext(err, errors.Context{
			Path:   "service.builder.Build: image build",
			Params: errors.Params{"image": artifact.Reference()},
		})
	}
	defer resp.Body.Close()
	imageID, err := parseBuildOutput(resp.Body)
	if err != nil {
		return "", errors.WrapContext(err, errors.Context{
			Path:   "service.builder.Build: read output",
			Params: errors.Params{"image": artifact.Reference()},
		})
	}
	log.Printf("The image %s is built: %s\n", artifact.Reference(), imageID)
	return imageID, nil
}

// Push uploads the release image to the registry and returns the digest.
func (s Docker) Push(ctx context.Context, artifact model.ReleaseArtifact) (string, error) {
	cli, err := dockerclient.NewClientWithOpts(dockerclient.FromEnv, dockerclient.WithAPIVersionNegotiation())
	if err != nil {
		return "", errors.WrapContext(err, errors.Context{Path: "service.builder.Push: new client"})
	}
	defer cli.Close()
	auth, err := s.registryAuth()
	if err != nil {
		return "", errors.WrapContext(err, errors.Context{Path: "service.builder.Push: registry auth"})
	}
	reader, err := cli.ImagePush(ctx, artifact.Reference(), image.PushOptions{RegistryAuth: auth})
	if err != nil {
		return "", errors.WrapContext(err, errors.Context{
			Path:   "service.builder.Push: image push",
			Params: errors.Params{"image": artifact.Reference()},
		})
	}
	defer reader.Close()
	digest, err := parsePushOutput(reader)
	if err != nil {
		return "", errors.WrapContext(err, errors.Context{
			Path:   "service.builder.Push: read output",
			Params: errors.Params{"image": artifact.Reference()},
		})
	}
	log.Printf("The image %s is pushed: %s\n", artifact.Reference(), digest)
	return digest, nil
}

func (s Docker) registryAuth() (string, error) {
	if s.cfg.RegistryUser == "" {
		return "", nil
	}
	data, err := json.Marshal(registry.AuthConfig{Username: s.cfg.RegistryUser, Password: s.cfg.RegistryPass})
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// buildContext streams a tar archive of the context directory.
func buildContext(dir string) (io.Reader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build context %s is not a directory", abs)
	}
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(archiveDir(abs, pw))
	}()
	return pr, nil
}

func archiveDir(dir string, w io.Writer) error {
	tw := tar.NewWriter(w)
	defer tw.Close()
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		err = tw.WriteHeader(header)
		if err != nil || info.IsDir() {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
}

// parseBuildOutput reads the engine's JSON stream and extracts the image ID.
func parseBuildOutput(r io.Reader) (string, error) {
	decoder := json.NewDecoder(r)
	var imageID string
	for {
		var msg struct {
			Aux struct {
				ID string `json:"ID"`
			} `json:"aux"`
			Error string `json:"error"`
		}
		err := decoder.Decode(&msg)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if msg.Error != "" {
			return "", fmt.Errorf("build error: %s", msg.Error)
		}
		if msg.Aux.ID != "" {
			imageID = msg.Aux.ID
		}
	}
	return imageID, nil
}

// parsePushOutput reads the engine's JSON stream and extracts the pushed digest.
func parsePushOutput(r io.Reader) (string, error) {
	decoder := json.NewDecoder(r)
	var digest string
	for {
		var msg struct {
			Aux struct {
				Digest string `json:"Digest"`
			} `json:"aux"`
			Error string `json:"error"`
		}
		err := decoder.Decode(&msg)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if msg.Error != "" {
			return "", fmt.Errorf("push error: %s", msg.Error)
		}
		if msg.Aux.Digest != "" {
			digest = msg.Aux.Digest
		}
	}
	return digest, nil
}
