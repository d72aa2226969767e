package shellcheck

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

const (
	// DefaultDockerImage is the upstream shellcheck container image.
	DefaultDockerImage = "koalaman/shellcheck-alpine"
	// DefaultDockerTag pins a known-good release of the image.
	DefaultDockerTag = "stable"
)

// startContainer runs a detached, auto-removing shellcheck container with the
// working directory volume-mounted at the same path, and returns its ID.
func startContainer(ctx context.Context, run CommandRunner, cfg domain.TaskConfig) (string, error) {
	image := cfg.DockerImage
	if image == "" {
		image = DefaultDockerImage
	}
	tag := cfg.DockerTag
	if tag == "" {
		tag = DefaultDockerTag
	}

	out, err := run.Run(ctx, cfg.WorkingDir, "docker", "run",
		"-t", "--rm", "--detach",
		"-v", cfg.WorkingDir+":"+cfg.WorkingDir,
		"-w", cfg.WorkingDir,
		image+":"+tag,
	)
	if err != nil {
		return "", &domain.EnvironmentError{Phase: "start", Err: err}
	}
	id := strings.TrimSpace(out)
	if id == "" {
		return "", &domain.EnvironmentError{Phase: "start", Err: fmt.Errorf("docker run returned no container id")}
	}
	return id, nil
}

func stopContainer(ctx context.Context, run CommandRunner, workingDir, id string) error {
	if _, err := run.Run(ctx, workingDir, "docker", "stop", id); err != nil {
		return &domain.EnvironmentError{Phase: "stop", Err: err}
	}
	return nil
}

// withContainer wraps fn in the container lifecycle. The container is started
// before fn and stopped exactly once on every exit path. A stop failure does
// not mask an error from fn: both are joined, the fn error first.
func withContainer(ctx context.Context, run CommandRunner, cfg domain.TaskConfig, fn func(execPrefix []string) error) error {
	id, err := startContainer(ctx, run, cfg)
	if err != nil {
		return err
	}
	log.Printf("shellcheck container started: %s", id)

	workErr := fn([]string{"docker", "exec", id})
	stopErr := stopContainer(ctx, run, cfg.WorkingDir, id)
	return errors.Join(workErr, stopErr)
}
