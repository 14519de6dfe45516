package adapter

import (
	"context"
	"fmt"
	"strings"

	m "pycforge.dev/pkg/pycforge/internal/model"
)

// RunSpec describes one disposable container execution: a named instance
// created from an image, with a single host directory bind-mounted, running
// one command to completion.
type RunSpec struct {
	Name        string
	Image       string
	MountSource m.Path
	MountTarget string
	Command     []string
}

// ContainerEngine abstracts the engine commands the pipeline needs. The
// engine itself is an external collaborator reached through its CLI client.
type ContainerEngine interface {
	// ImageExists reports whether an image with exactly the given name is
	// present in the engine's local store.
	ImageExists(ctx context.Context, name string) (bool, error)

	// BuildImage builds and tags an image from the recipe file, using
	// contextDir as the build context.
	BuildImage(ctx context.Context, recipe m.Path, name string, contextDir m.Path) error

	// RunContainer creates and runs the described instance, blocking until
	// its command exits.
	RunContainer(ctx context.Context, spec RunSpec) error

	// CopyFromContainer copies containerPath out of the named (stopped or
	// running) container into hostDir.
	CopyFromContainer(ctx context.Context, container, containerPath string, hostDir m.Path) error

	// RemoveContainer force-removes the named container.
	RemoveContainer(ctx context.Context, name string) error
}

// DockerEngine drives the docker CLI client through a ProcessRunner.
type DockerEngine struct {
	runner ProcessRunner
	binary string
}

// NewDockerEngine constructs a DockerEngine. An empty binary defaults to
// "docker", which also covers drop-in compatible clients such as podman
// when overridden via configuration.
func NewDockerEngine(runner ProcessRunner, binary string) *DockerEngine {
	if binary == "" {
		binary = "docker"
	}

	return &DockerEngine{runner: runner, binary: binary}
}

// ImageExists queries the local image store by exact name.
func (e *DockerEngine) ImageExists(ctx context.Context, name string) (bool, error) {
	out, err := e.runner.Run(ctx, e.binary, "images", "-q", name)
	if err != nil {
		return false, fmt.Errorf("query images for %q: %w: %s", name, err, strings.TrimSpace(out))
	}

	return strings.TrimSpace(out) != "", nil
}

// BuildImage builds the image from the recipe against the context directory.
func (e *DockerEngine) BuildImage(ctx context.Context, recipe m.Path, name string, contextDir m.Path) error {
	out, err := e.runner.Run(ctx, e.binary, "build", "-f", string(recipe), "-t", name, string(contextDir))
	if err != nil {
		return fmt.Errorf("build image %q: %w: %s", name, err, strings.TrimSpace(out))
	}

	return nil
}

// RunContainer creates and runs the instance described by spec.
func (e *DockerEngine) RunContainer(ctx context.Context, spec RunSpec) error {
	args := []string{
		"run", "--name", spec.Name,
		"-v", fmt.Sprintf("%s:%s", spec.MountSource, spec.MountTarget),
		spec.Image,
	}
	args = append(args, spec.Command...)

	out, err := e.runner.Run(ctx, e.binary, args...)
	if err != nil {
		return fmt.Errorf("run container %q: %w: %s", spec.Name, err, strings.TrimSpace(out))
	}

	return nil
}

// CopyFromContainer extracts containerPath from the container into hostDir.
func (e *DockerEngine) CopyFromContainer(ctx context.Context, container, containerPath string, hostDir m.Path) error {
	source := fmt.Sprintf("%s:%s", container, containerPath)

	out, err := e.runner.Run(ctx, e.binary, "cp", source, string(hostDir))
	if err != nil {
		return fmt.Errorf("copy %s out of container: %w: %s", source, err, strings.TrimSpace(out))
	}

	return nil
}

// RemoveContainer force-removes the named container. The engine reports
// "no such container" as an error; callers decide whether that matters.
func (e *DockerEngine) RemoveContainer(ctx context.Context, name string) error {
	out, err := e.runner.Run(ctx, e.binary, "rm", "-f", name)
	if err != nil {
		return fmt.Errorf("remove container %q: %w: %s", name, err, strings.TrimSpace(out))
	}

	return nil
}
