// Package docker runs containerized scanners for pipeline stages that
// need tools not installed on the host.
package docker

import (
	"context"
	"errors"
	"fmt"

	"github.com/shipgatedev/shipgate/internal/command"
)

var ErrRun = errors.New("container run error")

// RunSpec describes a single throwaway container invocation.
type RunSpec struct {
	Image   string
	Binds   []string
	Workdir string
	Args    []string
}

type Runtime struct {
	runner command.Runner
}

func NewRuntime() *Runtime {
	return &Runtime{runner: command.Exec{}}
}

func NewRuntimeWithRunner(r command.Runner) *Runtime {
	return &Runtime{runner: r}
}

// Run executes `docker run --rm` with the given spec and returns the
// combined output. A non-zero exit is returned as an error alongside any
// output the container produced, so callers can keep partial results.
func (r *Runtime) Run(ctx context.Context, spec RunSpec) ([]byte, error) {
	args := []string{"run", "--rm"}
	for _, bind := range spec.Binds {
		args = append(args, "-v", bind)
	}
	if spec.Workdir != "" {
		args = append(args, "-w", spec.Workdir)
	}
	args = append(args, spec.Image)
	args = append(args, spec.Args...)

	out, err := r.runner.Run(ctx, nil, "docker", args...)
	if err != nil {
		return out, fmt.Errorf("%w: image '%s': %v", ErrRun, spec.Image, err)
	}
	return out, nil
}
