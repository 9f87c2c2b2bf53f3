// Package command is the seam between the pipeline and external tools. The
// git, toolchain, and docker collaborators all invoke processes through a
// Runner so tests can substitute a stub and never spawn anything.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/shipgatedev/shipgate/internal/log"
)

type Runner interface {
	// Run executes name with args, appending env entries ("KEY=VALUE") to the
	// inherited environment, and returns captured stdout. A non-zero exit
	// returns an error carrying the tool's stderr for diagnosis.
	Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error)
}

// Exec runs real processes in Dir.
type Exec struct {
	Dir string
}

func (e Exec) Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debugf("exec: %s %v", name, args)
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("%s: %w: %s", name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
