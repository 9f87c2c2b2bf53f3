// Package toolchain shells out to the Go toolchain for clean, test, and
// build steps during a pipeline run.
package toolchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/shipgatedev/shipgate/internal/command"
	"github.com/shipgatedev/shipgate/internal/log"
)

var ErrBuild = errors.New("toolchain error")

// BuildSpec describes a single binary build.
type BuildSpec struct {
	Output  string
	Package string
	Version string
	GOOS    string
	GOARCH  string
	CGO     bool
}

type Builder struct {
	runner command.Runner
}

func NewBuilder(dir string) *Builder {
	return &Builder{runner: command.Exec{Dir: dir}}
}

func NewBuilderWithRunner(r command.Runner) *Builder {
	return &Builder{runner: r}
}

// Clean removes build artifacts and the test cache.
func (b *Builder) Clean(ctx context.Context) error {
	if _, err := b.runner.Run(ctx, nil, "go", "clean", "-testcache"); err != nil {
		return fmt.Errorf("%w: clean: %v", ErrBuild, err)
	}
	return nil
}

// Test runs the full test suite.
func (b *Builder) Test(ctx context.Context) error {
	out, err := b.runner.Run(ctx, nil, "go", "test", "./...")
	if err != nil {
		return fmt.Errorf("%w: test: %v", ErrBuild, err)
	}
	log.Debugf("go test output:\n%s", out)
	return nil
}

// Build compiles spec.Package into spec.Output, stamping the version into
// main.version via the linker.
func (b *Builder) Build(ctx context.Context, spec BuildSpec) error {
	pkg := spec.Package
	if pkg == "" {
		pkg = "."
	}
	args := []string{"build", "-o", spec.Output}
	if spec.Version != "" {
		args = append(args, "-ldflags", fmt.Sprintf("-X main.version=%s", spec.Version))
	}
	args = append(args, pkg)

	var env []string
	if spec.GOOS != "" {
		env = append(env, "GOOS="+spec.GOOS)
	}
	if spec.GOARCH != "" {
		env = append(env, "GOARCH="+spec.GOARCH)
	}
	if !spec.CGO {
		env = append(env, "CGO_ENABLED=0")
	}

	log.Infof("building %s -> %s", pkg, spec.Output)
	if _, err := b.runner.Run(ctx, env, "go", args...); err != nil {
		return fmt.Errorf("%w: build %s: %v", ErrBuild, spec.Output, err)
	}
	return nil
}
