// Package git is the source-control collaborator. The pipeline only needs
// four capabilities from it: list version tags, detect a tag at HEAD, create
// an annotated tag, and push a tag to the remote.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/shipgatedev/shipgate/internal/command"
	"github.com/shipgatedev/shipgate/internal/log"
	"github.com/shipgatedev/shipgate/pkg/semver"
)

const defaultRemote = "origin"

type CLI struct {
	runner command.Runner
	remote string
}

func New(dir string) *CLI {
	return &CLI{runner: command.Exec{Dir: dir}, remote: defaultRemote}
}

func NewWithRunner(r command.Runner) *CLI {
	return &CLI{runner: r, remote: defaultRemote}
}

func (c *CLI) WithRemote(remote string) *CLI {
	c.remote = remote
	return c
}

// ListTags returns all "v" prefixed tags sorted by version descending. A tag
// matching the release pattern that does not parse is a hard error.
func (c *CLI) ListTags(ctx context.Context) ([]semver.Tag, error) {
	out, err := c.runner.Run(ctx, nil, "git", "tag", "--list", "v*", "--sort=-v:refname")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	var tags []semver.Tag
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tag, err := semver.ParseTag(line)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// TagAtHead reports the release tag pointing at the current commit, if any.
// Running the pipeline from a tag ref reuses that tag instead of minting a
// new one.
func (c *CLI) TagAtHead(ctx context.Context) (semver.Tag, bool, error) {
	out, err := c.runner.Run(ctx, nil, "git", "tag", "--points-at", "HEAD", "--list", "v*")
	if err != nil {
		return semver.Tag{}, false, fmt.Errorf("tag at HEAD: %w", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tag, err := semver.ParseTag(line)
		if err != nil {
			return semver.Tag{}, false, err
		}
		return tag, true, nil
	}
	return semver.Tag{}, false, nil
}

// CreateTag creates an annotated tag at the current commit. It does not
// push; publish is a distinct operation so it can be tested offline.
func (c *CLI) CreateTag(ctx context.Context, tag semver.Tag, message string) error {
	if message == "" {
		message = fmt.Sprintf("Release %s", tag)
	}
	if _, err := c.runner.Run(ctx, nil, "git", "tag", "-a", tag.String(), "-m", message); err != nil {
		return fmt.Errorf("create tag %s: %w", tag, err)
	}
	log.Infof("created annotated tag %s", tag)
	return nil
}

// PushTag pushes the tag to the remote. A rejected push fails loudly; the
// pipeline never retries with a different number, which would create
// divergent tag semantics across machines.
func (c *CLI) PushTag(ctx context.Context, tag semver.Tag) error {
	if _, err := c.runner.Run(ctx, nil, "git", "push", c.remote, tag.String()); err != nil {
		return fmt.Errorf("push tag %s to %s: %w", tag, c.remote, err)
	}
	log.Infof("pushed tag %s to %s", tag, c.remote)
	return nil
}
