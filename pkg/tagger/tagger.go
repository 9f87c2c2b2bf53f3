// Package tagger computes and publishes the next release tag from the
// source-control tag history.
package tagger

import (
	"context"
	"fmt"

	"github.com/shipgatedev/shipgate/internal/log"
	"github.com/shipgatedev/shipgate/pkg/semver"
)

// SourceControl is the narrow slice of the source-control collaborator the
// tagger consumes.
type SourceControl interface {
	ListTags(ctx context.Context) ([]semver.Tag, error)
	TagAtHead(ctx context.Context) (semver.Tag, bool, error)
	CreateTag(ctx context.Context, tag semver.Tag, message string) error
	PushTag(ctx context.Context, tag semver.Tag) error
}

type Tagger struct {
	sc SourceControl
}

func New(sc SourceControl) *Tagger {
	return &Tagger{sc: sc}
}

// Next resolves the tag this run releases under. On a tag ref the triggering
// tag is reused as-is and reused is true; on a branch the patch component of
// the highest existing tag is incremented.
func (t *Tagger) Next(ctx context.Context) (tag semver.Tag, reused bool, err error) {
	head, ok, err := t.sc.TagAtHead(ctx)
	if err != nil {
		return semver.Tag{}, false, err
	}
	if ok {
		log.Infof("running from tag ref %s, reusing it", head)
		return head, true, nil
	}

	tags, err := t.sc.ListTags(ctx)
	if err != nil {
		return semver.Tag{}, false, err
	}
	next := semver.NextTag(tags)
	log.Infof("next release tag: %s (%d existing tags)", next, len(tags))
	return next, false, nil
}

// Publish creates the annotated tag and pushes it, as two distinct
// collaborator calls. Either failing aborts the release.
func (t *Tagger) Publish(ctx context.Context, tag semver.Tag) error {
	if err := t.sc.CreateTag(ctx, tag, fmt.Sprintf("Release %s", tag)); err != nil {
		return err
	}
	return t.sc.PushTag(ctx, tag)
}
