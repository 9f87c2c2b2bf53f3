package git

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shipgatedev/shipgate/pkg/semver"
)

type stubRunner struct {
	output map[string][]byte
	err    error
	calls  [][]string
}

func (s *stubRunner) Run(_ context.Context, _ []string, name string, args ...string) ([]byte, error) {
	call := append([]string{name}, args...)
	s.calls = append(s.calls, call)
	if s.err != nil {
		return nil, s.err
	}
	return s.output[strings.Join(call, " ")], nil
}

func TestListTags(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		runner := &stubRunner{output: map[string][]byte{
			"git tag --list v* --sort=-v:refname": []byte("v1.2.10\nv1.2.3\nv0.9.0\n"),
		}}
		tags, err := NewWithRunner(runner).ListTags(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(tags) != 3 {
			t.Fatalf("want: 3 tags got: %d", len(tags))
		}
		if tags[0].String() != "v1.2.10" {
			t.Fatalf("want: v1.2.10 first got: %s", tags[0])
		}
	})

	t.Run("empty", func(t *testing.T) {
		runner := &stubRunner{output: map[string][]byte{}}
		tags, err := NewWithRunner(runner).ListTags(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(tags) != 0 {
			t.Fatalf("want: no tags got: %d", len(tags))
		}
	})

	t.Run("malformed-tag-is-fatal", func(t *testing.T) {
		runner := &stubRunner{output: map[string][]byte{
			"git tag --list v* --sort=-v:refname": []byte("v1.2.3\nvNext\n"),
		}}
		_, err := NewWithRunner(runner).ListTags(context.Background())
		if !errors.Is(err, semver.ErrInvalidTag) {
			t.Fatalf("want: %v got: %v", semver.ErrInvalidTag, err)
		}
	})
}

func TestTagAtHead(t *testing.T) {
	t.Run("on-tag-ref", func(t *testing.T) {
		runner := &stubRunner{output: map[string][]byte{
			"git tag --points-at HEAD --list v*": []byte("v2.0.4\n"),
		}}
		tag, ok, err := NewWithRunner(runner).TagAtHead(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !ok || tag.String() != "v2.0.4" {
			t.Fatalf("want: v2.0.4 got: %s ok=%v", tag, ok)
		}
	})

	t.Run("on-branch", func(t *testing.T) {
		runner := &stubRunner{output: map[string][]byte{}}
		_, ok, err := NewWithRunner(runner).TagAtHead(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("want: no tag at HEAD")
		}
	})
}

func TestPushTag(t *testing.T) {
	t.Run("rejected-push-fails-loudly", func(t *testing.T) {
		runner := &stubRunner{err: errors.New("remote rejected: tag already exists")}
		err := NewWithRunner(runner).PushTag(context.Background(), semver.Tag{Major: 1})
		if err == nil {
			t.Fatal("want: error from rejected push")
		}
		if len(runner.calls) != 1 {
			t.Fatalf("want: exactly one push attempt got: %d", len(runner.calls))
		}
	})

	t.Run("create-then-push-are-distinct", func(t *testing.T) {
		runner := &stubRunner{output: map[string][]byte{}}
		cli := NewWithRunner(runner)
		tag := semver.Tag{Major: 1, Minor: 2, Patch: 3}
		if err := cli.CreateTag(context.Background(), tag, ""); err != nil {
			t.Fatal(err)
		}
		if err := cli.PushTag(context.Background(), tag); err != nil {
			t.Fatal(err)
		}
		if len(runner.calls) != 2 {
			t.Fatalf("want: 2 calls got: %d", len(runner.calls))
		}
		if runner.calls[0][1] != "tag" || runner.calls[1][1] != "push" {
			t.Fatalf("want: tag then push got: %v", runner.calls)
		}
	})
}
