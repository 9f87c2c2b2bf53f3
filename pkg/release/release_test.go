package release

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shipgatedev/shipgate/pkg/semver"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAssemble(t *testing.T) {
	tag := semver.Tag{Major: 1, Minor: 2, Patch: 3}

	t.Run("copies-binary-and-companions", func(t *testing.T) {
		dir := t.TempDir()
		binary := filepath.Join(dir, "app")
		readme := filepath.Join(dir, "README.md")
		writeFile(t, binary, "binary-bytes")
		writeFile(t, readme, "docs")

		cfg := Config{
			Binary:     binary,
			AssetName:  "app-linux-amd64",
			StagingDir: filepath.Join(dir, "release"),
			Required:   []string{readme},
		}
		set, err := Assemble(cfg, tag)
		if err != nil {
			t.Fatal(err)
		}
		if len(set.Files) != 2 {
			t.Fatalf("want: 2 staged files got: %d", len(set.Files))
		}
		if filepath.Base(set.BinaryPath) != "app-linux-amd64" {
			t.Fatalf("got: %s", set.BinaryPath)
		}
		// originals must survive, copied not moved
		if _, err := os.Stat(binary); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("missing-optional-skipped-silently", func(t *testing.T) {
		dir := t.TempDir()
		binary := filepath.Join(dir, "app")
		writeFile(t, binary, "binary-bytes")

		cfg := Config{
			Binary:     binary,
			StagingDir: filepath.Join(dir, "release"),
			Optional:   []string{filepath.Join(dir, "install.sh")},
		}
		set, err := Assemble(cfg, tag)
		if err != nil {
			t.Fatal(err)
		}
		if len(set.Files) != 1 {
			t.Fatalf("want: binary only got: %v", set.Files)
		}
	})

	t.Run("missing-required-fails", func(t *testing.T) {
		dir := t.TempDir()
		binary := filepath.Join(dir, "app")
		writeFile(t, binary, "binary-bytes")

		cfg := Config{
			Binary:     binary,
			StagingDir: filepath.Join(dir, "release"),
			Required:   []string{filepath.Join(dir, "missing.toml")},
		}
		if _, err := Assemble(cfg, tag); !errors.Is(err, ErrAssemble) {
			t.Fatalf("want: %v got: %v", ErrAssemble, err)
		}
	})

	t.Run("missing-binary-fails", func(t *testing.T) {
		dir := t.TempDir()
		cfg := Config{Binary: filepath.Join(dir, "nope"), StagingDir: filepath.Join(dir, "release")}
		if _, err := Assemble(cfg, tag); !errors.Is(err, ErrAssemble) {
			t.Fatalf("want: %v got: %v", ErrAssemble, err)
		}
	})
}
