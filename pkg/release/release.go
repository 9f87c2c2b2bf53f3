// Package release assembles the release artifact set and publishes it to
// the release host.
package release

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/shipgatedev/shipgate/internal/fs"
	"github.com/shipgatedev/shipgate/internal/log"
	"github.com/shipgatedev/shipgate/pkg/semver"
)

var ErrAssemble = errors.New("release assembly failure")

// Config is the release section of the pipeline configuration file.
type Config struct {
	// Repository is the "owner/name" slug on the release host.
	Repository string `yaml:"repository" json:"repository"`
	// Binary is the path of the built binary to release.
	Binary string `yaml:"binary" json:"binary"`
	// AssetName is the published name of the binary asset.
	AssetName string `yaml:"assetName" json:"assetName"`
	// StagingDir receives the assembled artifact set.
	StagingDir string `yaml:"stagingDir" json:"stagingDir"`
	// Required companion files; missing ones fail assembly.
	Required []string `yaml:"required,omitempty" json:"required,omitempty"`
	// Optional companion files; missing ones are skipped silently.
	Optional []string `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// ArtifactSet is one assembled release: the staged binary plus companions,
// bound to the tag it will be published under.
type ArtifactSet struct {
	Tag        semver.Tag
	Dir        string
	BinaryPath string
	Files      []string
}

// Assemble copies the binary and companion files into the staging
// directory. Files are copied, never moved. A missing required companion
// fails the assembly; optional companions are skipped when absent.
func Assemble(cfg Config, tag semver.Tag) (ArtifactSet, error) {
	set := ArtifactSet{Tag: tag, Dir: cfg.StagingDir}

	if cfg.Binary == "" {
		return set, fmt.Errorf("%w: no binary configured", ErrAssemble)
	}
	if err := os.MkdirAll(cfg.StagingDir, 0o755); err != nil {
		return set, fmt.Errorf("%w: %v", ErrAssemble, err)
	}

	assetName := cfg.AssetName
	if assetName == "" {
		assetName = filepath.Base(cfg.Binary)
	}
	set.BinaryPath = filepath.Join(cfg.StagingDir, assetName)
	n, err := fs.CopyFile(cfg.Binary, set.BinaryPath)
	if err != nil {
		return set, fmt.Errorf("%w: binary %s: %v", ErrAssemble, cfg.Binary, err)
	}
	set.Files = append(set.Files, set.BinaryPath)
	log.Infof("staged %s (%s)", assetName, humanize.Bytes(uint64(n)))

	for _, name := range cfg.Required {
		dst := filepath.Join(cfg.StagingDir, filepath.Base(name))
		if _, err := fs.CopyFile(name, dst); err != nil {
			return set, fmt.Errorf("%w: required file %s: %v", ErrAssemble, name, err)
		}
		set.Files = append(set.Files, dst)
	}

	for _, name := range cfg.Optional {
		if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
			log.Debugf("optional file %s absent, skipping", name)
			continue
		}
		dst := filepath.Join(cfg.StagingDir, filepath.Base(name))
		if _, err := fs.CopyFile(name, dst); err != nil {
			return set, fmt.Errorf("%w: optional file %s: %v", ErrAssemble, name, err)
		}
		set.Files = append(set.Files, dst)
	}

	log.Infof("assembled %d files for %s in %s", len(set.Files), tag, cfg.StagingDir)
	return set, nil
}
