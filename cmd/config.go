package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shipgatedev/shipgate/pkg/artifacts/gosec"
	"github.com/shipgatedev/shipgate/pkg/gate"
	"github.com/shipgatedev/shipgate/pkg/release"
)

// Config is the single aggregated configuration document. Every command
// reads from it; none of them reach into the ambient environment.
type Config struct {
	Version string         `yaml:"version"`
	Gate    gate.Config    `yaml:"gate"`
	Gosec   gosec.Config   `yaml:"gosec"`
	Release release.Config `yaml:"release"`
}

func LoadConfig(filename string) (Config, error) {
	var config Config
	f, err := os.Open(filename)
	if err != nil {
		return config, fmt.Errorf("%w: %v", ErrorFileAccess, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return config, fmt.Errorf("%w: %v", ErrorEncoding, err)
	}
	return config, nil
}
