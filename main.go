package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/shipgatedev/shipgate/cmd"
	"github.com/shipgatedev/shipgate/internal/docker"
	"github.com/shipgatedev/shipgate/internal/git"
	"github.com/shipgatedev/shipgate/internal/toolchain"
	"github.com/shipgatedev/shipgate/pkg/export/objectstore"
	"github.com/shipgatedev/shipgate/pkg/release"
)

// stamped by the build stage
var version = "dev"

const defaultAPIURL = "https://api.github.com"

func main() {
	// a missing .env file is fine, the environment may already be set
	_ = godotenv.Load()

	config := cmd.CLIConfig{
		Version:       version,
		SourceControl: git.New("."),
		Toolchain:     toolchain.NewBuilder("."),
		Runtime:       docker.NewRuntime(),
		StageTimeout:  15 * time.Minute,
	}

	if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		config.PipedInput = os.Stdin
	}

	config.NewPublisherFunc = newPublisherFunc()

	if store, err := newObjectStore(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else if store != nil {
		config.ObjectStore = store
	}

	command := cmd.NewRootCommand(config)
	command.SilenceUsage = true

	if err := command.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newPublisherFunc builds the release host client factory from the token in
// the environment. The repository slug comes from whichever configuration
// file the command was given, so it is bound at command time, not here.
// Without a token, release publishing is unavailable and the release command
// reports it.
func newPublisherFunc() func(repository string) cmd.ReleasePublisher {
	token := os.Getenv("SHIPGATE_GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil
	}

	baseURL := os.Getenv("SHIPGATE_API_URL")
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	return func(repository string) cmd.ReleasePublisher {
		client := &http.Client{Timeout: 5 * time.Minute}
		return release.NewClient(baseURL+"/repos/"+repository, token, client)
	}
}

// newObjectStore wires S3 compatible storage when credentials are present.
// Partial credentials are a configuration mistake, not an absence.
func newObjectStore() (*objectstore.Service, error) {
	storeConfig := objectstore.Config{
		Endpoint:  os.Getenv("SHIPGATE_S3_ENDPOINT"),
		AccessKey: os.Getenv("SHIPGATE_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("SHIPGATE_S3_SECRET_KEY"),
		Bucket:    os.Getenv("SHIPGATE_S3_BUCKET"),
		Prefix:    os.Getenv("SHIPGATE_S3_PREFIX"),
	}
	if !storeConfig.Enabled() {
		if storeConfig.Endpoint != "" || storeConfig.AccessKey != "" || storeConfig.Bucket != "" {
			return nil, fmt.Errorf("incomplete object storage configuration: "+
				"SHIPGATE_S3_ENDPOINT, SHIPGATE_S3_ACCESS_KEY, SHIPGATE_S3_SECRET_KEY, "+
				"and SHIPGATE_S3_BUCKET must all be set")
		}
		return nil, nil
	}
	return objectstore.NewServiceFromConfig(storeConfig)
}
