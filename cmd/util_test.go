package cmd

import (
	"bytes"
	"os"
	"path"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// Execute runs the CLI with a space separated command string and returns
// the combined output.
func Execute(commandString string, config CLIConfig) (string, error) {
	buf := new(bytes.Buffer)
	command := NewRootCommand(config)
	command.SetOut(buf)
	command.SetErr(buf)
	command.SetArgs(strings.Split(commandString, " "))
	err := command.Execute()
	return buf.String(), err
}

func writeTempFile(content string, name string, t *testing.T) string {
	filename := path.Join(t.TempDir(), name)
	if err := os.WriteFile(filename, []byte(content), 0o664); err != nil {
		t.Fatal(err)
	}
	return filename
}

func writeTempConfig(config Config, t *testing.T) string {
	buf := new(bytes.Buffer)
	if err := yaml.NewEncoder(buf).Encode(config); err != nil {
		t.Fatal(err)
	}
	return writeTempFile(buf.String(), "shipgate.yaml", t)
}
