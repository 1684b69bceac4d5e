package main

import "fmt"

const (
	Name    = "docsite"
	Version = "0.3.0"
)

// Set at link stage via `-ldflags "-X main.GitCommit=$(git rev-parse --short HEAD)"`
var GitCommit string

// VersionString reports the program name, version and commit.
func VersionString() string {
	commit := GitCommit
	if commit == "" {
		commit = "unknown"
	}
	return fmt.Sprintf("%s/%s (%s)", Name, Version, commit)
}
