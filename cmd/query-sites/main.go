// Package main is the query-sites command: it signs in to a Tableau Server,
// lists every site and signs out again.
package main

import "github.com/atinyakov/tsadmin/internal/cli"

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	cli.Execute(cli.BuildInfo{Version: version, BuildDate: buildDate})
}
