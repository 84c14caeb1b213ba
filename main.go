package main

import (
	// Embed tzdata so timezone resolution works in scratch containers
	_ "time/tzdata"

	"github.com/erikmackinnon/reclaim-mcp-server/cmd"
)

// version will be set by goreleaser during build
var version = "dev"

func main() {
	// Set the version from build-time variable
	cmd.SetVersion(version)

	// Execute the root command
	cmd.Execute()
}
