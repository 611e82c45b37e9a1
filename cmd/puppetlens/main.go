// Package main provides the CLI for puppetlens, a static dependency analyzer
// for Puppet manifests.
package main

import (
	"os"

	"github.com/leapstack-labs/puppetlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
