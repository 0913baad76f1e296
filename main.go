// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for rootreset.
//
// Usage:
//
//	go run . [flags]
//	sudo ./rootreset [flags]
//
// See --help for options.
package main

import (
	"os"

	"github.com/toeirei/rootreset/ui/cli"
)

func main() {
	os.Exit(cli.Execute())
}
