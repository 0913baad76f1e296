// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Command rootreset resets the root password of a local MySQL server.
package main

import (
	"os"

	"github.com/toeirei/rootreset/ui/cli"
)

func main() {
	os.Exit(cli.Execute())
}
