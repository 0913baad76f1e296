// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build !windows

package safemode

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcAttr moves the server into its own process group so a terminal
// Ctrl-C reaches only rootreset, which then stops the server in cleanup.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate asks mysqld for a clean shutdown.
func terminate(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
