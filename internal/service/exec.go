// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package service

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// commandTimeout bounds a single service-manager invocation.
const commandTimeout = 30 * time.Second

// runCommand runs name with args and returns its combined output and exit
// code. err is only set when the command could not run to completion.
// Tests replace it.
var runCommand = func(ctx context.Context, name string, args ...string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return out, exitErr.ExitCode(), nil
		}
		return out, -1, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, 0, nil
}

func commandFailed(name string, args []string, code int, out []byte) error {
	return fmt.Errorf("%s %s exited with %d (output: %s)", name, strings.Join(args, " "), code, strings.TrimSpace(string(out)))
}
