// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package service

import (
	"context"
	"strings"
)

// SysV drives init scripts through service(8) and interprets LSB status codes.
type SysV struct{}

func (SysV) Status(ctx context.Context, name string) (State, error) {
	out, code, err := runCommand(ctx, "service", name, "status")
	if err != nil {
		return Unknown, err
	}
	lower := strings.ToLower(string(out))
	if strings.Contains(lower, "unrecognized service") || strings.Contains(lower, "could not be found") {
		return Unknown, ErrNotFound
	}
	switch code {
	case 0:
		return Running, nil
	case 1, 2, 3:
		return Stopped, nil
	case 4:
		return Unknown, ErrNotFound
	default:
		return Unknown, nil
	}
}

func (SysV) Start(ctx context.Context, name string) error {
	return sysvRun(ctx, name, "start")
}

func (SysV) Stop(ctx context.Context, name string) error {
	return sysvRun(ctx, name, "stop")
}

func sysvRun(ctx context.Context, name, verb string) error {
	args := []string{name, verb}
	out, code, err := runCommand(ctx, "service", args...)
	if err != nil {
		return err
	}
	if code != 0 {
		return commandFailed("service", args, code, out)
	}
	return nil
}
