// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package service

import (
	"bufio"
	"bytes"
	"context"
	"strings"
)

// Systemd drives units through systemctl.
type Systemd struct{}

func (Systemd) Status(ctx context.Context, name string) (State, error) {
	args := []string{"show", "--property=LoadState,ActiveState", name}
	out, code, err := runCommand(ctx, "systemctl", args...)
	if err != nil {
		return Unknown, err
	}
	if code != 0 {
		return Unknown, commandFailed("systemctl", args, code, out)
	}

	props := map[string]string{}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		k, v, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if ok {
			props[k] = v
		}
	}

	if props["LoadState"] == "not-found" {
		return Unknown, ErrNotFound
	}
	switch props["ActiveState"] {
	case "active", "reloading":
		return Running, nil
	case "activating", "deactivating":
		return Pending, nil
	case "inactive", "failed":
		return Stopped, nil
	default:
		return Unknown, nil
	}
}

func (Systemd) Start(ctx context.Context, name string) error {
	return systemctl(ctx, "start", name)
}

func (Systemd) Stop(ctx context.Context, name string) error {
	return systemctl(ctx, "stop", name)
}

func systemctl(ctx context.Context, verb, name string) error {
	args := []string{verb, name}
	out, code, err := runCommand(ctx, "systemctl", args...)
	if err != nil {
		return err
	}
	if code != 0 {
		return commandFailed("systemctl", args, code, out)
	}
	return nil
}
