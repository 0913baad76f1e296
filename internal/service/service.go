// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package service controls the database service through the host's service
// manager (systemd, SysV init scripts or the Windows SCM).
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"
)

// State is the coarse run state of a service.
type State int

const (
	Unknown State = iota
	Stopped
	Pending
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Pending:
		return "pending"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

var (
	// ErrNotFound is returned by Status for services the manager does not know.
	ErrNotFound = errors.New("service not found")
	// ErrTimeout is returned by WaitFor when the wanted state is not reached in time.
	ErrTimeout = errors.New("timed out waiting for service state")
)

// Manager is the start/stop/status capability of a service manager.
type Manager interface {
	Status(ctx context.Context, name string) (State, error)
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
}

// WaitFor polls m until name reaches want, the timeout elapses or ctx is done.
func WaitFor(ctx context.Context, m Manager, name string, want State, timeout, interval time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := Unknown
	for {
		st, err := m.Status(ctx, name)
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if err == nil {
			last = st
			if st == want {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s is %s after %s, want %s", ErrTimeout, name, last, timeout, want)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Resolve returns the first candidate the manager knows about.
func Resolve(ctx context.Context, m Manager, candidates []string) (string, error) {
	for _, name := range candidates {
		_, err := m.Status(ctx, name)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("querying service %s: %w", name, err)
		}
	}
	return "", fmt.Errorf("%w: tried %v", ErrNotFound, candidates)
}

// DefaultCandidates lists the service names MySQL and MariaDB packages
// register on this platform.
func DefaultCandidates() []string {
	if runtime.GOOS == "windows" {
		return []string{"MySQL80", "MySQL84", "MySQL57", "MySQL", "MariaDB"}
	}
	return []string{"mysql", "mysqld", "mariadb"}
}

// swapped by tests
var systemdBooted = func() bool {
	st, err := os.Stat("/run/systemd/system")
	return err == nil && st.IsDir()
}

// New returns the manager for kind: "auto", "systemd", "sysv" or "windows".
func New(kind string) (Manager, error) {
	switch kind {
	case "", "auto":
		if runtime.GOOS == "windows" {
			return newWindows()
		}
		if systemdBooted() {
			return Systemd{}, nil
		}
		return SysV{}, nil
	case "systemd":
		return Systemd{}, nil
	case "sysv":
		return SysV{}, nil
	case "windows":
		return newWindows()
	default:
		return nil, fmt.Errorf("unknown service manager %q", kind)
	}
}
