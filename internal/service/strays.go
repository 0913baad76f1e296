// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Strays finds database server processes that survive a service stop, for
// example a mysqld started by hand. A lingering server keeps the data
// directory locked, so safe mode could not start next to it.
type Strays struct {
	// Names are matched case-insensitively with any ".exe" suffix removed.
	Names []string
	// Grace is how long Terminate waits after SIGTERM before killing.
	Grace time.Duration
}

// NewStrays returns a finder for mysqld and mariadbd processes.
func NewStrays(grace time.Duration) *Strays {
	return &Strays{Names: []string{"mysqld", "mariadbd"}, Grace: grace}
}

// Find returns the pids of matching processes other than this one.
func (s *Strays) Find(ctx context.Context) ([]int32, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	self := int32(os.Getpid())

	var pids []int32
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// process exited or is not inspectable
			continue
		}
		if s.matches(name) {
			pids = append(pids, p.Pid)
		}
	}
	return pids, nil
}

func (s *Strays) matches(name string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	for _, n := range s.Names {
		if name == strings.ToLower(n) {
			return true
		}
	}
	return false
}

// Terminate asks pid to exit and kills it when it is still alive after Grace.
func (s *Strays) Terminate(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		// already gone
		return nil
	}
	if err := p.TerminateWithContext(ctx); err != nil {
		return p.KillWithContext(ctx)
	}

	deadline := time.Now().Add(s.Grace)
	for time.Now().Before(deadline) {
		running, err := p.IsRunningWithContext(ctx)
		if err != nil || !running {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
	if err := p.KillWithContext(ctx); err != nil {
		return fmt.Errorf("killing process %d: %w", pid, err)
	}
	return nil
}
