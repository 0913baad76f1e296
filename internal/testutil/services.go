// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds in-memory stand-ins for the service manager, the
// safe-mode launcher and the database client so the reset flow can be
// exercised without a MySQL installation.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/toeirei/rootreset/internal/service"
)

// FakeServiceManager keeps service states in a map and records every call
// as "verb name".
type FakeServiceManager struct {
	mu     sync.Mutex
	states map[string]service.State
	calls  []string

	StopErr  error
	StartErr error
	// IgnoreStop leaves the service running on Stop, as a hung unit would.
	IgnoreStop bool
}

func NewFakeServiceManager(states map[string]service.State) *FakeServiceManager {
	m := &FakeServiceManager{states: map[string]service.State{}}
	for k, v := range states {
		m.states[k] = v
	}
	return m
}

func (m *FakeServiceManager) Status(_ context.Context, name string) (service.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "status "+name)
	st, ok := m.states[name]
	if !ok {
		return service.Unknown, fmt.Errorf("%w: %s", service.ErrNotFound, name)
	}
	return st, nil
}

func (m *FakeServiceManager) Start(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "start "+name)
	if m.StartErr != nil {
		return m.StartErr
	}
	m.states[name] = service.Running
	return nil
}

func (m *FakeServiceManager) Stop(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "stop "+name)
	if m.StopErr != nil {
		return m.StopErr
	}
	if !m.IgnoreStop {
		m.states[name] = service.Stopped
	}
	return nil
}

// State returns the current state of name.
func (m *FakeServiceManager) State(name string) service.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[name]
}

// Calls returns the recorded calls except status queries.
func (m *FakeServiceManager) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.calls {
		if len(c) > 7 && c[:7] == "status " {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FakeStrays reports a fixed set of leftover server pids.
type FakeStrays struct {
	mu         sync.Mutex
	Pids       []int32
	FindErr    error
	Terminated []int32
}

func (s *FakeStrays) Find(context.Context) ([]int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	var alive []int32
	for _, p := range s.Pids {
		if !s.terminated(p) {
			alive = append(alive, p)
		}
	}
	return alive, nil
}

func (s *FakeStrays) Terminate(_ context.Context, pid int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Terminated = append(s.Terminated, pid)
	return nil
}

func (s *FakeStrays) terminated(pid int32) bool {
	for _, p := range s.Terminated {
		if p == pid {
			return true
		}
	}
	return false
}
