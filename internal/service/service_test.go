// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type call struct {
	name string
	args []string
}

// stubCommands replaces runCommand for the duration of the test and records
// every invocation.
func stubCommands(t *testing.T, fn func(name string, args []string) ([]byte, int, error)) *[]call {
	t.Helper()
	var calls []call
	prev := runCommand
	runCommand = func(_ context.Context, name string, args ...string) ([]byte, int, error) {
		calls = append(calls, call{name: name, args: args})
		return fn(name, args)
	}
	t.Cleanup(func() { runCommand = prev })
	return &calls
}

func TestSystemdStatus(t *testing.T) {
	cases := []struct {
		out  string
		want State
		err  error
	}{
		{"LoadState=loaded\nActiveState=active\n", Running, nil},
		{"LoadState=loaded\nActiveState=inactive\n", Stopped, nil},
		{"LoadState=loaded\nActiveState=failed\n", Stopped, nil},
		{"LoadState=loaded\nActiveState=deactivating\n", Pending, nil},
		{"LoadState=not-found\nActiveState=inactive\n", Unknown, ErrNotFound},
	}
	for _, tc := range cases {
		stubCommands(t, func(string, []string) ([]byte, int, error) { return []byte(tc.out), 0, nil })
		got, err := Systemd{}.Status(context.Background(), "mysql")
		if !errors.Is(err, tc.err) {
			t.Fatalf("%q: expected err %v, got %v", tc.out, tc.err, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.out, tc.want, got)
		}
	}
}

func TestSystemdStopStart(t *testing.T) {
	calls := stubCommands(t, func(string, []string) ([]byte, int, error) { return nil, 0, nil })
	if err := (Systemd{}).Stop(context.Background(), "mysql"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := (Systemd{}).Start(context.Background(), "mysql"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(*calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(*calls))
	}
	if got := strings.Join((*calls)[0].args, " "); got != "stop mysql" {
		t.Fatalf("unexpected stop args %q", got)
	}
	if got := strings.Join((*calls)[1].args, " "); got != "start mysql" {
		t.Fatalf("unexpected start args %q", got)
	}
}

func TestSystemdStop_FailureCarriesOutput(t *testing.T) {
	stubCommands(t, func(string, []string) ([]byte, int, error) {
		return []byte("Failed to stop mysql.service: Access denied"), 1, nil
	})
	err := (Systemd{}).Stop(context.Background(), "mysql")
	if err == nil || !strings.Contains(err.Error(), "Access denied") {
		t.Fatalf("expected error with output, got %v", err)
	}
}

func TestSysVStatusCodes(t *testing.T) {
	cases := map[int]State{0: Running, 3: Stopped, 1: Stopped, 150: Unknown}
	for code, want := range cases {
		stubCommands(t, func(string, []string) ([]byte, int, error) { return nil, code, nil })
		got, err := SysV{}.Status(context.Background(), "mysql")
		if err != nil {
			t.Fatalf("code %d: unexpected error %v", code, err)
		}
		if got != want {
			t.Fatalf("code %d: expected %s, got %s", code, want, got)
		}
	}

	stubCommands(t, func(string, []string) ([]byte, int, error) {
		return []byte("mysql: unrecognized service"), 1, nil
	})
	if _, err := (SysV{}).Status(context.Background(), "mysql"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// fakeManager reports states from a script, one per Status call; the last
// entry repeats.
type fakeManager struct {
	states  []State
	missing map[string]bool
	calls   int
}

func (f *fakeManager) Status(_ context.Context, name string) (State, error) {
	if f.missing[name] {
		return Unknown, ErrNotFound
	}
	i := f.calls
	if i >= len(f.states) {
		i = len(f.states) - 1
	}
	f.calls++
	return f.states[i], nil
}
func (f *fakeManager) Start(context.Context, string) error { return nil }
func (f *fakeManager) Stop(context.Context, string) error  { return nil }

func TestWaitFor_ReachesState(t *testing.T) {
	m := &fakeManager{states: []State{Running, Pending, Stopped}}
	if err := WaitFor(context.Background(), m, "mysql", Stopped, time.Second, time.Millisecond); err != nil {
		t.Fatalf("WaitFor: %v", err)
	}
	if m.calls != 3 {
		t.Fatalf("expected 3 polls, got %d", m.calls)
	}
}

func TestWaitFor_TimesOut(t *testing.T) {
	m := &fakeManager{states: []State{Running}}
	err := WaitFor(context.Background(), m, "mysql", Stopped, 20*time.Millisecond, 5*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "running") {
		t.Fatalf("timeout error should name the last state: %v", err)
	}
}

func TestResolve(t *testing.T) {
	m := &fakeManager{states: []State{Stopped}, missing: map[string]bool{"mysql": true}}
	name, err := Resolve(context.Background(), m, []string{"mysql", "mariadb"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if name != "mariadb" {
		t.Fatalf("expected mariadb, got %q", name)
	}

	m.missing["mariadb"] = true
	if _, err := Resolve(context.Background(), m, []string{"mysql", "mariadb"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNew(t *testing.T) {
	prev := systemdBooted
	defer func() { systemdBooted = prev }()

	if _, err := New("upstart"); err == nil {
		t.Fatalf("expected error for unknown manager")
	}
	if m, err := New("sysv"); err != nil || m == nil {
		t.Fatalf("New(sysv) = %v, %v", m, err)
	}
	systemdBooted = func() bool { return true }
	m, err := New("auto")
	if err != nil {
		t.Fatalf("New(auto): %v", err)
	}
	if _, ok := m.(Systemd); !ok && !isWindowsManager(m) {
		t.Fatalf("expected systemd manager, got %T", m)
	}
}

func TestStraysMatches(t *testing.T) {
	s := NewStrays(time.Second)
	for _, name := range []string{"mysqld", "MYSQLD.EXE", "mariadbd"} {
		if !s.matches(name) {
			t.Fatalf("expected %q to match", name)
		}
	}
	for _, name := range []string{"mysql", "mysqld_safe", "bash"} {
		if s.matches(name) {
			t.Fatalf("did not expect %q to match", name)
		}
	}
}

func isWindowsManager(m Manager) bool {
	_, err := newWindows()
	return err == nil && m != nil
}
