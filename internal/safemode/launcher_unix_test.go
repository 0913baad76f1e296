// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build !windows

package safemode

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fakeServer(t *testing.T, body string) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "mysqld")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write fake mysqld: %v", err)
	}
	return bin
}

func TestExec_LaunchAndStop(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	defer ws.Remove()

	bin := fakeServer(t, "echo started\nexec sleep 30")
	srv, err := Exec{}.Launch(context.Background(), ws, Options{Server: bin, ShutdownTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if srv.PID() <= 0 {
		t.Fatalf("PID = %d", srv.PID())
	}
	if srv.Endpoint().Address != ws.Socket() {
		t.Fatalf("Endpoint = %v, want socket %s", srv.Endpoint(), ws.Socket())
	}

	select {
	case <-srv.Done():
		t.Fatalf("server exited early: %v", srv.Err())
	case <-time.After(100 * time.Millisecond):
	}

	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case <-srv.Done():
	default:
		t.Fatalf("Done not closed after Stop")
	}
	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestExec_EarlyExitIsObservable(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	defer ws.Remove()

	bin := fakeServer(t, "echo 'data directory locked' >&2\nexit 1")
	srv, err := Exec{}.Launch(context.Background(), ws, Options{Server: bin})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	select {
	case <-srv.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("fake server did not exit")
	}
	if srv.Err() == nil {
		t.Fatalf("Err = nil for exit status 1")
	}
	if tail := ws.Tail(5); !strings.Contains(tail, "data directory locked") {
		t.Fatalf("console output not captured, tail = %q", tail)
	}
}

func TestExec_MissingBinary(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	defer ws.Remove()

	if _, err := (Exec{}).Launch(context.Background(), ws, Options{Server: filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Fatalf("Launch of missing binary should fail")
	}
}
