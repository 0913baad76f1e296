// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package reset

import (
	"sync"

	"github.com/toeirei/rootreset/internal/platform"
	"github.com/toeirei/rootreset/internal/safemode"
)

// Session is the mutable state of one run. The interrupt handler reads it
// concurrently with the main flow, so access goes through the methods.
type Session struct {
	mu sync.Mutex

	Elevated     bool
	Installation platform.Installation
	ServiceName  string
	// WasRunning is the service state observed before it was stopped.
	WasRunning bool
	Server     safemode.Server
	Workspace  *safemode.Workspace
	// Password lives in memory only and is zeroed by Wipe.
	Password []byte

	closed bool
}

// attachWorkspace records ws unless cleanup has already started, in which
// case the caller owns ws and must remove it.
func (s *Session) attachWorkspace(ws *safemode.Workspace) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.Workspace = ws
	return true
}

// attachServer is attachWorkspace for the safe-mode server.
func (s *Session) attachServer(srv safemode.Server) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.Server = srv
	return true
}

// close marks the session as being cleaned up and hands out the resources
// that need releasing.
func (s *Session) close() (safemode.Server, *safemode.Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.Server, s.Workspace, s.WasRunning
}

func (s *Session) setWasRunning(v bool) {
	s.mu.Lock()
	s.WasRunning = v
	s.mu.Unlock()
}

func (s *Session) setPassword(pw []byte) {
	s.mu.Lock()
	wipe(s.Password)
	s.Password = pw
	s.mu.Unlock()
}

// password returns a copy the caller must wipe.
func (s *Session) password() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.Password...)
}

// Wipe zeroes the password.
func (s *Session) Wipe() {
	s.mu.Lock()
	wipe(s.Password)
	s.Password = nil
	s.mu.Unlock()
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
