// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package testutil

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/toeirei/rootreset/internal/mysqlclient"
	"github.com/toeirei/rootreset/internal/safemode"
)

// FakeLauncher hands out FakeServers and remembers what it was asked to run.
type FakeLauncher struct {
	mu sync.Mutex

	// ExitImmediately makes launched servers exit at once with ExitErr.
	ExitImmediately bool
	ExitErr         error
	LaunchErr       error
	// InitFileContent is the init file as it was on disk at launch.
	InitFileContent []byte
	// OnLaunch runs after the server started, before Launch returns.
	OnLaunch func(srv *FakeServer)

	Launches []safemode.Options
	Servers  []*FakeServer
}

func (l *FakeLauncher) Launch(_ context.Context, ws *safemode.Workspace, opts safemode.Options) (safemode.Server, error) {
	srv, err := l.launch(ws, opts)
	if err != nil {
		return nil, err
	}
	if l.OnLaunch != nil {
		l.OnLaunch(srv)
	}
	return srv, nil
}

func (l *FakeLauncher) launch(ws *safemode.Workspace, opts safemode.Options) (*FakeServer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Launches = append(l.Launches, opts)
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}
	if opts.InitFile != "" {
		data, err := os.ReadFile(opts.InitFile)
		if err != nil {
			return nil, err
		}
		l.InitFileContent = data
	}

	srv := &FakeServer{
		pid:      4242 + len(l.Servers),
		done:     make(chan struct{}),
		endpoint: safemode.Endpoint(ws),
	}
	if l.ExitImmediately {
		err := l.ExitErr
		if err == nil {
			err = errors.New("exit status 1")
		}
		srv.exit(err)
	}
	l.Servers = append(l.Servers, srv)
	return srv, nil
}

// FakeServer is a safe-mode server that runs until stopped.
type FakeServer struct {
	mu       sync.Mutex
	pid      int
	done     chan struct{}
	err      error
	exited   bool
	endpoint mysqlclient.Endpoint
	stops    int
}

func (s *FakeServer) PID() int                       { return s.pid }
func (s *FakeServer) Done() <-chan struct{}          { return s.done }
func (s *FakeServer) Endpoint() mysqlclient.Endpoint { return s.endpoint }

func (s *FakeServer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *FakeServer) Stop(context.Context) error {
	s.mu.Lock()
	s.stops++
	s.mu.Unlock()
	s.exit(nil)
	return nil
}

// Stops counts Stop calls.
func (s *FakeServer) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

// Running reports whether the server has not exited.
func (s *FakeServer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.exited
}

func (s *FakeServer) exit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exited {
		return
	}
	s.exited = true
	s.err = err
	close(s.done)
}
