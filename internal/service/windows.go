// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build windows

package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"
)

// Windows talks to the service control manager.
type Windows struct{}

func newWindows() (Manager, error) { return Windows{}, nil }

func (Windows) Status(_ context.Context, name string) (State, error) {
	var state State
	err := withService(name, func(s *mgr.Service) error {
		st, err := s.Query()
		if err != nil {
			return fmt.Errorf("querying service %s: %w", name, err)
		}
		state = fromSvcState(st.State)
		return nil
	})
	return state, err
}

func (Windows) Start(_ context.Context, name string) error {
	return withService(name, func(s *mgr.Service) error {
		err := s.Start()
		if err != nil && !errors.Is(err, windows.ERROR_SERVICE_ALREADY_RUNNING) {
			return fmt.Errorf("starting service %s: %w", name, err)
		}
		return nil
	})
}

func (Windows) Stop(_ context.Context, name string) error {
	return withService(name, func(s *mgr.Service) error {
		_, err := s.Control(svc.Stop)
		if err != nil && !errors.Is(err, windows.ERROR_SERVICE_NOT_ACTIVE) {
			return fmt.Errorf("stopping service %s: %w", name, err)
		}
		return nil
	})
}

func withService(name string, fn func(s *mgr.Service) error) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connecting to service manager: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		if errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST) {
			return ErrNotFound
		}
		return fmt.Errorf("opening service %s: %w", name, err)
	}
	defer s.Close()

	return fn(s)
}

func fromSvcState(s svc.State) State {
	switch s {
	case svc.Running:
		return Running
	case svc.Stopped:
		return Stopped
	case svc.StartPending, svc.StopPending, svc.ContinuePending, svc.PausePending:
		return Pending
	default:
		return Unknown
	}
}
