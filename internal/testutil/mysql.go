// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/toeirei/rootreset/internal/mysqlclient"
)

// FakeConnector records connections and statements. Connections fail with
// a refusal for the first RefuseFirst attempts, as a server that is still
// starting would.
type FakeConnector struct {
	mu sync.Mutex

	RefuseFirst int
	// Password, when set, is required for logins; other passwords and empty
	// ones get ErrAccessDenied.
	Password string
	ExecErr  error
	// FailEndpoints refuse every connection.
	FailEndpoints map[string]bool

	attempts int
	Connects []Connect
	// Statements holds each executed statement rendered with its arguments.
	Statements []string
	Closed     int
}

// Connect is one recorded Connect call.
type Connect struct {
	Endpoint mysqlclient.Endpoint
	User     string
	Password string
}

var errRefused = errors.New("connection refused")

func (c *FakeConnector) Connect(_ context.Context, ep mysqlclient.Endpoint, cred mysqlclient.Credentials) (mysqlclient.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	c.Connects = append(c.Connects, Connect{Endpoint: ep, User: cred.User, Password: string(cred.Password)})

	if c.attempts <= c.RefuseFirst || c.FailEndpoints[ep.Address] {
		return nil, fmt.Errorf("dial %s: %w", ep, errRefused)
	}
	if c.Password != "" && string(cred.Password) != c.Password {
		return nil, fmt.Errorf("%w: user %s", mysqlclient.ErrAccessDenied, cred.User)
	}
	return &fakeConn{c: c}, nil
}

// Attempts returns the number of Connect calls.
func (c *FakeConnector) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

type fakeConn struct {
	c *FakeConnector
}

func (f *fakeConn) Exec(_ context.Context, st mysqlclient.Statement) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	f.c.Statements = append(f.c.Statements, st.SQL())
	return f.c.ExecErr
}

func (f *fakeConn) Close() error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	f.c.Closed++
	return nil
}

// FakePrompter answers ReadSecret from a script. When the script runs out it
// returns io.EOF.
type FakePrompter struct {
	mu      sync.Mutex
	Answers []string
	Labels  []string
	// OnRead runs before each answer is returned.
	OnRead func(n int)
}

// ErrNoMoreInput is returned once Answers is exhausted.
var ErrNoMoreInput = errors.New("EOF")

func (p *FakePrompter) ReadSecret(_ context.Context, label string) ([]byte, error) {
	p.mu.Lock()
	n := len(p.Labels)
	p.Labels = append(p.Labels, label)
	var answer *string
	if len(p.Answers) > 0 {
		a := p.Answers[0]
		p.Answers = p.Answers[1:]
		answer = &a
	}
	hook := p.OnRead
	p.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if answer == nil {
		return nil, ErrNoMoreInput
	}
	return []byte(*answer), nil
}
