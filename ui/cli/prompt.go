// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// prompter reads passwords with echo off when stdin is a terminal and falls
// back to plain lines otherwise, e.g. when input is piped.
type prompter struct {
	in  *os.File
	out io.Writer

	mu     sync.Mutex
	fd     int
	tty    bool
	state  *term.State
	reader *bufio.Reader
}

// swapped by tests
var isTerminal = term.IsTerminal

func newPrompter(in *os.File, out io.Writer) *prompter {
	p := &prompter{in: in, out: out, fd: int(in.Fd())}
	p.tty = isTerminal(p.fd)
	if p.tty {
		if st, err := term.GetState(p.fd); err == nil {
			p.state = st
		}
	} else {
		p.reader = bufio.NewReader(in)
	}
	return p
}

func (p *prompter) ReadSecret(_ context.Context, label string) ([]byte, error) {
	fmt.Fprint(p.out, label)
	if p.tty {
		pw, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return nil, err
		}
		return pw, nil
	}
	return p.readLine()
}

func (p *prompter) readLine() ([]byte, error) {
	line, err := p.reader.ReadBytes('\n')
	if err != nil && (err != io.EOF || len(line) == 0) {
		return nil, err
	}
	return trimEOL(line), nil
}

// trimEOL drops the line terminator in place.
func trimEOL(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

// Restore puts the terminal back into the state it had at start, in case an
// interrupt arrives while echo is off.
func (p *prompter) Restore() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != nil {
		_ = term.Restore(p.fd, p.state)
	}
}

// WaitForEnter blocks until the operator presses Enter. Used to keep a
// console window open on Windows.
func (p *prompter) WaitForEnter(msg string) {
	if !p.tty {
		return
	}
	fmt.Fprint(p.out, msg)
	_, _ = bufio.NewReader(p.in).ReadString('\n')
}
