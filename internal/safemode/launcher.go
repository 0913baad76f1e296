// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package safemode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/toeirei/rootreset/internal/mysqlclient"
)

// Methods of putting the server into a state where the password can be set.
const (
	// MethodSkipGrantTables disables authentication; a client then sets the password.
	MethodSkipGrantTables = "skip-grant-tables"
	// MethodInitFile keeps authentication on and lets the server execute a
	// statement file at start.
	MethodInitFile = "init-file"
)

// Options describes one safe-mode server.
type Options struct {
	Server       string
	DefaultsFile string
	// RunAsUser is passed as --user on unix; mysqld refuses to run as root without it.
	RunAsUser string
	Method    string
	// InitFile is required for MethodInitFile.
	InitFile        string
	ExtraArgs       []string
	ShutdownTimeout time.Duration
}

// Server is a running safe-mode mysqld.
type Server interface {
	PID() int
	// Done is closed when the process has exited.
	Done() <-chan struct{}
	// Err is the exit error once Done is closed.
	Err() error
	Endpoint() mysqlclient.Endpoint
	// Stop terminates the server: gracefully first, killed after the
	// shutdown timeout. Stopping an exited server is a no-op.
	Stop(ctx context.Context) error
}

// Launcher starts safe-mode servers.
type Launcher interface {
	Launch(ctx context.Context, ws *Workspace, opts Options) (Server, error)
}

// swapped by tests
var goos = runtime.GOOS

// Endpoint is where the safe-mode server of ws listens: a socket in the
// workspace, or on Windows a named pipe private to this run.
func Endpoint(ws *Workspace) mysqlclient.Endpoint {
	if goos == "windows" {
		return mysqlclient.PipeEndpoint(pipeName())
	}
	return mysqlclient.Endpoint{Network: mysqlclient.NetworkUnix, Address: ws.Socket()}
}

func pipeName() string {
	return "rootreset-" + strconv.Itoa(os.Getpid())
}

// Args builds the mysqld command line. --defaults-file has to come first.
// The password never appears here; init-file mode passes a path.
func Args(ws *Workspace, opts Options) ([]string, error) {
	var args []string
	if opts.DefaultsFile != "" {
		args = append(args, "--defaults-file="+opts.DefaultsFile)
	}
	if opts.RunAsUser != "" && goos != "windows" {
		args = append(args, "--user="+opts.RunAsUser)
	}

	switch opts.Method {
	case MethodSkipGrantTables, "":
		args = append(args, "--skip-grant-tables")
	case MethodInitFile:
		if opts.InitFile == "" {
			return nil, errors.New("init-file method needs an init file")
		}
		args = append(args, "--init-file="+opts.InitFile)
	default:
		return nil, fmt.Errorf("unknown safe-mode method %q", opts.Method)
	}

	args = append(args, "--skip-networking")
	if goos == "windows" {
		args = append(args, "--enable-named-pipe", "--socket="+pipeName())
	} else {
		args = append(args, "--socket="+ws.Socket())
	}
	args = append(args,
		"--pid-file="+ws.PIDFile(),
		"--log-error="+ws.ErrorLog(),
	)
	return append(args, opts.ExtraArgs...), nil
}

// Exec launches the real mysqld executable.
type Exec struct{}

func (Exec) Launch(_ context.Context, ws *Workspace, opts Options) (Server, error) {
	args, err := Args(ws, opts)
	if err != nil {
		return nil, err
	}

	logFile, err := ws.CreateLog("console.log")
	if err != nil {
		return nil, err
	}

	// Not CommandContext: the server must outlive a cancelled run context
	// until cleanup stops it deliberately.
	cmd := exec.Command(opts.Server, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Stdin = nil
	setProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("starting %s: %w", opts.Server, err)
	}
	// the child holds its own handle
	_ = logFile.Close()

	grace := opts.ShutdownTimeout
	if grace <= 0 {
		grace = 15 * time.Second
	}
	p := &process{
		cmd:      cmd,
		done:     make(chan struct{}),
		endpoint: Endpoint(ws),
		grace:    grace,
	}
	go p.wait()
	return p, nil
}

type process struct {
	cmd      *exec.Cmd
	done     chan struct{}
	err      error
	endpoint mysqlclient.Endpoint
	grace    time.Duration
}

func (p *process) wait() {
	p.err = p.cmd.Wait()
	close(p.done)
}

func (p *process) PID() int                       { return p.cmd.Process.Pid }
func (p *process) Done() <-chan struct{}          { return p.done }
func (p *process) Endpoint() mysqlclient.Endpoint { return p.endpoint }

func (p *process) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

func (p *process) Stop(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	default:
	}

	if err := terminate(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		_ = p.cmd.Process.Kill()
	}

	timer := time.NewTimer(p.grace)
	defer timer.Stop()
	select {
	case <-p.done:
		return nil
	case <-timer.C:
	case <-ctx.Done():
	}

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("killing safe-mode server (pid %d): %w", p.PID(), err)
	}
	select {
	case <-p.done:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("safe-mode server (pid %d) did not exit after kill", p.PID())
	}
}
