// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package reset sequences a password reset: privilege and dependency checks,
// service stop, safe-mode launch, the credential change and the cleanup that
// restores the service. Every run that gets past the checks is cleaned up
// exactly once, whether it succeeds, fails or is interrupted.
package reset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/toeirei/rootreset/internal/config"
	"github.com/toeirei/rootreset/internal/i18n"
	"github.com/toeirei/rootreset/internal/logging"
	"github.com/toeirei/rootreset/internal/mysqlclient"
	"github.com/toeirei/rootreset/internal/platform"
	"github.com/toeirei/rootreset/internal/safemode"
	"github.com/toeirei/rootreset/internal/service"
)

// Prompter reads one masked line from the operator.
type Prompter interface {
	ReadSecret(ctx context.Context, label string) ([]byte, error)
}

// Reporter receives progress events for the console.
type Reporter interface {
	PhaseStarted(p Phase)
	PhaseSucceeded(p Phase)
	PhaseFailed(p Phase, err error)
	Notice(msg string)
	Warning(msg string)
}

// StrayFinder finds and stops server processes the service manager does not
// control.
type StrayFinder interface {
	Find(ctx context.Context) ([]int32, error)
	Terminate(ctx context.Context, pid int32) error
}

// Deps are the collaborators of a run. DefaultDeps fills in the real ones.
type Deps struct {
	IsElevated   func() (bool, error)
	Locate       func(platform.LocateOptions) (platform.Installation, error)
	Services     service.Manager
	Strays       StrayFinder
	Launcher     safemode.Launcher
	NewWorkspace func(base string) (*safemode.Workspace, error)
	// NewConnector returns a client; scratchDir receives client option files
	// and may be empty.
	NewConnector func(clientPath, scratchDir string) (mysqlclient.Connector, error)
	Prompter     Prompter
	Reporter     Reporter
}

// DefaultDeps wires the platform implementations selected by cfg. Prompter
// and Reporter are left to the caller.
func DefaultDeps(cfg config.Config) (Deps, error) {
	mgr, err := service.New(cfg.Service.Manager)
	if err != nil {
		return Deps{}, err
	}
	opts := mysqlclient.Options{Timeout: cfg.Client.ConnectTimeout}
	return Deps{
		IsElevated:   platform.IsElevated,
		Locate:       platform.Locate,
		Services:     mgr,
		Strays:       service.NewStrays(cfg.SafeMode.ShutdownTimeout),
		Launcher:     safemode.Exec{},
		NewWorkspace: safemode.NewWorkspace,
		NewConnector: func(clientPath, scratchDir string) (mysqlclient.Connector, error) {
			return mysqlclient.New(cfg.Client.Kind, clientPath, scratchDir, opts)
		},
	}, nil
}

// Result is the outcome of Run.
type Result struct {
	State State
	// Path lists every state the run passed through, State last.
	Path       []State
	Err        error
	CleanupErr error
	// Verified is set when the restarted server accepted the new password.
	Verified bool
}

// Exit statuses of the rootreset binary.
const (
	ExitOK          = 0
	ExitFailed      = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// ExitCode maps the result to the process exit status.
func (r Result) ExitCode() int {
	switch {
	case r.State == Success:
		return ExitOK
	case errors.Is(r.Err, ErrInterrupted):
		return ExitInterrupted
	default:
		return ExitFailed
	}
}

// Orchestrator runs one reset. It is not reusable.
type Orchestrator struct {
	cfg     config.Config
	deps    Deps
	session *Session

	connector mysqlclient.Connector

	// held from Launch until the server is attached to the session
	launchMu sync.Mutex

	once       sync.Once
	cleanupErr error
	verify     atomic.Bool
	verified   atomic.Bool
}

func New(cfg config.Config, deps Deps) *Orchestrator {
	return &Orchestrator{cfg: cfg, deps: deps, session: &Session{}}
}

// Session exposes the run state for reporting.
func (o *Orchestrator) Session() *Session { return o.session }

// Run executes all phases and the cleanup.
func (o *Orchestrator) Run(ctx context.Context) Result {
	res := Result{State: Init, Path: []State{Init}}
	advance := func(s State) {
		res.State = s
		res.Path = append(res.Path, s)
	}

	if err := o.phase(ctx, PhaseCheckPrivileges, KindInsufficientPrivilege, o.checkPrivileges); err != nil {
		res.Err = err
		advance(Failed)
		return res
	}
	advance(PrivilegeChecked)

	if err := o.phase(ctx, PhaseCheckDependencies, KindMissingDependency, o.checkDependencies); err != nil {
		res.Err = err
		advance(Failed)
		return res
	}
	advance(DependenciesChecked)

	res.Err = o.mutate(ctx, advance)
	if res.Err == nil {
		o.verify.Store(o.cfg.Verify.Enabled)
	}

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cleanupBudget())
	defer cancel()
	res.CleanupErr = o.Cleanup(cctx)
	res.Verified = o.verified.Load()
	advance(CleanedUp)

	if res.Err == nil && res.CleanupErr == nil {
		advance(Success)
	} else {
		advance(Failed)
	}
	return res
}

// mutate runs the phases that change the system, stopping at the first
// failure.
func (o *Orchestrator) mutate(ctx context.Context, advance func(State)) error {
	initFile := o.cfg.SafeMode.Method == config.MethodInitFile

	// the init file must hold the statement when the server starts
	if initFile {
		if err := o.phase(ctx, PhasePromptPassword, KindInvalidInput, o.promptNewPassword); err != nil {
			return err
		}
	}
	if err := o.phase(ctx, PhaseStopService, KindServiceControl, o.stopService); err != nil {
		return err
	}
	advance(ServiceStopped)

	if err := o.phase(ctx, PhaseLaunchSafeMode, KindSafeModeLaunch, o.launchSafeMode); err != nil {
		return err
	}
	advance(SafeModeRunning)

	if !initFile {
		if err := o.phase(ctx, PhasePromptPassword, KindInvalidInput, o.promptNewPassword); err != nil {
			return err
		}
	}
	if err := o.phase(ctx, PhaseApplyCredential, KindCredentialUpdate, o.applyCredentialChange); err != nil {
		return err
	}
	advance(CredentialUpdated)
	return nil
}

func (o *Orchestrator) cleanupBudget() time.Duration {
	return o.cfg.SafeMode.ShutdownTimeout + o.cfg.Service.StartTimeout + 30*time.Second
}

// CheckReport is what `rootreset check` prints.
type CheckReport struct {
	Elevated     bool
	Installation platform.Installation
	ServiceName  string
	ServiceState service.State
}

// Check runs the side-effect free phases only.
func (o *Orchestrator) Check(ctx context.Context) (CheckReport, error) {
	if err := o.phase(ctx, PhaseCheckPrivileges, KindInsufficientPrivilege, o.checkPrivileges); err != nil {
		return CheckReport{}, err
	}
	if err := o.phase(ctx, PhaseCheckDependencies, KindMissingDependency, o.checkDependencies); err != nil {
		return CheckReport{Elevated: true}, err
	}
	st, err := o.deps.Services.Status(ctx, o.session.ServiceName)
	if err != nil {
		st = service.Unknown
	}
	return CheckReport{
		Elevated:     o.session.Elevated,
		Installation: o.session.Installation,
		ServiceName:  o.session.ServiceName,
		ServiceState: st,
	}, nil
}

// phase runs fn between progress events and classifies its error.
func (o *Orchestrator) phase(ctx context.Context, p Phase, kind Kind, fn func(context.Context) error) error {
	o.deps.Reporter.PhaseStarted(p)
	err := fn(ctx)
	if err == nil {
		o.deps.Reporter.PhaseSucceeded(p)
		return nil
	}

	var e *Error
	if !errors.As(err, &e) {
		if ctx.Err() != nil || errors.Is(err, ErrInterrupted) {
			kind = KindInterrupted
		}
		e = &Error{Kind: kind, Phase: p, Err: err}
	}
	logging.Debugf("phase %s failed: %v", p, e)
	o.deps.Reporter.PhaseFailed(p, e)
	return e
}

func (o *Orchestrator) checkPrivileges(context.Context) error {
	ok, err := o.deps.IsElevated()
	if err != nil {
		return fmt.Errorf("determining privileges: %w", err)
	}
	if !ok {
		return errors.New("administrator rights required: run as root or from an elevated prompt")
	}
	o.session.mu.Lock()
	o.session.Elevated = true
	o.session.mu.Unlock()
	return nil
}

func (o *Orchestrator) checkDependencies(ctx context.Context) error {
	inst, err := o.deps.Locate(platform.LocateOptions{
		BinDir:       o.cfg.MySQL.BinDir,
		Server:       o.cfg.MySQL.Server,
		Client:       o.cfg.MySQL.Client,
		DefaultsFile: o.cfg.MySQL.DefaultsFile,
	})
	if err != nil {
		return err
	}
	logging.Debugf("server %s, client %s, defaults %q", inst.Server, inst.Client, inst.DefaultsFile)

	candidates := service.DefaultCandidates()
	if o.cfg.Service.Name != "" {
		candidates = []string{o.cfg.Service.Name}
	}
	name, err := service.Resolve(ctx, o.deps.Services, candidates)
	if err != nil {
		return err
	}
	o.deps.Reporter.Notice(i18n.T("notice.using_service", name))

	o.session.mu.Lock()
	o.session.Installation = inst
	o.session.ServiceName = name
	o.session.mu.Unlock()
	return nil
}

func (o *Orchestrator) stopService(ctx context.Context) error {
	name := o.session.ServiceName
	mgr := o.deps.Services

	st, err := mgr.Status(ctx, name)
	if err != nil {
		return fmt.Errorf("querying %s: %w", name, err)
	}
	o.session.setWasRunning(st != service.Stopped)
	logging.Debugf("service %s is %s", name, st)

	if st == service.Stopped {
		o.deps.Reporter.Notice(i18n.T("notice.not_running", name))
	} else {
		if err := mgr.Stop(ctx, name); err != nil {
			return fmt.Errorf("stopping %s: %w", name, err)
		}
		if err := service.WaitFor(ctx, mgr, name, service.Stopped, o.cfg.Service.StopTimeout, o.cfg.Service.PollInterval); err != nil {
			return err
		}
	}

	pids, err := o.deps.Strays.Find(ctx)
	if err != nil {
		return err
	}
	if len(pids) == 0 {
		return nil
	}
	if !o.cfg.Service.KillStray {
		return fmt.Errorf("server processes %v still running after %s stopped (set service.kill_stray to terminate them)", pids, name)
	}
	for _, pid := range pids {
		o.deps.Reporter.Notice(i18n.T("notice.stray", pid))
		if err := o.deps.Strays.Terminate(ctx, pid); err != nil {
			return fmt.Errorf("terminating leftover server %d: %w", pid, err)
		}
	}
	return nil
}

func (o *Orchestrator) launchSafeMode(ctx context.Context) error {
	ws, err := o.deps.NewWorkspace(o.cfg.SafeMode.TempDir)
	if err != nil {
		return err
	}
	if !o.session.attachWorkspace(ws) {
		_ = ws.Remove()
		return ErrInterrupted
	}
	logging.Debugf("workspace %s", ws.Dir())

	if err := ws.SetOwner(o.cfg.MySQL.RunAsUser); err != nil {
		return err
	}

	connector, err := o.deps.NewConnector(o.session.Installation.Client, ws.Dir())
	if err != nil {
		return err
	}
	o.connector = connector

	opts := safemode.Options{
		Server:          o.session.Installation.Server,
		DefaultsFile:    o.session.Installation.DefaultsFile,
		RunAsUser:       o.cfg.MySQL.RunAsUser,
		Method:          o.cfg.SafeMode.Method,
		ExtraArgs:       o.cfg.SafeMode.ExtraArgs,
		ShutdownTimeout: o.cfg.SafeMode.ShutdownTimeout,
	}
	if opts.Method == config.MethodInitFile {
		pw := o.session.password()
		sql := mysqlclient.InitFileSQL(o.cfg.Account.User, o.cfg.Account.Host, pw)
		wipe(pw)
		opts.InitFile, err = ws.WriteInitFile(sql)
		wipe(sql)
		if err != nil {
			return err
		}
	}

	o.launchMu.Lock()
	srv, err := o.deps.Launcher.Launch(ctx, ws, opts)
	if err != nil {
		o.launchMu.Unlock()
		return err
	}
	attached := o.session.attachServer(srv)
	o.launchMu.Unlock()
	if !attached {
		_ = srv.Stop(context.WithoutCancel(ctx))
		return ErrInterrupted
	}
	logging.Debugf("safe-mode server pid %d on %s", srv.PID(), srv.Endpoint())

	if err := o.waitReady(ctx, srv); err != nil {
		if tail := ws.Tail(10); tail != "" {
			return fmt.Errorf("%w\nserver log:\n%s", err, tail)
		}
		return err
	}
	return nil
}

// waitReady polls the safe-mode endpoint. A refused login proves the
// listener is up, which is all the init-file method needs.
func (o *Orchestrator) waitReady(ctx context.Context, srv safemode.Server) error {
	attempts := o.cfg.SafeMode.ReadyAttempts
	cred := mysqlclient.Credentials{User: o.cfg.Account.User}

	var lastErr error
	for i := 0; i < attempts; i++ {
		select {
		case <-srv.Done():
			return fmt.Errorf("mysqld exited before accepting connections: %v", srv.Err())
		default:
		}

		conn, err := o.connector.Connect(ctx, srv.Endpoint(), cred)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		if mysqlclient.IsAccessDenied(err) {
			return nil
		}
		lastErr = err
		logging.Debugf("readiness probe %d/%d: %v", i+1, attempts, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-srv.Done():
		case <-time.After(o.cfg.SafeMode.ReadyInterval):
		}
	}
	return fmt.Errorf("mysqld not ready after %d attempts: %w", attempts, lastErr)
}

func (o *Orchestrator) promptNewPassword(ctx context.Context) error {
	o.deps.Reporter.Notice(i18n.T("prompt.intro", o.cfg.Account.User))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pw, err := o.deps.Prompter.ReadSecret(ctx, i18n.T("prompt.new"))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPromptAborted, err)
		}
		if len(pw) == 0 {
			o.deps.Reporter.Warning(i18n.T("prompt.empty"))
			continue
		}
		confirm, err := o.deps.Prompter.ReadSecret(ctx, i18n.T("prompt.confirm"))
		if err != nil {
			wipe(pw)
			return fmt.Errorf("%w: %v", ErrPromptAborted, err)
		}
		same := bytes.Equal(pw, confirm)
		wipe(confirm)
		if !same {
			wipe(pw)
			o.deps.Reporter.Warning(i18n.T("prompt.mismatch"))
			continue
		}
		o.session.setPassword(pw)
		o.deps.Reporter.Notice(i18n.T("prompt.accepted", len([]rune(string(pw)))))
		return nil
	}
}

func (o *Orchestrator) applyCredentialChange(ctx context.Context) error {
	pw := o.session.password()
	defer wipe(pw)

	o.session.mu.Lock()
	srv := o.session.Server
	o.session.mu.Unlock()
	if srv == nil {
		return errors.New("safe-mode server is not running")
	}
	user, host := o.cfg.Account.User, o.cfg.Account.Host

	if o.cfg.SafeMode.Method == config.MethodInitFile {
		// the server ran the init file at start; logging in proves it worked
		conn, err := o.connector.Connect(ctx, srv.Endpoint(), mysqlclient.Credentials{User: user, Password: pw})
		if err != nil {
			return redact(fmt.Errorf("confirming new password: %w", err), pw)
		}
		return conn.Close()
	}

	conn, err := o.connector.Connect(ctx, srv.Endpoint(), mysqlclient.Credentials{User: user})
	if err != nil {
		return fmt.Errorf("connecting to safe-mode server: %w", err)
	}
	defer conn.Close()

	for i, st := range mysqlclient.ResetStatements(user, host, pw) {
		if err := conn.Exec(ctx, st); err != nil {
			return redact(fmt.Errorf("statement %d: %w", i+1, err), pw)
		}
	}
	return nil
}

// Cleanup stops the safe-mode server, removes the workspace, restarts the
// service if it was running and wipes the password. Only the first call does
// anything; later calls return the first result.
func (o *Orchestrator) Cleanup(ctx context.Context) error {
	o.once.Do(func() {
		o.deps.Reporter.PhaseStarted(PhaseCleanup)
		err := o.cleanup(ctx)
		if err != nil {
			o.cleanupErr = &Error{Kind: KindCleanup, Phase: PhaseCleanup, Err: err}
			o.deps.Reporter.PhaseFailed(PhaseCleanup, o.cleanupErr)
		} else {
			o.deps.Reporter.PhaseSucceeded(PhaseCleanup)
		}
		if err == nil && o.verify.Load() {
			o.verifyPassword(ctx)
		}
		o.session.Wipe()
	})
	return o.cleanupErr
}

func (o *Orchestrator) cleanup(ctx context.Context) error {
	// an interrupt during Launch waits for the server to be attached, so the
	// process is stopped here rather than left behind when the handler exits
	o.launchMu.Lock()
	srv, ws, wasRunning := o.session.close()
	o.launchMu.Unlock()
	var errs []error

	if srv != nil {
		if err := srv.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping safe-mode server: %w", err))
		}
	}
	if ws != nil {
		if err := ws.Remove(); err != nil {
			errs = append(errs, err)
		}
	}

	if wasRunning {
		name := o.session.ServiceName
		if err := o.deps.Services.Start(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("starting %s: %w", name, err))
		} else if err := service.WaitFor(ctx, o.deps.Services, name, service.Running, o.cfg.Service.StartTimeout, o.cfg.Service.PollInterval); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// verifyPassword logs in to the restarted server. Failure only warns: the
// password is set either way.
func (o *Orchestrator) verifyPassword(ctx context.Context) {
	o.session.mu.Lock()
	wasRunning := o.session.WasRunning
	clientPath := o.session.Installation.Client
	o.session.mu.Unlock()
	if !wasRunning {
		return
	}

	o.deps.Reporter.PhaseStarted(PhaseVerifyPassword)
	err := o.tryLogin(ctx, clientPath)
	if err != nil {
		logging.Warnf("password verification failed: %v", err)
		o.deps.Reporter.PhaseFailed(PhaseVerifyPassword, err)
		o.deps.Reporter.Warning(i18n.T("verify.manual_hint", o.cfg.Account.User))
		return
	}
	o.verified.Store(true)
	o.deps.Reporter.PhaseSucceeded(PhaseVerifyPassword)
}

func (o *Orchestrator) tryLogin(ctx context.Context, clientPath string) error {
	pw := o.session.password()
	defer wipe(pw)

	connector, err := o.deps.NewConnector(clientPath, "")
	if err != nil {
		return err
	}
	ep := mysqlclient.ParseEndpoint(o.cfg.MySQL.Socket)
	conn, err := connector.Connect(ctx, ep, mysqlclient.Credentials{User: o.cfg.Account.User, Password: pw})
	if err != nil {
		return redact(err, pw)
	}
	return conn.Close()
}
