// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package reset

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/toeirei/rootreset/internal/i18n"
	"github.com/toeirei/rootreset/internal/logging"
)

// swapped by tests
var (
	exitFunc   = os.Exit
	notifyFunc = signal.Notify
	stopFunc   = signal.Stop
)

// InstallSignalHandler makes SIGINT and SIGTERM cancel the run, restore the
// terminal, run the cleanup and exit with status 130. restore may be nil.
// The returned function uninstalls the handler.
func InstallSignalHandler(cancel context.CancelFunc, o *Orchestrator, restore func()) func() {
	sigChan := make(chan os.Signal, 1)
	notifyFunc(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			logging.Debugf("received %v", sig)
			o.interrupt(cancel, restore)
			exitFunc(ExitInterrupted)
		case <-done:
		}
	}()

	return func() {
		stopFunc(sigChan)
		close(done)
	}
}

// interrupt is the handler body: the run context is cancelled first so the
// main flow stops at its next suspension point, then the cleanup runs with a
// context of its own.
func (o *Orchestrator) interrupt(cancel context.CancelFunc, restore func()) {
	cancel()
	if restore != nil {
		restore()
	}
	o.deps.Reporter.Warning(i18n.T("interrupt.received"))

	ctx, done := context.WithTimeout(context.Background(), o.cleanupBudget())
	defer done()
	if err := o.Cleanup(ctx); err != nil {
		logging.Errorf("cleanup after interrupt: %v", err)
	}
}
