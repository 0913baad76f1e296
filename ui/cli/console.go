// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/rootreset/internal/i18n"
	"github.com/toeirei/rootreset/internal/reset"
)

// console renders progress events as status lines. It is also used by the
// interrupt handler, hence the lock.
type console struct {
	mu  sync.Mutex
	out io.Writer
}

func newConsole(out io.Writer) *console {
	return &console{out: out}
}

func (c *console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}

func (c *console) Banner() {
	c.println(bannerStyle.Render(i18n.T("banner.title")))
}

func (c *console) PhaseStarted(p reset.Phase) {
	if p == reset.PhasePromptPassword {
		return
	}
	c.println(phaseStyle.Render("→ " + i18n.T("phase."+string(p))))
}

func (c *console) PhaseSucceeded(p reset.Phase) {
	if p == reset.PhasePromptPassword {
		return
	}
	c.println("  " + doneStyle.Render("✓ "+i18n.T("status.done")))
}

func (c *console) PhaseFailed(p reset.Phase, err error) {
	msg := i18n.T("status.failed", i18n.T("phase."+string(p)), cause(err))
	c.println("  " + errorStyle.Render("✗ "+msg))
}

func (c *console) Notice(msg string) {
	c.println("  " + noticeStyle.Render(msg))
}

func (c *console) Warning(msg string) {
	c.println("  " + warningStyle.Render(i18n.T("status.warning", msg)))
}

// Summary prints the final box.
func (c *console) Summary(res reset.Result) {
	var box string
	if res.State == reset.Success {
		box = successBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			boxTitleSuccess.Render(i18n.T("summary.success_title")),
			i18n.T("summary.success_body"),
		))
	} else {
		lines := []string{boxTitleFailure.Render(i18n.T("summary.failure_title")), i18n.T("summary.failure_body")}
		for _, err := range []error{res.Err, res.CleanupErr} {
			if err != nil {
				lines = append(lines, err.Error())
			}
		}
		box = failureBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	c.println("")
	c.println(box)
}

// Check prints the result of `rootreset check`.
func (c *console) Check(rep reset.CheckReport) {
	c.println(i18n.T("check.elevated", rep.Elevated))
	c.println(i18n.T("check.mysqld", orNone(rep.Installation.Server)))
	c.println(i18n.T("check.client", orNone(rep.Installation.Client)))
	c.println(i18n.T("check.defaults", orNone(rep.Installation.DefaultsFile)))
	c.println(i18n.T("check.service", orNone(rep.ServiceName), rep.ServiceState))
}

func orNone(s string) string {
	if s == "" {
		return i18n.T("check.none")
	}
	return s
}

// cause strips the phase prefix the status line already shows.
func cause(err error) string {
	var e *reset.Error
	if errors.As(err, &e) && e.Err != nil {
		return strings.TrimSpace(e.Err.Error())
	}
	return err.Error()
}

var _ reset.Reporter = (*console)(nil)
