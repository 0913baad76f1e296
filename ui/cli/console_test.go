// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/toeirei/rootreset/internal/i18n"
	"github.com/toeirei/rootreset/internal/reset"
)

func TestConsole_PhaseLines(t *testing.T) {
	i18n.Init("en")
	var buf bytes.Buffer
	c := newConsole(&buf)

	c.PhaseStarted(reset.PhaseStopService)
	c.PhaseSucceeded(reset.PhaseStopService)
	c.PhaseStarted(reset.PhasePromptPassword)
	c.PhaseFailed(reset.PhaseLaunchSafeMode, &reset.Error{
		Kind:  reset.KindSafeModeLaunch,
		Phase: reset.PhaseLaunchSafeMode,
		Err:   errors.New("mysqld exited"),
	})
	c.Warning("careful")

	out := buf.String()
	for _, want := range []string{
		"→ Stopping MySQL...",
		"done",
		"Starting MySQL in safe mode... failed: mysqld exited",
		"WARNING: careful",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Reading new password") {
		t.Fatalf("prompt phase should not print a status line:\n%s", out)
	}
}

func TestConsole_Summary(t *testing.T) {
	i18n.Init("en")
	var buf bytes.Buffer
	c := newConsole(&buf)

	c.Summary(reset.Result{State: reset.Success})
	if !strings.Contains(buf.String(), "SUCCESS!") {
		t.Fatalf("success box missing:\n%s", buf.String())
	}

	buf.Reset()
	c.Summary(reset.Result{
		State:      reset.Failed,
		Err:        errors.New("primary"),
		CleanupErr: errors.New("restart"),
	})
	out := buf.String()
	for _, want := range []string{"FAILED!", "primary", "restart"} {
		if !strings.Contains(out, want) {
			t.Fatalf("failure box lacks %q:\n%s", want, out)
		}
	}
}

func TestConsole_German(t *testing.T) {
	i18n.Init("de")
	defer i18n.Init("en")
	var buf bytes.Buffer
	newConsole(&buf).PhaseStarted(reset.PhaseStopService)
	if !strings.Contains(buf.String(), "Stoppe MySQL") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
