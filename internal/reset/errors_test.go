// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package reset

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/toeirei/rootreset/internal/mysqlclient"
)

func TestError_IsMatchesKind(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", &Error{Kind: KindServiceControl, Phase: PhaseStopService, Err: cause})

	if !errors.Is(err, ErrServiceControl) {
		t.Fatalf("errors.Is(ErrServiceControl) = false")
	}
	if errors.Is(err, ErrCleanup) {
		t.Fatalf("errors.Is(ErrCleanup) = true")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable")
	}
	if KindOf(err) != KindServiceControl {
		t.Fatalf("KindOf = %v", KindOf(err))
	}
	if KindOf(cause) != KindUnknown {
		t.Fatalf("KindOf(plain) = %v", KindOf(cause))
	}
	msg := err.Error()
	if !strings.Contains(msg, "stop_service") || !strings.Contains(msg, "boom") {
		t.Fatalf("message lacks phase or cause: %q", msg)
	}
}

func TestRedact(t *testing.T) {
	cause := errors.New("near 'hunter2' at line 1")
	err := redact(cause, []byte("hunter2"))
	if strings.Contains(err.Error(), "hunter2") {
		t.Fatalf("secret visible: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost")
	}
	if redact(cause, nil) != cause {
		t.Fatalf("empty secret should not wrap")
	}
}

func TestRedact_EscapedForms(t *testing.T) {
	pw := `it's\x`
	cause := fmt.Errorf("Error 1064 (42000): You have an error in your SQL syntax; check the manual near %s at line 1",
		"'"+mysqlclient.QuoteString(pw)+"'")
	msg := redact(cause, []byte(pw)).Error()
	for _, piece := range []string{pw, `it\'s`, `s\\x`} {
		if strings.Contains(msg, piece) {
			t.Fatalf("%q visible in %q", piece, msg)
		}
	}
	if !strings.Contains(msg, "near '****' at line 1") {
		t.Fatalf("unexpected message %q", msg)
	}

	doubled := errors.New("near 'it''s\\x' at line 1")
	if msg := redact(doubled, []byte(pw)).Error(); msg != "near **** at line 1" {
		t.Fatalf("quote-doubled form not masked: %q", msg)
	}
}

func TestRedact_WholeMatchesOnly(t *testing.T) {
	cause := errors.New("Access denied for user 'root'@'localhost' near 'a'")
	got := redact(cause, []byte("a")).Error()
	if want := "Access denied for user 'root'@'localhost' near ****"; got != want {
		t.Fatalf("redact = %q, want %q", got, want)
	}
}

func TestResult_ExitCode(t *testing.T) {
	cases := []struct {
		res  Result
		want int
	}{
		{Result{State: Success}, ExitOK},
		{Result{State: Failed, Err: &Error{Kind: KindSafeModeLaunch}}, ExitFailed},
		{Result{State: Failed, CleanupErr: &Error{Kind: KindCleanup}}, ExitFailed},
		{Result{State: Failed, Err: &Error{Kind: KindInterrupted}}, ExitInterrupted},
	}
	for i, c := range cases {
		if got := c.res.ExitCode(); got != c.want {
			t.Fatalf("case %d: ExitCode = %d, want %d", i, got, c.want)
		}
	}
}

func TestState_String(t *testing.T) {
	if SafeModeRunning.String() != "safe-mode-running" || !Failed.Terminal() || CleanedUp.Terminal() {
		t.Fatalf("state names or terminality wrong")
	}
}
