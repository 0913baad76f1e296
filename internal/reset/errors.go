// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package reset

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/toeirei/rootreset/internal/mysqlclient"
)

// Kind classifies why a run failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindInsufficientPrivilege
	KindMissingDependency
	KindServiceControl
	KindSafeModeLaunch
	KindInvalidInput
	KindCredentialUpdate
	KindCleanup
	KindInterrupted
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrInsufficientPrivilege = errors.New("insufficient privilege")
	ErrMissingDependency     = errors.New("missing dependency")
	ErrServiceControl        = errors.New("service control error")
	ErrSafeModeLaunch        = errors.New("safe mode launch error")
	ErrInvalidInput          = errors.New("invalid input")
	ErrCredentialUpdate      = errors.New("credential update error")
	ErrCleanup               = errors.New("cleanup error")
	ErrInterrupted           = errors.New("interrupted")

	// ErrPromptAborted means the console closed while a password was read.
	ErrPromptAborted = errors.New("password input aborted")
)

var kindSentinels = map[Kind]error{
	KindInsufficientPrivilege: ErrInsufficientPrivilege,
	KindMissingDependency:     ErrMissingDependency,
	KindServiceControl:        ErrServiceControl,
	KindSafeModeLaunch:        ErrSafeModeLaunch,
	KindInvalidInput:          ErrInvalidInput,
	KindCredentialUpdate:      ErrCredentialUpdate,
	KindCleanup:               ErrCleanup,
	KindInterrupted:           ErrInterrupted,
}

func (k Kind) String() string {
	if s, ok := kindSentinels[k]; ok {
		return s.Error()
	}
	return "unknown error"
}

// Error is a failure of one phase.
type Error struct {
	Kind  Kind
	Phase Phase
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Phase, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Phase, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// redacted hides a secret that a server or client echoed back inside an
// error message, e.g. in a syntax error quoting the statement. Every literal
// spelling of the secret is masked, but only where it stands on its own so a
// short secret does not eat into the words around it.
type redacted struct {
	err   error
	re    *regexp.Regexp
	forms []string
}

func redact(err error, secret []byte) error {
	if err == nil || len(secret) == 0 {
		return err
	}
	forms := mysqlclient.LiteralForms(string(secret))
	alts := make([]string, len(forms))
	for i, f := range forms {
		alts[i] = wordEdge(f[0]) + regexp.QuoteMeta(f) + wordEdge(f[len(f)-1])
	}
	// invalid UTF-8 does not compile; Error falls back to plain replacement
	re, _ := regexp.Compile(strings.Join(alts, "|"))
	return &redacted{err: err, re: re, forms: forms}
}

func wordEdge(c byte) string {
	if c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' {
		return `\b`
	}
	return ""
}

func (r *redacted) Error() string {
	msg := r.err.Error()
	if r.re != nil {
		return r.re.ReplaceAllLiteralString(msg, "****")
	}
	for _, f := range r.forms {
		msg = strings.ReplaceAll(msg, f, "****")
	}
	return msg
}

func (r *redacted) Unwrap() error { return r.err }
