// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package safemode runs mysqld with authentication disabled and networking
// off, inside a private workspace directory that holds every control file
// the run creates.
package safemode

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/toeirei/rootreset/internal/platform"
)

// Workspace is the private directory of one run. Everything in it is owner
// only and the whole directory is removed by Remove.
type Workspace struct {
	dir string

	mu      sync.Mutex
	owner   *owner
	removed bool
}

type owner struct {
	uid, gid int
}

// NewWorkspace creates the directory below base, or below the platform temp
// dir when base is empty.
func NewWorkspace(base string) (*Workspace, error) {
	dir, err := os.MkdirTemp(base, "rootreset-*")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	if err := os.Chmod(dir, platform.PrivateDirPerm); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("restricting workspace permissions: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

func (w *Workspace) Dir() string        { return w.dir }
func (w *Workspace) Socket() string     { return filepath.Join(w.dir, "mysqld.sock") }
func (w *Workspace) PIDFile() string    { return filepath.Join(w.dir, "mysqld.pid") }
func (w *Workspace) ErrorLog() string   { return filepath.Join(w.dir, "error.log") }
func (w *Workspace) ConsoleLog() string { return filepath.Join(w.dir, "console.log") }

// WriteSecret creates name inside the workspace with owner-only permissions.
// The file must not exist yet.
func (w *Workspace) WriteSecret(name string, data []byte) (string, error) {
	p := filepath.Join(w.dir, name)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, platform.SecretFilePerm)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(p)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := w.handOver(p); err != nil {
		_ = os.Remove(p)
		return "", err
	}
	return p, nil
}

// WriteInitFile stores the statements mysqld runs at start with --init-file.
func (w *Workspace) WriteInitFile(sql []byte) (string, error) {
	return w.WriteSecret("init.sql", sql)
}

// CreateLog opens an owner-only log file the server may write to.
func (w *Workspace) CreateLog(name string) (*os.File, error) {
	p := filepath.Join(w.dir, name)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, platform.SecretFilePerm)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	if err := w.handOver(p); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// handOver chowns p to the account the server runs as, if one was set.
func (w *Workspace) handOver(p string) error {
	w.mu.Lock()
	o := w.owner
	w.mu.Unlock()
	if o == nil {
		return nil
	}
	if err := os.Chown(p, o.uid, o.gid); err != nil {
		return fmt.Errorf("handing %s to the server account: %w", filepath.Base(p), err)
	}
	return nil
}

// Tail returns up to n trailing lines of the server's logs, error log first.
func (w *Workspace) Tail(n int) string {
	var parts []string
	for _, p := range []string{w.ErrorLog(), w.ConsoleLog()} {
		if lines := tailFile(p, n); len(lines) > 0 {
			parts = append(parts, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(parts, "\n")
}

func tailFile(p string, n int) []string {
	f, err := os.Open(p)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	return lines
}

// Remove deletes the workspace and everything in it. It is safe to call
// more than once.
func (w *Workspace) Remove() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.removed {
		return nil
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("removing workspace %s: %w", w.dir, err)
	}
	w.removed = true
	return nil
}

// Exists reports whether the directory is still on disk.
func (w *Workspace) Exists() bool {
	_, err := os.Stat(w.dir)
	return err == nil
}
