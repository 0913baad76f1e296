// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package platform

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func withGOOS(t *testing.T, name string) {
	t.Helper()
	prev := goos
	goos = name
	t.Cleanup(func() { goos = prev })
}

func noPath(t *testing.T) {
	t.Helper()
	prev := lookPathFunc
	lookPathFunc = func(string) (string, error) { return "", exec.ErrNotFound }
	t.Cleanup(func() { lookPathFunc = prev })
}

func TestLocate_BinDir(t *testing.T) {
	withGOOS(t, "linux")
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "mysqld"))
	touch(t, filepath.Join(dir, "mysql"))

	inst, err := Locate(LocateOptions{BinDir: dir})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if inst.Server != filepath.Join(dir, "mysqld") || inst.Client != filepath.Join(dir, "mysql") {
		t.Fatalf("unexpected installation: %+v", inst)
	}
	if inst.DefaultsFile != "" {
		t.Fatalf("unix should not require a defaults file, got %q", inst.DefaultsFile)
	}
}

func TestLocate_MariaDBNames(t *testing.T) {
	withGOOS(t, "linux")
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "mariadbd"))
	touch(t, filepath.Join(dir, "mariadb"))

	inst, err := Locate(LocateOptions{BinDir: dir})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if filepath.Base(inst.Server) != "mariadbd" || filepath.Base(inst.Client) != "mariadb" {
		t.Fatalf("unexpected installation: %+v", inst)
	}
}

func TestLocate_MissingClient(t *testing.T) {
	withGOOS(t, "linux")
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "mysqld"))

	_, err := Locate(LocateOptions{BinDir: dir})
	if !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestLocate_ExplicitPathMustExist(t *testing.T) {
	withGOOS(t, "linux")
	_, err := Locate(LocateOptions{Server: filepath.Join(t.TempDir(), "nope")})
	if !errors.Is(err, ErrServerNotFound) {
		t.Fatalf("expected ErrServerNotFound, got %v", err)
	}
}

func TestLocate_FallsBackToPath(t *testing.T) {
	withGOOS(t, "linux")
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "mysqld"))
	touch(t, filepath.Join(dir, "mysql"))

	prev := lookPathFunc
	lookPathFunc = func(name string) (string, error) {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			return "", exec.ErrNotFound
		}
		return p, nil
	}
	defer func() { lookPathFunc = prev }()

	inst, err := Locate(LocateOptions{})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if inst.Server != filepath.Join(dir, "mysqld") {
		t.Fatalf("unexpected server path %q", inst.Server)
	}
}

func TestLocate_WindowsRequiresDefaultsFile(t *testing.T) {
	withGOOS(t, "windows")
	noPath(t)
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "mysqld.exe"))
	touch(t, filepath.Join(dir, "mysql.exe"))

	prevGlob := globFunc
	globFunc = func(string) ([]string, error) { return nil, nil }
	defer func() { globFunc = prevGlob }()

	_, err := Locate(LocateOptions{BinDir: dir})
	if !errors.Is(err, ErrDefaultsNotFound) {
		t.Fatalf("expected ErrDefaultsNotFound, got %v", err)
	}
}

func TestLocate_WindowsPicksNewestDefaults(t *testing.T) {
	withGOOS(t, "windows")
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "mysqld.exe"))
	touch(t, filepath.Join(dir, "mysql.exe"))
	old := filepath.Join(dir, "5.7", "my.ini")
	newer := filepath.Join(dir, "8.0", "my.ini")
	touch(t, old)
	touch(t, newer)

	prevGlob := globFunc
	globFunc = func(pattern string) ([]string, error) {
		if filepath.Ext(pattern) == ".ini" {
			return []string{old, newer}, nil
		}
		return nil, nil
	}
	defer func() { globFunc = prevGlob }()

	inst, err := Locate(LocateOptions{BinDir: dir})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if inst.DefaultsFile != newer {
		t.Fatalf("expected newest defaults file %q, got %q", newer, inst.DefaultsFile)
	}
}
