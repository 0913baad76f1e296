// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
)

var (
	ErrServerNotFound   = errors.New("mysql server executable not found")
	ErrClientNotFound   = errors.New("mysql client executable not found")
	ErrDefaultsNotFound = errors.New("mysql defaults file (my.ini) not found")
)

// Installation describes where the MySQL executables live on this host.
type Installation struct {
	Server       string
	Client       string
	DefaultsFile string
}

// LocateOptions carries the operator overrides from the configuration.
// Empty fields are auto-detected.
type LocateOptions struct {
	BinDir       string
	Server       string
	Client       string
	DefaultsFile string
}

// swapped by tests
var (
	goos         = runtime.GOOS
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
	globFunc     = filepath.Glob
)

// Locate finds the server and client executables and, on Windows, the
// defaults file the service runs with.
func Locate(opts LocateOptions) (Installation, error) {
	var inst Installation
	var err error

	inst.Server, err = findExecutable(opts.Server, opts.BinDir, serverNames())
	if err != nil {
		return inst, fmt.Errorf("%w: %v", ErrServerNotFound, err)
	}
	inst.Client, err = findExecutable(opts.Client, opts.BinDir, clientNames())
	if err != nil {
		return inst, fmt.Errorf("%w: %v", ErrClientNotFound, err)
	}

	inst.DefaultsFile, err = findDefaultsFile(opts.DefaultsFile)
	if err != nil {
		return inst, err
	}
	return inst, nil
}

func findExecutable(explicit, binDir string, names []string) (string, error) {
	if explicit != "" {
		if !isFile(explicit) {
			return "", fmt.Errorf("%s does not exist", explicit)
		}
		return explicit, nil
	}
	if binDir != "" {
		for _, n := range names {
			p := filepath.Join(binDir, n)
			if isFile(p) {
				return p, nil
			}
		}
		return "", fmt.Errorf("none of %v in %s", names, binDir)
	}
	for _, n := range names {
		if p, err := lookPathFunc(n); err == nil {
			return p, nil
		}
	}
	for _, dir := range candidateBinDirs() {
		for _, n := range names {
			p := filepath.Join(dir, n)
			if isFile(p) {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("none of %v on PATH or in well-known install directories", names)
}

// findDefaultsFile returns the explicit defaults file, or on Windows the
// newest my.ini below ProgramData. Unix servers find their own my.cnf.
func findDefaultsFile(explicit string) (string, error) {
	if explicit != "" {
		if !isFile(explicit) {
			return "", fmt.Errorf("%w: %s does not exist", ErrDefaultsNotFound, explicit)
		}
		return explicit, nil
	}
	if goos != "windows" {
		return "", nil
	}
	for _, pattern := range windowsDefaultsPatterns() {
		matches := newestFirst(pattern)
		for _, m := range matches {
			if isFile(m) {
				return m, nil
			}
		}
	}
	return "", ErrDefaultsNotFound
}

func serverNames() []string {
	if goos == "windows" {
		return []string{"mysqld.exe", "mariadbd.exe"}
	}
	return []string{"mysqld", "mariadbd"}
}

func clientNames() []string {
	if goos == "windows" {
		return []string{"mysql.exe", "mariadb.exe"}
	}
	return []string{"mysql", "mariadb"}
}

func candidateBinDirs() []string {
	if goos == "windows" {
		var dirs []string
		for _, pattern := range []string{
			`C:\Program Files\MySQL\MySQL Server *\bin`,
			`C:\Program Files (x86)\MySQL\MySQL Server *\bin`,
			`C:\Program Files\MariaDB *\bin`,
		} {
			dirs = append(dirs, newestFirst(pattern)...)
		}
		return dirs
	}
	return []string{
		"/usr/sbin",
		"/usr/bin",
		"/usr/libexec",
		"/usr/local/bin",
		"/usr/local/mysql/bin",
		"/opt/mysql/bin",
	}
}

func windowsDefaultsPatterns() []string {
	return []string{
		`C:\ProgramData\MySQL\MySQL Server *\my.ini`,
		`C:\Program Files\MariaDB *\data\my.ini`,
	}
}

// newestFirst globs pattern and sorts matches so that higher versions come first.
func newestFirst(pattern string) []string {
	matches, err := globFunc(pattern)
	if err != nil {
		return nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches
}

func isFile(p string) bool {
	st, err := statFunc(p)
	return err == nil && !st.IsDir()
}
