// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package mysqlclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CLI runs the mysql executable once per statement. Credentials go through
// an owner-only --defaults-extra-file and statements through stdin, so
// neither shows up in the process list.
type CLI struct {
	Path string
	// Dir receives the option file; empty means a fresh private temp dir.
	Dir     string
	Timeout time.Duration
}

type cliConn struct {
	path     string
	endpoint Endpoint
	optFile  string
	ownDir   string
	timeout  time.Duration
}

// swapped by tests
var execCommand = exec.CommandContext

// Connect writes the option file and runs a probe query.
func (c *CLI) Connect(ctx context.Context, ep Endpoint, cred Credentials) (Conn, error) {
	dir := c.Dir
	ownDir := ""
	if dir == "" {
		d, err := os.MkdirTemp("", "rootreset-client-*")
		if err != nil {
			return nil, fmt.Errorf("creating client scratch dir: %w", err)
		}
		dir, ownDir = d, d
	}

	f, err := os.CreateTemp(dir, "client-*.cnf")
	if err != nil {
		cleanupDir(ownDir)
		return nil, fmt.Errorf("creating client option file: %w", err)
	}
	optFile := f.Name()
	_, werr := f.Write(optionFile(cred))
	cerr := f.Close()
	if err := errors.Join(werr, cerr, os.Chmod(optFile, 0o600)); err != nil {
		_ = os.Remove(optFile)
		cleanupDir(ownDir)
		return nil, fmt.Errorf("writing client option file: %w", err)
	}

	conn := &cliConn{path: c.Path, endpoint: ep, optFile: optFile, ownDir: ownDir, timeout: c.Timeout}
	if err := conn.Exec(ctx, Statement{Query: "SELECT 1"}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connecting to %s: %w", ep, err)
	}
	return conn, nil
}

// Exec runs st in a fresh client session. Statements with arguments are
// inlined as escaped literals, so the session first re-enables backslash
// escapes.
func (c *cliConn) Exec(ctx context.Context, st Statement) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := append([]string{"--defaults-extra-file=" + c.optFile, "--batch", "--skip-column-names"}, c.endpointArgs()...)
	cmd := execCommand(ctx, c.path, args...)
	input := st.SQL() + ";\n"
	if len(st.Args) > 0 {
		input = KeepBackslashEscapes + ";\n" + input
	}
	cmd.Stdin = strings.NewReader(input)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if strings.Contains(msg, "ERROR 1045") || strings.Contains(msg, "ERROR 1698") {
			return fmt.Errorf("%w: %s", ErrAccessDenied, msg)
		}
		if msg == "" {
			return err
		}
		return fmt.Errorf("%w: %s", err, msg)
	}
	return nil
}

func (c *cliConn) Close() error {
	err := os.Remove(c.optFile)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
	}
	cleanupDir(c.ownDir)
	return err
}

func (c *cliConn) endpointArgs() []string {
	switch c.endpoint.Network {
	case NetworkPipe:
		return []string{"--protocol=PIPE", "--socket=" + strings.TrimPrefix(c.endpoint.Address, pipePrefix)}
	case NetworkTCP:
		host, port, err := net.SplitHostPort(c.endpoint.Address)
		if err != nil {
			return []string{"--protocol=TCP", "--host=" + c.endpoint.Address}
		}
		return []string{"--protocol=TCP", "--host=" + host, "--port=" + port}
	default:
		return []string{"--protocol=SOCKET", "--socket=" + c.endpoint.Address}
	}
}

// optionFile renders a [client] group. Values are double-quoted with
// backslash escapes as understood by the option file parser.
func optionFile(cred Credentials) []byte {
	var b bytes.Buffer
	b.WriteString("[client]\n")
	b.WriteString("user=" + quoteOption(cred.User) + "\n")
	if len(cred.Password) > 0 {
		b.WriteString("password=" + quoteOption(string(cred.Password)) + "\n")
	}
	return b.Bytes()
}

func quoteOption(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

func cleanupDir(dir string) {
	if dir != "" {
		_ = os.RemoveAll(dir)
	}
}
