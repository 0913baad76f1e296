// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package mysqlclient connects to a local MySQL server and executes the
// statements of a password reset. Two implementations exist: Driver speaks
// the wire protocol through go-sql-driver/mysql, CLI drives the mysql
// executable.
package mysqlclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Network kinds understood by both clients.
const (
	NetworkUnix = "unix"
	NetworkTCP  = "tcp"
	NetworkPipe = "pipe"
)

// pipePrefix is the namespace of Windows named pipes.
const pipePrefix = `\\.\pipe\`

// ErrAccessDenied means the server is up and refused the credentials.
var ErrAccessDenied = errors.New("access denied")

// Endpoint addresses a server: a unix socket path, a named pipe path or a
// host:port pair.
type Endpoint struct {
	Network string
	Address string
}

func (e Endpoint) String() string {
	return e.Network + ":" + e.Address
}

// Credentials for a connection. Password may be empty.
type Credentials struct {
	User     string
	Password []byte
}

// Conn is an open session on the server.
type Conn interface {
	Exec(ctx context.Context, st Statement) error
	Close() error
}

// Connector opens sessions.
type Connector interface {
	Connect(ctx context.Context, ep Endpoint, cred Credentials) (Conn, error)
}

// IsAccessDenied reports whether err is an authentication refusal.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

var defaultSockets = []string{
	"/var/run/mysqld/mysqld.sock",
	"/run/mysqld/mysqld.sock",
	"/var/lib/mysql/mysql.sock",
	"/tmp/mysql.sock",
}

// ParseEndpoint interprets a configured address. An empty string selects
// the platform default of a stock installation.
func ParseEndpoint(s string) Endpoint {
	switch {
	case s == "":
		return defaultEndpoint()
	case strings.HasPrefix(s, pipePrefix):
		return Endpoint{Network: NetworkPipe, Address: s}
	case strings.HasPrefix(s, "/"):
		return Endpoint{Network: NetworkUnix, Address: s}
	case strings.Contains(s, ":"):
		return Endpoint{Network: NetworkTCP, Address: s}
	default:
		return Endpoint{Network: NetworkUnix, Address: s}
	}
}

func defaultEndpoint() Endpoint {
	if runtime.GOOS == "windows" {
		return Endpoint{Network: NetworkTCP, Address: "127.0.0.1:3306"}
	}
	for _, p := range defaultSockets {
		if _, err := os.Stat(p); err == nil {
			return Endpoint{Network: NetworkUnix, Address: p}
		}
	}
	return Endpoint{Network: NetworkUnix, Address: defaultSockets[0]}
}

// PipeEndpoint returns the endpoint of the named pipe called name.
func PipeEndpoint(name string) Endpoint {
	return Endpoint{Network: NetworkPipe, Address: pipePrefix + name}
}

// New returns the connector for kind ("driver" or "cli"). clientPath and
// scratchDir are only used by the CLI connector.
func New(kind, clientPath, scratchDir string, opts Options) (Connector, error) {
	switch kind {
	case "", "driver":
		return &Driver{Timeout: opts.Timeout}, nil
	case "cli":
		if clientPath == "" {
			return nil, errors.New("cli client needs the path of the mysql executable")
		}
		return &CLI{Path: clientPath, Dir: scratchDir, Timeout: opts.Timeout}, nil
	default:
		return nil, fmt.Errorf("unknown client kind %q", kind)
	}
}
