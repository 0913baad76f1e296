// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package mysqlclient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Options tunes a connector.
type Options struct {
	Timeout time.Duration
}

// Driver connects with go-sql-driver/mysql.
type Driver struct {
	Timeout time.Duration
}

type driverConn struct {
	db *sql.DB
}

// Connect opens a single-connection pool and pings the server.
func (d *Driver) Connect(ctx context.Context, ep Endpoint, cred Credentials) (Conn, error) {
	cfg := mysql.NewConfig()
	cfg.User = cred.User
	cfg.Passwd = string(cred.Password)
	cfg.Net = ep.Network
	cfg.Addr = ep.Address
	cfg.Timeout = d.Timeout
	cfg.AllowNativePasswords = true
	// the driver escapes arguments to match the session's sql_mode
	cfg.InterpolateParams = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("configuring connection to %s: %w", ep, err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", ep, mapError(err))
	}
	return &driverConn{db: db}, nil
}

func (c *driverConn) Exec(ctx context.Context, st Statement) error {
	args := make([]any, len(st.Args))
	for i, a := range st.Args {
		args[i] = a
	}
	if _, err := c.db.ExecContext(ctx, st.Query, args...); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *driverConn) Close() error {
	return c.db.Close()
}

// Server error numbers that mean "listening, but these credentials are refused".
const (
	erAccessDenied           = 1045
	erAccessDeniedNoPassword = 1698
)

func mapError(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case erAccessDenied, erAccessDeniedNoPassword:
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}
	return err
}
