// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build windows

package mysqlclient

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
	"github.com/go-sql-driver/mysql"
)

// The driver has no built-in named pipe transport; safe mode on Windows
// listens on a private pipe only.
func init() {
	mysql.RegisterDialContext(NetworkPipe, func(ctx context.Context, addr string) (net.Conn, error) {
		return winio.DialPipeContext(ctx, addr)
	})
}
