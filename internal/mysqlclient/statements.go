// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package mysqlclient

import (
	"slices"
	"strings"
)

// KeepBackslashEscapes turns NO_BACKSLASH_ESCAPES off for the session so
// literals rendered by QuoteString mean what they say.
const KeepBackslashEscapes = "SET SESSION sql_mode = REPLACE(@@sql_mode, 'NO_BACKSLASH_ESCAPES', '')"

// Statement is a query with ? placeholders and one argument per placeholder.
type Statement struct {
	Query string
	Args  []string
}

// SQL renders the statement with its arguments inlined as backslash-escaped
// literals. Only valid in a session that ran KeepBackslashEscapes first.
func (s Statement) SQL() string {
	if len(s.Args) == 0 {
		return s.Query
	}
	var b strings.Builder
	next := 0
	for i := 0; i < len(s.Query); i++ {
		if c := s.Query[i]; c == '?' && next < len(s.Args) {
			b.WriteString(QuoteString(s.Args[next]))
			next++
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// QuoteString renders s as a single-quoted SQL string literal, escaping the
// same characters as mysql_real_escape_string.
func QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case 0x1a:
			b.WriteString(`\Z`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// LiteralForms lists the spellings under which s can show up in a server or
// client message: raw, backslash-escaped and quote-doubled, each with and
// without the surrounding quotes. Longest first.
func LiteralForms(s string) []string {
	if s == "" {
		return nil
	}
	quoted := QuoteString(s)
	doubled := strings.ReplaceAll(s, "'", "''")
	forms := []string{quoted, "'" + doubled + "'", quoted[1 : len(quoted)-1], doubled, s}

	seen := make(map[string]bool, len(forms))
	out := forms[:0]
	for _, f := range forms {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	slices.SortStableFunc(out, func(a, b string) int { return len(b) - len(a) })
	return out
}

// Account renders 'user'@'host'.
func Account(user, host string) string {
	return QuoteString(user) + "@" + QuoteString(host)
}

// ResetStatements returns the statements that set the account's password on
// a server started with --skip-grant-tables. The leading FLUSH PRIVILEGES
// loads the grant tables so ALTER USER is accepted; the trailing one makes
// the change effective for the running server.
func ResetStatements(user, host string, password []byte) []Statement {
	return []Statement{
		{Query: "FLUSH PRIVILEGES"},
		{Query: "ALTER USER ?@? IDENTIFIED BY ?", Args: []string{user, host, string(password)}},
		{Query: "FLUSH PRIVILEGES"},
	}
}

// InitFileSQL is the content of an --init-file that sets the password at
// server start. The grant tables are loaded at that point already.
func InitFileSQL(user, host string, password []byte) []byte {
	var b strings.Builder
	b.WriteString(KeepBackslashEscapes)
	b.WriteString(";\nALTER USER ")
	b.WriteString(Account(user, host))
	b.WriteString(" IDENTIFIED BY ")
	b.WriteString(QuoteString(string(password)))
	b.WriteString(";\nFLUSH PRIVILEGES;\n")
	return []byte(b.String())
}
