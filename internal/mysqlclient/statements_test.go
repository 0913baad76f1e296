// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package mysqlclient

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestQuoteString(t *testing.T) {
	cases := map[string]string{
		"plain":       `'plain'`,
		"it's":        `'it\'s'`,
		`back\slash`:  `'back\\slash'`,
		`say "hi"`:    `'say \"hi\"'`,
		"line\nbreak": `'line\nbreak'`,
		"cr\rhere":    `'cr\rhere'`,
		"nul\x00byte": `'nul\0byte'`,
		"ctrl\x1az":   `'ctrl\Zz'`,
		"ünïcödé":     `'ünïcödé'`,
		"":            `''`,
		`'; DROP --`:  `'\'; DROP --'`,
	}
	for in, want := range cases {
		if got := QuoteString(in); got != want {
			t.Fatalf("QuoteString(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestResetStatements(t *testing.T) {
	stmts := ResetStatements("root", "localhost", []byte(`it's\x`))
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	if stmts[0].Query != "FLUSH PRIVILEGES" || stmts[2].Query != "FLUSH PRIVILEGES" {
		t.Fatalf("reset must be framed by FLUSH PRIVILEGES: %v", stmts)
	}
	alter := stmts[1]
	if alter.Query != "ALTER USER ?@? IDENTIFIED BY ?" {
		t.Fatalf("password must travel as an argument: %s", alter.Query)
	}
	if strings.Contains(alter.Query, "it's") {
		t.Fatalf("password inlined into the query: %s", alter.Query)
	}
	if len(alter.Args) != 3 || alter.Args[2] != `it's\x` {
		t.Fatalf("unexpected args: %q", alter.Args)
	}
	want := `ALTER USER 'root'@'localhost' IDENTIFIED BY 'it\'s\\x'`
	if got := alter.SQL(); got != want {
		t.Fatalf("SQL() = %s, want %s", got, want)
	}
}

func TestStatementSQL_NoArgs(t *testing.T) {
	st := Statement{Query: "SELECT '?'"}
	if st.SQL() != "SELECT '?'" {
		t.Fatalf("statement without args must render verbatim: %s", st.SQL())
	}
}

func TestInitFileSQL(t *testing.T) {
	got := string(InitFileSQL("root", "localhost", []byte(`p\w`)))
	want := KeepBackslashEscapes + ";\nALTER USER 'root'@'localhost' IDENTIFIED BY 'p\\\\w';\nFLUSH PRIVILEGES;\n"
	if got != want {
		t.Fatalf("unexpected init file:\n%q\nwant\n%q", got, want)
	}
	if !strings.HasPrefix(got, "SET SESSION sql_mode") {
		t.Fatalf("escapes must be re-enabled before the literal: %q", got)
	}
}

func TestLiteralForms(t *testing.T) {
	forms := LiteralForms(`it's\x`)
	for _, want := range []string{
		`it's\x`,
		`'it\'s\\x'`,
		`it\'s\\x`,
		`it''s\x`,
		`'it''s\x'`,
	} {
		if !slices.Contains(forms, want) {
			t.Fatalf("LiteralForms lacks %s: %q", want, forms)
		}
	}
	for i := 1; i < len(forms); i++ {
		if len(forms[i]) > len(forms[i-1]) {
			t.Fatalf("forms not longest first: %q", forms)
		}
	}
	if got := LiteralForms("plain"); len(got) != 2 {
		t.Fatalf("plain password should dedupe to raw and quoted: %q", got)
	}
	if LiteralForms("") != nil {
		t.Fatalf("empty secret has no forms")
	}
}

func TestParseEndpoint(t *testing.T) {
	cases := map[string]Endpoint{
		"/var/run/mysqld/mysqld.sock": {NetworkUnix, "/var/run/mysqld/mysqld.sock"},
		"127.0.0.1:3306":              {NetworkTCP, "127.0.0.1:3306"},
		`\\.\pipe\MySQL`:              {NetworkPipe, `\\.\pipe\MySQL`},
	}
	for in, want := range cases {
		if got := ParseEndpoint(in); got != want {
			t.Fatalf("ParseEndpoint(%q) = %+v, want %+v", in, got, want)
		}
	}
	if ep := ParseEndpoint(""); ep.Address == "" {
		t.Fatalf("default endpoint must not be empty")
	}
	if ep := PipeEndpoint("rootreset-1"); ep.Address != `\\.\pipe\rootreset-1` {
		t.Fatalf("unexpected pipe endpoint %+v", ep)
	}
}

func TestMapError_AccessDenied(t *testing.T) {
	err := mapError(&mysql.MySQLError{Number: 1045, Message: "Access denied for user 'root'@'localhost'"})
	if !IsAccessDenied(err) {
		t.Fatalf("1045 should map to ErrAccessDenied, got %v", err)
	}
	other := &mysql.MySQLError{Number: 1064, Message: "syntax"}
	if IsAccessDenied(mapError(other)) {
		t.Fatalf("1064 should not map to access denied")
	}
	if !errors.Is(mapError(other), other) {
		t.Fatalf("other errors must pass through")
	}
}

func TestOptionFileQuoting(t *testing.T) {
	got := string(optionFile(Credentials{User: "root", Password: []byte(`a"b\c`)}))
	if !strings.Contains(got, `password="a\"b\\c"`) {
		t.Fatalf("unexpected option file: %s", got)
	}
	got = string(optionFile(Credentials{User: "root"}))
	if strings.Contains(got, "password") {
		t.Fatalf("empty password must be omitted: %s", got)
	}
}

func TestNew(t *testing.T) {
	if c, err := New("driver", "", "", Options{}); err != nil || c == nil {
		t.Fatalf("New(driver) = %v, %v", c, err)
	}
	if _, err := New("cli", "", "", Options{}); err == nil {
		t.Fatalf("cli without path should fail")
	}
	if _, err := New("odbc", "", "", Options{}); err == nil {
		t.Fatalf("unknown kind should fail")
	}
}
