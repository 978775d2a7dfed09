// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/charmap"
	"zombiezen.com/go/log"
	"zombiezen.com/go/log/testlog"
)

const header = "#Mon Jun 01 12:00:00 UTC 2020\n"

func fixedClock() time.Time {
	return time.Date(2020, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	defaults := writeFile(t, dir, "defaults.properties", "# Defaults\nname = app\nport: 80\ntitle=caf\\u00e9\n")
	overrides := writeFile(t, dir, "overrides.properties", "port=8080\nextra = a b\n")
	missing := filepath.Join(dir, "missing.properties")
	bad := writeFile(t, dir, "bad.properties", "x=\\u12\n")

	tests := []struct {
		name    string
		args    []string
		stdin   string
		want    string
		wantErr bool
	}{
		{
			name:  "Stdin",
			stdin: "b = 2\na : 1\n",
			want:  header + "b=2\na=1\n",
		},
		{
			name: "Layered",
			args: []string{overrides, missing, defaults},
			want: header + "name=app\nport=8080\ntitle=caf\\u00e9\nextra=a b\n",
		},
		{
			name: "KeepUnicode",
			args: []string{"-keep-unicode", defaults},
			want: header + "name=app\nport=80\ntitle=café\n",
		},
		{
			name: "Comment",
			args: []string{"-comment", "Merged\nsettings", overrides},
			want: "#Merged\n#settings\n" + header + "port=8080\nextra=a b\n",
		},
		{
			name: "Get",
			args: []string{"-get", "port", overrides, defaults},
			want: "8080\n",
		},
		{
			name: "GetUnescapes",
			args: []string{"-get", "title", defaults},
			want: "café\n",
		},
		{
			name:    "GetMissingKey",
			args:    []string{"-get", "nope", defaults},
			wantErr: true,
		},
		{
			name:    "SyntaxError",
			args:    []string{bad},
			wantErr: true,
		},
		{
			name:    "SyntaxErrorOnStdin",
			stdin:   "ok=1\nbad=\\uxyz\n",
			wantErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := testlog.WithTB(context.Background(), t)
			cfg, err := parseFlags(test.args, io.Discard)
			if err != nil {
				t.Fatal("parseFlags:", err)
			}
			cfg.now = fixedClock
			stdout := new(bytes.Buffer)
			err = run(ctx, cfg, strings.NewReader(test.stdin), stdout)
			if err != nil {
				t.Logf("run: %v", err)
				if !test.wantErr {
					t.Fail()
				}
				return
			}
			if test.wantErr {
				t.Fatal("run did not return error")
			}
			if diff := cmp.Diff(test.want, stdout.String()); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunLatin1(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	dir := t.TempDir()
	in := writeFile(t, dir, "in.properties", "cl\xe9=caf\xe9\n")
	out := filepath.Join(dir, "out.properties")

	cfg, err := parseFlags([]string{"-encoding", "ISO-8859-1", "-keep-unicode", "-o", out, in}, io.Discard)
	if err != nil {
		t.Fatal("parseFlags:", err)
	}
	if cfg.enc != charmap.ISO8859_1 {
		t.Errorf("cfg.enc = %v; want ISO-8859-1", cfg.enc)
	}
	cfg.now = fixedClock
	stdout := new(bytes.Buffer)
	if err := run(ctx, cfg, strings.NewReader(""), stdout); err != nil {
		t.Fatal("run:", err)
	}
	if stdout.Len() > 0 {
		t.Errorf("stdout = %q; want empty when -o is set", stdout)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if want := header + "cl\xe9=caf\xe9\n"; string(got) != want {
		t.Errorf("output file = %q; want %q", got, want)
	}
}

func TestParseFlags(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := parseFlags(nil, io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.enc != nil {
			t.Errorf("cfg.enc = %v; want nil for UTF-8", cfg.enc)
		}
		if cfg.keepUnicode || cfg.debug || cfg.get != "" || cfg.output != "" || len(cfg.files) > 0 {
			t.Errorf("parseFlags(nil) = %+v; want zero values", cfg)
		}
	})

	t.Run("ConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeFile(t, dir, "propfmt.properties",
			"# propfmt settings\n"+
				"keep-unicode = true\n"+
				"comment = From config \\u00e9\n"+
				"encoding : ISO-8859-1\n")
		cfg, err := parseFlags([]string{"-config", cfgPath, "a.properties"}, io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		if !cfg.keepUnicode {
			t.Error("cfg.keepUnicode = false; want true")
		}
		if want := "From config é"; cfg.comment != want {
			t.Errorf("cfg.comment = %q; want %q", cfg.comment, want)
		}
		if cfg.enc != charmap.ISO8859_1 {
			t.Errorf("cfg.enc = %v; want ISO-8859-1", cfg.enc)
		}
		if diff := cmp.Diff([]string{"a.properties"}, cfg.files); diff != "" {
			t.Errorf("cfg.files (-want +got):\n%s", diff)
		}
	})

	t.Run("FlagOverridesConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeFile(t, dir, "propfmt.properties", "get=fromconfig\n")
		cfg, err := parseFlags([]string{"-config", cfgPath, "-get", "fromflag"}, io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.get != "fromflag" {
			t.Errorf("cfg.get = %q; want %q", cfg.get, "fromflag")
		}
	})

	t.Run("BadConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeFile(t, dir, "propfmt.properties", "comment=\\u\n")
		if _, err := parseFlags([]string{"-config", cfgPath}, io.Discard); err == nil {
			t.Error("parseFlags did not return error")
		}
	})

	t.Run("UnknownEncoding", func(t *testing.T) {
		if _, err := parseFlags([]string{"-encoding", "no-such-charset"}, io.Discard); err == nil {
			t.Error("parseFlags did not return error")
		}
	})
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		want  string
	}{
		{
			name: "Default",
			want: "propfmt: INFO: shown\npropfmt: ERROR: failed\n",
		},
		{
			name:  "Debug",
			debug: true,
			want:  "propfmt: DEBUG: hidden\npropfmt: INFO: shown\npropfmt: ERROR: failed\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			l := newLogger(buf, test.debug)
			ctx := context.Background()
			for _, ent := range []log.Entry{
				{Level: log.Debug, Msg: "hidden"},
				{Level: log.Info, Msg: "shown"},
				{Level: log.Error, Msg: "failed"},
			} {
				if l.LogEnabled(ent) {
					l.Log(ctx, ent)
				}
			}
			if diff := cmp.Diff(test.want, buf.String()); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMain(m *testing.M) {
	testlog.Main(nil)
	os.Exit(m.Run())
}
