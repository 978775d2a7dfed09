// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Command propfmt reads Java .properties files and prints them in canonical
// form.
//
// Usage:
//
//	propfmt [flags] [FILE ...]
//
// Files are listed in descending order of precedence: a key in an earlier
// file overrides the same key in later files. Missing files are skipped. If
// no files are given, propfmt reads standard input.
//
// Flags may also be set with PROPFMT_* environment variables or in a
// properties file named by -config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/yourbase/javaprops/properties"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"zombiezen.com/go/log"
)

type config struct {
	files       []string
	enc         encoding.Encoding
	keepUnicode bool
	comment     string
	get         string
	output      string
	debug       bool

	// now overrides the clock used for the header comment.
	now func() time.Time
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "propfmt:", err)
		os.Exit(2)
	}
	log.SetDefault(newLogger(os.Stderr, cfg.debug))

	ctx := context.Background()
	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		log.Errorf(ctx, "%v", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (*config, error) {
	fset := flag.NewFlagSet("propfmt", flag.ContinueOnError)
	fset.SetOutput(output)
	var (
		flEncoding    = fset.String("encoding", "UTF-8", "character encoding of input and output (IANA name, e.g. ISO-8859-1)")
		flKeepUnicode = fset.Bool("keep-unicode", false, "write non-ASCII characters as-is instead of \\u escapes")
		flComment     = fset.String("comment", "", "comment to write before the timestamp")
		flGet         = fset.String("get", "", "print only the value of this key")
		flOutput      = fset.String("o", "", "write output to this file instead of stdout")
		flDebug       = fset.Bool("debug", false, "log debug messages")
		_             = fset.String("config", "", "properties file holding flag values")
	)
	err := ff.Parse(fset, args,
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(configFileParser),
		ff.WithEnvVarPrefix("PROPFMT"),
	)
	if err != nil {
		return nil, err
	}
	enc, err := lookupEncoding(*flEncoding)
	if err != nil {
		return nil, err
	}
	return &config{
		files:       fset.Args(),
		enc:         enc,
		keepUnicode: *flKeepUnicode,
		comment:     *flComment,
		get:         *flGet,
		output:      *flOutput,
		debug:       *flDebug,
	}, nil
}

// newLogger returns a logger that writes one line per entry to w. Debug
// entries are dropped unless debug is set.
func newLogger(w io.Writer, debug bool) log.Logger {
	minLevel := log.Info
	if debug {
		minLevel = log.Debug
	}
	return &log.LevelFilter{
		Min:    minLevel,
		Output: log.New(w, "propfmt: ", log.ShowLevel, nil),
	}
}

// configFileParser reads flag values from a properties file. Keys are flag
// names without the leading dash.
func configFileParser(r io.Reader, set func(name, value string) error) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	p, err := properties.Parse(string(data), nil)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	for _, k := range p.Keys() {
		if err := set(k, p.Get(k)); err != nil {
			return fmt.Errorf("read config: %s: %w", k, err)
		}
	}
	return nil
}

// lookupEncoding returns the encoding with the given IANA name, or nil for
// UTF-8.
func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q not supported", name)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}

func run(ctx context.Context, cfg *config, stdin io.Reader, stdout io.Writer) error {
	fset, err := load(ctx, cfg, stdin)
	if err != nil {
		return err
	}
	if cfg.get != "" {
		v, ok := fset.Lookup(cfg.get)
		if !ok {
			return fmt.Errorf("key %q not found", cfg.get)
		}
		return emit(ctx, cfg, stdout, v+"\n", 1)
	}
	merged := fset.Merge()
	text := properties.Write(merged, &properties.WriteOptions{
		KeepUnicode: cfg.keepUnicode,
		Comments:    cfg.comment,
		Now:         cfg.now,
	})
	return emit(ctx, cfg, stdout, text, merged.Len())
}

func load(ctx context.Context, cfg *config, stdin io.Reader) (properties.FileSet, error) {
	opts := &properties.ParseOptions{Encoding: cfg.enc}
	if len(cfg.files) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		text, err := properties.Decode(data, cfg.enc)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		p, err := properties.Parse(text, opts)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		log.Debugf(ctx, "Read %d properties from stdin", p.Len())
		return properties.FileSet{p}, nil
	}
	fset, err := properties.ParseFiles(opts, cfg.files...)
	if err != nil {
		return nil, err
	}
	for i, p := range fset {
		if p == nil {
			log.Debugf(ctx, "Skipping missing file %s", cfg.files[i])
			continue
		}
		log.Debugf(ctx, "Read %d properties from %s", p.Len(), cfg.files[i])
	}
	return fset, nil
}

// emit encodes text and writes it to the configured output.
func emit(ctx context.Context, cfg *config, stdout io.Writer, text string, n int) error {
	data, err := properties.Encode(text, cfg.enc)
	if err != nil {
		return err
	}
	if cfg.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(cfg.output, data, 0o666); err != nil {
		return err
	}
	log.Infof(ctx, "Wrote %d properties to %s", n, cfg.output)
	return nil
}
