// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package properties

import (
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// Properties is an ordered map of string keys to string values. Keys are
// kept in the order they were first set. The zero value is an empty map.
// Properties can be read by multiple concurrent goroutines.
type Properties struct {
	keys   []string
	values map[string]string
}

// New returns an empty map.
func New() *Properties {
	return new(Properties)
}

// ParseOptions holds optional parameters for Parse.
type ParseOptions struct {
	// NormalizeKey is called on each unescaped key to apply text
	// transformations. If nil, no transformations are made.
	NormalizeKey func(key string) string

	// Encoding is used by ParseFile and ParseFiles to decode file contents.
	// If nil, files are read as UTF-8. Parse ignores it.
	Encoding encoding.Encoding
}

// Parse parses the text of a properties file. Nil options are treated
// identically as passing the zero value. When a key is repeated, the last
// value wins.
//
// See the Syntax section in the package documentation for the format
// recognized by Parse.
func Parse(content string, opts *ParseOptions) (*Properties, error) {
	p := new(Properties)
	r := newLineReader(content)
	for {
		line, lineno, ok := r.readLine()
		if !ok {
			return p, nil
		}
		rawKey, rawValue := splitLine(line)
		key, err := Unescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("parse properties: line %d: key: %w", lineno, err)
		}
		value, err := Unescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("parse properties: line %d: value of %q: %w", lineno, key, err)
		}
		if opts != nil && opts.NormalizeKey != nil {
			key = opts.NormalizeKey(key)
		}
		p.Set(key, value)
	}
}

// Get returns the value associated with the given key or the empty string
// if there is none.
func (p *Properties) Get(key string) string {
	v, _ := p.Lookup(key)
	return v
}

// Lookup returns the value associated with the given key and whether the
// key is present.
func (p *Properties) Lookup(key string) (_ string, ok bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

// Len returns the number of keys.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns a copy of the keys in the order they were first set.
func (p *Properties) Keys() []string {
	if p == nil || len(p.keys) == 0 {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Map returns a copy of the entries as a Go map.
func (p *Properties) Map() map[string]string {
	if p == nil {
		return nil
	}
	m := make(map[string]string, len(p.values))
	for k, v := range p.values {
		m[k] = v
	}
	return m
}

// Set sets the value for key. If the key is already present, its value is
// replaced and it keeps its position. Otherwise the key is appended.
func (p *Properties) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Delete removes the key if present.
func (p *Properties) Delete(key string) {
	if p == nil {
		return
	}
	if _, exists := p.values[key]; !exists {
		return
	}
	delete(p.values, key)
	n := 0
	for _, k := range p.keys {
		if k != key {
			p.keys[n] = k
			n++
		}
	}
	// Zero out truncated element for garbage collection.
	p.keys[n] = ""
	p.keys = p.keys[:n]
}

// WriteOptions holds optional parameters for Write.
type WriteOptions struct {
	// KeepUnicode disables \u escapes for characters outside printable
	// ASCII. The output must then be stored in an encoding that can
	// represent those characters.
	KeepUnicode bool

	// Comments is written as comment lines before the timestamp.
	// Each line break starts a new comment line.
	Comments string

	// Now returns the time written in the header comment.
	// If nil, time.Now is used.
	Now func() time.Time
}

// TimestampLayout is the time layout of the header comment written by Write.
const TimestampLayout = "Mon Jan 02 15:04:05 MST 2006"

// Write serializes p in properties format. Nil options are treated
// identically as passing the zero value. The output starts with a comment
// line holding the current time, followed by one key=value line per
// property in the order returned by Keys. Parse(Write(p, opts)) reproduces p.
// Spaces in values are written as-is, except that a leading space is
// escaped as "\ " so that Parse does not skip it.
func Write(p *Properties, opts *WriteOptions) string {
	return string(appendProperties(nil, p, opts))
}

func appendProperties(buf []byte, p *Properties, opts *WriteOptions) []byte {
	if opts == nil {
		opts = new(WriteOptions)
	}
	escapeUnicode := !opts.KeepUnicode
	if opts.Comments != "" {
		buf = appendComment(buf, opts.Comments, escapeUnicode)
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	buf = append(buf, '#')
	buf = now().AppendFormat(buf, TimestampLayout)
	buf = append(buf, '\n')
	if p == nil {
		return buf
	}
	for _, k := range p.keys {
		buf = appendEscaped(buf, k, true, escapeUnicode)
		buf = append(buf, '=')
		buf = appendEscaped(buf, p.values[k], false, escapeUnicode)
		buf = append(buf, '\n')
	}
	return buf
}

// appendComment writes comments as one or more '#' lines. Line breaks start
// a new comment line unless the next line already starts with '#' or '!'.
func appendComment(dst []byte, comments string, escapeUnicode bool) []byte {
	dst = append(dst, '#')
	for i := 0; i < len(comments); {
		c := comments[i]
		if isTerminator(c) {
			i++
			if c == '\r' && i < len(comments) && comments[i] == '\n' {
				i++
			}
			dst = append(dst, '\n')
			if i >= len(comments) || (comments[i] != '#' && comments[i] != '!') {
				dst = append(dst, '#')
			}
			continue
		}
		r, size := rune(c), 1
		if c >= 0x80 {
			r, size = utf8.DecodeRuneInString(comments[i:])
		}
		if escapeUnicode && r > '~' {
			dst = appendUnicodeEscape(dst, r)
		} else {
			dst = append(dst, comments[i:i+size]...)
		}
		i += size
	}
	return append(dst, '\n')
}

// MarshalText serializes the map in properties format with default options.
func (p *Properties) MarshalText() ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return appendProperties(nil, p, nil), nil
}

// UnmarshalText parses the properties data with default options, replacing
// any entries in p.
func (p *Properties) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data), nil)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}
