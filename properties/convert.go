// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package properties

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrMalformedUnicodeEscape is returned when a \u escape is not followed by
// exactly four hex digits.
var ErrMalformedUnicodeEscape = errors.New(`malformed \uxxxx escape`)

// ErrTruncatedEscape is returned when text ends with a backslash that has
// nothing left to escape.
var ErrTruncatedEscape = errors.New("backslash at end of text")

// Unescape decodes the escape sequences in a raw key or value.
// See the Syntax section in the package documentation for the accepted
// sequences. Backslashes before any other character are removed.
func Unescape(raw string) (string, error) {
	if strings.IndexByte(raw, '\\') == -1 {
		return raw, nil
	}
	sb := new(strings.Builder)
	sb.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		if i >= len(raw) {
			return "", ErrTruncatedEscape
		}
		switch c := raw[i]; c {
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'n':
			sb.WriteByte('\n')
		case 'f':
			sb.WriteByte('\f')
		case 'u':
			r, err := decodeUnicodeEscape(raw[i+1:])
			if err != nil {
				return "", err
			}
			i += 4
			if utf16.IsSurrogate(r) && strings.HasPrefix(raw[i+1:], `\u`) {
				if r2, err := decodeUnicodeEscape(raw[i+3:]); err == nil {
					if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
						r = dec
						i += 6
					}
				}
			}
			// Unpaired surrogates are written as U+FFFD.
			sb.WriteRune(r)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), nil
}

// decodeUnicodeEscape decodes the four hex digits at the start of s.
func decodeUnicodeEscape(s string) (rune, error) {
	if len(s) < 4 {
		return 0, fmt.Errorf(`%w: \u%s`, ErrMalformedUnicodeEscape, s)
	}
	var r rune
	for i := 0; i < 4; i++ {
		if !isHexDigit(s[i]) {
			return 0, fmt.Errorf(`%w: \u%s`, ErrMalformedUnicodeEscape, s[:4])
		}
		r = r<<4 | rune(fromHex(s[i]))
	}
	return r, nil
}

// Escape encodes s so that Unescape returns it unchanged when it is read
// back as a key (escapeSpace true) or value (escapeSpace false).
//
// Backslashes, '=', ':', '#', '!', tabs, line feeds, carriage returns and
// form feeds are always escaped. Spaces are escaped if escapeSpace is true
// or if the space is the first character, since leading whitespace would
// otherwise be dropped by the parser. If escapeUnicode is true, every other
// character outside U+0020 to U+007E is written as a \u escape, with
// supplementary characters written as surrogate pairs.
func Escape(s string, escapeSpace, escapeUnicode bool) string {
	return string(appendEscaped(nil, s, escapeSpace, escapeUnicode))
}

func appendEscaped(dst []byte, s string, escapeSpace, escapeUnicode bool) []byte {
	for i := 0; i < len(s); {
		c, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case c > '=' && c <= '~':
			if c == '\\' {
				dst = append(dst, '\\')
			}
			dst = append(dst, byte(c))
		case c == ' ':
			if escapeSpace || i == 0 {
				dst = append(dst, '\\')
			}
			dst = append(dst, ' ')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\f':
			dst = append(dst, '\\', 'f')
		case c == '=' || c == ':' || c == '#' || c == '!':
			dst = append(dst, '\\', byte(c))
		case escapeUnicode && (c < ' ' || c > '~'):
			dst = appendUnicodeEscape(dst, c)
		default:
			dst = append(dst, s[i:i+size]...)
		}
		i += size
	}
	return dst
}

// appendUnicodeEscape appends c as one \u escape, or two if c is outside
// the Basic Multilingual Plane.
func appendUnicodeEscape(dst []byte, c rune) []byte {
	if r1, r2 := utf16.EncodeRune(c); r1 != utf8.RuneError {
		return appendUnicodeEscape(appendUnicodeEscape(dst, r1), r2)
	}
	const hexDigits = "0123456789abcdef"
	return append(dst, '\\', 'u',
		hexDigits[c>>12&0xf],
		hexDigits[c>>8&0xf],
		hexDigits[c>>4&0xf],
		hexDigits[c&0xf])
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' ||
		'a' <= c && c <= 'f' ||
		'A' <= c && c <= 'F'
}

func fromHex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 0xa
	case 'A' <= c && c <= 'F':
		return c - 'A' + 0xa
	default:
		panic("invalid hex digit")
	}
}
