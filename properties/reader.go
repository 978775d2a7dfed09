// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package properties

// A lineReader splits text into logical lines. Comments, blank lines and
// leading whitespace are dropped and continuation lines are joined. Escape
// sequences other than the continuation backslash are left in place.
type lineReader struct {
	s      string
	off    int
	lineno int // physical line of s[off], 1-based
	buf    []byte
}

func newLineReader(s string) *lineReader {
	return &lineReader{s: s, lineno: 1}
}

// readLine returns the next logical line and the physical line it started
// on. ok is false once the input is exhausted.
func (r *lineReader) readLine() (line string, lineno int, ok bool) {
	r.buf = r.buf[:0]
	skipWhitespace := true
	appendedLineBegin := false
	precedingBackslash := false
	for {
		if r.off >= len(r.s) {
			if precedingBackslash {
				r.buf = r.buf[:len(r.buf)-1]
			}
			if len(r.buf) == 0 {
				return "", 0, false
			}
			return string(r.buf), lineno, true
		}
		c := r.s[r.off]
		r.off++

		if skipWhitespace {
			if isWhitespace(c) {
				continue
			}
			if !appendedLineBegin && isTerminator(c) {
				r.endLine(c)
				continue
			}
			skipWhitespace = false
			appendedLineBegin = false
		}

		if len(r.buf) == 0 && (c == '#' || c == '!') {
			if !r.skipComment() {
				return "", 0, false
			}
			skipWhitespace = true
			continue
		}

		if !isTerminator(c) {
			if len(r.buf) == 0 {
				lineno = r.lineno
			}
			r.buf = append(r.buf, c)
			precedingBackslash = c == '\\' && !precedingBackslash
			continue
		}

		r.endLine(c)
		switch {
		case len(r.buf) == 0:
			// Only reachable when a continuation left nothing behind.
			skipWhitespace = true
		case precedingBackslash:
			r.buf = r.buf[:len(r.buf)-1]
			skipWhitespace = true
			appendedLineBegin = true
			precedingBackslash = false
		default:
			return string(r.buf), lineno, true
		}
	}
}

// skipComment discards input up to and including the next line terminator.
// It reports false if the input ended first.
func (r *lineReader) skipComment() bool {
	for r.off < len(r.s) {
		c := r.s[r.off]
		r.off++
		if isTerminator(c) {
			r.endLine(c)
			return true
		}
	}
	return false
}

// endLine finishes a line terminator whose first byte c has been read,
// consuming the '\n' of a "\r\n" pair.
func (r *lineReader) endLine(c byte) {
	if c == '\r' && r.off < len(r.s) && r.s[r.off] == '\n' {
		r.off++
	}
	r.lineno++
}

// splitLine separates a logical line into its raw key and value.
func splitLine(line string) (key, value string) {
	keyLen := 0
	valueStart := len(line)
	hasSeparator := false
	precedingBackslash := false
	for keyLen < len(line) {
		c := line[keyLen]
		if !precedingBackslash {
			if isSeparator(c) {
				valueStart = keyLen + 1
				hasSeparator = true
				break
			}
			if isWhitespace(c) {
				valueStart = keyLen + 1
				break
			}
		}
		precedingBackslash = c == '\\' && !precedingBackslash
		keyLen++
	}
	for ; valueStart < len(line); valueStart++ {
		c := line[valueStart]
		if isWhitespace(c) {
			continue
		}
		if hasSeparator || !isSeparator(c) {
			break
		}
		hasSeparator = true
	}
	return line[:keyLen], line[valueStart:]
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f'
}

func isTerminator(c byte) bool {
	return c == '\n' || c == '\r'
}

func isSeparator(c byte) bool {
	return c == '=' || c == ':'
}
