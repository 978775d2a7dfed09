// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package properties provides a parser and serializer for the Java .properties
file format. See https://en.wikipedia.org/wiki/.properties.

# Syntax

A properties file is text made of lines terminated by a line feed ('\n'), a
carriage return ('\r'), or a carriage return followed by a line feed. Parse
operates on text that has already been decoded; use ParseFile with
ParseOptions.Encoding to read files stored in ISO-8859-1, the traditional
encoding for this format.

Each logical line holds one property: a key, an optional separator, and a
value. The key starts at the first character that is not a space, tab, or
form feed and ends at the first unescaped '=', ':', space, tab, or form feed.
Whitespace after the key is skipped, along with at most one '=' or ':'. The
rest of the line is the value, including any trailing whitespace:

	key=value
	key = value
	key:value
	key value

A line whose first non-whitespace character is a hash ('#') or an
exclamation mark ('!') is a comment. Blank lines are ignored.

A line that ends in an odd number of backslashes continues on the next line.
The backslash, the line terminator and the leading whitespace of the next line
are removed:

	fruits = apple, banana, \
	         cherry

Keys and values may contain these escape sequences:

	\t      U+0009 horizontal tab
	\n      U+000A line feed
	\f      U+000C form feed
	\r      U+000D carriage return
	\uXXXX  UTF-16 code unit, exactly four hex digits

A backslash before any other character stands for that character, which is
how '=', ':', '#', '!', spaces and backslashes are written literally.
A \u escape of a high surrogate immediately followed by a \u escape of a low
surrogate yields the supplementary code point they encode.

# Repeated keys

When a key appears more than once, the last value wins. Properties keeps the
position where the key was first seen.

# Writing

Write produces a timestamp comment followed by one key=value line per
property. By default every character outside printable ASCII is written as a
\u escape, so the output is valid in any ASCII-compatible encoding.
*/
package properties
