// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package properties

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ParseFile reads the file at path, decodes it with opts.Encoding and parses
// the result. Nil options are treated identically as passing the zero value.
func ParseFile(path string, opts *ParseOptions) (*Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse properties file: %w", err)
	}
	var enc encoding.Encoding
	if opts != nil {
		enc = opts.Encoding
	}
	text, err := Decode(data, enc)
	if err != nil {
		return nil, fmt.Errorf("parse properties file: %s: %w", path, err)
	}
	p, err := Parse(text, opts)
	if err != nil {
		return nil, fmt.Errorf("parse properties file: %s: %w", path, err)
	}
	return p, nil
}

// Decode converts data in the given encoding to a string suitable for
// Parse. A nil encoding means data is already UTF-8.
func Decode(data []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return string(data), nil
	}
	text, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(text), nil
}

// Encode converts text, typically the output of Write, to the given
// encoding. A nil encoding returns the text as UTF-8. Encode fails if text
// holds characters the encoding cannot represent; writing with the default
// options avoids this for any ASCII-compatible encoding.
func Encode(text string, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		return []byte(text), nil
	}
	data, _, err := transform.Bytes(enc.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}
