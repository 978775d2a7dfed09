// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package properties

import (
	"errors"
	"fmt"
	"io/fs"
)

// FileSet is a list of property maps to obtain configuration from in
// descending order of precedence. Nil elements are treated as empty.
type FileSet []*Properties

// ParseFiles parses the files at the given paths and returns a FileSet.
// If the returned error is nil, the returned file set's length will be the
// same as the number of arguments. ParseFiles will stop on the first error,
// but ignores missing file errors, instead filling the corresponding element
// of the set with a nil *Properties.
func ParseFiles(opts *ParseOptions, paths ...string) (FileSet, error) {
	fset := make(FileSet, 0, len(paths))
	for _, path := range paths {
		p, err := ParseFile(path, opts)
		if errors.Is(err, fs.ErrNotExist) {
			fset = append(fset, nil)
			continue
		}
		if err != nil {
			return fset, fmt.Errorf("parse properties files: %w", err)
		}
		fset = append(fset, p)
	}
	return fset, nil
}

// Get returns the value for key from the first map that has it, or the
// empty string if none do.
func (fset FileSet) Get(key string) string {
	v, _ := fset.Lookup(key)
	return v
}

// Lookup returns the value for key from the first map that has it and
// whether any map has it.
func (fset FileSet) Lookup(key string) (_ string, ok bool) {
	for _, p := range fset {
		if v, ok := p.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Merge flattens the set into a single map. Values from maps earlier in the
// set win. Keys are ordered as they first appear starting from the last map.
func (fset FileSet) Merge() *Properties {
	merged := new(Properties)
	for i := len(fset) - 1; i >= 0; i-- {
		p := fset[i]
		if p == nil {
			continue
		}
		for _, k := range p.keys {
			merged.Set(k, p.values[k])
		}
	}
	return merged
}

// Keys returns the keys present in any map of the set, in the order
// used by Merge.
func (fset FileSet) Keys() []string {
	return fset.Merge().Keys()
}

// Set sets the property on the first map and deletes it from all subsequent
// maps. Set will panic if len(fset) == 0. If fset[0] == nil, Set allocates a
// new map.
func (fset FileSet) Set(key, value string) {
	if fset[0] == nil {
		fset[0] = new(Properties)
	}
	fset[0].Set(key, value)
	fset[1:].Delete(key)
}

// Delete deletes the key from every map in the set.
func (fset FileSet) Delete(key string) {
	for _, p := range fset {
		p.Delete(key)
	}
}
