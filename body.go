// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"
)

// Body builds a RESTCONF JSON document with sjson paths.
//
// Body is a value type: every call returns a new Body. The first error is
// kept and turns all later calls into no-ops, so a chain is checked once at
// the end.
//
// Example:
//
//	body := bvc.Body{}.
//	    Set("input.identifier", "vyatta-security-firewall").
//	    Set("input.version", "2014-11-07").
//	    Set("input.format", "yang")
//	data, err := body.Bytes()
type Body struct {
	str string
	err error
}

// Set stores value at path. Keys with a module prefix such as
// "vyatta-security:security" are used as is.
func (b Body) Set(path string, value any) Body {
	if b.err != nil {
		return b
	}
	result, err := sjson.Set(b.str, path, value)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Set(%q): %w", path, err)}
	}
	return Body{str: result}
}

// SetRaw stores an already encoded JSON value at path, e.g. "{}" or the
// output of another Body.
func (b Body) SetRaw(path string, raw string) Body {
	if b.err != nil {
		return b
	}
	result, err := sjson.SetRaw(b.str, path, raw)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("SetRaw(%q): %w", path, err)}
	}
	return Body{str: result}
}

// SetRawArray stores a JSON array made of already encoded elements.
// An empty items slice stores [].
func (b Body) SetRawArray(path string, items []string) Body {
	return b.SetRaw(path, "["+strings.Join(items, ",")+"]")
}

// SetIf stores value at path only when ok is true. It keeps optional fields
// out of the document instead of sending nulls.
func (b Body) SetIf(ok bool, path string, value any) Body {
	if !ok {
		return b
	}
	return b.Set(path, value)
}

// Delete removes the value at path
func (b Body) Delete(path string) Body {
	if b.err != nil {
		return b
	}
	result, err := sjson.Delete(b.str, path)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Delete(%q): %w", path, err)}
	}
	return Body{str: result}
}

// String returns the document and the first build error
func (b Body) String() (string, error) {
	return b.str, b.err
}

// Err returns the first build error
func (b Body) Err() error {
	return b.err
}

// Res returns the document, or "" if building failed. Check Err first.
func (b Body) Res() string {
	if b.err != nil {
		return ""
	}
	return b.str
}

// Bytes returns the document as a byte slice for Client.Do
func (b Body) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return []byte(b.str), nil
}
