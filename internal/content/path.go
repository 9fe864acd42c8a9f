// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content addresses and mutates the typed website document.
//
// Locations inside a document are expressed as a Path of typed segments,
// for example {Field("pages"), Index(0), Field("sections"), Field("faq"),
// Field("items"), Index(2), Field("question")}. Fields are matched against
// JSON names, a Sections list is addressed by section name, and a section
// forwards field segments to its payload.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned (wrapped) when a path does not resolve
// against the document.
var ErrInvalidPath = errors.New("invalid content path")

// Segment is one step of a Path: either a named field or a list index.
type Segment struct {
	name    string
	index   int
	isIndex bool
}

// Field returns a segment selecting a field (or a section by name).
func Field(name string) Segment { return Segment{name: name} }

// Index returns a segment selecting a list element.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// IsIndex reports whether the segment selects a list element.
func (s Segment) IsIndex() bool { return s.isIndex }

// Name returns the field name, or "" for an index segment.
func (s Segment) Name() string { return s.name }

// Position returns the list index, or -1 for a field segment.
func (s Segment) Position() int {
	if !s.isIndex {
		return -1
	}
	return s.index
}

func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.name
}

// Path is an ordered list of segments from the document root.
type Path []Segment

// String renders the path for logs and error messages, e.g.
// "pages[0].sections.faq".
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if !s.isIndex && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// MarshalJSON encodes the path as a JSON array of strings and integers.
func (p Path) MarshalJSON() ([]byte, error) {
	out := make([]any, len(p))
	for i, s := range p {
		if s.isIndex {
			out[i] = s.index
		} else {
			out[i] = s.name
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a JSON array where strings become field segments
// and non-negative integers become index segments.
func (p *Path) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: path must be an array", ErrInvalidPath)
	}

	out := make(Path, 0, len(raw))
	for i, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if len(elem) > 0 && elem[0] == '"' {
			var name string
			if err := json.Unmarshal(elem, &name); err != nil {
				return fmt.Errorf("%w: segment %d: %v", ErrInvalidPath, i, err)
			}
			if name == "" {
				return fmt.Errorf("%w: segment %d is an empty field name", ErrInvalidPath, i)
			}
			out = append(out, Field(name))
			continue
		}

		n, err := strconv.Atoi(string(elem))
		if err != nil || n < 0 {
			return fmt.Errorf("%w: segment %d must be a string or a non-negative integer", ErrInvalidPath, i)
		}
		out = append(out, Index(n))
	}

	*p = out
	return nil
}
