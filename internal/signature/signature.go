// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package signature

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUnknownFormat    = errors.New("unknown format")
	ErrDuplicateFormat  = errors.New("duplicate format")
)

// Signature is a named pair of magic byte sequences delimiting a carvable format.
// The marker bytes are owned by the Signature and never exposed for writing.
type Signature struct {
	name  string
	desc  string
	start []byte
	end   []byte
}

// New copies start and end into a new Signature.
// Names are normalized to lower case.
func New(name string, start, end []byte) (Signature, error) {
	name = normalizeName(name)
	if name == "" {
		return Signature{}, fmt.Errorf("%w: empty name", ErrInvalidSignature)
	}
	if len(start) == 0 {
		return Signature{}, fmt.Errorf("%w: %s has an empty start marker", ErrInvalidSignature, name)
	}
	if len(end) == 0 {
		return Signature{}, fmt.Errorf("%w: %s has an empty end marker", ErrInvalidSignature, name)
	}

	return Signature{
		name:  name,
		start: bytes.Clone(start),
		end:   bytes.Clone(end),
	}, nil
}

// MustNew is like New but panics on error. Meant for static tables.
func MustNew(name string, start, end []byte) Signature {
	sig, err := New(name, start, end)
	if err != nil {
		panic(err)
	}
	return sig
}

func (s Signature) Name() string { return s.name }

func (s Signature) Description() string { return s.desc }

// WithDescription returns a copy of s carrying the given description.
func (s Signature) WithDescription(desc string) Signature {
	s.desc = desc
	return s
}

// Start returns a copy of the start marker.
func (s Signature) Start() []byte { return bytes.Clone(s.start) }

// End returns a copy of the end marker.
func (s Signature) End() []byte { return bytes.Clone(s.end) }

func (s Signature) StartLen() int { return len(s.start) }
func (s Signature) EndLen() int   { return len(s.end) }

// MatchStart reports whether the start marker is fully present in buf at offset i.
func (s Signature) MatchStart(buf []byte, i int) bool {
	return matchAt(buf, i, s.start)
}

// MatchEnd reports whether the end marker is fully present in buf at offset i.
func (s Signature) MatchEnd(buf []byte, i int) bool {
	return matchAt(buf, i, s.end)
}

// IndexEnd returns the offset of the first end marker at or after off, or -1.
func (s Signature) IndexEnd(buf []byte, off int) int {
	if off < 0 || off >= len(buf) {
		return -1
	}
	idx := bytes.Index(buf[off:], s.end)
	if idx < 0 {
		return -1
	}
	return off + idx
}

// Valid reports whether s was built through New.
func (s Signature) Valid() bool {
	return s.name != "" && len(s.start) > 0 && len(s.end) > 0
}

func (s Signature) String() string {
	return fmt.Sprintf("%s[% X ... % X]", s.name, s.start, s.end)
}

func matchAt(buf []byte, i int, marker []byte) bool {
	if i < 0 || len(buf)-i < len(marker) {
		return false
	}
	return bytes.Equal(buf[i:i+len(marker)], marker)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
