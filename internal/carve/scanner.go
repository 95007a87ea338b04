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
package carve

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ostafen/extractinator/internal/signature"
)

// Matcher selects how start markers are located.
// Both matchers produce the same event sequence.
type Matcher int

const (
	// MatchPrefix tests every offset against a prefix table of start markers.
	MatchPrefix Matcher = iota
	// MatchIndexed runs one Aho-Corasick pass over the buffer and jumps
	// between start-marker candidates. Faster on large inputs with rare hits,
	// at the cost of holding every candidate in memory.
	MatchIndexed
)

func ParseMatcher(s string) (Matcher, error) {
	switch strings.ToLower(s) {
	case "", "prefix":
		return MatchPrefix, nil
	case "indexed", "aho":
		return MatchIndexed, nil
	}
	return MatchPrefix, fmt.Errorf("unknown matcher %q", s)
}

func (m Matcher) String() string {
	switch m {
	case MatchPrefix:
		return "prefix"
	case MatchIndexed:
		return "indexed"
	}
	return "unknown"
}

type Option func(*Scanner)

func WithMatcher(m Matcher) Option {
	return func(sc *Scanner) {
		sc.matcher = m
	}
}

// startIndex finds start markers. bind returns a cursor tied to one buffer.
type startIndex interface {
	bind(buf []byte) startCursor
}

type startCursor interface {
	// next returns the first offset >= off where some start marker matches,
	// along with the lowest list index among the signatures matching there.
	// It returns (-1, -1) when no start marker is left.
	next(off int) (pos int, sig int)
}

// Scanner carves occurrences of a fixed, ordered list of signatures.
//
// A Scanner is immutable once built and may be shared by concurrent scans;
// all per-scan state lives inside the sequence returned by Scan.
type Scanner struct {
	sigs    []signature.Signature
	matcher Matcher
	starts  startIndex
}

func NewScanner(sigs []signature.Signature, opts ...Option) *Scanner {
	sc := &Scanner{
		sigs: append([]signature.Signature(nil), sigs...),
	}
	for _, opt := range opts {
		opt(sc)
	}

	if len(sc.sigs) > 0 {
		switch sc.matcher {
		case MatchIndexed:
			sc.starts = newAhoIndex(sc.sigs)
		default:
			sc.starts = newPrefixIndex(sc.sigs)
		}
	}
	return sc
}

// Scan is a shorthand for NewScanner(sigs).Scan(buf).
func Scan(buf []byte, sigs []signature.Signature) iter.Seq[Event] {
	return NewScanner(sigs).Scan(buf)
}

func (sc *Scanner) Signatures() []signature.Signature {
	return append([]signature.Signature(nil), sc.sigs...)
}

func (sc *Scanner) Matcher() Matcher {
	return sc.matcher
}

// Scan returns the carve events found in buf, in buffer order.
//
// The scanner alternates between two states. With no active carve it looks
// for the leftmost start marker of any signature, ties at the same offset
// going to the signature listed first. Once a start marker is found, only
// that signature's end marker is searched for, at every later offset whose
// marker would end at or past the end of the start marker. An end marker may
// thus begin inside the start marker but never lie wholly within it. Start
// markers of other formats inside an open carve are not seen. After the end
// marker at j the search for start markers resumes at j+1.
//
// A start marker with no end marker before the end of buf yields a Start
// event and no End event. A marker running past the end of buf never matches.
//
// buf is only read. The sequence can be ranged more than once and always
// yields the same events.
func (sc *Scanner) Scan(buf []byte) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if len(sc.sigs) == 0 || len(buf) == 0 {
			return
		}

		starts := sc.starts.bind(buf)
		for off := 0; off < len(buf); {
			pos, idx := starts.next(off)
			if pos < 0 {
				return
			}

			sig := sc.sigs[idx]
			if !yield(Start{Name: sig.Name(), Pos: pos}) {
				return
			}

			endIdx := sig.IndexEnd(buf, max(pos+1, pos+sig.StartLen()-sig.EndLen()))
			if endIdx < 0 {
				// unterminated: the active carve never closes
				return
			}

			ev := End{
				Name:   sig.Name(),
				Pos:    pos,
				EndPos: endIdx + sig.EndLen(),
			}
			if !yield(ev) {
				return
			}
			off = endIdx + 1
		}
	}
}
