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
	"fmt"
)

// Registry is an immutable set of signatures keyed by format name.
// It is built once at startup and handed to whoever needs to resolve formats.
type Registry struct {
	sigs  []Signature
	index map[string]int
}

func NewRegistry(sigs ...Signature) (*Registry, error) {
	r := &Registry{
		sigs:  make([]Signature, 0, len(sigs)),
		index: make(map[string]int, len(sigs)),
	}
	if err := r.add(sigs...); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) add(sigs ...Signature) error {
	for _, sig := range sigs {
		if !sig.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidSignature, sig.name)
		}
		if _, has := r.index[sig.name]; has {
			return fmt.Errorf("%w: %s", ErrDuplicateFormat, sig.name)
		}
		r.index[sig.name] = len(r.sigs)
		r.sigs = append(r.sigs, sig)
	}
	return nil
}

// With returns a new registry holding the receiver's signatures followed by sigs.
func (r *Registry) With(sigs ...Signature) (*Registry, error) {
	all := make([]Signature, 0, len(r.sigs)+len(sigs))
	all = append(all, r.sigs...)
	all = append(all, sigs...)
	return NewRegistry(all...)
}

func (r *Registry) Get(name string) (Signature, bool) {
	idx, ok := r.index[normalizeName(name)]
	if !ok {
		return Signature{}, false
	}
	return r.sigs[idx], true
}

// Resolve maps each name to its signature, preserving the order of names.
// The returned order is the tie-break order used by the scanner.
func (r *Registry) Resolve(names ...string) ([]Signature, error) {
	sigs := make([]Signature, 0, len(names))
	for _, name := range names {
		sig, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

// Names returns the registered format names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.sigs))
	for i, sig := range r.sigs {
		names[i] = sig.name
	}
	return names
}

func (r *Registry) Signatures() []Signature {
	return append([]Signature(nil), r.sigs...)
}

func (r *Registry) Len() int {
	return len(r.sigs)
}
