package carve

import (
	"cmp"
	"slices"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
	"github.com/ostafen/extractinator/internal/signature"
)

// ahoIndex finds every start marker of a buffer in a single pass.
type ahoIndex struct {
	trie *ahocorasick.Trie
	// owner[p] is the lowest list index whose start marker is pattern p
	owner []int
}

func newAhoIndex(sigs []signature.Signature) *ahoIndex {
	builder := ahocorasick.NewTrieBuilder()

	seen := make(map[string]bool, len(sigs))
	owner := make([]int, 0, len(sigs))
	for i, sig := range sigs {
		start := sig.Start()
		if seen[string(start)] {
			continue
		}
		seen[string(start)] = true

		builder.AddPattern(start)
		owner = append(owner, i)
	}

	return &ahoIndex{
		trie:  builder.Build(),
		owner: owner,
	}
}

type candidate struct {
	pos int
	sig int
}

func (a *ahoIndex) bind(buf []byte) startCursor {
	matches := a.trie.Match(buf)

	cands := make([]candidate, 0, len(matches))
	for _, m := range matches {
		cands = append(cands, candidate{
			pos: int(m.Pos()),
			sig: a.owner[int(m.Pattern())],
		})
	}

	// Lowest offset first and, at equal offsets, lowest list index first,
	// so the first candidate at or after any offset is the tie-break winner.
	slices.SortFunc(cands, func(x, y candidate) int {
		if c := cmp.Compare(x.pos, y.pos); c != 0 {
			return c
		}
		return cmp.Compare(x.sig, y.sig)
	})
	return &ahoCursor{cands: cands}
}

type ahoCursor struct {
	cands []candidate
	k     int
}

func (c *ahoCursor) next(off int) (int, int) {
	for c.k < len(c.cands) && c.cands[c.k].pos < off {
		c.k++
	}
	if c.k == len(c.cands) {
		return -1, -1
	}
	cand := c.cands[c.k]
	return cand.pos, cand.sig
}
