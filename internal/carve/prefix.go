package carve

import (
	"github.com/ostafen/extractinator/internal/signature"
	"github.com/ostafen/extractinator/pkg/table"
)

// prefixIndex maps each distinct start marker to the lowest list index
// carrying it. Later signatures sharing a marker can never win a tie.
type prefixIndex struct {
	table *table.PrefixTable[int]
}

func newPrefixIndex(sigs []signature.Signature) *prefixIndex {
	t := table.New[int]()
	for i, sig := range sigs {
		start := sig.Start()
		if _, has := t.Get(start); has {
			continue
		}
		t.Insert(start, i)
	}
	return &prefixIndex{table: t}
}

func (p *prefixIndex) bind(buf []byte) startCursor {
	return &prefixCursor{buf: buf, table: p.table}
}

type prefixCursor struct {
	buf   []byte
	table *table.PrefixTable[int]
}

func (c *prefixCursor) next(off int) (int, int) {
	for i := off; i < len(c.buf); i++ {
		best := -1
		c.table.Walk(c.buf[i:], func(idx int) bool {
			if best < 0 || idx < best {
				best = idx
			}
			return false
		})
		if best >= 0 {
			return i, best
		}
	}
	return -1, -1
}
