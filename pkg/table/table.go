package table

// hashSpace is the size of the marker array, one slot per uint16 hash value.
const hashSpace = 1 << 16

const (
	none = iota
	// prefixMarker: some key has a prefix hashing here.
	prefixMarker
	// keyMarker: some complete key hashes here.
	keyMarker
)

// PrefixTable maps byte-string keys to values and answers
// "which keys are prefixes of this input" in O(len(longest key)).
//
// Every prefix of every key is hashed into a 64K marker array, so a walk over
// the input stops at the first byte where no key can continue. Complete keys
// are confirmed against the elems map, which makes hash collisions harmless.
type PrefixTable[T any] struct {
	markers   [hashSpace]byte
	elems     map[string]T
	maxKeyLen int
}

func New[T any]() *PrefixTable[T] {
	return &PrefixTable[T]{
		elems: make(map[string]T),
	}
}

func (t *PrefixTable[T]) Insert(key []byte, v T) {
	var h uint16
	for _, b := range key {
		h = (h << 2) + uint16(b)
		// never downgrade a keyMarker left by a shorter key
		t.markers[h] = max(t.markers[h], prefixMarker)
	}
	t.markers[h] = keyMarker
	t.elems[string(key)] = v
	t.maxKeyLen = max(t.maxKeyLen, len(key))
}

func (t *PrefixTable[T]) Get(key []byte) (T, bool) {
	v, found := t.elems[string(key)]
	return v, found
}

// Walk calls onMatch, shortest first, for every stored key that is a prefix of data.
// Walking stops early when onMatch returns true.
func (t *PrefixTable[T]) Walk(data []byte, onMatch func(T) bool) {
	if len(data) > t.maxKeyLen {
		data = data[:t.maxKeyLen]
	}

	var h uint16
	for i, b := range data {
		h = (h << 2) + uint16(b)

		switch t.markers[h] {
		case none:
			return
		case keyMarker:
			if v, ok := t.elems[string(data[:i+1])]; ok && onMatch(v) {
				return
			}
		}
	}
}

func (t *PrefixTable[T]) Size() int {
	return len(t.elems)
}

// MaxKeyLen is the length of the longest stored key.
func (t *PrefixTable[T]) MaxKeyLen() int {
	return t.maxKeyLen
}
