package carve

import "fmt"

// Event is either a Start or an End. The set is closed: callers switch on the
// concrete type and no other implementations exist.
type Event interface {
	Format() string
	Offset() int
	isEvent()
}

// Start reports a start marker of format Name at offset Pos.
type Start struct {
	Name string
	Pos  int
}

// End reports the end marker closing the carve opened at Pos.
// EndPos is exclusive: buf[Pos:EndPos] is the carved occurrence.
type End struct {
	Name   string
	Pos    int
	EndPos int
}

func (Start) isEvent() {}
func (End) isEvent()   {}

func (e Start) Format() string { return e.Name }
func (e End) Format() string   { return e.Name }

func (e Start) Offset() int { return e.Pos }
func (e End) Offset() int   { return e.EndPos }

func (e End) Len() int { return e.EndPos - e.Pos }

// Slice returns the carved bytes as a sub-slice of buf (no copy).
func (e End) Slice(buf []byte) []byte {
	return buf[e.Pos:e.EndPos]
}

func (e Start) String() string {
	return fmt.Sprintf("start(%s@%#x)", e.Name, e.Pos)
}

func (e End) String() string {
	return fmt.Sprintf("end(%s@%#x..%#x)", e.Name, e.Pos, e.EndPos)
}
