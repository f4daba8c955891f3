// Package pathstack tracks the traversal path of a single validation call.
// Segments are pushed and popped around each descent and only rendered to a
// string when a violation is reported, so a successful validation never
// builds path strings.
package pathstack

import (
	"strconv"
	"strings"
	"sync"
)

// Root is the rendering of an empty path.
const Root = "root"

type segment struct {
	key   string
	index int
	isIdx bool
}

// Stack is a per-invocation path. It must not be shared between calls.
type Stack struct {
	segs []segment
}

var pool = sync.Pool{
	New: func() interface{} {
		return &Stack{segs: make([]segment, 0, 16)}
	},
}

// Get takes an empty Stack from the pool.
func Get() *Stack {
	s := pool.Get().(*Stack)
	s.segs = s.segs[:0]
	return s
}

// Put returns s to the pool. s must not be used afterwards.
func Put(s *Stack) {
	// Only return reasonably sized stacks to the pool
	if cap(s.segs) <= 1024 {
		pool.Put(s)
	}
}

// PushKey descends into an object key.
func (s *Stack) PushKey(k string) { s.segs = append(s.segs, segment{key: k}) }

// PushIndex descends into an array index.
func (s *Stack) PushIndex(i int) { s.segs = append(s.segs, segment{index: i, isIdx: true}) }

// Pop leaves the last descent.
func (s *Stack) Pop() {
	if n := len(s.segs); n > 0 {
		s.segs = s.segs[:n-1]
	}
}

// Len returns the current depth.
func (s *Stack) Len() int { return len(s.segs) }

// String renders the dot-joined path, or "root" when empty.
func (s *Stack) String() string {
	if len(s.segs) == 0 {
		return Root
	}
	b := &strings.Builder{}
	for i, seg := range s.segs {
		if i > 0 {
			b.WriteByte('.')
		}
		if seg.isIdx {
			b.WriteString(strconv.Itoa(seg.index))
		} else {
			b.WriteString(seg.key)
		}
	}
	return b.String()
}

// Pointer renders the path as an RFC 6901 JSON Pointer ("/" at the root).
func (s *Stack) Pointer() string {
	if len(s.segs) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range s.segs {
		b.WriteByte('/')
		if seg.isIdx {
			b.WriteString(strconv.Itoa(seg.index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg.key, "~", "~0"), "/", "~1"))
	}
	return b.String()
}
