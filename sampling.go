package skema

import (
	"github.com/reoring/skema/i18n"
	"github.com/reoring/skema/schema"
)

// checkObject validates an object body. minProperties is the one O(n)
// check; maxProperties is never enforced.
func (r *run) checkObject(obj objectView, n *schema.Node) bool {
	if n.MinProperties != nil && obj.Len() < *n.MinProperties {
		return r.fail(CodeTooFewProperties, i18n.MsgTooFewProperties)
	}

	for _, key := range n.Required {
		if _, ok := obj.Get(key); !ok {
			return r.fail(CodeRequired, i18n.MsgMissingKey, "key", key)
		}
	}

	for _, p := range n.Properties {
		val, ok := obj.Get(p.Name)
		if !ok {
			continue
		}
		r.path.PushKey(p.Name)
		ok = r.check(val, p.Schema)
		r.path.Pop()
		if !ok {
			return false
		}
	}

	if n.AdditionalProperties == nil {
		return true
	}
	return r.checkExtras(obj, n)
}

// checkExtras applies additionalProperties to undeclared keys. Unless full,
// only every stride-th visited extra key (counting from the first) is
// checked. Map iteration order is unspecified, so neither the first nor the
// last key in any particular order is guaranteed to be visited.
func (r *run) checkExtras(obj objectView, n *schema.Node) bool {
	stride := r.v.stride
	ok := true
	i := 0
	obj.Range(func(k string, val any) bool {
		if n.Properties.Has(k) {
			return true
		}
		sampled := r.full || i%stride == 0
		i++
		if !sampled {
			return true
		}
		r.path.PushKey(k)
		ok = r.check(val, n.AdditionalProperties)
		r.path.Pop()
		return ok
	})
	return ok
}

// checkArray validates an array body: bounds, then tuple or homogeneous
// items.
func (r *run) checkArray(arr arrayView, n *schema.Node) bool {
	l := arr.Len()
	if n.MinItems != nil && l < *n.MinItems {
		return r.fail(CodeInvalidLength, i18n.MsgArrayTooShort)
	}
	if n.MaxItems != nil && l > *n.MaxItems {
		return r.fail(CodeInvalidLength, i18n.MsgArrayTooLong)
	}
	if n.Items == nil {
		return true
	}

	if n.Items.IsTuple() {
		// Tuples are fixed-arity and checked positionally. A position past the
		// end reads as a missing value.
		for i, s := range n.Items.Tuple {
			var e any
			if i < l {
				e = arr.At(i)
			}
			if !r.checkIndex(i, e, s) {
				return false
			}
		}
		return true
	}

	item := n.Items.Schema
	cur := newCursor(l, r.v.stride, r.full)
	for i, ok := cur.next(); ok; i, ok = cur.next() {
		if !r.checkIndex(i, arr.At(i), item) {
			return false
		}
	}
	return true
}

func (r *run) checkIndex(i int, e any, s *schema.Node) bool {
	r.path.PushIndex(i)
	ok := r.check(e, s)
	r.path.Pop()
	return ok
}

// cursor yields the indexes of a homogeneous array that get checked.
//
// With full scan, or when the length is at most stride, every index is
// visited. Otherwise step = len/stride and the cursor visits 0, step,
// 2*step, ... until the next position would land within one step of the
// end; that position is replaced by the last index and the walk stops. Head
// and tail are therefore always checked, in O(stride) visits.
type cursor struct {
	n    int
	step int
	pos  int
	done bool
}

func newCursor(n, stride int, full bool) cursor {
	step := 1
	if !full && n > stride {
		step = n / stride
	}
	return cursor{n: n, step: step, done: n == 0}
}

func (c *cursor) next() (int, bool) {
	if c.done {
		return 0, false
	}
	i := c.pos
	if c.step > 1 && i+c.step >= c.n {
		i = c.n - 1
	}
	if i >= c.n-1 {
		c.done = true
	}
	c.pos = i + c.step
	return i, true
}
