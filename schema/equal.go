package schema

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// equalOpts makes comparison structural: property order and required order are
// irrelevant, nil and empty collections are the same, and numeric literals
// compare by value regardless of their Go representation.
var equalOpts = cmp.Options{
	cmpopts.EquateEmpty(),
	cmpopts.SortSlices(func(a, b Property) bool { return a.Name < b.Name }),
	cmpopts.SortSlices(func(a, b string) bool { return a < b }),
	cmp.FilterValues(bothNumeric, cmp.Comparer(func(a, b any) bool {
		fa, _ := ToFloat(a)
		fb, _ := ToFloat(b)
		return fa == fb
	})),
}

func bothNumeric(a, b any) bool {
	_, oka := ToFloat(a)
	_, okb := ToFloat(b)
	return oka && okb
}

// Equal reports whether a and b describe the same schema tree. A nil node is
// equal to an empty one.
func Equal(a, b *Node) bool {
	if a == nil {
		a = &Node{}
	}
	if b == nil {
		b = &Node{}
	}
	return cmp.Equal(a, b, equalOpts)
}

// EqualNodes compares two node lists positionally.
func EqualNodes(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// EqualValues compares two literal values (enum members, defaults, extras)
// with the same rules Equal applies inside a tree.
func EqualValues(a, b any) bool { return cmp.Equal(a, b, equalOpts) }
