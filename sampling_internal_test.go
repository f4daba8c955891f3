package skema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func visited(n, stride int, full bool) []int {
	var out []int
	c := newCursor(n, stride, full)
	for i, ok := c.next(); ok; i, ok = c.next() {
		out = append(out, i)
	}
	return out
}

func TestCursor(t *testing.T) {
	cases := []struct {
		name   string
		n      int
		stride int
		full   bool
		want   []int
	}{
		{"empty", 0, 3, false, nil},
		{"single", 1, 3, false, []int{0}},
		{"at threshold", 3, 3, false, []int{0, 1, 2}},
		{"sampled", 10, 3, false, []int{0, 3, 6, 9}},
		{"tail forced", 11, 3, false, []int{0, 3, 6, 10}},
		{"full", 5, 2, true, []int{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, visited(tc.n, tc.stride, tc.full)); diff != "" {
				t.Fatalf("visited (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCursor_BoundedVisits(t *testing.T) {
	for _, n := range []int{98, 1000, 123457} {
		got := visited(n, DefaultStride, false)
		if len(got) > 2*DefaultStride+1 {
			t.Fatalf("n=%d: %d visits", n, len(got))
		}
		if got[0] != 0 || got[len(got)-1] != n-1 {
			t.Fatalf("n=%d: head/tail not visited: %v...%v", n, got[0], got[len(got)-1])
		}
	}
}
