package pathstack

import "testing"

func TestStack_Render(t *testing.T) {
	s := Get()
	defer Put(s)

	if got := s.String(); got != "root" {
		t.Fatalf("empty path = %q, want root", got)
	}
	if got := s.Pointer(); got != "/" {
		t.Fatalf("empty pointer = %q, want /", got)
	}

	s.PushKey("items")
	s.PushIndex(2)
	s.PushKey("a/b~c")
	if got := s.String(); got != "items.2.a/b~c" {
		t.Fatalf("String() = %q", got)
	}
	if got := s.Pointer(); got != "/items/2/a~1b~0c" {
		t.Fatalf("Pointer() = %q", got)
	}

	s.Pop()
	s.Pop()
	if got := s.String(); got != "items" {
		t.Fatalf("after pops = %q", got)
	}
	s.Pop()
	s.Pop()
	if s.Len() != 0 {
		t.Fatalf("pop on empty stack must be a no-op")
	}
}

func TestGet_ReturnsEmptyStack(t *testing.T) {
	s := Get()
	s.PushKey("x")
	Put(s)

	s2 := Get()
	defer Put(s2)
	if s2.Len() != 0 {
		t.Fatalf("pooled stack not reset: %q", s2.String())
	}
}
