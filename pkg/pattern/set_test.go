package pattern

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewSet_Empty(t *testing.T) {
	if _, err := NewSet(nil); !errors.Is(err, ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet, got %v", err)
	}
}

func TestNewSet_NilPattern(t *testing.T) {
	if _, err := NewSet([]*Pattern{nil}); err == nil {
		t.Fatal("expected error for nil pattern")
	}
}

func TestSet_PseudoIndexes(t *testing.T) {
	set, err := NewSet([]*Pattern{mustExact(t, "$ "), EOF(), Timeout(), FullBuffer()})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	if i, ok := set.EOFIndex(); !ok || i != 1 {
		t.Errorf("EOFIndex = %d, %v", i, ok)
	}
	if i, ok := set.TimeoutIndex(); !ok || i != 2 {
		t.Errorf("TimeoutIndex = %d, %v", i, ok)
	}
	if i, ok := set.FullBufferIndex(); !ok || i != 3 {
		t.Errorf("FullBufferIndex = %d, %v", i, ok)
	}

	set, err = NewSet([]*Pattern{mustExact(t, "$ ")})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	if _, ok := set.EOFIndex(); ok {
		t.Error("unexpected EOF index")
	}
	if _, ok := set.TimeoutIndex(); ok {
		t.Error("unexpected Timeout index")
	}
}

func TestSet_Find_EarliestStartWins(t *testing.T) {
	// "b" is declared first, but "ab" starts earlier in the window:
	// declared order only breaks exact-start ties
	set, err := NewSet([]*Pattern{mustExact(t, "b"), mustExact(t, "ab")})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	c, ok := set.Find([]byte("xab"))
	if !ok {
		t.Fatal("expected match")
	}
	if c.Index != 1 {
		t.Errorf("Index = %d, want 1 (pattern \"ab\")", c.Index)
	}
	if c.Start != 1 || c.End != 3 {
		t.Errorf("match at [%d,%d), want [1,3)", c.Start, c.End)
	}
}

func TestSet_Find_IndexBreaksTies(t *testing.T) {
	// both match at position 0; the lower index wins
	set, err := NewSet([]*Pattern{mustExact(t, "ab"), mustExact(t, "abc")})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	c, ok := set.Find([]byte("abc"))
	if !ok {
		t.Fatal("expected match")
	}
	if c.Index != 0 {
		t.Errorf("Index = %d, want 0", c.Index)
	}
}

func TestSet_Find_MixedKinds(t *testing.T) {
	set, err := NewSet([]*Pattern{
		mustRegexp(t, `\$ $`),
		mustExact(t, "password:"),
		Null(),
	})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	c, ok := set.Find([]byte("enter password: then\x00done $ "))
	if !ok {
		t.Fatal("expected match")
	}
	if c.Index != 1 {
		t.Errorf("Index = %d, want 1 (earliest start)", c.Index)
	}
}

func TestSet_Find_Idempotent(t *testing.T) {
	set, err := NewSet([]*Pattern{mustRegexp(t, `(\w+)=(\d+)`), mustExact(t, ";")})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	window := []byte("count=42; rest")
	first, ok := set.Find(window)
	if !ok {
		t.Fatal("expected match")
	}
	for i := 0; i < 3; i++ {
		again, ok := set.Find(window)
		if !ok {
			t.Fatalf("call %d: expected match", i)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("call %d: result %+v differs from first %+v", i, again, first)
		}
	}
}

func TestSet_Find_PseudoPatternsNeverScan(t *testing.T) {
	set, err := NewSet([]*Pattern{EOF(), Timeout(), FullBuffer()})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	if _, ok := set.Find([]byte("anything at all")); ok {
		t.Fatal("pseudo patterns must not match window bytes")
	}
}

func TestSet_CleanAdvance(t *testing.T) {
	tests := []struct {
		name      string
		patterns  []*Pattern
		windowLen int
		want      int
	}{
		{"single exact", []*Pattern{mustExact(t, "password:")}, 20, 12},
		{"longest wins", []*Pattern{mustExact(t, "ab"), mustExact(t, "password:")}, 20, 12},
		{"window shorter than pattern", []*Pattern{mustExact(t, "password:")}, 4, 0},
		{"null is one byte", []*Pattern{Null()}, 10, 10},
		{"regexp pins offset", []*Pattern{mustExact(t, "x"), mustRegexp(t, `\d+`)}, 20, 0},
		{"glob pins offset", []*Pattern{mustGlob(t, "*.txt")}, 20, 0},
		{"pseudo only", []*Pattern{Timeout()}, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewSet(tt.patterns)
			if err != nil {
				t.Fatalf("NewSet: %v", err)
			}
			if got := set.CleanAdvance(tt.windowLen); got != tt.want {
				t.Errorf("CleanAdvance(%d) = %d, want %d", tt.windowLen, got, tt.want)
			}
		})
	}
}

func TestSet_CleanAdvance_KeepsPossibleMatchStart(t *testing.T) {
	// a match could start at the advance boundary and extend past the
	// window: "pass" at the end must stay scannable
	set, err := NewSet([]*Pattern{mustExact(t, "password:")})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	window := []byte("Please enter pass")
	n := set.CleanAdvance(len(window))
	remaining := window[n:]
	if !set.Pattern(0).partialSuffix(remaining) {
		t.Fatalf("advance %d discarded a possible match start; remaining %q", n, remaining)
	}
}
