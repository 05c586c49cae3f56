package pattern

import (
	"errors"
	"testing"
)

func TestExact_Empty(t *testing.T) {
	if _, err := Exact(""); !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestRegexp_Invalid(t *testing.T) {
	_, err := Regexp("[unterminated")
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestGlob_Invalid(t *testing.T) {
	tests := []string{"[unterminated", `trailing\`}
	for _, glob := range tests {
		if _, err := Glob(glob); !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("Glob(%q): expected ErrInvalidPattern, got %v", glob, err)
		}
	}
}

func TestPattern_Kind(t *testing.T) {
	exact, err := Exact("$ ")
	if err != nil {
		t.Fatalf("Exact: %v", err)
	}
	re, err := Regexp(`\d+`)
	if err != nil {
		t.Fatalf("Regexp: %v", err)
	}
	glob, err := Glob("*.txt")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}

	tests := []struct {
		name string
		p    *Pattern
		kind Kind
	}{
		{"exact", exact, KindExact},
		{"regexp", re, KindRegexp},
		{"glob", glob, KindGlob},
		{"eof", EOF(), KindEOF},
		{"timeout", Timeout(), KindTimeout},
		{"fullbuffer", FullBuffer(), KindFullBuffer},
		{"null", Null(), KindNull},
	}
	for _, tt := range tests {
		if got := tt.p.Kind(); got != tt.kind {
			t.Errorf("%s: Kind() = %v, want %v", tt.name, got, tt.kind)
		}
	}
}

func TestPattern_Source(t *testing.T) {
	exact, _ := Exact("password: ")
	if got := exact.Source(); got != "password: " {
		t.Errorf("exact Source() = %q", got)
	}
	re, _ := Regexp(`\d+`)
	if got := re.Source(); got != `\d+` {
		t.Errorf("regexp Source() = %q", got)
	}
	glob, _ := Glob("*.log")
	if got := glob.Source(); got != "*.log" {
		t.Errorf("glob Source() = %q", got)
	}
}

func TestPattern_MaxLen(t *testing.T) {
	exact, _ := Exact("hello")
	if n, bounded := exact.maxLen(); n != 5 || !bounded {
		t.Errorf("exact maxLen = %d, %v", n, bounded)
	}
	if n, bounded := Null().maxLen(); n != 1 || !bounded {
		t.Errorf("null maxLen = %d, %v", n, bounded)
	}
	re, _ := Regexp("a+")
	if _, bounded := re.maxLen(); bounded {
		t.Error("regexp maxLen should be unbounded")
	}
	glob, _ := Glob("a*")
	if _, bounded := glob.maxLen(); bounded {
		t.Error("glob maxLen should be unbounded")
	}
}
