package fragments

import (
	"errors"
	"strings"
	"testing"
)

func TestAssemblerOrder(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   bool
	}{
		{name: "completion order", tokens: []string{"17", "42", "89", "56"}, want: true},
		{name: "swapped order", tokens: []string{"42", "17", "89", "56"}, want: false},
		{name: "one wrong token", tokens: []string{"17", "42", "88", "56"}, want: false},
		{name: "missing token", tokens: []string{"17", "42", "89"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New("17428956", 4)
			for _, tok := range tt.tokens {
				if err := a.Add(tok); err != nil {
					t.Fatalf("Add(%q) error = %v", tok, err)
				}
			}
			code := strings.Join(a.Fragments(), "")
			if got := a.CheckFinalCode(code); got != tt.want {
				t.Errorf("CheckFinalCode(%q) = %v, want %v", code, got, tt.want)
			}
		})
	}
}

func TestAssemblerCapacity(t *testing.T) {
	a := New("1234", 2)
	_ = a.Add("12")
	_ = a.Add("34")
	if err := a.Add("56"); !errors.Is(err, ErrFull) {
		t.Errorf("Add on full assembler error = %v, want ErrFull", err)
	}
	if len(a.Fragments()) != 2 {
		t.Errorf("Fragments() = %v", a.Fragments())
	}
}

func TestCheckFinalCodeExact(t *testing.T) {
	a := New("17428956", 4)
	for _, c := range []string{"17428956 ", "1742895", "", "17428957"} {
		if a.CheckFinalCode(c) {
			t.Errorf("CheckFinalCode(%q) should fail", c)
		}
	}
	if !a.CheckFinalCode("17428956") {
		t.Error("exact target must pass")
	}
	if New("", 0).CheckFinalCode("") {
		t.Error("an empty target never matches")
	}
}

func TestRestore(t *testing.T) {
	a := Restore("1742", 2, []string{"17", "42", "99"})
	if code := strings.Join(a.Fragments(), ""); code != "1742" {
		t.Errorf("fragments joined = %q, want 1742", code)
	}
	// returned slice is a copy
	frags := a.Fragments()
	frags[0] = "00"
	if a.Fragments()[0] != "17" {
		t.Error("Fragments() must return a copy")
	}
}
