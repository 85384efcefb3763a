package credentials

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerateHintReference(t *testing.T) {
	pattern := regexp.MustCompile(`^SEC-3-[0-9]{3}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ref, err := GenerateHintReference(3)
		if err != nil {
			t.Fatalf("GenerateHintReference() error = %v", err)
		}
		if !pattern.MatchString(ref) {
			t.Errorf("reference %q does not match SEC-<level>-<nnn>", ref)
		}
		seen[ref] = true
	}
	if len(seen) < 2 {
		t.Error("references should vary between calls")
	}
}

func TestGenerateCodename(t *testing.T) {
	for i := 0; i < 20; i++ {
		name, err := GenerateCodename()
		if err != nil {
			t.Fatalf("GenerateCodename() error = %v", err)
		}
		rank, alias, ok := strings.Cut(name, "-")
		if !ok || rank == "" || alias == "" {
			t.Errorf("codename %q is not rank-alias", name)
		}
	}
}
