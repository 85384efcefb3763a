package fragments

import (
	"errors"
	"sync"
)

var ErrFull = errors.New("fragment list is full")

// Assembler collects reward tokens for one level in the order they are
// earned and checks candidate final codes. Tokens are not validated on
// insert: a wrong token simply means the assembled code never matches.
type Assembler struct {
	mu        sync.RWMutex
	target    string
	max       int
	fragments []string
}

// New returns an assembler holding at most max tokens. max <= 0 means unbounded.
func New(target string, max int) *Assembler {
	return &Assembler{target: target, max: max}
}

// Restore rebuilds an assembler from persisted tokens
func Restore(target string, max int, tokens []string) *Assembler {
	a := New(target, max)
	for _, t := range tokens {
		if a.max > 0 && len(a.fragments) >= a.max {
			break
		}
		a.fragments = append(a.fragments, t)
	}
	return a
}

// Add appends token to the ordered list
func (a *Assembler) Add(token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.max > 0 && len(a.fragments) >= a.max {
		return ErrFull
	}
	a.fragments = append(a.fragments, token)
	return nil
}

// Fragments returns a copy of the tokens in completion order
func (a *Assembler) Fragments() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]string(nil), a.fragments...)
}

// CheckFinalCode accepts candidate only if it equals the target exactly
func (a *Assembler) CheckFinalCode(candidate string) bool {
	return a.target != "" && candidate == a.target
}

// TargetLen is the length a well-formed candidate must have
func (a *Assembler) TargetLen() int {
	return len(a.target)
}
