// permutator project permutator.go
package permutator

import (
	"bytes"
	"unicode"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/alphabet"
)

// Permutator is a permutation of the indices of an alphabet, kept as the
// disjoint cycles it was written in.  Indices that are in no cycle map to
// themselves.  A Permutator is never modified after New returns.
type Permutator struct {
	alphabet *alphabet.Alphabet
	cycles   [][]int // Each cycle holds the alphabet indices c0 -> c1 -> ... -> c0.
}

// New creates the permutation described by cycles, a string of the form
// "(cccc) (cc) ..." where the c's are symbols of a.  White space is
// ignored and an empty string is the identity.
func New(cycles string, a *alphabet.Alphabet) (*Permutator, error) {
	p := Permutator{alphabet: a}
	seen := make(map[int]bool)
	var cur []int
	inCycle := false

	for _, r := range cycles {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == cryptors.CycleOpen:
			if inCycle {
				return nil, cryptors.Configf("permutation", "nested cycle in %q", cycles)
			}
			inCycle, cur = true, nil
		case r == cryptors.CycleClose:
			if !inCycle {
				return nil, cryptors.Configf("permutation", "unbalanced cycle in %q", cycles)
			}
			inCycle = false
			if len(cur) > 0 {
				p.cycles = append(p.cycles, cur)
			}
		case !inCycle:
			return nil, cryptors.Configf("permutation", "character %q outside of a cycle in %q", r, cycles)
		default:
			idx, err := a.Index(r)
			if err != nil {
				return nil, &cryptors.ConfigError{Op: "permutation", Msg: "invalid cycle " + cycles, Err: err}
			}
			if seen[idx] {
				return nil, cryptors.Configf("permutation", "character %q appears in more than one place in %q", r, cycles)
			}
			seen[idx] = true
			cur = append(cur, idx)
		}
	}

	if inCycle {
		return nil, cryptors.Configf("permutation", "unterminated cycle in %q", cycles)
	}

	return &p, nil
}

// Identity returns the permutation of a that moves nothing.
func Identity(a *alphabet.Alphabet) *Permutator {
	return &Permutator{alphabet: a}
}

func (p *Permutator) Alphabet() *alphabet.Alphabet {
	return p.alphabet
}

// Size returns the size of the alphabet I permute.
func (p *Permutator) Size() int {
	return p.alphabet.Size()
}

// Wrap returns i modulo Size(), always in [0, Size()).
func (p *Permutator) Wrap(i int) int {
	r := i % p.Size()
	if r < 0 {
		r += p.Size()
	}
	return r
}

// find locates idx, returning the cycle holding it and its place there.
func (p *Permutator) find(idx int) ([]int, int) {
	for _, c := range p.cycles {
		for k, v := range c {
			if v == idx {
				return c, k
			}
		}
	}
	return nil, -1
}

// Permute returns the index that Wrap(i) is carried to.
func (p *Permutator) Permute(i int) int {
	i = p.Wrap(i)
	c, k := p.find(i)
	if c == nil {
		return i
	}
	return c[(k+1)%len(c)]
}

// Invert returns the index that is carried to Wrap(i).
func (p *Permutator) Invert(i int) int {
	i = p.Wrap(i)
	c, k := p.find(i)
	if c == nil {
		return i
	}
	return c[(k-1+len(c))%len(c)]
}

// PermuteSymbol applies Permute to the index of r and returns the symbol.
func (p *Permutator) PermuteSymbol(r rune) (rune, error) {
	i, err := p.alphabet.Index(r)
	if err != nil {
		return 0, err
	}
	return p.alphabet.Symbol(p.Permute(i)), nil
}

// InvertSymbol applies Invert to the index of r and returns the symbol.
func (p *Permutator) InvertSymbol(r rune) (rune, error) {
	i, err := p.alphabet.Index(r)
	if err != nil {
		return 0, err
	}
	return p.alphabet.Symbol(p.Invert(i)), nil
}

// Derangement returns true iff no index maps to itself.
func (p *Permutator) Derangement() bool {
	for i := 0; i < p.Size(); i++ {
		if p.Permute(i) == i {
			return false
		}
	}
	return true
}

// Cycles returns my cycles as strings of symbols.
func (p *Permutator) Cycles() []string {
	res := make([]string, 0, len(p.cycles))
	for _, c := range p.cycles {
		r := make([]rune, len(c))
		for k, v := range c {
			r[k] = p.alphabet.Symbol(v)
		}
		res = append(res, string(r))
	}
	return res
}

// String returns my cycle notation, "(AB) (CDE)", or "" for the identity.
func (p *Permutator) String() string {
	var output bytes.Buffer
	for i, c := range p.Cycles() {
		if i > 0 {
			output.WriteString(" ")
		}
		output.WriteRune(cryptors.CycleOpen)
		output.WriteString(c)
		output.WriteRune(cryptors.CycleClose)
	}
	return output.String()
}
