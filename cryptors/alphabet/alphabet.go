// alphabet
package alphabet

import (
	"unicode"

	"github.com/bgallie/enigma/cryptors"
)

// Upper is the alphabet of the historical machines.
const Upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Alphabet maps the symbols a machine can encipher to and from the indices
// 0 .. Size()-1.  It is never modified after New returns and may be shared.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// New returns the alphabet whose K-th symbol is the K-th rune of symbols.
// Symbols may not repeat, and the cycle delimiters, the settings mark and
// white space are not allowed.
func New(symbols string) (*Alphabet, error) {
	var a Alphabet
	a.symbols = []rune(symbols)
	if len(a.symbols) == 0 {
		return nil, cryptors.Configf("alphabet", "alphabet is empty")
	}
	a.index = make(map[rune]int, len(a.symbols))
	for i, r := range a.symbols {
		if reserved(r) {
			return nil, cryptors.Configf("alphabet", "invalid character %q", r)
		}
		if _, dup := a.index[r]; dup {
			return nil, cryptors.Configf("alphabet", "repeated character %q", r)
		}
		a.index[r] = i
	}
	return &a, nil
}

// Default returns the 26 letter upper case alphabet.
func Default() *Alphabet {
	a, _ := New(Upper)
	return a
}

func reserved(r rune) bool {
	return r == cryptors.CycleOpen || r == cryptors.CycleClose ||
		r == cryptors.SettingsMark || unicode.IsSpace(r)
}

func (a *Alphabet) Size() int {
	return len(a.symbols)
}

func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Symbol returns symbol number i.  It panics unless 0 <= i < Size().
func (a *Alphabet) Symbol(i int) rune {
	return a.symbols[i]
}

// Index returns the index of r, or a *cryptors.LookupError if r is not
// one of my symbols.
func (a *Alphabet) Index(r rune) (int, error) {
	i, ok := a.index[r]
	if !ok {
		return 0, &cryptors.LookupError{Symbol: r}
	}
	return i, nil
}

// Indices converts every rune of s to its index.
func (a *Alphabet) Indices(s string) ([]int, error) {
	res := make([]int, 0, len(s))
	for _, r := range s {
		i, err := a.Index(r)
		if err != nil {
			return nil, err
		}
		res = append(res, i)
	}
	return res, nil
}

func (a *Alphabet) String() string {
	return string(a.symbols)
}
