// rotor
package rotor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/alphabet"
	"github.com/bgallie/enigma/cryptors/permutator"
)

// Rotor is a wheel of a machine.  Its wiring is a fixed permutation; what
// changes is the position the wheel is turned to and the ring setting, an
// offset that moves where the notches are recognized without changing the
// wiring.
type Rotor interface {
	Name() string
	Alphabet() *alphabet.Alphabet
	Permutation() *permutator.Permutator
	Size() int
	// Rotates is true iff the rotor has a ratchet and can move.
	Rotates() bool
	// Reflecting is true iff the rotor can sit in the reflector slot.
	Reflecting() bool
	Setting() int
	Set(posn int)
	SetSymbol(posn rune) error
	Ring() int
	SetRing(ring int)
	SetRingSymbol(ring rune) error
	// Notches returns the symbols, shifted by the ring setting, at which
	// the rotor lets the rotor to its left advance.
	Notches() string
	AtNotch() bool
	Advance()
	ConvertForward(p int) int
	ConvertBackward(e int) int
}

type rotor struct {
	name     string
	perm     *permutator.Permutator
	position int
	ring     int
}

func newRotor(name string, perm *permutator.Permutator) (rotor, error) {
	if name == "" || strings.ContainsFunc(name, func(r rune) bool {
		return r == cryptors.CycleOpen || r == cryptors.CycleClose ||
			r == cryptors.SettingsMark || unicode.IsSpace(r)
	}) {
		return rotor{}, cryptors.Configf("rotor", "invalid rotor name: %q", name)
	}
	if perm == nil {
		return rotor{}, cryptors.Configf("rotor", "rotor %s has no permutation", name)
	}
	return rotor{name: name, perm: perm}, nil
}

func (r *rotor) Name() string {
	return r.name
}

func (r *rotor) Alphabet() *alphabet.Alphabet {
	return r.perm.Alphabet()
}

func (r *rotor) Permutation() *permutator.Permutator {
	return r.perm
}

func (r *rotor) Size() int {
	return r.perm.Size()
}

func (r *rotor) Rotates() bool    { return false }
func (r *rotor) Reflecting() bool { return false }
func (r *rotor) Notches() string  { return "" }
func (r *rotor) AtNotch() bool    { return false }
func (r *rotor) Advance()         {}

func (r *rotor) Setting() int {
	return r.position
}

func (r *rotor) Set(posn int) {
	r.position = r.perm.Wrap(posn)
}

func (r *rotor) SetSymbol(posn rune) error {
	i, err := r.Alphabet().Index(posn)
	if err != nil {
		return err
	}
	r.Set(i)
	return nil
}

func (r *rotor) Ring() int {
	return r.ring
}

func (r *rotor) SetRing(ring int) {
	r.ring = r.perm.Wrap(ring)
}

func (r *rotor) SetRingSymbol(ring rune) error {
	i, err := r.Alphabet().Index(ring)
	if err != nil {
		return err
	}
	r.SetRing(i)
	return nil
}

// ConvertForward passes p through the wiring as seen from the current
// position.
func (r *rotor) ConvertForward(p int) int {
	return r.perm.Wrap(r.perm.Permute(p+r.position) - r.position)
}

// ConvertBackward passes e through the inverse of the wiring as seen from
// the current position.
func (r *rotor) ConvertBackward(e int) int {
	return r.perm.Wrap(r.perm.Invert(e+r.position) - r.position)
}

func (r *rotor) String() string {
	return fmt.Sprintf("Rotor %s", r.name)
}

// Moving is a rotor with a ratchet and one or more notches.
type Moving struct {
	rotor
	notches []int
}

// NewMoving returns a moving rotor named name, wired by perm, whose notches
// are at the symbols of notches.  The rotor starts at position 0.
func NewMoving(name string, perm *permutator.Permutator, notches string) (*Moving, error) {
	base, err := newRotor(name, perm)
	if err != nil {
		return nil, err
	}
	m := Moving{rotor: base}
	for _, n := range notches {
		i, err := perm.Alphabet().Index(n)
		if err != nil {
			return nil, &cryptors.ConfigError{Op: "rotor", Msg: "invalid notch for rotor " + name, Err: err}
		}
		m.notches = append(m.notches, i)
	}
	return &m, nil
}

func (m *Moving) Rotates() bool {
	return true
}

func (m *Moving) Notches() string {
	res := make([]rune, len(m.notches))
	for i, n := range m.notches {
		res[i] = m.Alphabet().Symbol(m.perm.Wrap(n - m.ring))
	}
	return string(res)
}

func (m *Moving) AtNotch() bool {
	for _, n := range m.notches {
		if m.perm.Wrap(n-m.ring) == m.position {
			return true
		}
	}
	return false
}

func (m *Moving) Advance() {
	m.Set(m.position + 1)
}

// Fixed is a rotor that never moves, such as the Beta and Gamma wheels of
// the M4.
type Fixed struct {
	rotor
}

func NewFixed(name string, perm *permutator.Permutator) (*Fixed, error) {
	base, err := newRotor(name, perm)
	if err != nil {
		return nil, err
	}
	return &Fixed{rotor: base}, nil
}

// Reflector is the non moving rotor in slot 0 that sends the signal back
// through the other rotors.  Its permutation must be a derangement.
type Reflector struct {
	rotor
}

func NewReflector(name string, perm *permutator.Permutator) (*Reflector, error) {
	base, err := newRotor(name, perm)
	if err != nil {
		return nil, err
	}
	if !perm.Derangement() {
		return nil, cryptors.Configf("rotor", "reflector %s maps a character to itself", name)
	}
	return &Reflector{rotor: base}, nil
}

func (r *Reflector) Reflecting() bool {
	return true
}
