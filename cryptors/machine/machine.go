// Package machine assembles rotors, a reflector and a plugboard into an
// enigma machine.
//
// Slot 0 holds the reflector and slot NumRotors()-1 the fast rotor.  The
// rightmost NumPawls() slots hold moving rotors; the slots between them
// and the reflector hold fixed rotors.  Each call to Convert first steps
// the rotors and then sends the signal through the plugboard, the rotors
// from right to left, the reflector, the rotors from left to right and
// the plugboard again.
//
// A Machine is not safe for concurrent use: converting a symbol turns the
// rotors.  Alphabets and permutations may be shared between machines.
package machine

import (
	"sort"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/alphabet"
	"github.com/bgallie/enigma/cryptors/permutator"
	"github.com/bgallie/enigma/cryptors/rotor"
)

// Machine is an enigma machine with a fixed number of rotor slots chosen
// from a catalog of available rotors.
type Machine struct {
	alphabet  *alphabet.Alphabet
	pawls     int
	slots     []rotor.Rotor
	catalog   map[string]rotor.Rotor
	plugboard *permutator.Permutator
	tracer    cryptors.Tracer
}

// Option configures a Machine built by New.
type Option func(*Machine)

// WithTracer has the machine report every converted symbol to t.
func WithTracer(t cryptors.Tracer) Option {
	return func(m *Machine) {
		m.tracer = t
	}
}

// New returns a machine over alphabet a with numRotors slots (the
// reflector included) and pawls moving rotors, 1 < numRotors and
// 0 <= pawls < numRotors.  catalog lists the rotors that may be inserted.
func New(a *alphabet.Alphabet, numRotors, pawls int, catalog []rotor.Rotor, opts ...Option) (*Machine, error) {
	if numRotors < 2 {
		return nil, cryptors.Configf("machine", "a machine needs at least 2 rotor slots, not %d", numRotors)
	}
	if pawls < 0 || numRotors-pawls < 1 {
		return nil, cryptors.Configf("machine", "invalid number of pawls %d for %d rotor slots", pawls, numRotors)
	}
	if len(catalog) < numRotors {
		return nil, cryptors.Configf("machine", "%d rotor slots but only %d rotors available", numRotors, len(catalog))
	}

	m := Machine{
		alphabet:  a,
		pawls:     pawls,
		slots:     make([]rotor.Rotor, numRotors),
		catalog:   make(map[string]rotor.Rotor, len(catalog)),
		plugboard: permutator.Identity(a),
	}
	for _, r := range catalog {
		if _, dup := m.catalog[r.Name()]; dup {
			return nil, cryptors.Configf("machine", "rotor %s defined more than once", r.Name())
		}
		if r.Alphabet() != a {
			return nil, cryptors.Configf("machine", "rotor %s uses a different alphabet", r.Name())
		}
		m.catalog[r.Name()] = r
	}
	for _, opt := range opts {
		opt(&m)
	}

	return &m, nil
}

func (m *Machine) Alphabet() *alphabet.Alphabet {
	return m.alphabet
}

// NumRotors returns the number of rotor slots, the reflector included.
func (m *Machine) NumRotors() int {
	return len(m.slots)
}

// NumPawls returns the number of pawls, and so of moving rotors.
func (m *Machine) NumPawls() int {
	return m.pawls
}

// Rotor returns the rotor in slot k, or nil if no rotors have been
// inserted.  Changing it has undefined results.
func (m *Machine) Rotor(k int) rotor.Rotor {
	return m.slots[k]
}

// Rotors returns the names of every rotor in the catalog, sorted.
func (m *Machine) Rotors() []string {
	names := make([]string, 0, len(m.catalog))
	for n := range m.catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the catalog rotor called name.
func (m *Machine) Lookup(name string) (rotor.Rotor, bool) {
	r, ok := m.catalog[name]
	return r, ok
}

// InsertRotors fills the slots with the catalog rotors named by names,
// names[0] being the reflector.  Every inserted rotor is turned to
// position 0 with ring setting 0.
func (m *Machine) InsertRotors(names []string) error {
	if len(names) != m.NumRotors() {
		return cryptors.Configf("insert rotors", "%d rotors named for %d slots", len(names), m.NumRotors())
	}

	slots := make([]rotor.Rotor, len(names))
	used := make(map[string]bool, len(names))
	for i, name := range names {
		r, ok := m.catalog[name]
		if !ok {
			return cryptors.Configf("insert rotors", "unknown rotor %s", name)
		}
		if used[name] {
			return cryptors.Configf("insert rotors", "rotor %s repeated", name)
		}
		used[name] = true

		switch {
		case i == 0:
			if !r.Reflecting() {
				return cryptors.Configf("insert rotors", "rotor 0 (%s) must be a reflector", name)
			}
		case i < m.NumRotors()-m.pawls:
			if r.Reflecting() || r.Rotates() {
				return cryptors.Configf("insert rotors", "rotor %d (%s) must be a fixed rotor", i, name)
			}
		default:
			if !r.Rotates() {
				return cryptors.Configf("insert rotors", "rotor %d (%s) must be a moving rotor", i, name)
			}
		}
		slots[i] = r
	}

	for _, r := range slots {
		r.Set(0)
		r.SetRing(0)
	}
	m.slots = slots
	return nil
}

// SetRotors turns the rotors in slots 1 .. NumRotors()-1 to the positions
// given by setting, one symbol per slot starting with slot 1.  The ring
// settings are left as they are.
func (m *Machine) SetRotors(setting string) error {
	posns, err := m.settingIndices("set rotors", setting)
	if err != nil {
		return err
	}
	for i, p := range posns {
		m.slots[i+1].Set(p)
	}
	return nil
}

// SetRotorsRing sets the window positions to setting with the ring
// settings ringstellung.  The rotors are turned to setting minus the ring
// setting so the notches stay where the window letters say they are.
func (m *Machine) SetRotorsRing(setting, ringstellung string) error {
	posns, err := m.settingIndices("set rotors", setting)
	if err != nil {
		return err
	}
	rings, err := m.settingIndices("set ring", ringstellung)
	if err != nil {
		return err
	}
	for i := range posns {
		m.slots[i+1].Set(posns[i] - rings[i])
		m.slots[i+1].SetRing(rings[i])
	}
	return nil
}

func (m *Machine) settingIndices(op, setting string) ([]int, error) {
	if m.slots[0] == nil {
		return nil, cryptors.Configf(op, "no rotors inserted")
	}
	posns, err := m.alphabet.Indices(setting)
	if err != nil {
		return nil, &cryptors.ConfigError{Op: op, Msg: "invalid setting " + setting, Err: err}
	}
	if len(posns) != m.NumRotors()-1 {
		return nil, cryptors.Configf(op, "%q has %d positions, want %d", setting, len(posns), m.NumRotors()-1)
	}
	return posns, nil
}

// Positions returns the symbols at which slots 1 .. NumRotors()-1 stand.
func (m *Machine) Positions() string {
	res := make([]rune, 0, m.NumRotors()-1)
	for _, r := range m.slots[1:] {
		if r == nil {
			return ""
		}
		res = append(res, m.alphabet.Symbol(r.Setting()))
	}
	return string(res)
}

func (m *Machine) Plugboard() *permutator.Permutator {
	return m.plugboard
}

// SetPlugboard replaces the plugboard.  A nil plugboard connects every
// symbol to itself.
func (m *Machine) SetPlugboard(p *permutator.Permutator) error {
	if p == nil {
		p = permutator.Identity(m.alphabet)
	}
	if p.Alphabet() != m.alphabet {
		return cryptors.Configf("set plugboard", "plugboard uses a different alphabet")
	}
	m.plugboard = p
	return nil
}

// advanceRotors steps the rotors before a symbol is converted.  The fast
// rotor always moves; a moving rotor sitting at a notch moves itself and
// the rotor to its left.
func (m *Machine) advanceRotors() {
	n := m.NumRotors()
	advances := make([]bool, n)
	for i := n - m.pawls + 1; i < n; i++ {
		if m.slots[i].AtNotch() {
			advances[i] = true
			advances[i-1] = true
		}
	}
	advances[n-1] = true
	for i := n - m.pawls; i < n; i++ {
		if advances[i] {
			m.slots[i].Advance()
		}
	}
}

// Convert returns the conversion of c, an index into the alphabet, after
// first stepping the rotors.  Rotors must have been inserted.
func (m *Machine) Convert(c int) int {
	var path []rune
	trace := m.tracer != nil
	note := func(c int) {
		if trace {
			path = append(path, m.alphabet.Symbol(c))
		}
	}

	m.advanceRotors()
	in := m.plugboard.Wrap(c)
	c = m.plugboard.Permute(in)
	note(c)
	for i := len(m.slots) - 1; i > 0; i-- {
		c = m.slots[i].ConvertForward(c)
		note(c)
	}
	for _, r := range m.slots {
		c = r.ConvertBackward(c)
		note(c)
	}
	c = m.plugboard.Permute(c)

	if trace {
		m.tracer.Trace(cryptors.Trace{
			Positions: m.Positions(),
			Input:     m.alphabet.Symbol(in),
			Path:      path,
			Output:    m.alphabet.Symbol(c),
		})
	}
	return c
}

// ConvertString converts msg one symbol at a time, in order, turning the
// rotors as it goes.  A symbol outside the alphabet stops the conversion
// with a *cryptors.LookupError; the symbols before it have already moved
// the rotors.
func (m *Machine) ConvertString(msg string) (string, error) {
	if m.slots[0] == nil {
		return "", cryptors.Configf("convert", "no rotors inserted")
	}
	res := make([]rune, 0, len(msg))
	for _, r := range msg {
		i, err := m.alphabet.Index(r)
		if err != nil {
			return "", err
		}
		res = append(res, m.alphabet.Symbol(m.Convert(i)))
	}
	return string(res), nil
}
