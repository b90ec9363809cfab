package machine_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/alphabet"
	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/bgallie/enigma/cryptors/permutator"
	"github.com/bgallie/enigma/cryptors/rotor"
)

type rotorDef struct {
	name, kind, notches, cycles string
}

// The wheels of the Enigma I and the wide reflector B (UKW-B).
var enigmaI = []rotorDef{
	{"I", "M", "Q", "(AELTPHQXRU) (BKNW) (CMOY) (DFG) (IV) (JZ) (S)"},
	{"II", "M", "E", "(FIXVYOMW) (CDKLHUP) (ESZ) (BJ) (GR) (NT) (A) (Q)"},
	{"III", "M", "V", "(ABDHPEJT) (CFLVMZOYQIRWUKXSG) (N)"},
	{"IV", "M", "J", "(AEPLIYWCOXMRFZBSTGJQNH) (DV) (KU)"},
	{"V", "M", "Z", "(AVOLDRWFIZCGTYPBUJQKXS) (EH) (MN)"},
	{"Beta", "N", "", "(ALBEVFCYODJWUGNMQTZSKPR) (HIX)"},
	{"B", "R", "", "(AY) (BR) (CU) (DH) (EQ) (FS) (GL) (IP) (JX) (KN) (MO) (TZ) (VW)"},
	{"C", "R", "", "(AF) (BV) (CP) (DJ) (EI) (GO) (HY) (KR) (LZ) (MX) (NW) (QT) (SU)"},
}

func catalog(t *testing.T, a *alphabet.Alphabet, defs []rotorDef) []rotor.Rotor {
	t.Helper()
	var res []rotor.Rotor
	for _, d := range defs {
		p, err := permutator.New(d.cycles, a)
		require.NoError(t, err)
		var r rotor.Rotor
		switch d.kind {
		case "M":
			r, err = rotor.NewMoving(d.name, p, d.notches)
		case "N":
			r, err = rotor.NewFixed(d.name, p)
		default:
			r, err = rotor.NewReflector(d.name, p)
		}
		require.NoError(t, err)
		res = append(res, r)
	}
	return res
}

func newMachine(t *testing.T, numRotors, pawls int, opts ...machine.Option) *machine.Machine {
	t.Helper()
	a := alphabet.Default()
	m, err := machine.New(a, numRotors, pawls, catalog(t, a, enigmaI), opts...)
	require.NoError(t, err)
	return m
}

// enigmaIMachine returns an Enigma I with reflector B and rotors I II III.
func enigmaIMachine(t *testing.T, opts ...machine.Option) *machine.Machine {
	t.Helper()
	m := newMachine(t, 4, 3, opts...)
	require.NoError(t, m.InsertRotors([]string{"B", "I", "II", "III"}))
	return m
}

func convert(t *testing.T, m *machine.Machine, msg string) string {
	t.Helper()
	out, err := m.ConvertString(msg)
	require.NoError(t, err)
	return out
}

// windows converts n symbols and returns the window positions after each.
func windows(m *machine.Machine, n int) []string {
	var res []string
	for i := 0; i < n; i++ {
		m.Convert(0)
		res = append(res, m.Positions())
	}
	return res
}

func assertConfigError(t *testing.T, err error) {
	t.Helper()
	assert.True(t, errors.Is(err, cryptors.ErrConfig), "want a configuration error, got %v", err)
}

//----------------------------------------------------------------------------//
// Construction
//----------------------------------------------------------------------------//

func TestNew_Errors(t *testing.T) {
	a := alphabet.Default()
	cat := catalog(t, a, enigmaI)
	cases := []struct {
		name             string
		numRotors, pawls int
		catalog          []rotor.Rotor
	}{
		{"OneSlot", 1, 0, cat},
		{"PawlsEqualSlots", 4, 4, cat},
		{"NegativePawls", 4, -1, cat},
		{"CatalogTooSmall", 4, 3, cat[:3]},
		{"DuplicateNames", 4, 3, append(append([]rotor.Rotor{}, cat...), cat[0])},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := machine.New(a, tc.numRotors, tc.pawls, tc.catalog)
			assert.Nil(t, m)
			assertConfigError(t, err)
		})
	}
}

func TestNew_ForeignAlphabet(t *testing.T) {
	other := alphabet.Default()
	_, err := machine.New(alphabet.Default(), 4, 3, catalog(t, other, enigmaI))
	assertConfigError(t, err)
}

func TestAccessors(t *testing.T) {
	m := newMachine(t, 5, 3)
	assert.Equal(t, 5, m.NumRotors())
	assert.Equal(t, 3, m.NumPawls())
	assert.Nil(t, m.Rotor(0))
	assert.Equal(t, "", m.Positions())
	assert.Equal(t, []string{"B", "Beta", "C", "I", "II", "III", "IV", "V"}, m.Rotors())
	r, ok := m.Lookup("Beta")
	require.True(t, ok)
	assert.Equal(t, "Beta", r.Name())
	_, ok = m.Lookup("IX")
	assert.False(t, ok)
	assert.Equal(t, "", m.Plugboard().String())
}

//----------------------------------------------------------------------------//
// Setup
//----------------------------------------------------------------------------//

func TestInsertRotors_Errors(t *testing.T) {
	cases := []struct {
		name  string
		names []string
	}{
		{"TooFew", []string{"B", "Beta", "I", "II"}},
		{"TooMany", []string{"B", "Beta", "I", "II", "III", "IV"}},
		{"Unknown", []string{"B", "Beta", "I", "II", "IX"}},
		{"ReflectorNotFirst", []string{"I", "Beta", "B", "II", "III"}},
		{"MovingInFixedSlot", []string{"B", "IV", "I", "II", "III"}},
		{"ReflectorInFixedSlot", []string{"B", "C", "I", "II", "III"}},
		{"FixedInMovingSlot", []string{"C", "I", "Beta", "II", "III"}},
		{"Repeated", []string{"B", "Beta", "I", "II", "I"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newMachine(t, 5, 3)
			assertConfigError(t, m.InsertRotors(tc.names))
		})
	}
}

func TestInsertRotors_ResetsPositionAndRing(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotorsRing("QEV", "BCD"))
	convert(t, m, "HELLO")

	require.NoError(t, m.InsertRotors([]string{"B", "I", "II", "III"}))
	assert.Equal(t, "AAA", m.Positions())
	for i := 1; i < m.NumRotors(); i++ {
		assert.Equal(t, 0, m.Rotor(i).Ring(), "slot %d", i)
	}
}

func TestInsertRotors_FailureKeepsSlots(t *testing.T) {
	m := enigmaIMachine(t)
	assertConfigError(t, m.InsertRotors([]string{"B", "I", "II", "Beta"}))
	assert.Equal(t, "III", m.Rotor(3).Name())
}

func TestSetRotors_Errors(t *testing.T) {
	m := enigmaIMachine(t)
	assertConfigError(t, m.SetRotors("AA"))
	assertConfigError(t, m.SetRotors("AAAA"))
	err := m.SetRotors("AaA")
	assertConfigError(t, err)
	assert.True(t, errors.Is(err, cryptors.ErrLookup))
	assertConfigError(t, m.SetRotorsRing("AAA", "AA"))
	assertConfigError(t, m.SetRotorsRing("AAA", "A1A"))

	empty := newMachine(t, 4, 3)
	assertConfigError(t, empty.SetRotors("AAA"))
}

func TestSetRotors(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotors("XYZ"))
	assert.Equal(t, "XYZ", m.Positions())
	assert.Equal(t, 0, m.Rotor(0).Setting(), "the reflector never moves")
}

func TestSetRotorsRing(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotorsRing("ADU", "AAB"))
	// The rotors stand at the setting less the ring setting.
	assert.Equal(t, "ADT", m.Positions())
	assert.Equal(t, 1, m.Rotor(3).Ring())
	assert.Equal(t, "U", m.Rotor(3).Notches())
}

func TestSetPlugboard(t *testing.T) {
	m := enigmaIMachine(t)
	p, err := permutator.New("(AB) (CD)", m.Alphabet())
	require.NoError(t, err)
	require.NoError(t, m.SetPlugboard(p))
	assert.Same(t, p, m.Plugboard())

	require.NoError(t, m.SetPlugboard(nil))
	assert.Equal(t, "", m.Plugboard().String())

	foreign, err := permutator.New("(AB)", alphabet.Default())
	require.NoError(t, err)
	assertConfigError(t, m.SetPlugboard(foreign))
}

//----------------------------------------------------------------------------//
// Stepping
//----------------------------------------------------------------------------//

func TestStepping_Odometer(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotors("AAU"))
	// III carries at V.
	assert.Equal(t, []string{"AAV", "ABW", "ABX", "ABY"}, windows(m, 4))
}

func TestStepping_DoubleStep(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotors("ADS"))
	// II reaches its notch E and steps again on the next key press,
	// carrying I with it.
	assert.Equal(t, []string{"ADT", "ADU", "ADV", "AEW", "BFX"}, windows(m, 5))
}

func TestStepping_DoubleStepFromADU(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotors("ADU"))
	assert.Equal(t, []string{"ADV", "AEW", "BFX", "BFY"}, windows(m, 4))
}

func TestStepping_Wraps(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotors("AAZ"))
	assert.Equal(t, []string{"AAA"}, windows(m, 1))
}

func TestStepping_FullPeriod(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotors("AAA"))
	// The double step shortens the period to 26 * 25 * 26.
	windows(m, 26*25*26)
	assert.Equal(t, "AAA", m.Positions())
}

func TestStepping_FixedSlotNeverMoves(t *testing.T) {
	m := newMachine(t, 4, 2)
	require.NoError(t, m.InsertRotors([]string{"B", "Beta", "II", "III"}))
	require.NoError(t, m.SetRotors("AEU"))
	// II sits at its notch but the slot to its left has no pawl, so II
	// only moves when III carries.
	assert.Equal(t, []string{"AEV", "AFW", "AFX"}, windows(m, 3))

	require.NoError(t, m.SetRotors("AAV"))
	assert.Equal(t, []string{"ABW", "ABX", "ABY"}, windows(m, 3))
}

func TestStepping_RingMovesNotch(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotorsRing("ADU", "AAB"))
	assert.Equal(t, []string{"ADU", "AEV", "BFW"}, windows(m, 3))
}

//----------------------------------------------------------------------------//
// Conversion
//----------------------------------------------------------------------------//

func TestConvert_KnownAnswers(t *testing.T) {
	cases := []struct {
		name      string
		positions string
		rings     string
		plugboard string
		in, out   string
	}{
		{"EnigmaI", "AAA", "", "", "AAAAA", "BDZGO"},
		{"HelloWorld", "AAA", "", "", "HELLOWORLD", "ILBDAAMTAZ"},
		{"RingBBB", "AAA", "BBB", "", "AAAAA", "EWTYX"},
		{"Plugboard", "AAA", "", "(AB) (CD)", "AAAAA", "BJLDS"},
		{"FromADT", "ADT", "", "", "AAAAA", "EEQIB"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := enigmaIMachine(t)
			if tc.rings == "" {
				require.NoError(t, m.SetRotors(tc.positions))
			} else {
				require.NoError(t, m.SetRotorsRing(tc.positions, tc.rings))
			}
			p, err := permutator.New(tc.plugboard, m.Alphabet())
			require.NoError(t, err)
			require.NoError(t, m.SetPlugboard(p))
			assert.Equal(t, tc.out, convert(t, m, tc.in))
		})
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	const plain = "THEQUICKBROWNFOXJUMPSOVERTHELAZYDOGANDKEEPSONRUNNINGPASTTHENOTCHES"
	m := enigmaIMachine(t)
	p, err := permutator.New("(AZ) (BY) (CX) (QR)", m.Alphabet())
	require.NoError(t, err)
	require.NoError(t, m.SetPlugboard(p))

	require.NoError(t, m.SetRotorsRing("QDV", "FGH"))
	cipher := convert(t, m, plain)
	assert.NotEqual(t, plain, cipher)

	require.NoError(t, m.SetRotorsRing("QDV", "FGH"))
	assert.Equal(t, plain, convert(t, m, cipher))
}

func TestConvert_NeverToItself(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotors("AAA"))
	for i := 0; i < 2000; i++ {
		c := i % 26
		assert.NotEqual(t, c, m.Convert(c))
	}
}

func TestConvertString_Errors(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotors("AAA"))
	_, err := m.ConvertString("AB1")
	var le *cryptors.LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, '1', le.Symbol)
	// A and B were converted before the bad symbol.
	assert.Equal(t, "AAC", m.Positions())

	empty := newMachine(t, 4, 3)
	_, err = empty.ConvertString("A")
	assertConfigError(t, err)
}

func TestConvert_EmptyString(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotors("AAA"))
	assert.Equal(t, "", convert(t, m, ""))
	assert.Equal(t, "AAA", m.Positions())
}

// A settings change that leaves out the ring settings keeps the ring
// settings of the previous change; only InsertRotors clears them.
func TestStaleRingSetting(t *testing.T) {
	m := enigmaIMachine(t)
	require.NoError(t, m.SetRotorsRing("AAA", "AAB"))
	require.NoError(t, m.SetRotors("ADT"))
	assert.Equal(t, 1, m.Rotor(3).Ring())
	assert.Equal(t, []string{"ADU", "AEV", "BFW"}, windows(m, 3))

	require.NoError(t, m.SetRotorsRing("AAA", "AAB"))
	require.NoError(t, m.SetRotors("ADT"))
	assert.Equal(t, "EQGIB", convert(t, m, "AAAAA"))

	require.NoError(t, m.InsertRotors([]string{"B", "I", "II", "III"}))
	require.NoError(t, m.SetRotors("ADT"))
	assert.Equal(t, "EEQIB", convert(t, m, "AAAAA"))
}

func TestTracer(t *testing.T) {
	var traces []cryptors.Trace
	m := enigmaIMachine(t, machine.WithTracer(cryptors.TracerFunc(func(tr cryptors.Trace) {
		traces = append(traces, tr)
	})))
	require.NoError(t, m.SetRotors("AAA"))
	assert.Equal(t, "BDZGO", convert(t, m, "AAAAA"))

	require.Len(t, traces, 5)
	first := traces[0]
	assert.Equal(t, "AAB", first.Positions)
	assert.Equal(t, 'A', first.Input)
	assert.Equal(t, 'B', first.Output)
	// Plugboard, three rotors forward, reflector and three rotors back.
	require.Len(t, first.Path, 1+3+4)
	assert.Equal(t, 'A', first.Path[0], "empty plugboard")
	assert.Equal(t, 'B', first.Path[len(first.Path)-1])
	assert.Equal(t, "AAF", traces[4].Positions)
}

func ExampleMachine_ConvertString() {
	a := alphabet.Default()
	var cat []rotor.Rotor
	for _, d := range enigmaI {
		p, _ := permutator.New(d.cycles, a)
		switch d.kind {
		case "M":
			r, _ := rotor.NewMoving(d.name, p, d.notches)
			cat = append(cat, r)
		case "N":
			r, _ := rotor.NewFixed(d.name, p)
			cat = append(cat, r)
		default:
			r, _ := rotor.NewReflector(d.name, p)
			cat = append(cat, r)
		}
	}
	m, _ := machine.New(a, 4, 3, cat)
	_ = m.InsertRotors([]string{"B", "I", "II", "III"})
	_ = m.SetRotors("AAA")
	out, _ := m.ConvertString("HELLOWORLD")
	fmt.Println(out, m.Positions())
	// Output: ILBDAAMTAZ AAK
}
