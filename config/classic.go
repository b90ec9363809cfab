package config

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/bgallie/enigma/cryptors"
)

// ParseMachine reads a description in the classic text format:
//
//	ABCDEFGHIJKLMNOPQRSTUVWXYZ
//	5 3
//	I MQ (AELTPHQXRU) (BKNW) (CMOY) (DFG) (IV) (JZ) (S)
//	Beta N (ALBEVFCYODJWUGNMQTZSKPR) (HIX)
//	B R (AE) (BN) (CK) (DQ) (FU) (GY) (HW) (IJ) (LO) (MP)
//	    (RX) (SZ) (TV)
//
// The alphabet, the number of slots and the number of pawls are followed
// by the rotors.  A rotor is its name, its type (M followed by the notches,
// N or R) and the cycles of its permutation, which may continue on the
// following lines.
func ParseMachine(r io.Reader) (*Description, error) {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	var tokens []string
	for s.Scan() {
		tokens = append(tokens, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	t := tokenizer{tokens: tokens}
	var d Description
	var err error

	d.Alphabet, err = t.next()
	if err != nil {
		return nil, err
	}
	if d.Slots, err = t.nextInt("number of rotors"); err != nil {
		return nil, err
	}
	if d.Pawls, err = t.nextInt("number of pawls"); err != nil {
		return nil, err
	}

	for t.more() {
		rs, err := t.nextRotor()
		if err != nil {
			return nil, err
		}
		d.Rotors = append(d.Rotors, rs)
	}

	return &d, nil
}

type tokenizer struct {
	tokens []string
	pos    int
}

func (t *tokenizer) more() bool {
	return t.pos < len(t.tokens)
}

func (t *tokenizer) next() (string, error) {
	if !t.more() {
		return "", cryptors.Configf("configuration", "configuration file truncated")
	}
	t.pos++
	return t.tokens[t.pos-1], nil
}

func (t *tokenizer) nextInt(what string) (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, cryptors.Configf("configuration", "%s must be an integer, not %q", what, tok)
	}
	return n, nil
}

// isCycle reports whether tok is one or more parenthesized cycles.
func isCycle(tok string) bool {
	return strings.HasPrefix(tok, string(cryptors.CycleOpen)) &&
		strings.HasSuffix(tok, string(cryptors.CycleClose))
}

func (t *tokenizer) nextRotor() (RotorSpec, error) {
	var rs RotorSpec
	var err error

	if rs.Name, err = t.next(); err != nil {
		return rs, err
	}
	typ, err := t.next()
	if err != nil {
		return rs, cryptors.Configf("configuration", "bad rotor description for %s", rs.Name)
	}

	switch typ[0] {
	case 'M':
		rs.Type, rs.Notches = Moving, typ[1:]
	case 'N':
		rs.Type = Fixed
	case 'R':
		rs.Type = Reflector
	default:
		return rs, cryptors.Configf("configuration", "invalid type %q for rotor %s", typ, rs.Name)
	}
	if rs.Type != Moving && len(typ) > 1 {
		return rs, cryptors.Configf("configuration", "invalid type %q for rotor %s", typ, rs.Name)
	}

	var cycles []string
	for t.more() && isCycle(t.tokens[t.pos]) {
		cycles = append(cycles, t.tokens[t.pos])
		t.pos++
	}
	rs.Cycles = strings.Join(cycles, " ")

	return rs, nil
}
