package config

import (
	"strings"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/bgallie/enigma/cryptors/permutator"
)

// Settings is a parsed settings line.
type Settings struct {
	Rotors    []string // Rotors[0] names the reflector.
	Positions string
	Rings     string // Empty when the line gives no ring settings.
	Plugboard string // Cycle notation; empty for no plugboard.
}

// ParseSettings splits a settings line for a machine with numRotors slots:
//
//	* B Beta III IV I AXLE [RING] [(HQ) (EX) (IP) (TR) (BY)]
//
// The token after the positions is the ring setting unless it holds a
// '('; everything from there on is the plugboard.
func ParseSettings(line string, numRotors int) (*Settings, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != string(cryptors.SettingsMark) {
		return nil, cryptors.Configf("settings", "settings line must begin with %q", cryptors.SettingsMark)
	}
	if len(fields) < numRotors+2 {
		return nil, cryptors.Configf("settings", "settings line needs at least %d fields, found %d", numRotors+2, len(fields))
	}

	s := Settings{
		Rotors:    fields[1 : numRotors+1],
		Positions: fields[numRotors+1],
	}
	rest := fields[numRotors+2:]
	if len(rest) > 0 && !strings.ContainsRune(rest[0], cryptors.CycleOpen) {
		s.Rings, rest = rest[0], rest[1:]
	}
	s.Plugboard = strings.Join(rest, " ")

	return &s, nil
}

// Apply inserts the rotors, sets their positions and rings and installs
// the plugboard.  After a failed Apply the machine must be set up again
// before it is used.
func (s *Settings) Apply(m *machine.Machine) error {
	if err := m.InsertRotors(s.Rotors); err != nil {
		return err
	}

	var err error
	if s.Rings != "" {
		err = m.SetRotorsRing(s.Positions, s.Rings)
	} else {
		err = m.SetRotors(s.Positions)
	}
	if err != nil {
		return err
	}

	plugboard, err := permutator.New(s.Plugboard, m.Alphabet())
	if err != nil {
		return err
	}
	return m.SetPlugboard(plugboard)
}

// ApplySettings parses line and applies it to m.
func ApplySettings(m *machine.Machine, line string) error {
	s, err := ParseSettings(line, m.NumRotors())
	if err != nil {
		return err
	}
	return s.Apply(m)
}
