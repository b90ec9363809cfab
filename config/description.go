// Package config reads machine descriptions and message streams and turns
// them into calls on an enigma machine.
//
// A machine description names the alphabet, the number of rotor slots and
// pawls, and the catalog of rotors.  It is read from the classic text
// format, from YAML (.yaml, .yml) or from TOML (.toml).  The message stream
// is a sequence of settings lines, which begin with '*', and message lines.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/alphabet"
	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/bgallie/enigma/cryptors/permutator"
	"github.com/bgallie/enigma/cryptors/rotor"
)

// Rotor types.
const (
	Moving    = "moving"
	Fixed     = "fixed"
	Reflector = "reflector"
)

//go:embed builtin.conf
var builtinConf []byte

// Description describes a machine and its catalog of rotors.
type Description struct {
	Alphabet string      `yaml:"alphabet" toml:"alphabet"`
	Slots    int         `yaml:"slots" toml:"slots"`
	Pawls    int         `yaml:"pawls" toml:"pawls"`
	Rotors   []RotorSpec `yaml:"rotors" toml:"rotors"`
}

// RotorSpec describes one rotor of the catalog.
type RotorSpec struct {
	Name    string `yaml:"name" toml:"name"`
	Type    string `yaml:"type" toml:"type"`
	Notches string `yaml:"notches,omitempty" toml:"notches,omitempty"`
	Cycles  string `yaml:"cycles" toml:"cycles"`
}

// Builtin returns the description compiled into the program: the rotors
// I to VIII, the fixed rotors Beta and Gamma and the thin reflectors B and
// C of the naval M4, in 5 slots with 3 pawls.
func Builtin() (*Description, error) {
	return ParseMachine(bytes.NewReader(builtinConf))
}

// Load reads the description in the file named path.  The format is chosen
// by the file's extension.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var d *Description
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		d, err = FromYAML(data)
	case ".toml":
		d, err = FromTOML(data)
	default:
		d, err = ParseMachine(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// FromYAML decodes a YAML description.  Unknown keys are rejected.
func FromYAML(data []byte) (*Description, error) {
	var d Description
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, &cryptors.ConfigError{Op: "configuration", Msg: "invalid YAML description", Err: err}
	}
	return &d, nil
}

// ToYAML encodes d as YAML.
func (d *Description) ToYAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// FromTOML decodes a TOML description.  Unknown keys are rejected.
func FromTOML(data []byte) (*Description, error) {
	var d Description
	md, err := toml.Decode(string(data), &d)
	if err != nil {
		return nil, &cryptors.ConfigError{Op: "configuration", Msg: "invalid TOML description", Err: err}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, cryptors.Configf("configuration", "unknown key %s", undecoded[0])
	}
	return &d, nil
}

// ToTOML encodes d as TOML.
func (d *Description) ToTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Build creates the machine d describes.  Every rotor that cannot be built
// is reported, not just the first.
func (d *Description) Build(opts ...machine.Option) (*machine.Machine, error) {
	a, err := alphabet.New(d.Alphabet)
	if err != nil {
		return nil, err
	}

	var errs error
	catalog := make([]rotor.Rotor, 0, len(d.Rotors))
	for i, rs := range d.Rotors {
		r, err := rs.Build(a)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("rotor %d (%s): %w", i+1, rs.Name, err))
			continue
		}
		catalog = append(catalog, r)
	}
	if errs != nil {
		return nil, errs
	}

	return machine.New(a, d.Slots, d.Pawls, catalog, opts...)
}

// Build creates the rotor rs describes over alphabet a.
func (rs RotorSpec) Build(a *alphabet.Alphabet) (rotor.Rotor, error) {
	perm, err := permutator.New(rs.Cycles, a)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(rs.Type) {
	case Moving:
		return rotor.NewMoving(rs.Name, perm, rs.Notches)
	case Fixed, "nonmoving":
		if rs.Notches != "" {
			return nil, cryptors.Configf("rotor", "fixed rotor %s cannot have notches", rs.Name)
		}
		return rotor.NewFixed(rs.Name, perm)
	case Reflector:
		if rs.Notches != "" {
			return nil, cryptors.Configf("rotor", "reflector %s cannot have notches", rs.Name)
		}
		return rotor.NewReflector(rs.Name, perm)
	default:
		return nil, cryptors.Configf("rotor", "invalid rotor type %q for %s", rs.Type, rs.Name)
	}
}
