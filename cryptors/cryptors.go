// Package cryptors holds the pieces shared by the parts of the enigma
// machine: the error kinds reported by the engine and the trace record
// handed to a caller supplied Tracer.
package cryptors

import (
	"errors"
	"fmt"
)

const (
	// CycleOpen and CycleClose delimit one cycle in cycle notation.
	CycleOpen  = '('
	CycleClose = ')'
	// SettingsMark introduces a settings line in the message stream.
	SettingsMark = '*'
)

var (
	// ErrConfig is matched (errors.Is) by every *ConfigError.
	ErrConfig = errors.New("enigma: configuration error")
	// ErrLookup is matched (errors.Is) by every *LookupError.
	ErrLookup = errors.New("enigma: symbol not in alphabet")
)

// ConfigError reports a malformed alphabet, permutation, rotor, machine or
// settings line.  Op names the operation that rejected its input.
type ConfigError struct {
	Op  string
	Msg string
	Err error
}

// Configf builds a *ConfigError for op with a formatted message.
func Configf(op, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("enigma: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("enigma: %s: %s", e.Op, e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// LookupError reports a symbol that is not a member of the alphabet.
type LookupError struct {
	Symbol rune
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("enigma: symbol %q not in alphabet", e.Symbol)
}

func (e *LookupError) Is(target error) bool { return target == ErrLookup }

// Trace describes the conversion of one symbol: the window positions after
// stepping, the symbol entered, every symbol the signal became on its way
// through the plugboard and the rotors, and the symbol that came out.
type Trace struct {
	Positions string
	Input     rune
	Path      []rune
	Output    rune
}

// Tracer receives a Trace for each symbol a machine converts.
type Tracer interface {
	Trace(Trace)
}

// TracerFunc adapts an ordinary function to the Tracer interface.
type TracerFunc func(Trace)

func (f TracerFunc) Trace(t Trace) { f(t) }
