// This is free and unencumbered software released into the public domain.
// See the UNLICENSE file for details.

// Package main - enigma simulates the Enigma rotor cipher machines: the
// rotors, their ring settings, the reflector and the plugboard, stepping
// the rotors exactly as the machine did, double step included.
package main

import "github.com/bgallie/enigma/cmd"

func main() {
	cmd.Execute()
}
