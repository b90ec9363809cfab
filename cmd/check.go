/*
Copyright © 2021 Billy G. Allie <bill.allie@defiant.mug.org>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgallie/enigma/config"
	"github.com/bgallie/enigma/cryptors/machine"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check SETTINGS...",
	Short: "Check a settings line against the machine",
	Long: `Apply a settings line to the configured machine and show the resulting
rotors, window positions, ring settings and plugboard.  The leading '*'
may be left out, e.g.

    enigma check B Beta III IV I AXLE "(HQ) (EX)"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger()
		defer log.Sync()
		m, err := loadDescription(log).Build()
		cobra.CheckErr(err)
		line := strings.Join(args, " ")
		if !strings.HasPrefix(line, "*") {
			line = "* " + line
		}
		cobra.CheckErr(config.ApplySettings(m, line))
		showSettings(os.Stdout, m)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func showSettings(w io.Writer, m *machine.Machine) {
	a := m.Alphabet()
	names := make([]string, m.NumRotors())
	var rings, notches []string
	for i := range names {
		r := m.Rotor(i)
		names[i] = r.Name()
		if i > 0 {
			rings = append(rings, string(a.Symbol(r.Ring())))
		}
		if r.Rotates() {
			notches = append(notches, fmt.Sprintf("%s:%s", r.Name(), r.Notches()))
		}
	}
	fmt.Fprintf(w, "Rotors:    %s\n", strings.Join(names, " "))
	fmt.Fprintf(w, "Positions: %s\n", m.Positions())
	fmt.Fprintf(w, "Rings:     %s\n", strings.Join(rings, ""))
	fmt.Fprintf(w, "Notches:   %s\n", strings.Join(notches, " "))
	fmt.Fprintf(w, "Plugboard: %s\n", m.Plugboard())
}
