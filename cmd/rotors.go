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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bgallie/enigma/config"
)

// rotorsCmd represents the rotors command
var rotorsCmd = &cobra.Command{
	Use:   "rotors",
	Short: "List the rotors of the machine",
	Long:  `List the alphabet, slots, pawls and every rotor of the configured machine.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger()
		defer log.Sync()
		d := loadDescription(log)
		// Building checks the description even though only it is printed.
		_, err := d.Build()
		cobra.CheckErr(err)
		cobra.CheckErr(listRotors(os.Stdout, d))
	},
}

func init() {
	rootCmd.AddCommand(rotorsCmd)
}

func listRotors(w io.Writer, d *config.Description) error {
	fmt.Fprintf(w, "Alphabet: %s\nSlots: %d\nPawls: %d\n\n", d.Alphabet, d.Slots, d.Pawls)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tNOTCHES\tCYCLES")
	for _, r := range d.Rotors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Type, r.Notches, r.Cycles)
	}
	return tw.Flush()
}
