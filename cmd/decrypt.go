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
	"github.com/spf13/cobra"
)

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt messages encrypted by the Enigma machine.",
	Long: `Decrypt the messages read from the input file (or stdin).  Give the same
settings lines that were used to encrypt them.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		convert()
	},
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:        "decode",
	Short:      "Decode messages encoded by the Enigma machine.",
	Long:       `[DEPRECATED] Decode messages encoded by the Enigma machine.`,
	Deprecated: "use \"decrypt\" instead.",
	Args:       cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		convert()
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(decodeCmd)
}
