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
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/bgallie/enigma/config"
)

var wg sync.WaitGroup

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt messages with the Enigma machine",
	Long: `Encrypt the messages read from the input file (or stdin) using the
settings lines that precede them.  The output is printed in groups of five.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		convert()
	},
}

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:        "encode",
	Short:      "Encode messages with the Enigma machine",
	Long:       `[DEPRECATED] Encode messages with the Enigma machine.`,
	Deprecated: "use \"encrypt\" instead.",
	Args:       cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		convert()
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(encodeCmd)
}

// convert runs the input through the machine.  Encryption and decryption
// are the same operation on an Enigma, so both commands end up here.
func convert() {
	log := newLogger()
	defer log.Sync()
	p := &config.Processor{
		Machine: buildMachine(log),
		Group:   viper.GetInt("group"),
		Logger:  log,
	}
	fin, fout := getInputAndOutputFiles()
	defer fout.Close()
	if fin == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Enter a settings line followed by the messages; end with ^D.")
	}
	_, err := io.Copy(fout, cipherHelper(p, fin))
	checkError(err)
	wg.Wait()
}

// cipherHelper runs the message stream from rdr through the processor in its
// own goroutine.  The converted text is read from the returned PipeReader;
// a processing error is returned by its Read once the converted text that
// preceded the error has been read.
func cipherHelper(p *config.Processor, rdr io.Reader) *io.PipeReader {
	rRdr, rWrtr := io.Pipe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		rWrtr.CloseWithError(p.Run(rdr, rWrtr))
	}()
	return rRdr
}

// checkError checks for error that are not io.EOF and io.ErrUnexpectedEOF and reports them.
func checkError(e error) {
	if e != io.EOF && e != io.ErrUnexpectedEOF {
		cobra.CheckErr(e)
	}
}
