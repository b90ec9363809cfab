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
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bgallie/enigma/config"
	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/machine"
)

var (
	cfgFile        string
	inputFileName  string
	outputFileName string
	GitCommit      string = "not set"
	GitBranch      string = "not set"
	GitState       string = "not set"
	GitSummary     string = "not set"
	BuildDate      string = "not set"
	Version        string = "dev"
)

const (
	enigmaConfigFile = ".enigma"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "enigma",
	Short: "An Enigma rotor machine simulator",
	Long: `enigma encrypts and decrypts messages the way the Enigma rotor machines did.

The machine is described by a configuration file (--machine) giving the
alphabet, the number of rotor slots and pawls and the available rotors.
Without one, the rotors of the naval M4 are used.  The input is a series
of settings lines, such as

    * B Beta III IV I AXLE (HQ) (EX) (IP) (TR) (BY)

each followed by the messages to convert with those settings.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetVersionTemplate(fmt.Sprintf("enigma version %s\n\tcommit: %s (%s, %s)\n\tsummary: %s\n\tbuilt: %s\n",
		Version, GitCommit, GitBranch, GitState, GitSummary, BuildDate))
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.enigma.yaml)")
	rootCmd.PersistentFlags().StringP("machine", "m", "", "the file describing the machine to use instead of the builtin machine.")
	rootCmd.PersistentFlags().StringVarP(&inputFileName, "inputFile", "i", "-", "Name of the file containing the settings and messages.")
	rootCmd.PersistentFlags().StringVarP(&outputFileName, "outputFile", "o", "", "Name of the file to receive the converted messages.")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "trace every symbol through the machine on stderr")
	rootCmd.PersistentFlags().Bool("debug", false, "log diagnostic messages on stderr")
	rootCmd.PersistentFlags().IntP("group", "g", config.DefaultGroup, "symbols per output group (0 for none)")
	for _, key := range []string{"machine", "verbose", "debug", "group"} {
		cobra.CheckErr(viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".enigma" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(enigmaConfigFile)
	}

	viper.SetEnvPrefix("ENIGMA")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns the logger for diagnostics: a development logger when
// debugging, otherwise one that discards everything.
func newLogger() *zap.Logger {
	if !viper.GetBool("debug") {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	cobra.CheckErr(err)
	return logger
}

// loadDescription returns the machine description named by the "machine"
// key, or the builtin description.
func loadDescription(log *zap.Logger) *config.Description {
	var d *config.Description
	var err error
	name := viper.GetString("machine")
	if name == "" {
		d, err = config.Builtin()
		name = "builtin"
	} else {
		d, err = config.Load(name)
	}
	cobra.CheckErr(err)
	log.Debug("machine description loaded",
		zap.String("source", name),
		zap.Int("slots", d.Slots),
		zap.Int("pawls", d.Pawls),
		zap.Int("rotors", len(d.Rotors)))
	return d
}

// buildMachine builds the configured machine, tracing to stderr when
// verbose.
func buildMachine(log *zap.Logger) *machine.Machine {
	var opts []machine.Option
	if viper.GetBool("verbose") {
		opts = append(opts, machine.WithTracer(traceWriter(os.Stderr)))
	}
	m, err := loadDescription(log).Build(opts...)
	cobra.CheckErr(err)
	return m
}

// traceWriter returns a tracer that writes one line per symbol to w:
//
//	[AAAB] A -> A -> N -> ... -> B
//
// giving the window positions, the symbol entered, the symbol after the
// plugboard and after each rotor, and the symbol that came out.
func traceWriter(w io.Writer) cryptors.Tracer {
	return cryptors.TracerFunc(func(t cryptors.Trace) {
		var sb strings.Builder
		fmt.Fprintf(&sb, "[%s] %c -> ", t.Positions, t.Input)
		for _, r := range t.Path {
			fmt.Fprintf(&sb, "%c -> ", r)
		}
		fmt.Fprintf(&sb, "%c\n", t.Output)
		io.WriteString(w, sb.String())
	})
}

/*
	getInputAndOutputFiles will return the input and output files to use while
	encrypting/decrypting data.  If input and/or output files names were given,
	then those files will be opened.  Otherwise stdin and stdout are used.
*/
func getInputAndOutputFiles() (*os.File, *os.File) {
	var fin *os.File
	var err error

	if len(inputFileName) > 0 && inputFileName != "-" {
		fin, err = os.Open(inputFileName)
		cobra.CheckErr(err)
	} else {
		fin = os.Stdin
	}

	var fout *os.File

	if len(outputFileName) > 0 && outputFileName != "-" {
		fout, err = os.Create(outputFileName)
		cobra.CheckErr(err)
	} else {
		fout = os.Stdout
	}

	return fin, fout
}
