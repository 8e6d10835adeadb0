// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package app is the command line interface.
package app

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cristalhq/acmd"

	"codeberg.org/readeck/opengraph/configs"
)

var commands = []acmd.Command{}

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// appFlags holds the flags shared by every command.
type appFlags struct {
	ConfigFile string
}

// Flags returns a new [flag.FlagSet] with the common flags.
func (f *appFlags) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.ConfigFile, "config", "", "configuration file path")
	return fs
}

// Run starts the application CLI.
func Run() error {
	return newRunner(nil).Run()
}

// newRunner returns the command runner. When args is nil,
// the process arguments are used.
func newRunner(args []string) *acmd.Runner {
	return acmd.RunnerOf(commands, acmd.Config{
		AppName:        "opengraph",
		AppDescription: "Open Graph metadata parser and generator",
		Version:        configs.Version(),
		Args:           args,
		Output:         stderr,
	})
}

// appPreRun loads the configuration and sets up logging.
func appPreRun(flags *appFlags) error {
	if err := configs.LoadConfiguration(flags.ConfigFile); err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if err := configs.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	initLogger()
	return nil
}
