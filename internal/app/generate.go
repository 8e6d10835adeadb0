// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cristalhq/acmd"

	"codeberg.org/readeck/opengraph/pkg/opengraph"
)

func init() {
	commands = append(commands, acmd.Command{
		Name:        "generate",
		Description: "Print the meta tags of Open Graph data given as JSON",
		ExecFunc:    runGenerate,
	})
}

func runGenerate(_ context.Context, args []string) error {
	var flags appFlags
	fs := flags.Flags()
	// nolint: errcheck
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: generate [arguments...] [FILE]")
		fmt.Fprintln(fs.Output(), "  FILE")
		fmt.Fprintln(fs.Output(), "    \tJSON file, standard input when empty or \"-\"")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := appPreRun(&flags); err != nil {
		return err
	}

	var r io.Reader = stdin
	if src := strings.TrimSpace(fs.Arg(0)); src != "" && src != "-" {
		fd, err := os.Open(src)
		if err != nil {
			return err
		}
		defer fd.Close() //nolint:errcheck
		r = fd
	}

	var d opengraph.Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	block := opengraph.Generate(&d)
	if block == "" {
		return nil
	}

	_, err := fmt.Fprintln(stdout, block)
	return err
}
