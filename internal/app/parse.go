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
	"log/slog"
	"net/url"
	"strings"

	"github.com/cristalhq/acmd"
	"gopkg.in/yaml.v3"

	"codeberg.org/readeck/opengraph/configs"
	"codeberg.org/readeck/opengraph/internal/httpclient"
	"codeberg.org/readeck/opengraph/pkg/opengraph"
)

func init() {
	commands = append(commands, acmd.Command{
		Name:        "parse",
		Description: "Extract the Open Graph data of a document",
		ExecFunc:    runParse,
	})
}

func runParse(ctx context.Context, args []string) error {
	var charset, format string

	var flags appFlags
	fs := flags.Flags()
	// nolint: errcheck
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: parse [arguments...] SOURCE")
		fmt.Fprintln(fs.Output(), "  SOURCE")
		fmt.Fprintln(fs.Output(), "    \tfile path, http(s) URL or \"-\" for standard input")
		fs.PrintDefaults()
	}
	fs.StringVar(&charset, "charset", "", "document charset (files and standard input only)")
	fs.StringVar(&format, "format", "json", "output format (json or yaml)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	src := strings.TrimSpace(fs.Arg(0))
	if src == "" {
		return errors.New("source is required")
	}
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q", format)
	}

	if err := appPreRun(&flags); err != nil {
		return err
	}

	if charset == "" {
		charset = configs.Config.Fetch.Charset
	}

	d, err := parseSource(ctx, src, charset)
	if err != nil {
		return err
	}

	if !d.IsValid() {
		slog.Warn("document is missing required properties",
			slog.String("source", src),
			slog.Bool("title", d.Title != ""),
			slog.Bool("type", d.Type != ""),
			slog.Bool("url", d.URL != ""),
			slog.Bool("image", d.FirstImageURL() != ""),
		)
	}

	return writeData(stdout, d, format)
}

func parseSource(ctx context.Context, src, charset string) (*opengraph.Data, error) {
	if src == "-" {
		return opengraph.ParseReader(stdin, opengraph.WithCharset(charset))
	}

	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		slog.Debug("fetching document", slog.String("url", src))
		return opengraph.ParseURL(ctx, httpclient.New(), src)
	}

	return opengraph.ParseFile(src, opengraph.WithCharset(charset))
}

func writeData(w io.Writer, d *opengraph.Data, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
