// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Opengraph parses and generates Open Graph metadata.
package main

import (
	"fmt"
	"os"

	"codeberg.org/readeck/opengraph/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err) //nolint:errcheck
		os.Exit(1)
	}
}
