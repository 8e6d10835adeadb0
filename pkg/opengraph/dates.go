// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package opengraph

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseTime parses a date property (article:published_time, book:release_date...).
//
// Date properties are stored as they appear in the document. This function
// gives a best-effort structured view of them. Values without a timezone are
// read as UTC, so a date-only value is midnight UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}
