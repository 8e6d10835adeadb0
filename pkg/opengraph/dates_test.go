// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package opengraph_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"codeberg.org/readeck/opengraph/pkg/opengraph"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Time
		ok       bool
	}{
		{"2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-15T10:30:00+02:00", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), true},
		{"1996-06-07", time.Date(1996, 6, 7, 0, 0, 0, 0, time.UTC), true},
		{" 2020-01-01 ", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-15 10:30:00", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"   ", time.Time{}, false},
		{"not a date", time.Time{}, false},
	}

	for _, test := range tests {
		t.Run(test.value, func(t *testing.T) {
			assert := require.New(t)
			res, ok := opengraph.ParseTime(test.value)
			assert.Equal(test.ok, ok)
			if test.ok {
				assert.True(test.expected.Equal(res), "%s != %s", test.expected, res)
			} else {
				assert.True(res.IsZero())
			}
		})
	}
}
