// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package opengraph reads and writes Open Graph protocol metadata.
//
// Parsing turns the ordered list of "og:" meta tags of a document into a
// [Data] value: singular properties, arrays of images, videos and audios,
// and at most one type-specific object (article, profile, book, music.*,
// video.*). Generating does the opposite and renders a [Data] value as a
// block of meta tags.
//
// See https://ogp.me/ for the protocol itself.
package opengraph

import "strings"

// Prefix is the namespace prefix of every Open Graph property.
const Prefix = "og:"

// Tag is a single Open Graph property, without its "og:" prefix.
type Tag struct {
	Property string `json:"property" yaml:"property"`
	Content  string `json:"content" yaml:"content"`
}

// Namespace returns the part of the property before the first colon,
// or the whole property when it has none.
func (t Tag) Namespace() string {
	ns, _, _ := strings.Cut(t.Property, ":")
	return ns
}

// Element is a read-only view of a meta element whose property
// starts with [Prefix].
type Element interface {
	Property() string
	Content() string
}

// ExtractTags strips the namespace prefix from every element and returns
// the resulting tags, in order.
// The caller guarantees that every element's property starts with [Prefix].
func ExtractTags(elements []Element) []Tag {
	res := make([]Tag, len(elements))
	for i, e := range elements {
		res[i] = Tag{
			Property: e.Property()[len(Prefix):],
			Content:  e.Content(),
		}
	}
	return res
}

// Parse builds a [Data] from a list of elements.
func Parse(elements []Element) *Data {
	return Build(ExtractTags(elements))
}
