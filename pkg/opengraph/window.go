// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package opengraph

import (
	"iter"
	"strings"
)

// window is a base tag of a repeatable property ("og:image", "og:video"...)
// and the attribute tags that belong to it.
type window struct {
	base  Tag
	attrs tagList
}

// windows iterates over the structured elements of a namespace group.
//
// The protocol gives no way to bind an attribute tag ("og:image:width") to its
// element other than the document order. A base tag is either the bare
// namespace or "<namespace>:url". Its attributes are the "<namespace>:" tags
// found after it and before the next base tag. Tags located before the first
// base tag are dropped.
func windows(group tagList, ns string) iter.Seq[window] {
	prefix := ns + ":"
	urlProperty := prefix + "url"
	isBase := func(t Tag) bool {
		return t.Property == ns || t.Property == urlProperty
	}

	return func(yield func(window) bool) {
		start := -1
		emit := func(end int) bool {
			if start < 0 {
				return true
			}
			w := window{base: group[start]}
			for _, t := range group[start+1 : end] {
				if strings.HasPrefix(t.Property, prefix) {
					w.attrs = append(w.attrs, t)
				}
			}
			return yield(w)
		}

		for i, t := range group {
			if !isBase(t) {
				continue
			}
			if !emit(i) {
				return
			}
			start = i
		}
		emit(len(group))
	}
}
