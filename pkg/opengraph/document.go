// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package opengraph

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/antchfx/htmlquery"
	"github.com/go-shiori/dom"
)

// DefaultCharset is the charset used to read documents when none is given.
const DefaultCharset = "utf-8"

// ErrUnknownCharset is returned when a charset label is not supported.
var ErrUnknownCharset = errors.New("unknown charset")

const metaSelector = "//meta[starts-with(@property, '" + Prefix + "')]"

// metaElement is an [Element] backed by an [html.Node].
type metaElement struct {
	node *html.Node
}

func (e metaElement) Property() string {
	return dom.GetAttribute(e.node, "property")
}

func (e metaElement) Content() string {
	return dom.GetAttribute(e.node, "content")
}

// Elements returns the "og:" meta elements of a document, in document order.
func Elements(doc *html.Node) []Element {
	nodes := htmlquery.Find(doc, metaSelector)
	res := make([]Element, len(nodes))
	for i, n := range nodes {
		res[i] = metaElement{n}
	}
	return res
}

// ParseNode extracts the Open Graph data of a parsed HTML document.
func ParseNode(doc *html.Node) *Data {
	return Parse(Elements(doc))
}

// ParseHTML extracts the Open Graph data of an HTML string.
func ParseHTML(src string) (*Data, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	return ParseNode(doc), nil
}

type options struct {
	charset string
}

// Option is a document reading option.
type Option func(o *options)

// WithCharset sets the charset used to decode a document.
// It accepts any label of the WHATWG encoding standard.
func WithCharset(name string) Option {
	return func(o *options) {
		o.charset = name
	}
}

func newOptions(opts []Option) *options {
	o := &options{charset: DefaultCharset}
	for _, f := range opts {
		f(o)
	}
	if o.charset == "" {
		o.charset = DefaultCharset
	}
	return o
}

// ParseReader reads and parses an HTML document. The content is decoded
// using [DefaultCharset] unless [WithCharset] is given.
func ParseReader(r io.Reader, opts ...Option) (*Data, error) {
	o := newOptions(opts)

	cr, err := charset.NewReaderLabel(o.charset, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharset, o.charset)
	}

	doc, err := html.Parse(cr)
	if err != nil {
		return nil, err
	}
	return ParseNode(doc), nil
}

// ParseFile reads and parses an HTML file.
func ParseFile(name string, opts ...Option) (*Data, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close() //nolint:errcheck

	return ParseReader(fd, opts...)
}
