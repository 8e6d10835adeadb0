// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package opengraph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotHTML is returned when a fetched resource is not an HTML document.
var ErrNotHTML = errors.New("not an HTML document")

// maxBodySize is the maximum number of bytes read from a response.
const maxBodySize = 8 << 20

// sniffSize is the number of bytes used for content detection.
const sniffSize = 3072

// StatusError is returned by [ParseURL] when the server responds
// with a non 2xx status.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.Status)
}

// StatusCode returns the HTTP status of the response.
func (e *StatusError) StatusCode() int {
	return e.Status
}

// Fetch builds and performs a GET request to a given URL.
func Fetch(ctx context.Context, client *http.Client, src string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}

	return client.Do(req)
}

// ParseURL fetches a page and returns its Open Graph data.
//
// The document charset comes from the Content-Type header or, when
// missing, from the document itself.
func ParseURL(ctx context.Context, client *http.Client, src string) (*Data, error) {
	rsp, err := Fetch(ctx, client, src)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close() //nolint:errcheck

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		return nil, &StatusError{URL: src, Status: rsp.StatusCode}
	}

	return parseResponse(rsp)
}

func parseResponse(rsp *http.Response) (*Data, error) {
	body := io.LimitReader(rsp.Body, maxBodySize)

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]

	contentType := rsp.Header.Get("Content-Type")
	if !isHTML(contentType, head) {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, contentType)
	}

	r, err := charset.NewReader(io.MultiReader(bytes.NewReader(head), body), contentType)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return ParseNode(doc), nil
}

// isHTML checks the response content type. Without one, the content is
// sniffed and any text format is accepted.
func isHTML(contentType string, head []byte) bool {
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return false
		}
		return mt == "text/html" || mt == "application/xhtml+xml"
	}

	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
