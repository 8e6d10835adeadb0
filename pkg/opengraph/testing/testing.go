// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package testing provides HTTP mock responders serving documents
// from a test-fixtures folder.
package testing

import (
	"errors"
	"net/http"
	"os"
	"path"

	"github.com/jarcoal/httpmock"
)

// ReadFixture returns the content of a file in test-fixtures.
// It panics when the file can't be read.
func ReadFixture(name string) []byte {
	data, err := os.ReadFile(path.Join("test-fixtures", name))
	if err != nil {
		panic(err)
	}
	return data
}

// NewContentResponder returns a mock response for a fixture file, with extra headers.
func NewContentResponder(status int, headers map[string]string, name string) httpmock.Responder {
	return NewBytesResponder(status, headers, ReadFixture(name))
}

// NewBytesResponder returns a mock response with the given body and headers.
func NewBytesResponder(status int, headers map[string]string, data []byte) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		rsp := httpmock.NewBytesResponse(status, data)
		for k, v := range headers {
			rsp.Header.Set(k, v)
		}
		rsp.Request = req
		return rsp, nil
	}
}

// NewHTMLResponder returns a mock response with an HTML content-type.
// An empty charset leaves the content-type without parameter.
func NewHTMLResponder(status int, name, charset string) httpmock.Responder {
	ct := "text/html"
	if charset != "" {
		ct += "; charset=" + charset
	}
	return NewContentResponder(status, map[string]string{"content-type": ct}, name)
}

type errReader int

func (errReader) Read([]byte) (n int, err error) {
	return 0, errors.New("read error")
}

func (errReader) Close() error {
	return nil
}

// NewIOErrorResponder returns a mock response with a faulty body.
func NewIOErrorResponder(status int, headers map[string]string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		rsp := httpmock.NewBytesResponse(status, []byte{})
		for k, v := range headers {
			rsp.Header.Set(k, v)
		}
		rsp.Request = req
		rsp.Body = errReader(0)
		return rsp, nil
	}
}
