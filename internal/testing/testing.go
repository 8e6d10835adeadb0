// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package testing runs requests against the API router and checks
// the responses. Outgoing fetches are served by an httpmock transport.
package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/jarcoal/httpmock"
	"github.com/kinbiko/jsonassert"
	"github.com/stretchr/testify/require"

	"codeberg.org/readeck/opengraph/configs"
	"codeberg.org/readeck/opengraph/internal/httpclient"
	"codeberg.org/readeck/opengraph/internal/server"
)

const testHost = "opengraph.example.org"

// TestApp holds a server whose fetch client uses Mock.
type TestApp struct {
	Srv  *server.Server
	Mock *httpmock.MockTransport
}

// NewTestApp returns a [TestApp] running with the default configuration.
// The setup functions can change the configuration before the
// server is created. It's restored when the test ends.
func NewTestApp(t *testing.T, setup ...func()) *TestApp {
	t.Helper()

	configs.Reset()
	configs.Config.Main.LogLevel = slog.LevelError
	configs.Config.Fetch.DeniedIPs = nil
	t.Cleanup(configs.Reset)

	for _, f := range setup {
		f()
	}
	require.NoError(t, configs.Validate())

	client := httpclient.New()
	mt := httpmock.NewMockTransport()
	client.Transport.(*httpclient.Transport).RoundTripper = mt

	return &TestApp{
		Srv:  server.New(client),
		Mock: mt,
	}
}

// Client returns a [Client] sending requests to the app.
func (ta *TestApp) Client() *Client {
	return &Client{app: ta}
}

// Client sends requests to the server router.
type Client struct {
	app *TestApp
}

// NewRequest creates a new [http.Request] for the test host.
//
// A body of type [io.Reader], []byte, string or nil is sent as is.
// Anything else is sent as JSON.
func (c *Client) NewRequest(method, target string, body any) (*http.Request, error) {
	var b io.Reader
	isJSON := false

	switch v := body.(type) {
	case nil:
	case io.Reader:
		b = v
	case []byte:
		b = bytes.NewReader(v)
	case string:
		b = strings.NewReader(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		b = bytes.NewReader(data)
		isJSON = true
	}

	req := httptest.NewRequest(method, target, b)
	req.Host = testHost
	req.URL.Host = testHost
	req.URL.Scheme = "http"
	if isJSON {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Request runs the request and returns its [Response].
func (c *Client) Request(t *testing.T, req *http.Request) *Response {
	t.Helper()

	w := httptest.NewRecorder()
	c.app.Srv.ServeHTTP(w, req)

	rsp, err := NewResponse(w)
	require.NoError(t, err)
	return rsp
}

// RT returns a test function that runs a [RequestTest] built
// with the given options.
func (c *Client) RT(options ...TestOption) func(t *testing.T) {
	return func(t *testing.T) {
		c.Run(t, RT(options...))
	}
}

// Run runs the request of a [RequestTest] in a subtest and
// performs its assertions.
func (c *Client) Run(t *testing.T, rt *RequestTest) bool {
	return t.Run(rt.Name, func(t *testing.T) {
		req, err := c.NewRequest(rt.Method, rt.Target, rt.Body)
		require.NoError(t, err)
		for k, v := range rt.Header {
			req.Header[k] = v
		}

		rsp := c.Request(t, req)
		for _, f := range rt.Assert {
			f(t, rsp)
		}
	})
}

type (
	// TestOption is an option for [RequestTest].
	TestOption func(rt *RequestTest)

	// RspAssertion is a [Response] assertion function.
	RspAssertion func(t *testing.T, rsp *Response)

	// RequestTest describes a request and the assertions
	// on its response.
	RequestTest struct {
		Name   string
		Method string
		Target string
		Body   any
		Header http.Header
		Assert []RspAssertion
	}
)

// RT creates a new [RequestTest]. The default method is GET and
// the default name is made of the method and target.
func RT(options ...TestOption) *RequestTest {
	rt := &RequestTest{
		Method: http.MethodGet,
		Header: http.Header{},
	}
	for _, f := range options {
		f(rt)
	}

	if rt.Name == "" {
		rt.Name = rt.Method + " " + rt.Target
	}
	return rt
}

// WithName sets the test name.
func WithName(name string) TestOption {
	return func(rt *RequestTest) { rt.Name = name }
}

// WithMethod sets the request method.
func WithMethod(method string) TestOption {
	return func(rt *RequestTest) { rt.Method = method }
}

// WithTarget sets the request target (path and query).
func WithTarget(target string) TestOption {
	return func(rt *RequestTest) { rt.Target = target }
}

// WithBody sets the request body.
func WithBody(body any) TestOption {
	return func(rt *RequestTest) { rt.Body = body }
}

// WithHeader adds a request header.
func WithHeader(name, value string) TestOption {
	return func(rt *RequestTest) { rt.Header.Add(name, value) }
}

// WithAssert adds an assertion.
func WithAssert(assertion RspAssertion) TestOption {
	return func(rt *RequestTest) { rt.Assert = append(rt.Assert, assertion) }
}

// AssertStatus checks the response status.
func AssertStatus(status int) TestOption {
	return WithAssert(func(t *testing.T, rsp *Response) {
		require.Equal(t, status, rsp.StatusCode)
	})
}

// AssertHeader checks a response header.
func AssertHeader(name, value string) TestOption {
	return WithAssert(func(t *testing.T, rsp *Response) {
		require.Equal(t, value, rsp.Header.Get(name))
	})
}

// AssertContains checks that the response body contains the expected string.
func AssertContains(expected string) TestOption {
	return WithAssert(func(t *testing.T, rsp *Response) {
		require.Contains(t, string(rsp.Body), expected)
	})
}

// AssertJSON checks the response body with jsonassert.
// "<<PRESENCE>>" matches any value.
func AssertJSON(expected string) TestOption {
	return WithAssert(func(t *testing.T, rsp *Response) {
		jsonassert.New(t).Assertf(string(rsp.Body), "%s", expected)
		if t.Failed() {
			t.Fatalf("Received JSON: %s", rsp.Body)
		}
	})
}

// Response is a recorded response. HTML bodies are parsed.
type Response struct {
	*http.Response
	Body []byte
	HTML *html.Node
}

// NewResponse reads the recorded response.
func NewResponse(rec *httptest.ResponseRecorder) (*Response, error) {
	r := &Response{Response: rec.Result()} //nolint:bodyclose

	var err error
	if r.Body, err = io.ReadAll(r.Response.Body); err != nil {
		return nil, err
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/html") {
		if r.HTML, err = html.Parse(bytes.NewReader(r.Body)); err != nil {
			return nil, err
		}
	}
	return r, nil
}
