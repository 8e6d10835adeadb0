// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package httpclient_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"codeberg.org/readeck/opengraph/configs"
	"codeberg.org/readeck/opengraph/internal/httpclient"
)

type echoResponse struct {
	URL    string
	Method string
	Header http.Header
}

func mockResponder(client *http.Client) func() {
	ot := client.Transport.(*httpclient.Transport).RoundTripper
	mt := httpmock.NewMockTransport()

	mt.RegisterResponder("GET", `=~.*`,
		func(req *http.Request) (*http.Response, error) {
			return httpmock.NewJsonResponse(200, echoResponse{
				URL:    req.URL.String(),
				Method: req.Method,
				Header: req.Header,
			})
		})

	client.Transport.(*httpclient.Transport).RoundTripper = mt

	return func() {
		client.Transport.(*httpclient.Transport).RoundTripper = ot
	}
}

func TestClient(t *testing.T) {
	t.Cleanup(configs.Reset)
	configs.Reset()
	configs.Config.Fetch.DeniedIPs = nil

	t.Run("config", func(t *testing.T) {
		t.Cleanup(configs.Reset)
		assert := require.New(t)

		configs.Config.Fetch.Timeout = configs.Duration(3 * time.Second)
		configs.Config.Fetch.UserAgent = "og-test/1.0"
		configs.Config.Fetch.DeniedIPs = nil

		client := httpclient.New()
		deactivate := mockResponder(client)
		defer deactivate()

		assert.Equal(3*time.Second, client.Timeout)

		rsp, err := client.Get("https://example.net/")
		assert.NoError(err)
		defer rsp.Body.Close() //nolint:errcheck

		var data echoResponse
		assert.NoError(json.NewDecoder(rsp.Body).Decode(&data))
		assert.Equal("og-test/1.0", data.Header.Get("User-Agent"))
	})

	t.Run("denied ip", func(t *testing.T) {
		t.Cleanup(configs.Reset)
		configs.Reset()

		client := httpclient.New()
		deactivate := mockResponder(client)
		defer deactivate()

		_, err := client.Get("http://127.0.0.1:8000/")
		require.ErrorIs(t, err, httpclient.ErrDeniedIP)
		require.ErrorContains(t, err, "ip 127.0.0.1 is blocked by rule 127.0.0.0/8")
	})

	t.Run("redirects", func(t *testing.T) {
		t.Cleanup(configs.Reset)
		configs.Reset()
		configs.Config.Fetch.DeniedIPs = nil
		configs.Config.Fetch.MaxRedirects = 2

		client := httpclient.New()
		mt := httpmock.NewMockTransport()
		mt.RegisterResponder("GET", "https://example.net/loop",
			func(_ *http.Request) (*http.Response, error) {
				rsp := httpmock.NewStringResponse(http.StatusFound, "")
				rsp.Header.Set("Location", "https://example.net/loop")
				return rsp, nil
			})
		client.Transport.(*httpclient.Transport).RoundTripper = mt

		_, err := client.Get("https://example.net/loop")
		require.ErrorContains(t, err, "stopped after 2 redirects")
		require.Equal(t, 2, mt.GetCallCountInfo()["GET https://example.net/loop"])
	})

	t.Run("concurrent TLS requests", func(t *testing.T) {
		t.Cleanup(configs.Reset)
		configs.Reset()
		configs.Config.Fetch.DeniedIPs = nil

		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>")) //nolint:errcheck
		}))
		defer srv.Close()

		client := httpclient.New()
		tr := client.Transport.(*httpclient.Transport).RoundTripper.(*http.Transport)
		tr.TLSClientConfig.RootCAs = srv.Client().Transport.(*http.Transport).TLSClientConfig.RootCAs

		var g errgroup.Group
		for range 20 {
			g.Go(func() error {
				rsp, err := client.Get(srv.URL)
				if err != nil {
					return err
				}
				defer rsp.Body.Close() //nolint:errcheck
				_, err = io.Copy(io.Discard, rsp.Body)
				return err
			})
		}
		require.NoError(t, g.Wait())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		configs.Config.Fetch.DeniedIPs = nil

		t.Run("request", func(t *testing.T) {
			assert := require.New(t)

			client := httpclient.New()
			deactivate := mockResponder(client)
			defer deactivate()

			rsp, err := client.Get("https://example.net/")
			assert.NoError(err)
			defer rsp.Body.Close() //nolint:errcheck

			dec := json.NewDecoder(rsp.Body)
			var data echoResponse
			assert.NoError(dec.Decode(&data))

			assert.Equal("https://example.net/", data.URL)
			assert.Equal("GET", data.Method)
			assert.True(strings.HasPrefix(data.Header.Get("User-Agent"), "opengraph/"))
			assert.Equal("en-US,en;q=0.8", data.Header.Get("Accept-Language"))
		})

		t.Run("SetHeader", func(t *testing.T) {
			assert := require.New(t)

			client := httpclient.New()
			deactivate := mockResponder(client)
			defer deactivate()

			client.Transport.(*httpclient.Transport).SetHeader(func(h http.Header) {
				h.Set("x-test", "abc")
			})

			rsp, err := client.Get("https://example.net/")
			assert.NoError(err)
			defer rsp.Body.Close() //nolint:errcheck

			dec := json.NewDecoder(rsp.Body)
			var data echoResponse
			assert.NoError(dec.Decode(&data))

			assert.Equal("https://example.net/", data.URL)
			assert.Equal("abc", data.Header.Get("x-test"))
		})
	})
}
