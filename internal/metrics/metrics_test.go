// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/readeck/opengraph/internal/metrics"
	"codeberg.org/readeck/opengraph/pkg/opengraph"
)

func scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metrics.Handler().ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics(t *testing.T) {
	metrics.ObserveParse(&opengraph.Data{
		Title:  "Title",
		Type:   "article",
		URL:    "https://example.com/",
		Images: []opengraph.Image{{URL: "https://example.com/a.png"}},
	})
	metrics.ObserveParse(&opengraph.Data{Type: "something.custom"})
	metrics.ObserveParse(&opengraph.Data{})
	metrics.ObserveGenerate()

	h := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok")) //nolint:errcheck
	}))
	for _, p := range []string{"/", "/", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	res := scrape(t)
	assert := require.New(t)
	assert.Contains(res, `opengraph_parsed_total{type="article"} 1`)
	assert.Contains(res, `opengraph_parsed_total{type="unknown"} 1`)
	assert.Contains(res, `opengraph_parsed_total{type="website"} 1`)
	assert.Contains(res, "opengraph_invalid_total 2")
	assert.Contains(res, "opengraph_generated_total 1")
	assert.Contains(res, `http_requests_total{code="200",method="GET"} 2`)
	assert.Contains(res, `http_requests_total{code="404",method="GET"} 1`)
	assert.Contains(res, `http_request_duration_seconds_count{method="GET"} 3`)
	assert.Contains(res, "go_goroutines")
}
