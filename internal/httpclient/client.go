// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package httpclient is the HTTP client used to fetch documents.
// Every request goes through a [Transport] that refuses denied
// destinations, adds the default headers and logs the exchange.
package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"time"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"

	"codeberg.org/readeck/opengraph/configs"
)

// ErrDeniedIP is returned when a destination resolves to a denied network.
var ErrDeniedIP = errors.New("destination denied")

var defaultDialer = net.Dialer{
	Timeout:   15 * time.Second,
	KeepAlive: 30 * time.Second,
}

// newTransport returns the base transport. Its TLS configuration is
// never modified once created, a client can be shared by any number
// of goroutines.
func newTransport() *http.Transport {
	return &http.Transport{
		DialContext: defaultDialer.DialContext,
		Proxy:       http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// defaultHeaders returns the headers sent with every request, built
// from the fetch configuration.
func defaultHeaders() http.Header {
	ua := configs.Config.Fetch.UserAgent
	if ua == "" {
		ua = "opengraph/" + configs.Version() + " (+https://codeberg.org/readeck/opengraph)"
	}

	h := http.Header{}
	h.Set("User-Agent", ua)
	h.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	if l := configs.Config.Fetch.AcceptLanguage; l != "" {
		h.Set("Accept-Language", l)
	}
	return h
}

// Transport wraps an [http.RoundTripper].
type Transport struct {
	http.RoundTripper
	header http.Header
	logger *slog.Logger
}

// RoundTrip implements [http.RoundTripper].
// It checks if the destination IP is allowed, adds default headers and
// logs (debug-10 level) every request.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	if err := checkDestination(r.Context(), r.URL.Hostname()); err != nil {
		return nil, err
	}

	req := r.Clone(r.Context())
	for k, values := range t.header {
		if _, ok := r.Header[textproto.CanonicalMIMEHeaderKey(k)]; !ok {
			req.Header[k] = values
		}
	}

	now := time.Now()
	rsp, err := t.RoundTripper.RoundTrip(req)

	attrs := []slog.Attr{
		slog.Group("request",
			slog.String("url", req.URL.String()),
			slog.String("method", req.Method),
			slog.Any("headers", req.Header),
		),
	}
	if err != nil {
		attrs = append(attrs, slog.Group("response", slog.Any("err", err)))
	} else {
		attrs = append(attrs, slog.Group("response",
			slog.Int("status", rsp.StatusCode),
			slog.Any("headers", rsp.Header),
		))
	}
	attrs = append(attrs, slog.Duration("time", time.Since(now)))
	t.Log().LogAttrs(req.Context(), slog.LevelDebug-10, "request", attrs...)

	return rsp, err
}

// checkDestination resolves the hostname and fails with [ErrDeniedIP]
// when one of its addresses is in a denied network.
func checkDestination(ctx context.Context, hostname string) error {
	denied := configs.DeniedIPs()
	if len(denied) == 0 {
		return nil
	}

	host, err := idna.ToASCII(hostname)
	if err != nil {
		return fmt.Errorf("invalid hostname %s", hostname)
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return fmt.Errorf("cannot resolve %s", host)
	}

	for _, cidr := range denied {
		for _, addr := range addrs {
			if cidr.Contains(addr.IP) {
				return fmt.Errorf("%w: ip %s is blocked by rule %s", ErrDeniedIP, addr.IP, cidr)
			}
		}
	}

	return nil
}

// Log returns the transport's logger.
func (t *Transport) Log() *slog.Logger {
	return t.logger
}

// SetLogger sets the transport's logger.
func (t *Transport) SetLogger(l *slog.Logger) {
	t.logger = l
}

// SetHeader receives a function that can manipulate the
// transport's default headers. It must be called before the
// client is used.
func (t *Transport) SetHeader(fn func(h http.Header)) {
	fn(t.header)
}

// checkRedirect stops after the configured number of redirects.
func checkRedirect(_ *http.Request, via []*http.Request) error {
	if n := configs.Config.Fetch.MaxRedirects; len(via) >= n {
		return fmt.Errorf("stopped after %d redirects", n)
	}
	return nil
}

// New returns a new client with an empty cookie storage and a [Transport] instance.
// The timeout, headers and redirect limit come from the fetch configuration.
func New() *http.Client {
	cookies, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return &http.Client{
		Transport: &Transport{
			RoundTripper: newTransport(),
			header:       defaultHeaders(),
			logger:       slog.Default(),
		},
		Timeout:       time.Duration(configs.Config.Fetch.Timeout),
		CheckRedirect: checkRedirect,
		Jar:           cookies,
	}
}
