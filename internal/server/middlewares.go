// SPDX-FileCopyrightText: © 2020 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/klauspost/compress/gzhttp"
	"github.com/munnerz/goautoneg"
)

var acceptOffers = []string{mimeJSON, mimeYAML, mimeText}

// Csrf rejects cross-origin requests with unsafe methods, using
// [http.CrossOriginProtection]. The origins are trusted as well.
// They must be valid, which configs.Validate ensures.
func Csrf(origins []string) func(http.Handler) http.Handler {
	p := http.NewCrossOriginProtection()
	for _, o := range origins {
		if err := p.AddTrustedOrigin(o); err != nil {
			panic(err)
		}
	}

	p.SetDenyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Log(r).Warn("cross origin request denied",
			slog.String("origin", r.Header.Get("Origin")),
			slog.String("sec-fetch-site", r.Header.Get("Sec-Fetch-Site")),
		)
		Status(w, r, http.StatusForbidden)
	}))

	return p.Handler
}

// SetSecurityHeaders adds some headers to improve client side security.
func SetSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")

		next.ServeHTTP(w, r)
	})
}

// CannonicalPaths redirects (308) to the clean form of the URL path.
// A trailing slash is kept.
func CannonicalPaths(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := cleanPath(r.URL.Path); p != r.URL.Path {
			u := *r.URL
			u.Path, u.RawPath = p, ""
			http.Redirect(w, r, u.RequestURI(), http.StatusPermanentRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func cleanPath(p string) string {
	if len(p) < 2 {
		return p
	}
	res := path.Clean(p)
	if strings.HasSuffix(p, "/") && res != "/" {
		res += "/"
	}
	return res
}

// CompressResponse returns a gzipped response for the API content types.
// gzhttp adds a random jitter against BREACH.
func CompressResponse(next http.Handler) http.Handler {
	w, err := gzhttp.NewWrapper(
		gzhttp.CompressionLevel(5),
		gzhttp.ContentTypes([]string{mimeJSON, mimeYAML, "text/html", mimeText}),
		gzhttp.SuffixETag("-gzip"),
		gzhttp.MinSize(1024),
		gzhttp.RandomJitter(32, 0, false),
	)
	if err != nil {
		panic(err)
	}
	return w(next)
}

// negotiate returns the best content type for the request's
// "accept" header, or defaultOffer.
func negotiate(r *http.Request, defaultOffer string) string {
	h := r.Header.Get("Accept")
	if h == "" {
		return defaultOffer
	}
	if res := goautoneg.Negotiate(h, acceptOffers); res != "" {
		return res
	}
	return defaultOffer
}

// ErrorPages replaces the plain text body of error responses (chi's
// not found, [Status]...) with a [Message] in the format the client
// accepts. Clients preferring text/plain get the response as is.
func ErrorPages(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := negotiate(r, mimeJSON)
		if format == mimeText {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(&errorWriter{ResponseWriter: w, format: format}, r)
	})
}

type errorWriter struct {
	http.ResponseWriter
	format string
	status int
	done   bool
}

func isPlainText(ct string) bool {
	ct, _, _ = strings.Cut(ct, ";")
	ct = strings.TrimSpace(ct)
	return ct == "" || ct == mimeText
}

func (w *errorWriter) WriteHeader(status int) {
	if status >= 400 && isPlainText(w.Header().Get("Content-Type")) {
		w.status = status
		w.Header().Set("Content-Type", w.format+"; charset=utf-8")
		w.Header().Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(status)
}

// Write discards the original body and sends a [Message] instead,
// once, when the status was replaced.
func (w *errorWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		return w.ResponseWriter.Write(b)
	}
	if w.done {
		return len(b), nil
	}
	w.done = true

	_, body, err := encode(w.format, Message{
		Status:  w.status,
		Message: http.StatusText(w.status),
	})
	if err != nil {
		return 0, err
	}
	if _, err := w.ResponseWriter.Write(body); err != nil {
		return 0, err
	}
	return len(b), nil
}
