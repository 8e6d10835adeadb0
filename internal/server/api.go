// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"codeberg.org/readeck/opengraph/configs"
	"codeberg.org/readeck/opengraph/internal/metrics"
	"codeberg.org/readeck/opengraph/pkg/opengraph"
)

const (
	maxDocumentSize = 8 << 20
	maxPayloadSize  = 1 << 20
)

// fetchError is returned when a remote document can't be retrieved
// or is not usable.
type fetchError struct {
	err error
}

func (e fetchError) Error() string {
	return e.err.Error()
}

func (e fetchError) Unwrap() error {
	return e.err
}

func (e fetchError) StatusCode() int {
	if errors.Is(e.err, opengraph.ErrNotHTML) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func (e fetchError) Log(l *slog.Logger) {
	l.Warn("fetch error", slog.Any("err", e.err))
}

// parseURL fetches the document given by the "url" query parameter
// and returns its Open Graph data.
func (s *Server) parseURL(w http.ResponseWriter, r *http.Request) {
	src := strings.TrimSpace(r.URL.Query().Get("url"))
	if src == "" {
		Msg(w, r, http.StatusBadRequest, "missing url parameter")
		return
	}

	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		Msg(w, r, http.StatusBadRequest, "invalid url parameter")
		return
	}

	d, err := opengraph.ParseURL(r.Context(), s.client, u.String())
	if err != nil {
		Err(w, r, fetchError{err})
		return
	}

	metrics.ObserveParse(d)
	Render(w, r, http.StatusOK, d)
}

// parseDocument returns the Open Graph data of the HTML document sent
// in the request body. The "charset" query parameter sets the document's
// encoding.
func (s *Server) parseDocument(w http.ResponseWriter, r *http.Request) {
	charset := r.URL.Query().Get("charset")
	if charset == "" {
		charset = configs.Config.Fetch.Charset
	}

	body := http.MaxBytesReader(w, r.Body, maxDocumentSize)
	d, err := opengraph.ParseReader(body, opengraph.WithCharset(charset))
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.Is(err, opengraph.ErrUnknownCharset):
			err = httpError{http.StatusBadRequest, err}
		case errors.As(err, &mbe):
			err = httpError{http.StatusRequestEntityTooLarge, err}
		}
		Err(w, r, err)
		return
	}

	metrics.ObserveParse(d)
	Render(w, r, http.StatusOK, d)
}

// generate returns the meta tag block of the data sent as JSON
// in the request body.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var d opengraph.Data
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadSize))
	if err := dec.Decode(&d); err != nil {
		Msg(w, r, http.StatusBadRequest, "invalid payload", err)
		return
	}

	metrics.ObserveGenerate()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, opengraph.Generate(&d)) //nolint:errcheck
}
