// SPDX-FileCopyrightText: © 2020 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"
)

const (
	mimeJSON = "application/json"
	mimeYAML = "application/yaml"
	mimeText = "text/plain"
)

// Message is the body of status and error responses.
type Message struct {
	Status  int    `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

// httpError is an error whose message can be sent to the client
// with the given status.
type httpError struct {
	status int
	err    error
}

func (e httpError) Error() string   { return e.err.Error() }
func (e httpError) Unwrap() error   { return e.err }
func (e httpError) StatusCode() int { return e.status }

// encode returns the value serialized in the given format.
// Anything but YAML is JSON.
func encode(format string, value any) (string, []byte, error) {
	b := new(bytes.Buffer)

	if format == mimeYAML {
		enc := yaml.NewEncoder(b)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return "", nil, err
		}
		if err := enc.Close(); err != nil {
			return "", nil, err
		}
		return mimeYAML, b.Bytes(), nil
	}

	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", nil, err
	}
	return mimeJSON, b.Bytes(), nil
}

// Render sends the value as JSON, or as YAML when the client prefers it.
func Render(w http.ResponseWriter, r *http.Request, status int, value any) {
	ct, b, err := encode(negotiate(r, mimeJSON), value)
	if err != nil {
		Log(r).Error("encoding error", slog.Any("err", err))
		Status(w, r, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ct+"; charset=utf-8")
	w.WriteHeader(status)
	w.Write(b) //nolint:errcheck
}

// Msg sends a [Message] response. The errors, if any, are logged
// at debug level.
func Msg(w http.ResponseWriter, r *http.Request, status int, msg string, errs ...error) {
	Render(w, r, status, Message{Status: status, Message: msg})

	if len(errs) > 0 {
		Log(r).Debug(msg, slog.Int("status", status), slog.Any("err", errors.Join(errs...)))
	}
}

// Status sends a text plain response with the given status code.
func Status(w http.ResponseWriter, _ *http.Request, status int) {
	w.Header().Set("Content-Type", mimeText+"; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintln(w, http.StatusText(status)) //nolint:errcheck
}

// Err renders an error.
//
// An error providing a StatusCode() method sets the response status
// and its message is sent to the client. Any other error is a 500
// with no detail. An error providing a Log() method logs itself.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := http.StatusText(status)

	var se interface{ StatusCode() int }
	if errors.As(err, &se) {
		status = se.StatusCode()
		msg = err.Error()
	}

	var le interface{ Log(*slog.Logger) }
	switch {
	case errors.As(err, &le):
		le.Log(Log(r))
	case status >= 500:
		Log(r).Error("server error", slog.Any("err", err))
	default:
		Log(r).Debug("client error", slog.Int("status", status), slog.Any("err", err))
	}

	if negotiate(r, mimeJSON) == mimeText {
		Status(w, r, status)
		return
	}
	Msg(w, r, status, msg)
}
