// SPDX-FileCopyrightText: © 2020 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package server is the Open Graph HTTP API.
// It defines common middlewares, response helpers and the API routes.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"codeberg.org/readeck/opengraph/configs"
	"codeberg.org/readeck/opengraph/internal/metrics"
)

// Server is a wrapper around chi router.
type Server struct {
	*chi.Mux
	client *http.Client
}

// New creates a new server with its middlewares and routes.
// The given client is used to fetch remote documents.
func New(client *http.Client) *Server {
	s := &Server{
		Mux:    chi.NewRouter(),
		client: client,
	}

	s.Use(
		middleware.Recoverer,
		middleware.RequestID,
		Logger(),
		metrics.Middleware,
		SetSecurityHeaders,
		CompressResponse,
		CannonicalPaths,
		ErrorPages,
	)

	s.Mount("/api", s.apiRoutes())
	s.Method(http.MethodGet, "/metrics", metrics.Handler())

	return s
}

// apiRoutes returns the API router.
func (s *Server) apiRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/info", infoHandler)

	r.Group(func(r chi.Router) {
		r.Use(Csrf(configs.Config.Server.TrustedOrigins))
		r.Get("/parse", s.parseURL)
		r.Post("/parse", s.parseDocument)
		r.Post("/generate", s.generate)
	})

	return r
}

// ListenAndServe starts the HTTP server on the configured address
// and stops it when the context is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr: net.JoinHostPort(
			configs.Config.Server.Host,
			strconv.Itoa(configs.Config.Server.Port),
		),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("starting server", slog.String("addr", srv.Addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	slog.Info("stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// infoHandler returns the service information.
func infoHandler(w http.ResponseWriter, r *http.Request) {
	type versionInfo struct {
		Canonical string `json:"canonical" yaml:"canonical"`
		Release   string `json:"release" yaml:"release"`
		Build     string `json:"build" yaml:"build"`
	}

	type serviceInfo struct {
		Version   versionInfo `json:"version" yaml:"version"`
		GoVersion string      `json:"go_version" yaml:"go_version"`
	}

	canonical := configs.Version()
	release, build, _ := strings.Cut(canonical, "-")

	Render(w, r, 200, serviceInfo{
		Version: versionInfo{
			Canonical: canonical,
			Release:   release,
			Build:     build,
		},
		GoVersion: runtime.Version(),
	})
}

// GetReqID returns the request ID.
func GetReqID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// Log returns a log entry including the request ID.
func Log(r *http.Request) *slog.Logger {
	return slog.With(slog.String("@id", GetReqID(r)))
}
