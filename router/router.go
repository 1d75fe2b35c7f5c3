// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/danielhkuo/barcode-trace/handlers"
	"github.com/danielhkuo/barcode-trace/middleware"
	"github.com/danielhkuo/barcode-trace/render"
	"github.com/danielhkuo/barcode-trace/trace"
)

func NewRouter(svc *trace.Service, renderer *render.Renderer) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	traceHandler := handlers.NewTraceHandler(svc, renderer)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Barcode lookup
	r.Get("/", middleware.WithLogging(traceHandler.Index))
	r.Post("/result/", middleware.WithLogging(traceHandler.Result))

	return r
}
