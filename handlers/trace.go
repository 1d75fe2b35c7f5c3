// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/barcode-trace/middleware"
	"github.com/danielhkuo/barcode-trace/render"
	"github.com/danielhkuo/barcode-trace/trace"
)

type TraceHandler struct {
	svc      *trace.Service
	renderer *render.Renderer
}

func NewTraceHandler(svc *trace.Service, renderer *render.Renderer) *TraceHandler {
	return &TraceHandler{svc: svc, renderer: renderer}
}

// Index handles GET /
// Serves the barcode entry form
func (h *TraceHandler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.renderer.Index(&buf); err != nil {
		slog.Error("failed to render index", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	middleware.HTMLResponse(w, http.StatusOK, buf.Bytes())
}

// Result handles POST /result/
// Runs an ingest pass over the CSV folder, then looks up the submitted
// barcode and renders every matching row
func (h *TraceHandler) Result(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.page(w, http.StatusBadRequest, render.ResultPage{Message: "Invalid form submission."})
		return
	}

	// Stored barcodes are matched exactly, surrounding spaces included
	barcode := r.PostFormValue("barcode")
	if strings.TrimSpace(barcode) == "" {
		h.page(w, http.StatusBadRequest, render.ResultPage{Message: "barcode is required"})
		return
	}

	res, err := h.svc.Trace(r.Context(), barcode)
	if errors.Is(err, trace.ErrNoCSVFiles) {
		slog.Warn("no CSV files to ingest", "dir", h.svc.Dir())
		middleware.ErrorResponse(w, http.StatusOK, trace.NoCSVFilesMessage)
		return
	}
	if err != nil {
		slog.Error("trace failed", "barcode", barcode, "error", err)
		h.page(w, http.StatusInternalServerError, render.ResultPage{
			Barcode: barcode,
			Message: "Error: " + err.Error(),
		})
		return
	}

	page := render.ResultPage{Barcode: barcode}

	// Ingest failures do not stop the lookup, but the user should know
	// the data may be incomplete
	if res.IngestErr != nil {
		slog.Error("ingest pass had failures", "pass_id", res.Ingest.PassID, "error", res.IngestErr)
		failed := res.Ingest.Failed()
		for _, f := range failed {
			page.Warnings = append(page.Warnings, fmt.Sprintf("Could not ingest %s: %v", f.File, f.Err))
		}
		if len(failed) == 0 {
			page.Warnings = append(page.Warnings, "Ingest failed: "+res.IngestErr.Error())
		}
	}

	if n := res.Ingest.Inserted(); n > 0 {
		page.Summary = fmt.Sprintf("Loaded %s new rows from %d files.",
			humanize.Comma(int64(n)), len(res.Ingest.Files))
	}

	if res.Rows.Empty() {
		page.Message = render.NoRowMessage(barcode)
		h.page(w, http.StatusOK, page)
		return
	}

	table, err := h.renderer.Table(res.Rows)
	if err != nil {
		slog.Error("failed to render rows", "barcode", barcode, "error", err)
		page.Message = "Error: " + err.Error()
		h.page(w, http.StatusInternalServerError, page)
		return
	}
	page.Table = table

	h.page(w, http.StatusOK, page)
}

func (h *TraceHandler) page(w http.ResponseWriter, status int, page render.ResultPage) {
	var buf bytes.Buffer
	if err := h.renderer.Result(&buf, page); err != nil {
		slog.Error("failed to render result page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	middleware.HTMLResponse(w, status, buf.Bytes())
}
