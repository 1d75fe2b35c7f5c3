// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the barcode trace page.

# Route Registration

NewRouter creates a chi router with every endpoint:

	mux := router.NewRouter(svc, renderer)

Every request gets a request ID (chi RequestID) and panics are turned into
500 responses (chi Recoverer). Lookup routes are wrapped with
middleware.WithLogging.

# Endpoints

	GET  /health  - Liveness check, returns "OK"
	GET  /        - Barcode entry form
	POST /result/ - Ingest the CSV folder, then show rows for the barcode
*/
package router
