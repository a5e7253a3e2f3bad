// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /board", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (status,
duration_ms) through log/slog.

# CORS Middleware

	server := http.Server{Handler: middleware.CORS(cfg.AllowedOrigins, mux)}

Only origins in the allowlist get CORS headers (with credentials, so the
session cookie travels). Other origins are served without them and the
browser blocks the response.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, view)
	middleware.ErrorResponse(w, http.StatusBadGateway, err.Error())

	var req models.AddGroceryItemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
