// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the clinic REST backend.
//
// Every request carries "Authorization: Bearer <token>" while the token
// store holds a valid credential. A 401 from any endpoint clears the store,
// raises the auth-expired signal, and returns ErrUnauthorized, so the
// session controller logs the user out no matter which screen made the
// call. Other non-2xx responses become *Error.
//
// Outbound calls are rate limited (golang.org/x/time/rate) and traced
// through an otelhttp transport.
//
// # Usage
//
//	client := api.New(cfg.API.BaseURL, store, signal, api.WithLogger(log))
//	resp, err := client.Login(ctx, email, password)
//	doctors, err := client.Doctors(ctx)
package api
