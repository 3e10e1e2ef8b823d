// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry provides OpenTelemetry tracing for clinic.
//
// Tracing is off unless an OTLP endpoint is configured. When it is on,
// API requests are traced by the otelhttp transport in package api and
// nest under the spans started here for each command.
//
// # Usage
//
//	shutdown := telemetry.Setup(ctx, cfg.Telemetry, logger)
//	defer shutdown(context.Background())
//
//	ctx, span := telemetry.Start(ctx, "login")
//	defer span.End()
//
// # Privacy
//
// Span attributes never carry tokens or passwords. Emails are
// fingerprinted before being attached.
package telemetry
