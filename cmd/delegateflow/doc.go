// Copyright (c) DelegateFlow Authors.
// Licensed under the MIT License.

/*
Package main provides the DelegateFlow server executable.

# Overview

cmd/delegateflow is the service entry point. It exposes the task
delegation HTTP API, the agent catalog API, and the industry reference
API, with Prometheus metrics served on a separate port. Subcommands
cover serving, health probing, and version reporting.

# Core Types

  - Server     — assembles the catalog, planner, and HTTP/metrics listeners
  - Middleware — func(http.Handler) http.Handler

# Capabilities

  - Subcommands: serve, version, health
  - Middleware chain: Recovery, RequestID, SecurityHeaders, OTelTracing,
    RequestLogger, MetricsMiddleware, CORS, RateLimiter (per IP),
    APIKeyAuth (X-API-Key)
  - Catalog and reference table hot reload via config.FileWatcher
  - Graceful shutdown: signal wait, stop watchers and refresher, drain
    HTTP and metrics listeners in parallel, flush telemetry
  - Build injection: Version, BuildTime, GitCommit set through ldflags
*/
package main
