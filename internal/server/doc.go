// Copyright (c) DelegateFlow Authors.
// Licensed under the MIT License.

/*
Package server manages HTTP server lifecycle: non-blocking start,
graceful shutdown, and system signal handling.

Manager wraps net/http.Server, binding the listener eagerly so
configuration errors surface at startup rather than on first request.
Fatal serve errors propagate over Errors() and through WaitForShutdown,
which also listens for SIGINT/SIGTERM.
*/
package server
