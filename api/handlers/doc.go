// Copyright (c) DelegateFlow Authors.
// Licensed under the MIT License.

/*
Package handlers implements the request handlers for the DelegateFlow
HTTP API: task delegation, agent catalog management, capacity
reservation, the industry reference table, and health probes. All
handlers follow the standard net/http interface.

Responses share one envelope (success + data + error + timestamp), and
structured error codes map to HTTP statuses centrally, so a client can
switch on `error.code` without parsing messages.
*/
package handlers
