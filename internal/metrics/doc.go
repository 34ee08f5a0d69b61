// Copyright (c) DelegateFlow Authors.
// Licensed under the MIT License.

/*
Package metrics provides Prometheus-based metrics collection for the
delegation service.

The Collector promauto-registers all metric vectors under a single
namespace: HTTP request counts and latencies, delegation outcomes by
industry, per-stage planning durations, decision distributions by
execution location and risk level, catalog size gauges, reservation
outcomes and decision-cache hit rates.
*/
package metrics
