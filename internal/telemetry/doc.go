// Package telemetry wires the OpenTelemetry SDK for the delegation
// planner: OTLP gRPC exporters, a parent-based trace sampler, and a
// resource carrying the delegation namespace and planner role so
// decision spans from different deployments stay distinguishable.
// When telemetry is disabled the global providers stay noop and no
// external connection is made.
package telemetry
