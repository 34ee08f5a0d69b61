// Package config provides configuration loading for DelegateFlow.
//
// Configuration comes from three layers in increasing precedence: built-in
// defaults, a YAML file, and DELEGATEFLOW_-prefixed environment variables.
// The package also owns the per-industry reference table (compliance
// frameworks, risk weights, safety notes) and a polling file watcher so
// reference data and catalog files can be swapped without a restart.
package config
