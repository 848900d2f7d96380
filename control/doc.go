// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, hot-reload, runtime metrics and debug introspection for
// hioload-core components.
//
// Provides:
//   - viper-backed configuration loading with environment overrides
//   - fsnotify-driven hot reload dispatched to registered hooks
//   - prometheus collectors for the logging pipeline
//   - named debug probes with a YAML state dump
package control
