// Package config loads and validates the application configuration from a
// YAML file. Configuration is read once at startup; the tuned animation and
// snapping thresholds ship as defaults and only need overriding for tuning
// experiments.
package config
