// Package config implements the configuration store for the ROV
// control core.
//
// Load merges a built-in baseline with ROV_* environment overrides and
// an optional YAML file, then validates the result. Channel calibration
// is immutable after load; every other component receives its timing
// and limits from here.
package config
