// SPDX-License-Identifier: MPL-2.0

// Package config loads toolrun settings with Viper.
//
// Values come from built-in defaults, then an optional CUE file validated
// against an embedded schema, then TOOLRUN_* environment variables.
package config
