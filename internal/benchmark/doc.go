// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// These benchmarks cover the hot paths of a toolrun invocation:
//   - tool description parsing (CUE, YAML, TOML)
//   - discovery with the parsed-description cache
//   - profile selection and argument building
//   - quoting for every shell dialect
//   - spawning a tool through the executor
//
// To generate a PGO profile, run:
//
//	go test -run='^$' -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
