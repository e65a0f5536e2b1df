// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the toolrun command-line interface.
//
// The commands are thin: they load configuration, wire discovery, the
// executor and the orchestrator together, and render results and errors.
package cmd
