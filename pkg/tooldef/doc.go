// SPDX-License-Identifier: MPL-2.0

// Package tooldef models declarative descriptions of external command-line
// tools and loads them from CUE, YAML or TOML files.
//
// A ToolDefinition is the decoded document. Build resolves profile
// inheritance, validates the structure and returns an immutable *Tool whose
// profiles and commands carry prebuilt lookup indices. Nothing in a *Tool is
// mutated after Build returns, so a single *Tool may be shared by concurrent
// executions.
package tooldef
