// SPDX-License-Identifier: MPL-2.0

// Package discovery locates tool description files across a list of search
// directories and loads them through a shared cache.
//
// For a tool named NAME each directory is probed, in order, for
//
//	<dir>/NAME.{cue,yaml,yml,toml}
//	<dir>/NAME/*.{cue,yaml,yml,toml}
//
// When several files describe the tool, the one whose declared version is
// the highest satisfying the requested constraint wins. The file name plays
// no part in the choice.
//
// Files that fail to load do not abort a lookup; they are reported as
// Diagnostics alongside the result.
package discovery
