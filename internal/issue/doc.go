// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into messages a user can act on.
//
// An ActionableError names the operation that failed, the tool, file or
// parameter involved, and short suggestions. It may point at an Issue, a
// longer Markdown explanation rendered with glamour when the CLI runs in
// verbose mode.
package issue
