// SPDX-License-Identifier: MPL-2.0

// Package cmdbuild turns a command definition and a parameter map into the
// ordered argument list and environment of one tool invocation.
//
// The argument list is assembled in fixed stages, each appending to the
// previous one:
//
//  1. the literal subcommand token
//  2. flags positioned as "prefix"
//  3. options, in declaration order
//  4. the remaining flags
//  5. positional arguments ordered by position, except the "last" one
//  6. post-options
//  7. the "last" argument
//
// Every value is validated before anything is appended, so a build either
// fails with a *valuetype.ValidationError or yields a complete invocation.
package cmdbuild
