// SPDX-License-Identifier: MPL-2.0

// Package execute ties discovery, version detection, profile selection,
// argument building and process execution into the pipeline behind the
// toolrun commands. Plan stops before spawning the tool; Run goes on to
// execute it.
package execute
