// SPDX-License-Identifier: MPL-2.0

// Package platform names the operating systems a tool profile can target and
// detects the one the current process runs on.
//
// It also detects application sandboxes (Flatpak, Snap). Inside a sandbox the
// executor must hop to the host to find the described tools, so this package
// provides the argv prefix that performs that hop.
package platform
