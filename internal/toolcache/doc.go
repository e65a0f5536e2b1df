// SPDX-License-Identifier: MPL-2.0

// Package toolcache provides a bounded, mutex-guarded LRU cache keyed by
// string. It holds built tool descriptions keyed by file path, and detected
// tool versions keyed by executable path. Concurrent loads of one key are
// collapsed into a single call.
package toolcache
