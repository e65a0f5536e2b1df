// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the default maximum size of a CUE document (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	options struct {
		maxFileSize int64
		concrete    bool
		filename    string
	}

	// Option configures Compile, ParseAndDecode and ExportJSON.
	Option func(*options)
)

func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
		filename:    "<input>",
	}
}

// WithMaxFileSize sets the maximum accepted document size in bytes.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

// WithConcrete sets whether every value must be concrete after unification.
// Config files pass false so that unset optional fields are accepted.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// WithFilename sets the file name reported in error messages.
func WithFilename(name string) Option {
	return func(o *options) {
		if name != "" {
			o.filename = name
		}
	}
}
