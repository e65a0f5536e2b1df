// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()
		if err := FormatError(nil, "tool.cue"); err != nil {
			t.Errorf("FormatError(nil) = %v, want nil", err)
		}
	})

	t.Run("non-CUE error is wrapped with file path", func(t *testing.T) {
		t.Parallel()
		orig := errors.New("boom")
		err := FormatError(orig, "tool.cue")
		if !errors.Is(err, orig) {
			t.Errorf("FormatError() should wrap the original error, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "tool.cue: ") {
			t.Errorf("FormatError() = %q, want tool.cue prefix", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{"name"}, "name"},
		{"nested", []string{"version_detection", "pattern"}, "version_detection.pattern"},
		{"index", []string{"profiles", "0", "name"}, "profiles[0].name"},
		{"consecutive indices", []string{"search_paths", "linux", "2"}, "search_paths.linux[2]"},
		{"leading number", []string{"0", "a"}, "0.a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "a.cue"); err != nil {
		t.Errorf("CheckFileSize() at the limit = %v, want nil", err)
	}

	err := CheckFileSize(make([]byte, 11), 10, "a.cue")
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("CheckFileSize() = %v, want ErrFileTooLarge", err)
	}
	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) || tooLarge.Size != 11 || tooLarge.Max != 10 {
		t.Errorf("CheckFileSize() error = %#v", err)
	}
}
