// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"slices"
	"testing"
)

func TestMergeEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     []string
		foldCase bool
		overlays []map[string]string
		want     []string
	}{
		{
			name:     "later overlays win",
			base:     []string{"PATH=/bin", "DISPLAY=:0"},
			overlays: []map[string]string{{"DISPLAY": ""}, {"DISPLAY": ":1", "GS_OPTIONS": "-q"}},
			want:     []string{"PATH=/bin", "DISPLAY=:1", "GS_OPTIONS=-q"},
		},
		{
			name:     "new keys appended sorted",
			base:     []string{"HOME=/root"},
			overlays: []map[string]string{{"B": "2", "A": "1"}},
			want:     []string{"HOME=/root", "A=1", "B=2"},
		},
		{
			name:     "case sensitive by default",
			base:     []string{"Path=/bin"},
			overlays: []map[string]string{{"PATH": "/usr/bin"}},
			want:     []string{"Path=/bin", "PATH=/usr/bin"},
		},
		{
			name:     "case folded on windows",
			base:     []string{"=C:=C:\\work", "Path=C:\\Windows"},
			foldCase: true,
			overlays: []map[string]string{{"PATH": "C:\\gs"}},
			want:     []string{"=C:=C:\\work", "PATH=C:\\gs"},
		},
		{
			name:     "nil overlay",
			base:     []string{"A=1"},
			overlays: []map[string]string{nil},
			want:     []string{"A=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			base := slices.Clone(tt.base)
			got := mergeEnv(base, tt.foldCase, tt.overlays...)
			if !slices.Equal(got, tt.want) {
				t.Errorf("mergeEnv() = %q, want %q", got, tt.want)
			}
			if !slices.Equal(base, tt.base) {
				t.Errorf("mergeEnv() modified its input: %q", base)
			}
		})
	}
}

func TestSplitEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		k, v   string
		wantOK bool
	}{
		{"A=1", "A", "1", true},
		{"A=", "A", "", true},
		{"A=b=c", "A", "b=c", true},
		{"=C:=C:\\x", "=C:", "C:\\x", true},
		{"novalue", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		k, v, ok := splitEnv(tt.in)
		if k != tt.k || v != tt.v || ok != tt.wantOK {
			t.Errorf("splitEnv(%q) = (%q, %q, %v), want (%q, %q, %v)", tt.in, k, v, ok, tt.k, tt.v, tt.wantOK)
		}
	}
}
