// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestPosition_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		wantLast bool
		wantIdx  int
		wantErr  bool
	}{
		{in: `"last"`, wantLast: true},
		{in: `0`, wantIdx: 0},
		{in: `3`, wantIdx: 3},
		{in: `-1`, wantErr: true},
		{in: `"first"`, wantErr: true},
		{in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		var p Position
		err := json.Unmarshal([]byte(tt.in), &p)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if p.IsLast() != tt.wantLast {
			t.Errorf("Unmarshal(%s).IsLast() = %v", tt.in, p.IsLast())
		}
		if idx, ok := p.Index(); !tt.wantLast && (!ok || idx != tt.wantIdx) {
			t.Errorf("Unmarshal(%s).Index() = %d, %v", tt.in, idx, ok)
		}
	}

	var zero Position
	if !zero.IsZero() {
		t.Error("zero Position should report IsZero")
	}
	if _, ok := zero.Index(); ok {
		t.Error("zero Position should have no index")
	}
}

func TestSize_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Size
		wantErr bool
	}{
		{in: `2`, want: Size{2, 2}},
		{in: `[1, 4]`, want: Size{1, 4}},
		{in: `[4, 1]`, wantErr: true},
		{in: `[1]`, wantErr: true},
		{in: `-2`, wantErr: true},
	}

	for _, tt := range tests {
		var s Size
		err := json.Unmarshal([]byte(tt.in), &s)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && s != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.in, s, tt.want)
		}
	}

	if !(Size{1, 3}).Contains(3) || (Size{1, 3}).Contains(4) {
		t.Error("Size.Contains bounds are inclusive")
	}
}

func TestValueList_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var v ValueList
	if err := json.Unmarshal([]byte(`["pdfwrite", 72, 1.5, true]`), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if want := (ValueList{"pdfwrite", "72", "1.5", "true"}); !slices.Equal(v, want) {
		t.Errorf("ValueList = %v, want %v", v, want)
	}

	if err := json.Unmarshal([]byte(`[{"a": 1}]`), &v); err == nil {
		t.Error("Unmarshal() of an object element should fail")
	}
}

func TestProbeCommand_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var c ProbeCommand
	if err := json.Unmarshal([]byte(`"gs --version"`), &c); err != nil || c.Line != "gs --version" {
		t.Errorf("string form = %+v, %v", c, err)
	}
	if err := json.Unmarshal([]byte(`["gs", "--version"]`), &c); err != nil || !slices.Equal(c.Argv, []string{"gs", "--version"}) {
		t.Errorf("argv form = %+v, %v", c, err)
	}
	if err := json.Unmarshal([]byte(`3`), &c); err == nil {
		t.Error("numeric form should fail")
	}
}

func TestDelimiter_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d     Delimiter
		token string
		want  Delimiter
	}{
		{"", "--output", DelimiterEquals},
		{DelimiterAuto, "-o", DelimiterSpace},
		{DelimiterAuto, "-sOutputFile=", DelimiterEquals},
		{DelimiterAuto, "/Fo", DelimiterColon},
		{DelimiterAuto, "output", DelimiterSpace},
		{"single_dash_equals", "-sDEVICE", DelimiterEquals},
		{"slash_space", "/out", DelimiterSpace},
		{DelimiterNone, "-r", DelimiterNone},
	}

	for _, tt := range tests {
		if got := tt.d.Resolve(tt.token); got != tt.want {
			t.Errorf("Delimiter(%q).Resolve(%q) = %q, want %q", tt.d, tt.token, got, tt.want)
		}
	}

	if ok, _ := Delimiter("tab").IsValid(); ok {
		t.Error(`Delimiter("tab").IsValid() = true`)
	}
	if ok, _ := Delimiter("double_dash_space").IsValid(); !ok {
		t.Error("legacy delimiter names must be valid")
	}
}
