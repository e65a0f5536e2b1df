// SPDX-License-Identifier: MPL-2.0

package valuetype

import (
	"errors"
	"slices"
	"testing"

	"github.com/toolrun/toolrun/pkg/tooldef"
)

func f64(v float64) *float64 { return &v }

func TestValidate(t *testing.T) {
	t.Parallel()

	devices := tooldef.ValueList{"pdfwrite", "png16m"}

	tests := []struct {
		name    string
		c       tooldef.Constraints
		raw     any
		want    []string
		list    bool
		wantErr bool
	}{
		{name: "string from string", c: tooldef.Constraints{}, raw: "hello", want: []string{"hello"}},
		{name: "string from int", c: tooldef.Constraints{}, raw: 42, want: []string{"42"}},
		{name: "string from float", c: tooldef.Constraints{}, raw: 1.5, want: []string{"1.5"}},
		{name: "string from list", c: tooldef.Constraints{}, raw: []string{"a"}, wantErr: true},
		{name: "string in values", c: tooldef.Constraints{Values: devices}, raw: "png16m", want: []string{"png16m"}},
		{name: "string not in values", c: tooldef.Constraints{Values: devices}, raw: "jpeg", wantErr: true},

		{name: "integer from int", c: tooldef.Constraints{Type: tooldef.TypeInteger}, raw: 300, want: []string{"300"}},
		{name: "integer from integral float", c: tooldef.Constraints{Type: tooldef.TypeInteger}, raw: 300.0, want: []string{"300"}},
		{name: "integer from string", c: tooldef.Constraints{Type: tooldef.TypeInteger}, raw: " 72 ", want: []string{"72"}},
		{name: "integer from fraction", c: tooldef.Constraints{Type: tooldef.TypeInteger}, raw: 1.5, wantErr: true},
		{name: "integer from word", c: tooldef.Constraints{Type: tooldef.TypeInteger}, raw: "many", wantErr: true},
		{name: "integer below min", c: tooldef.Constraints{Type: tooldef.TypeInteger, Min: f64(1)}, raw: 0, wantErr: true},
		{name: "integer above max", c: tooldef.Constraints{Type: tooldef.TypeInteger, Max: f64(10)}, raw: uint8(11), wantErr: true},
		{name: "integer in range", c: tooldef.Constraints{Type: tooldef.TypeInteger, Range: []float64{72, 1200}}, raw: 1200, want: []string{"1200"}},
		{name: "integer outside range", c: tooldef.Constraints{Type: tooldef.TypeInteger, Range: []float64{72, 1200}}, raw: 1201, wantErr: true},

		{name: "float", c: tooldef.Constraints{Type: tooldef.TypeFloat}, raw: 0.25, want: []string{"0.25"}},
		{name: "float from int", c: tooldef.Constraints{Type: tooldef.TypeFloat}, raw: int64(2), want: []string{"2"}},
		{name: "float from string", c: tooldef.Constraints{Type: tooldef.TypeFloat}, raw: "1e2", want: []string{"100"}},
		{name: "float max", c: tooldef.Constraints{Type: tooldef.TypeFloat, Max: f64(1)}, raw: 1.01, wantErr: true},
		{name: "float NaN", c: tooldef.Constraints{Type: tooldef.TypeFloat}, raw: "NaN", wantErr: true},

		{name: "boolean", c: tooldef.Constraints{Type: tooldef.TypeBoolean}, raw: true, want: []string{"true"}},
		{name: "boolean from string", c: tooldef.Constraints{Type: tooldef.TypeBoolean}, raw: "0", want: []string{"false"}},
		{name: "boolean from int", c: tooldef.Constraints{Type: tooldef.TypeBoolean}, raw: 1, wantErr: true},

		{name: "symbol", c: tooldef.Constraints{Type: tooldef.TypeSymbol, Values: devices}, raw: "pdfwrite", want: []string{"pdfwrite"}},
		{name: "symbol is case sensitive", c: tooldef.Constraints{Type: tooldef.TypeSymbol, Values: devices}, raw: "PDFWrite", wantErr: true},

		{name: "file", c: tooldef.Constraints{Type: tooldef.TypeFile}, raw: "in.ps", want: []string{"in.ps"}},
		{name: "file empty", c: tooldef.Constraints{Type: tooldef.TypeFile}, raw: "  ", wantErr: true},
		{name: "file not a string", c: tooldef.Constraints{Type: tooldef.TypeFile}, raw: 3, wantErr: true},

		{name: "array of strings", c: tooldef.Constraints{Type: tooldef.TypeArray}, raw: []any{"a", 1}, want: []string{"a", "1"}, list: true},
		{name: "array from scalar", c: tooldef.Constraints{Type: tooldef.TypeArray}, raw: "solo", want: []string{"solo"}, list: true},
		{name: "array of files", c: tooldef.Constraints{Type: tooldef.TypeArray, Of: tooldef.TypeFile}, raw: []string{"a.ps", "b.ps"}, want: []string{"a.ps", "b.ps"}, list: true},
		{name: "array element fails", c: tooldef.Constraints{Type: tooldef.TypeArray, Of: tooldef.TypeInteger}, raw: []any{1, "x"}, wantErr: true},
		{name: "array null element", c: tooldef.Constraints{Type: tooldef.TypeArray}, raw: []any{nil}, wantErr: true},
		{name: "array exact size", c: tooldef.Constraints{Type: tooldef.TypeArray, Size: &tooldef.Size{Min: 2, Max: 2}}, raw: []int{1, 2, 3}, wantErr: true},
		{name: "array size range", c: tooldef.Constraints{Type: tooldef.TypeArray, Size: &tooldef.Size{Min: 1, Max: 3}}, raw: []int{1, 2, 3}, want: []string{"1", "2", "3"}, list: true},
		{name: "array element bounds", c: tooldef.Constraints{Type: tooldef.TypeArray, Of: tooldef.TypeInteger, Max: f64(5)}, raw: []int{1, 6}, wantErr: true},
		{name: "nil", c: tooldef.Constraints{}, raw: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Validate("p", tt.c, tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("Validate() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if !slices.Equal(got.Items, tt.want) || got.List != tt.list {
				t.Errorf("Validate() = %+v, want items %v list %v", got, tt.want, tt.list)
			}
		})
	}
}

// Size is checked before element constraints, so an oversized array of
// invalid elements reports the count.
func TestValidate_SizeBeforeElements(t *testing.T) {
	t.Parallel()

	c := tooldef.Constraints{
		Type: tooldef.TypeArray,
		Of:   tooldef.TypeInteger,
		Size: &tooldef.Size{Min: 1, Max: 1},
		Min:  f64(10),
	}
	_, err := Validate("pages", c, []int{1, 2})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Validate() error = %v", err)
	}
	if ve.Name != "pages" {
		t.Errorf("error names %q, want the array itself", ve.Name)
	}
}

func TestBool(t *testing.T) {
	t.Parallel()

	if b, err := Bool("f", "yes"); err == nil {
		t.Errorf("Bool(yes) = %v, want error", b)
	}
	if b, err := Bool("f", "TRUE"); err != nil || !b {
		t.Errorf("Bool(TRUE) = %v, %v", b, err)
	}
	if b, err := Bool("f", false); err != nil || b {
		t.Errorf("Bool(false) = %v, %v", b, err)
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := Missing("output")
	if !errors.Is(err, ErrValidation) {
		t.Error("Missing() must wrap ErrValidation")
	}
	if got := err.Error(); got != `parameter "output": required value is missing` {
		t.Errorf("Error() = %q", got)
	}
}
