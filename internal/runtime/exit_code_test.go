// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"testing"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code       ExitCode
		valid      bool
		success    bool
		wantSignal int
	}{
		{code: 0, valid: true, success: true},
		{code: 1, valid: true},
		{code: 124, valid: true},
		{code: 128, valid: true},
		{code: 137, valid: true, wantSignal: 9},
		{code: 255, valid: true, wantSignal: 127},
		{code: -1},
		{code: 256},
		{code: 70000},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			t.Parallel()

			ok, errs := tt.code.IsValid()
			if ok != tt.valid {
				t.Errorf("IsValid() = %v, want %v", ok, tt.valid)
			}
			if !ok && (len(errs) != 1 || !errors.Is(errs[0], ErrInvalidExitCode)) {
				t.Errorf("IsValid() errs = %v, want one ErrInvalidExitCode", errs)
			}
			if got := tt.code.IsSuccess(); got != tt.success {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.success)
			}
			sig, isSig := tt.code.Signal()
			if isSig != (tt.wantSignal != 0) || sig != tt.wantSignal {
				t.Errorf("Signal() = %d, %v, want %d", sig, isSig, tt.wantSignal)
			}
		})
	}
}

func TestSignalExitCode(t *testing.T) {
	t.Parallel()

	for _, sig := range []int{1, 2, 9, 15, 19} {
		code := signalExitCode(sig)
		if got, ok := code.Signal(); !ok || got != sig {
			t.Errorf("signalExitCode(%d).Signal() = %d, %v, want %d, true", sig, got, ok, sig)
		}
	}
}
