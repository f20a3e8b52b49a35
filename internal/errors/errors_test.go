// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestUserError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *UserError
		want string
	}{
		{
			name: "with underlying error",
			err: &UserError{
				Message: "Cannot open git repository",
				Err:     fmt.Errorf("repository does not exist"),
			},
			want: "Cannot open git repository: repository does not exist",
		},
		{
			name: "without underlying error",
			err: &UserError{
				Message: "Invalid worker count",
				Err:     nil,
			},
			want: "Invalid worker count",
		},
		{
			name: "empty message with underlying error",
			err: &UserError{
				Message: "",
				Err:     fmt.Errorf("some error"),
			},
			want: ": some error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("UserError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("underlying error")

	withErr := &UserError{Message: "test", Err: underlying}
	if got := withErr.Unwrap(); got != underlying {
		t.Errorf("UserError.Unwrap() = %v, want %v", got, underlying)
	}

	withoutErr := &UserError{Message: "test"}
	if got := withoutErr.Unwrap(); got != nil {
		t.Errorf("UserError.Unwrap() = %v, want nil", got)
	}
}

func TestExitCodes_Uniqueness(t *testing.T) {
	codes := map[int]string{
		ExitSuccess:    "ExitSuccess",
		ExitConfig:     "ExitConfig",
		ExitVcs:        "ExitVcs",
		ExitThreshold:  "ExitThreshold",
		ExitInput:      "ExitInput",
		ExitPermission: "ExitPermission",
		ExitNotFound:   "ExitNotFound",
		ExitInternal:   "ExitInternal",
	}
	if len(codes) != 8 {
		t.Errorf("exit codes are not unique: %v", codes)
	}
}

func TestConstructors(t *testing.T) {
	underlying := fmt.Errorf("root cause")

	tests := []struct {
		name     string
		err      *UserError
		wantCode int
		wantErr  error
	}{
		{
			name:     "config error",
			err:      NewConfigError("msg", "cause", "fix", underlying),
			wantCode: ExitConfig,
			wantErr:  underlying,
		},
		{
			name:     "vcs error",
			err:      NewVcsError("msg", "cause", "fix", underlying),
			wantCode: ExitVcs,
			wantErr:  underlying,
		},
		{
			name:     "threshold error",
			err:      NewThresholdError("msg", "cause", "fix"),
			wantCode: ExitThreshold,
			wantErr:  nil,
		},
		{
			name:     "input error",
			err:      NewInputError("msg", "cause", "fix"),
			wantCode: ExitInput,
			wantErr:  nil,
		},
		{
			name:     "permission error",
			err:      NewPermissionError("msg", "cause", "fix", underlying),
			wantCode: ExitPermission,
			wantErr:  underlying,
		},
		{
			name:     "not found error",
			err:      NewNotFoundError("msg", "cause", "fix"),
			wantCode: ExitNotFound,
			wantErr:  nil,
		},
		{
			name:     "internal error",
			err:      NewInternalError("msg", "cause", "fix", underlying),
			wantCode: ExitInternal,
			wantErr:  underlying,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Message != "msg" || tt.err.Cause != "cause" || tt.err.Fix != "fix" {
				t.Errorf("constructor did not carry fields: %+v", tt.err)
			}
			if tt.err.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", tt.err.ExitCode, tt.wantCode)
			}
			if tt.err.Err != tt.wantErr {
				t.Errorf("Err = %v, want %v", tt.err.Err, tt.wantErr)
			}
		})
	}
}

func TestErrorChain(t *testing.T) {
	sentinel := errors.New("sentinel")
	wrapped := fmt.Errorf("context: %w", sentinel)
	ue := NewVcsError("Cannot resolve revision", "bad rev", "check the rev", wrapped)

	if !errors.Is(ue, sentinel) {
		t.Error("errors.Is should find the sentinel through the UserError chain")
	}

	var target *UserError
	if !errors.As(fmt.Errorf("outer: %w", error(ue)), &target) {
		t.Error("errors.As should find the UserError in a wrapped chain")
	}
}

func TestUserError_Format_NoColor(t *testing.T) {
	ue := NewNotFoundError(
		"Scan root not found",
		"The path ./src does not exist",
		"Check the path",
	)

	got := ue.Format(true)

	for _, want := range []string{
		"Error: Scan root not found\n",
		"Cause: The path ./src does not exist\n",
		"Fix:   Check the path\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Errorf("Format(true) must not emit ANSI escapes:\n%q", got)
	}
}

func TestUserError_Format_OmitsEmptySections(t *testing.T) {
	ue := &UserError{Message: "just a message"}
	got := ue.Format(true)

	if strings.Contains(got, "Cause:") || strings.Contains(got, "Fix:") {
		t.Errorf("Format() must omit empty sections:\n%s", got)
	}
}

func TestUserError_ToJSON(t *testing.T) {
	ue := NewInputError("Invalid worker count", "must be positive", "use --workers 8")
	got := ue.ToJSON()

	want := ErrorJSON{
		Error:    "Invalid worker count",
		Cause:    "must be positive",
		Fix:      "use --workers 8",
		ExitCode: ExitInput,
	}
	if got != want {
		t.Errorf("ToJSON() = %+v, want %+v", got, want)
	}
}
