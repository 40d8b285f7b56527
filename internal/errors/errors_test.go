package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeForbidden,
				Message: "Forbidden",
			},
			want: "Forbidden",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to persist token",
				Cause:   errors.New("disk full"),
			},
			want: "failed to persist token: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AppError{
		Code:    ErrCodeInternal,
		Message: "wrapped error",
		Cause:   cause,
	}

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"unauthorized", Unauthorized("Unauthorized"), IsUnauthorized},
		{"generic forbidden", Forbidden("Forbidden"), IsForbidden},
		{"trial expired is forbidden", New(ErrCodeTrialExpired, "TRIAL_EXPIRED"), IsForbidden},
		{"trial expired is business", New(ErrCodeTrialExpired, "TRIAL_EXPIRED"), IsBusinessForbidden},
		{"cancelled is business", New(ErrCodeSubscriptionCancelled, "SUB_CANCELLED"), IsBusinessForbidden},
		{"request failed", RequestFailed(500, "Request failed: 500"), IsRequestFailed},
		{"sso timeout", New(ErrCodeSSOTimeout, "SSO timeout"), IsSSOTimeout},
		{"sso rejected", New(ErrCodeSSORejected, "no payload"), IsSSORejected},
		{"exchange failed", New(ErrCodeExchangeFailed, "SSO failed"), IsExchangeFailed},
		{"malformed cache", New(ErrCodeMalformedCache, "bad json"), IsMalformedCache},
		{"validation", ValidationField("role", "invalid"), IsValidation},
		{"wrapped internal", fmt.Errorf("outer: %w", Internal("boom")), IsInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("predicate returned false for %v", tt.err)
			}
		})
	}

	if IsBusinessForbidden(Forbidden("Forbidden")) {
		t.Errorf("generic forbidden must not be a business condition")
	}
}

func TestGetCodeAndField(t *testing.T) {
	err := fmt.Errorf("ctx: %w", ValidationField("clock_in", "clock_in is required"))
	if got := GetCode(err); got != ErrCodeValidation {
		t.Errorf("GetCode() = %v", got)
	}
	if got := GetField(err); got != "clock_in" {
		t.Errorf("GetField() = %v", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(Wrap(errors.New("dial tcp"), ErrCodeRequestFailed, "Request failed")); got != "Request failed" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
	if got := UserMessage(nil); got != "" {
		t.Errorf("UserMessage(nil) = %q", got)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestMapTransportError(t *testing.T) {
	if MapTransportError(nil, "x") != nil {
		t.Fatal("expected nil")
	}
	if !IsCanceled(MapTransportError(context.Canceled, "x")) {
		t.Error("expected canceled")
	}
	if !IsTimeout(MapTransportError(context.DeadlineExceeded, "x")) {
		t.Error("expected timeout for deadline")
	}
	if !IsTimeout(MapTransportError(timeoutErr{}, "x")) {
		t.Error("expected timeout for net error")
	}
	if !IsRequestFailed(MapTransportError(errors.New("connection refused"), "x")) {
		t.Error("expected request failed")
	}
	orig := Unauthorized("Unauthorized")
	if got := MapTransportError(fmt.Errorf("wrap: %w", orig), "x"); !IsUnauthorized(got) {
		t.Error("existing AppError must pass through")
	}
}
