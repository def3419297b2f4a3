package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "text is empty")

	if err.Code != CodeValidation {
		t.Errorf("expected code=%s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "text is empty" {
		t.Errorf("expected message='text is empty', got %s", err.Message)
	}
	if len(err.Stack) == 0 {
		t.Error("expected stack trace to be captured")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "simple validation error",
			err:      New(CodeValidation, "text too long"),
			contains: []string{"VALIDATION_ERROR", "text too long"},
		},
		{
			name: "error with op",
			err: &Error{
				Code:    CodeUploadFailed,
				Message: "put object failed",
				Op:      "publisher.publish",
			},
			contains: []string{"publisher.publish", "UPLOAD_FAILED", "put object failed"},
		},
		{
			name: "error with underlying",
			err: &Error{
				Code:    CodeRenderFailed,
				Message: "encode failed",
				Err:     fmt.Errorf("jpeg: invalid quality"),
			},
			contains: []string{"encode failed", "jpeg: invalid quality"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str := tt.err.Error()
			for _, c := range tt.contains {
				if !strings.Contains(str, c) {
					t.Errorf("expected error string to contain %q, got: %s", c, str)
				}
			}
		})
	}
}

func TestWrapPreservesCode(t *testing.T) {
	inner := AssetMissing("wallpaper_1", "/assets/wallpaper_1.jpg")
	wrapped := Wrap(inner, "pipeline.render", "render stage failed")

	if wrapped.Code != CodeAssetMissing {
		t.Errorf("expected wrapped code=%s, got %s", CodeAssetMissing, wrapped.Code)
	}
	if !errors.Is(errors.Unwrap(wrapped), inner.Err) && errors.Unwrap(wrapped) != error(inner) {
		t.Error("expected underlying error to be preserved")
	}
}

func TestWrapForeignError(t *testing.T) {
	original := fmt.Errorf("connection refused")
	wrapped := Wrap(original, "publisher.publish", "upload failed")

	if wrapped.Code != CodeInternal {
		t.Errorf("expected code=%s, got %s", CodeInternal, wrapped.Code)
	}
	if wrapped.Op != "publisher.publish" {
		t.Errorf("expected op='publisher.publish', got %s", wrapped.Op)
	}
	if errors.Unwrap(wrapped) != original {
		t.Error("Unwrap should return original error")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "op", "msg") != nil {
		t.Error("wrapping nil should return nil")
	}
	if WrapWithCode(nil, CodeUploadFailed, "op", "msg") != nil {
		t.Error("wrapping nil with code should return nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, 400},
		{CodeNotFound, 404},
		{CodeDeliveryFail, 500},
		{CodeNotConfigured, 503},
		{CodeUnavailable, 503},
		{CodeTimeout, 504},
		{CodeAssetMissing, 500},
		{CodeRenderFailed, 500},
		{CodeUploadFailed, 500},
		{CodeInternal, 500},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "x")
			if got := err.HTTPStatus(); got != tt.status {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.status)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	if c := GetCode(Validation("bad")); c != CodeValidation {
		t.Errorf("Validation code = %s", c)
	}
	if c := GetCode(NotFound("template", "wallpaper_9")); c != CodeNotFound {
		t.Errorf("NotFound code = %s", c)
	}
	if c := GetCode(AssetMissing("wallpaper_1", "/x.jpg")); c != CodeAssetMissing {
		t.Errorf("AssetMissing code = %s", c)
	}
	if c := GetCode(RenderFailed(fmt.Errorf("x"), "render")); c != CodeRenderFailed {
		t.Errorf("RenderFailed code = %s", c)
	}
	if c := GetCode(UploadFailed(fmt.Errorf("x"), "upload")); c != CodeUploadFailed {
		t.Errorf("UploadFailed code = %s", c)
	}
	if c := GetCode(DeliveryFailed("push rejected")); c != CodeDeliveryFail {
		t.Errorf("DeliveryFailed code = %s", c)
	}
	if c := GetCode(NotConfigured("line pusher")); c != CodeNotConfigured {
		t.Errorf("NotConfigured code = %s", c)
	}
}

func TestFields(t *testing.T) {
	err := NotFound("template", "wallpaper_9")

	fields := GetFields(err)
	if fields == nil {
		t.Fatal("expected fields")
	}
	if fields["id"] != "wallpaper_9" {
		t.Errorf("expected id field, got %v", fields["id"])
	}

	err.WithField("extra", 1)
	if err.Fields["extra"] != 1 {
		t.Error("WithField did not add field")
	}
}

func TestIsHelpers(t *testing.T) {
	if !IsValidation(Validation("x")) {
		t.Error("IsValidation false for validation error")
	}
	if !IsNotFound(NotFound("template", "x")) {
		t.Error("IsNotFound false for not found error")
	}
	if !IsDeliveryFailure(DeliveryFailed("x")) {
		t.Error("IsDeliveryFailure false for delivery error")
	}
	if IsDeliveryFailure(fmt.Errorf("plain")) {
		t.Error("IsDeliveryFailure true for plain error")
	}
	if GetCode(fmt.Errorf("plain")) != CodeInternal {
		t.Error("foreign errors should map to INTERNAL_ERROR")
	}
}

func TestErrorsIsByCode(t *testing.T) {
	a := UploadFailed(fmt.Errorf("boom"), "put failed")
	b := New(CodeUploadFailed, "")

	if !errors.Is(a, b) {
		t.Error("errors with the same code should match via errors.Is")
	}
}
