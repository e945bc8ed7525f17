package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestInvalidKeyFormatCarriesKeyAndToken(t *testing.T) {
	err := InvalidKeyFormat("casco_basic_300", "300")

	if err.Type != TypeInvalidKeyFormat {
		t.Fatalf("expected type %s, got %s", TypeInvalidKeyFormat, err.Type)
	}
	if err.Context["key"] != "casco_basic_300" {
		t.Errorf("expected key in context, got %v", err.Context["key"])
	}
	if err.Context["token"] != "300" {
		t.Errorf("expected token in context, got %v", err.Context["token"])
	}
	if !strings.Contains(err.Error(), "casco_basic_300") {
		t.Errorf("message should name the key: %s", err.Error())
	}
}

func TestIsTypeSeesThroughWrapping(t *testing.T) {
	base := MissingAnchorKey("mtpl")
	wrapped := fmt.Errorf("validate: %w", base)

	if !IsMissingAnchorKey(wrapped) {
		t.Error("IsMissingAnchorKey should match a wrapped error")
	}
	if IsInvalidKeyFormat(wrapped) {
		t.Error("IsInvalidKeyFormat should not match a missing-anchor error")
	}
	if IsType(fmt.Errorf("plain"), TypeInternal) {
		t.Error("plain errors have no type")
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Parsing("bad table", fmt.Errorf("unexpected token"))

	want := "[PARSING_ERROR] bad table: unexpected token"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if err.Unwrap() == nil {
		t.Error("Unwrap should return the cause")
	}
}
