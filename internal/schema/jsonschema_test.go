package schema

import (
	"errors"
	"testing"
)

func TestValidateRaw_Valid(t *testing.T) {
	raw := []byte(`{
		"task_description": "Summarize the quarterly results",
		"intent_type": "analyze",
		"constraints": ["Cite the source figures"],
		"output_length_target": 300
	}`)

	if err := ValidateRaw(raw); err != nil {
		t.Errorf("expected valid input, got %v", err)
	}
}

func TestValidateRaw_StringLengthTarget(t *testing.T) {
	// String targets are structurally allowed; parsing rejects bad ones later.
	raw := []byte(`{"task_description": "x", "output_length_target": "300"}`)
	if err := ValidateRaw(raw); err != nil {
		t.Errorf("expected string length target to pass schema, got %v", err)
	}
}

func TestValidateRaw_WrongTypes(t *testing.T) {
	raw := []byte(`{"task_description": 42, "constraints": "not an array"}`)

	err := ValidateRaw(raw)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *InputValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected InputValidationError, got %T", err)
	}
	if len(verr.Errors) < 2 {
		t.Errorf("expected both fields reported, got %v", verr.Errors)
	}
}

func TestValidateRaw_MalformedJSON(t *testing.T) {
	if err := ValidateRaw([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed json")
	}
}
