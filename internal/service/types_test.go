package service_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"todod/internal/service"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want service.Priority
		ok   bool
	}{
		{"low", service.PriorityLow, true},
		{"HIGH", service.PriorityHigh, true},
		{"  Normal ", service.PriorityNormal, true},
		{"urgent", "urgent", false},
		{"", "", false},
		{"None", "none", false},
	}
	for _, tt := range tests {
		got, ok := service.ParsePriority(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePriority(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsValidation(t *testing.T) {
	err := fmt.Errorf("create: %w", &service.ValidationError{Msg: service.MsgTitleRequired})
	if !service.IsValidation(err) {
		t.Error("expected wrapped ValidationError to be detected")
	}
	if service.IsValidation(errors.New("disk full")) {
		t.Error("plain error should not be a validation error")
	}
	if err.Error() != "create: title must be non-empty" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestFieldText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"Gym", "Gym"},
		{nil, "None"},
		{true, "True"},
		{false, "False"},
		{json.Number("42"), "42"},
		{json.Number("1.50"), "1.50"},
		{[]any{"a", json.Number("1")}, `["a",1]`},
		{map[string]any{"k": "v"}, `{"k":"v"}`},
	}
	for _, tt := range tests {
		if got := service.FieldText(tt.in); got != tt.want {
			t.Errorf("FieldText(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
