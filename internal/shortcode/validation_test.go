package shortcode

import (
	"errors"
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func demoDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name: "demo",
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{Name: "id", Type: interfaces.ShortcodeParamString, Required: true},
				{Name: "count", Type: interfaces.ShortcodeParamInt, Default: 1},
				{Name: "enabled", Type: interfaces.ShortcodeParamBool, Default: false},
				{Name: "items", Type: interfaces.ShortcodeParamArray},
				{Name: "link", Type: interfaces.ShortcodeParamURL},
			},
		},
	}
}

func TestValidator_ValidateDefinition(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateDefinition(demoDefinition()); err != nil {
		t.Fatalf("ValidateDefinition: %v", err)
	}

	missingName := interfaces.ShortcodeDefinition{}
	if err := v.ValidateDefinition(missingName); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition for missing name, got %v", err)
	}

	badType := interfaces.ShortcodeDefinition{
		Name: "bad",
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{Name: "value", Type: "decimal"},
			},
		},
	}
	if err := v.ValidateDefinition(badType); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition for unknown type, got %v", err)
	}
}

func TestValidator_CoerceParams(t *testing.T) {
	v := NewValidator()

	out, err := v.CoerceParams(demoDefinition(), map[string]any{
		"id":      "abc",
		"count":   "42",
		"enabled": "yes",
		"items":   "a, b ,c",
		"link":    "https://example.com/page",
	})
	if err != nil {
		t.Fatalf("CoerceParams: %v", err)
	}

	if out["count"] != 42 {
		t.Fatalf("expected count coerced to 42, got %#v", out["count"])
	}
	if out["enabled"] != true {
		t.Fatalf("expected enabled coerced to true, got %#v", out["enabled"])
	}
	items, ok := out["items"].([]any)
	if !ok || len(items) != 3 || items[1] != "b" {
		t.Fatalf("expected items split into 3 values, got %#v", out["items"])
	}
}

func TestValidator_CoerceParams_Defaults(t *testing.T) {
	v := NewValidator()

	out, err := v.CoerceParams(demoDefinition(), map[string]any{"id": "abc"})
	if err != nil {
		t.Fatalf("CoerceParams: %v", err)
	}

	if out["count"] != 1 {
		t.Fatalf("expected default count 1, got %#v", out["count"])
	}
	if out["enabled"] != false {
		t.Fatalf("expected default enabled false, got %#v", out["enabled"])
	}
}

func TestValidator_CoerceParams_Positional(t *testing.T) {
	v := NewValidator()

	out, err := v.CoerceParams(demoDefinition(), map[string]any{"param1": "abc"})
	if err != nil {
		t.Fatalf("CoerceParams: %v", err)
	}
	if out["id"] != "abc" {
		t.Fatalf("expected positional value bound to id, got %#v", out)
	}
}

func TestValidator_CoerceParams_Errors(t *testing.T) {
	v := NewValidator()

	if _, err := v.CoerceParams(demoDefinition(), map[string]any{}); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}

	if _, err := v.CoerceParams(demoDefinition(), map[string]any{"id": "abc", "bogus": 1}); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("expected ErrUnknownParameter, got %v", err)
	}

	if _, err := v.CoerceParams(demoDefinition(), map[string]any{"id": "abc", "count": "nope"}); !errors.Is(err, ErrParameterType) {
		t.Fatalf("expected ErrParameterType, got %v", err)
	}
}
