// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"strings"
	"testing"
)

func paramFixture() Command {
	min, max := 1.0, 100.0
	return Command{
		ID:          "top-processes",
		CommandText: "Get-Process | Select-Object -First {{count}} -Property {{property}}",
		Params: []Parameter{
			{
				Name: "count", Type: ParamNumber, Optional: true, Default: float64(10),
				Validation: &ParamValidation{Min: &min, Max: &max},
			},
			{
				Name: "property", Type: ParamSelect,
				Options: []string{"Name", "Id"},
			},
			{
				Name: "filter", Type: ParamString, Optional: true,
				Validation: &ParamValidation{Pattern: `^[a-z]+$`},
			},
		},
	}
}

func TestResolveParamsDefaultsAndValidation(t *testing.T) {
	cmd := paramFixture()

	resolved, err := ResolveParams(&cmd, map[string]string{"property": "Name"})
	if err != nil {
		t.Fatalf("ResolveParams() failed: %v", err)
	}
	if resolved["count"] != "10" {
		t.Errorf("default should apply, got %q", resolved["count"])
	}
	if _, ok := resolved["filter"]; ok {
		t.Error("optional parameters without defaults stay unresolved")
	}
}

func TestResolveParamsErrors(t *testing.T) {
	cmd := paramFixture()

	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{"missing required", map[string]string{}, `parameter "property" is required`},
		{"not a number", map[string]string{"property": "Name", "count": "many"}, "must be a number"},
		{"below min", map[string]string{"property": "Name", "count": "0"}, "must be >= 1"},
		{"above max", map[string]string{"property": "Name", "count": "500"}, "must be <= 100"},
		{"bad select option", map[string]string{"property": "Path"}, "must be one of Name, Id"},
		{"pattern violation", map[string]string{"property": "Name", "filter": "UPPER"}, "must match"},
		{"unknown parameter", map[string]string{"property": "Name", "bogus": "x"}, `unknown parameter "bogus"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveParams(&cmd, tt.values)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestResolveParamsReportsAllViolations(t *testing.T) {
	cmd := paramFixture()
	_, err := ResolveParams(&cmd, map[string]string{"count": "0", "bogus": "x"})
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, fragment := range []string{"property", "count", "bogus"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("joined error should mention %q, got: %v", fragment, err)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	cmd := paramFixture()

	rendered, err := RenderCommand(&cmd, map[string]string{"property": "Id", "count": "5"})
	if err != nil {
		t.Fatalf("RenderCommand() failed: %v", err)
	}
	want := "Get-Process | Select-Object -First 5 -Property Id"
	if rendered.CommandText != want {
		t.Errorf("rendered text = %q, want %q", rendered.CommandText, want)
	}
	if cmd.CommandText == rendered.CommandText {
		t.Error("the original command must not be mutated")
	}
}

func TestRenderTextLeavesUnknownPlaceholders(t *testing.T) {
	got := RenderText("ping {{host}} -n {{count}}", map[string]string{"host": "1.1.1.1"})
	want := "ping 1.1.1.1 -n {{count}}"
	if got != want {
		t.Errorf("RenderText() = %q, want %q", got, want)
	}
}
