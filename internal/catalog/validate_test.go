// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"encoding/json"
	"strings"
	"testing"
)

// decodeJSON parses a JSON pack literal for validator tests.
func decodeJSON(t *testing.T, src string) map[string]any {
	t.Helper()
	raw := map[string]any{}
	if err := json.Unmarshal([]byte(src), &raw); err != nil {
		t.Fatalf("test fixture is not valid JSON: %v", err)
	}
	return raw
}

const validPackJSON = `{
	"id": "network-tools",
	"name": "Network Tools",
	"description": "Networking diagnostics",
	"version": "1.2.0",
	"author": "ops",
	"commands": [
		{
			"id": "flush-dns",
			"label": "Flush DNS cache",
			"category": "Networking",
			"description": "Clears the local DNS resolver cache",
			"commandText": "Clear-DnsClientCache",
			"riskLevel": "moderate",
			"tags": ["dns", "cache"]
		},
		{
			"id": "show-adapters",
			"label": "Show network adapters",
			"category": "Networking",
			"description": "Lists network adapters",
			"scriptPath": "scripts/adapters.ps1",
			"params": [
				{
					"name": "status",
					"type": "select",
					"options": ["Up", "Down"],
					"optional": true,
					"default": "Up"
				}
			]
		}
	]
}`

func errorAt(errs []ValidationError, path string) *ValidationError {
	for i := range errs {
		if errs[i].Path == path {
			return &errs[i]
		}
	}
	return nil
}

func TestValidatePackValid(t *testing.T) {
	pack, errs := ValidatePack(decodeJSON(t, validPackJSON), "network-tools")
	if HasErrors(errs) {
		t.Fatalf("expected no errors, got: %v", errs)
	}
	if pack == nil {
		t.Fatal("expected a pack")
	}

	if pack.ID != "network-tools" || pack.Version != "1.2.0" {
		t.Errorf("unexpected pack identity: %q %q", pack.ID, pack.Version)
	}
	if len(pack.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(pack.Commands))
	}

	flush := pack.Commands[0]
	if flush.RiskLevel != RiskModerate {
		t.Errorf("expected riskLevel moderate, got %q", flush.RiskLevel)
	}
	if flush.RequiresAdmin {
		t.Error("requiresAdmin should default to false")
	}
	if len(flush.OS) != 2 {
		t.Errorf("os should default to both releases, got %v", flush.OS)
	}
	if len(flush.Shells) != 2 {
		t.Errorf("shell should default to both flavors, got %v", flush.Shells)
	}

	adapters := pack.Commands[1]
	if adapters.RiskLevel != RiskInfo {
		t.Errorf("riskLevel should default to info, got %q", adapters.RiskLevel)
	}
	if len(adapters.Params) != 1 || adapters.Params[0].Type != ParamSelect {
		t.Errorf("unexpected params: %+v", adapters.Params)
	}
}

func TestValidatePackMissingRequiredFields(t *testing.T) {
	pack, errs := ValidatePack(decodeJSON(t, `{"commands": []}`), "broken")
	if pack != nil {
		t.Error("pack with errors should be nil")
	}
	for _, field := range []string{"id", "name", "description", "version"} {
		if errorAt(errs, field) == nil {
			t.Errorf("expected an error at path %q, got: %v", field, errs)
		}
	}
}

func TestValidatePackBadIDAndVersion(t *testing.T) {
	raw := decodeJSON(t, validPackJSON)
	raw["id"] = "Network Tools!"
	raw["version"] = "1.2"

	_, errs := ValidatePack(raw, "broken")
	if errorAt(errs, "id") == nil {
		t.Errorf("expected kebab-case error at id, got: %v", errs)
	}
	if errorAt(errs, "version") == nil {
		t.Errorf("expected version format error, got: %v", errs)
	}
}

func TestValidateCommandBodyExclusivity(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"both set", `"commandText": "Get-Date", "scriptPath": "a.ps1"`},
		{"neither set", `"preview": "n/a"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `{
				"id": "p", "name": "P", "description": "d", "version": "1.0.0",
				"commands": [{
					"id": "c", "label": "C", "category": "Inventory",
					"description": "d", ` + tt.body + `
				}]
			}`
			pack, errs := ValidatePack(decodeJSON(t, src), "p")
			if pack != nil {
				t.Error("expected validation to reject the pack")
			}
			e := errorAt(errs, "commands[0].commandText/scriptPath")
			if e == nil {
				t.Fatalf("expected error at the exclusivity path, got: %v", errs)
			}
			if e.Severity != SeverityError {
				t.Errorf("exclusivity finding should be an error, got %q", e.Severity)
			}
		})
	}
}

func TestValidateCommandInvalidEnums(t *testing.T) {
	src := `{
		"id": "p", "name": "P", "description": "d", "version": "1.0.0",
		"commands": [{
			"id": "c", "label": "C", "category": "Gaming",
			"description": "d", "commandText": "Get-Date",
			"riskLevel": "catastrophic",
			"os": ["win7"],
			"shell": ["bash"]
		}]
	}`
	_, errs := ValidatePack(decodeJSON(t, src), "p")

	for _, path := range []string{
		"commands[0].category",
		"commands[0].riskLevel",
		"commands[0].os",
		"commands[0].shell",
	} {
		if errorAt(errs, path) == nil {
			t.Errorf("expected error at %q, got: %v", path, errs)
		}
	}
}

func TestValidateSelectParamRequiresOptions(t *testing.T) {
	src := `{
		"id": "p", "name": "P", "description": "d", "version": "1.0.0",
		"commands": [{
			"id": "c", "label": "C", "category": "Inventory",
			"description": "d", "commandText": "Get-Date",
			"params": [{"name": "mode", "type": "select"}]
		}]
	}`
	pack, errs := ValidatePack(decodeJSON(t, src), "p")
	if pack != nil {
		t.Error("expected validation to reject the pack")
	}
	if errorAt(errs, "commands[0].params[0].options") == nil {
		t.Errorf("expected error for select without options, got: %v", errs)
	}
}

func TestValidateParamConstraints(t *testing.T) {
	src := `{
		"id": "p", "name": "P", "description": "d", "version": "1.0.0",
		"commands": [{
			"id": "c", "label": "C", "category": "Inventory",
			"description": "d", "commandText": "Get-Date",
			"params": [
				{"name": "count", "type": "number", "validation": {"min": 10, "max": 1}},
				{"name": "host", "type": "string", "validation": {"pattern": "[unclosed"}}
			]
		}]
	}`
	_, errs := ValidatePack(decodeJSON(t, src), "p")

	if errorAt(errs, "commands[0].params[0].validation") == nil {
		t.Errorf("expected min > max error, got: %v", errs)
	}
	if errorAt(errs, "commands[0].params[1].validation.pattern") == nil {
		t.Errorf("expected bad regex error, got: %v", errs)
	}
}

func TestValidateMutatingVerifyCheckIsWarning(t *testing.T) {
	src := `{
		"id": "p", "name": "P", "description": "d", "version": "1.0.0",
		"commands": [{
			"id": "c", "label": "C", "category": "Security",
			"description": "d", "commandText": "Get-Date",
			"verifyAfterRun": {
				"description": "service stopped",
				"checkCommand": "Stop-Service -Name Spooler"
			}
		}]
	}`
	pack, errs := ValidatePack(decodeJSON(t, src), "p")
	if pack == nil {
		t.Fatal("a mutating verify check is advisory; the pack must still load")
	}

	w := errorAt(errs, "commands[0].verifyAfterRun.checkCommand")
	if w == nil {
		t.Fatalf("expected a finding on the check command, got: %v", errs)
	}
	if w.Severity != SeverityWarning {
		t.Errorf("expected warning severity, got %q", w.Severity)
	}
}

func TestValidateVerifyAfterRunSingleObject(t *testing.T) {
	src := `{
		"id": "p", "name": "P", "description": "d", "version": "1.0.0",
		"commands": [{
			"id": "c", "label": "C", "category": "Networking",
			"description": "d", "commandText": "Clear-DnsClientCache",
			"verifyAfterRun": {
				"description": "cache is empty",
				"checkCommand": "(Get-DnsClientCache | Measure-Object).Count",
				"expectedResult": "0"
			}
		}]
	}`
	pack, errs := ValidatePack(decodeJSON(t, src), "p")
	if HasErrors(errs) {
		t.Fatalf("a single verify check object must be accepted, got: %v", errs)
	}
	checks := pack.Commands[0].VerifyAfterRun
	if len(checks) != 1 || checks[0].ExpectedResult != "0" {
		t.Errorf("unexpected verify checks: %+v", checks)
	}
}

func TestValidateVerifyAfterRunArrayForm(t *testing.T) {
	src := `{
		"id": "p", "name": "P", "description": "d", "version": "1.0.0",
		"commands": [{
			"id": "c", "label": "C", "category": "Networking",
			"description": "d", "commandText": "Clear-DnsClientCache",
			"verifyAfterRun": [
				{"description": "a", "checkCommand": "Get-Date"},
				{"description": "b", "checkCommand": "Get-Process"}
			]
		}]
	}`
	pack, errs := ValidatePack(decodeJSON(t, src), "p")
	if HasErrors(errs) {
		t.Fatalf("the array form must also be accepted, got: %v", errs)
	}
	if len(pack.Commands[0].VerifyAfterRun) != 2 {
		t.Errorf("unexpected verify checks: %+v", pack.Commands[0].VerifyAfterRun)
	}
}

func TestValidateVerifyAfterRunWrongType(t *testing.T) {
	src := `{
		"id": "p", "name": "P", "description": "d", "version": "1.0.0",
		"commands": [{
			"id": "c", "label": "C", "category": "Networking",
			"description": "d", "commandText": "Get-Date",
			"verifyAfterRun": "not an object"
		}]
	}`
	_, errs := ValidatePack(decodeJSON(t, src), "p")
	if errorAt(errs, "commands[0].verifyAfterRun") == nil {
		t.Errorf("expected a type error, got: %v", errs)
	}
}

func TestValidateDuplicateCommandIDs(t *testing.T) {
	src := `{
		"id": "p", "name": "P", "description": "d", "version": "1.0.0",
		"commands": [
			{"id": "c", "label": "A", "category": "Inventory", "description": "d", "commandText": "Get-Date"},
			{"id": "c", "label": "B", "category": "Inventory", "description": "d", "commandText": "Get-Date"}
		]
	}`
	_, errs := ValidatePack(decodeJSON(t, src), "p")
	if errorAt(errs, "commands[1].id") == nil {
		t.Errorf("expected duplicate id error at the second command, got: %v", errs)
	}
}

func TestValidateTypeMismatchesNeverPanic(t *testing.T) {
	src := `{
		"id": 42, "name": ["x"], "description": true, "version": {"v": 1},
		"commands": [
			"not an object",
			{"id": "c", "label": "C", "category": "Inventory", "description": "d",
			 "commandText": "Get-Date", "tags": "not-an-array", "params": {"bad": true}}
		]
	}`
	pack, errs := ValidatePack(decodeJSON(t, src), "p")
	if pack != nil {
		t.Error("expected validation to reject the pack")
	}
	if !HasErrors(errs) {
		t.Fatal("expected errors for the shape mismatches")
	}
	for _, e := range errs {
		if e.PackID != "p" {
			t.Errorf("every finding should carry the pack id, got %q", e.PackID)
		}
		if strings.TrimSpace(e.Message) == "" {
			t.Error("findings must carry a message")
		}
	}
}
