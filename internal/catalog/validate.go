// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	idPattern      = regexp.MustCompile(`^[a-z0-9-]+$`)
	versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

	// Verb prefixes that indicate a verify check would mutate state.
	// Verify checks are supposed to be read-only probes.
	mutatingVerbs = []string{
		"set-", "new-", "remove-", "stop-", "start-", "restart-",
		"disable-", "enable-", "clear-", "install-", "uninstall-",
	}
)

// validator accumulates findings while walking a raw pack document. It
// never panics on malformed input; every shape mismatch becomes a finding.
type validator struct {
	packID string
	errs   []ValidationError
}

func (v *validator) errorf(path, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		PackID:   v.packID,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	})
}

func (v *validator) warnf(path, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		PackID:   v.packID,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
	})
}

// ValidatePack walks a decoded pack document and returns the typed pack
// together with every finding. The pack is nil when any error-severity
// finding was produced; warnings alone still yield a usable pack.
func ValidatePack(raw map[string]any, packID string) (*Pack, []ValidationError) {
	v := &validator{packID: packID}

	pack := Pack{
		ID:          v.requiredString(raw, "id"),
		Name:        v.requiredString(raw, "name"),
		Description: v.requiredString(raw, "description"),
		Version:     v.requiredString(raw, "version"),
		Author:      v.optionalString(raw, "author"),
	}

	if pack.ID != "" && !idPattern.MatchString(pack.ID) {
		v.errorf("id", "must be lowercase kebab-case (letters, digits, hyphens), got %q", pack.ID)
	}
	if pack.Version != "" && !versionPattern.MatchString(pack.Version) {
		v.errorf("version", "must be a three-part version like 1.0.0, got %q", pack.Version)
	}

	rawCommands, ok := raw["commands"]
	if !ok {
		v.errorf("commands", "required field is missing")
	} else if list, ok := rawCommands.([]any); !ok {
		v.errorf("commands", "must be an array, got %T", rawCommands)
	} else {
		seen := map[string]int{}
		for i, item := range list {
			path := fmt.Sprintf("commands[%d]", i)
			cmdRaw, ok := item.(map[string]any)
			if !ok {
				v.errorf(path, "must be an object, got %T", item)
				continue
			}
			cmd := v.validateCommand(cmdRaw, path)
			if cmd.ID != "" {
				if prev, dup := seen[cmd.ID]; dup {
					v.errorf(path+".id", "duplicate command id %q (first defined at commands[%d])", cmd.ID, prev)
				} else {
					seen[cmd.ID] = i
				}
			}
			pack.Commands = append(pack.Commands, cmd)
		}
	}

	if HasErrors(v.errs) {
		return nil, v.errs
	}
	return &pack, v.errs
}

// validateCommand validates one command object and returns it with
// defaults applied. Findings reference fields below path.
func (v *validator) validateCommand(raw map[string]any, path string) Command {
	cmd := Command{
		ID:          v.requiredStringAt(raw, path, "id"),
		Label:       v.requiredStringAt(raw, path, "label"),
		Description: v.requiredStringAt(raw, path, "description"),
		CommandText: v.optionalStringAt(raw, path, "commandText"),
		ScriptPath:  v.optionalStringAt(raw, path, "scriptPath"),
		Preview:     v.optionalStringAt(raw, path, "preview"),
	}

	if cmd.ID != "" && !idPattern.MatchString(cmd.ID) {
		v.errorf(path+".id", "must be lowercase kebab-case (letters, digits, hyphens), got %q", cmd.ID)
	}

	cmd.Category = Category(v.enumAt(raw, path, "category", true, "",
		string(CategoryInventory), string(CategoryNetworking), string(CategoryStartup),
		string(CategoryPrivacy), string(CategorySecurity)))

	cmd.RiskLevel = RiskLevel(v.enumAt(raw, path, "riskLevel", false, string(RiskInfo),
		string(RiskInfo), string(RiskModerate), string(RiskDestructive)))

	cmd.RequiresAdmin = v.boolAt(raw, path, "requiresAdmin", false)
	cmd.SupportsWhatIf = v.boolAt(raw, path, "supportsWhatIf", false)

	// Exactly one command body. Checked as a second pass so that both
	// fields report their own type problems first.
	hasText := strings.TrimSpace(cmd.CommandText) != ""
	hasScript := strings.TrimSpace(cmd.ScriptPath) != ""
	switch {
	case hasText && hasScript:
		v.errorf(path+".commandText/scriptPath", "must not set both commandText and scriptPath")
	case !hasText && !hasScript:
		v.errorf(path+".commandText/scriptPath", "must set either commandText or scriptPath")
	}

	for _, tag := range v.stringSliceAt(raw, path, "os") {
		if tag != string(OSWin10) && tag != string(OSWin11) {
			v.errorf(path+".os", "unknown os tag %q, expected win10 or win11", tag)
			continue
		}
		cmd.OS = append(cmd.OS, OSTag(tag))
	}
	if cmd.OS == nil {
		cmd.OS = []OSTag{OSWin10, OSWin11}
	}

	for _, tag := range v.stringSliceAt(raw, path, "shell") {
		if tag != string(ShellTagPwsh) && tag != string(ShellTagPowershell) {
			v.errorf(path+".shell", "unknown shell tag %q, expected pwsh or powershell", tag)
			continue
		}
		cmd.Shells = append(cmd.Shells, ShellTag(tag))
	}
	if cmd.Shells == nil {
		cmd.Shells = []ShellTag{ShellTagPwsh, ShellTagPowershell}
	}

	cmd.Tags = v.stringSliceAt(raw, path, "tags")
	cmd.Deps = v.stringSliceAt(raw, path, "deps")

	if rawParams, ok := raw["params"]; ok {
		if list, ok := rawParams.([]any); ok {
			seen := map[string]bool{}
			for i, item := range list {
				ppath := fmt.Sprintf("%s.params[%d]", path, i)
				paramRaw, ok := item.(map[string]any)
				if !ok {
					v.errorf(ppath, "must be an object, got %T", item)
					continue
				}
				param := v.validateParameter(paramRaw, ppath)
				if param.Name != "" && seen[param.Name] {
					v.errorf(ppath+".name", "duplicate parameter name %q", param.Name)
				}
				seen[param.Name] = true
				cmd.Params = append(cmd.Params, param)
			}
		} else {
			v.errorf(path+".params", "must be an array, got %T", rawParams)
		}
	}

	// A single check object is the canonical form; an array of checks is
	// accepted as a convenience.
	if rawChecks, ok := raw["verifyAfterRun"]; ok {
		switch checks := rawChecks.(type) {
		case map[string]any:
			cmd.VerifyAfterRun = append(cmd.VerifyAfterRun,
				v.validateVerifyCheck(checks, path+".verifyAfterRun"))
		case []any:
			for i, item := range checks {
				cpath := fmt.Sprintf("%s.verifyAfterRun[%d]", path, i)
				checkRaw, ok := item.(map[string]any)
				if !ok {
					v.errorf(cpath, "must be an object, got %T", item)
					continue
				}
				cmd.VerifyAfterRun = append(cmd.VerifyAfterRun, v.validateVerifyCheck(checkRaw, cpath))
			}
		default:
			v.errorf(path+".verifyAfterRun", "must be a verify check object or an array of them, got %T", rawChecks)
		}
	}

	return cmd
}

func (v *validator) validateParameter(raw map[string]any, path string) Parameter {
	param := Parameter{
		Name:        v.requiredStringAt(raw, path, "name"),
		Description: v.optionalStringAt(raw, path, "description"),
		Optional:    v.boolAt(raw, path, "optional", false),
		Default:     raw["default"],
	}

	param.Type = ParamType(v.enumAt(raw, path, "type", true, "",
		string(ParamString), string(ParamNumber), string(ParamBoolean), string(ParamSelect)))

	param.Options = v.stringSliceAt(raw, path, "options")
	if param.Type == ParamSelect && len(param.Options) == 0 {
		v.errorf(path+".options", "select parameters require at least one option")
	}
	if param.Type != ParamSelect && len(param.Options) > 0 {
		v.warnf(path+".options", "options are only used by select parameters")
	}

	if rawVal, ok := raw["validation"]; ok {
		valRaw, ok := rawVal.(map[string]any)
		if !ok {
			v.errorf(path+".validation", "must be an object, got %T", rawVal)
			return param
		}
		pv := &ParamValidation{Pattern: v.optionalStringAt(valRaw, path+".validation", "pattern")}
		if pv.Pattern != "" {
			if _, err := regexp.Compile(pv.Pattern); err != nil {
				v.errorf(path+".validation.pattern", "invalid regular expression: %v", err)
			}
		}
		pv.Min = v.numberAt(valRaw, path+".validation", "min")
		pv.Max = v.numberAt(valRaw, path+".validation", "max")
		if pv.Min != nil && pv.Max != nil && *pv.Min > *pv.Max {
			v.errorf(path+".validation", "min %v is greater than max %v", *pv.Min, *pv.Max)
		}
		param.Validation = pv
	}

	return param
}

func (v *validator) validateVerifyCheck(raw map[string]any, path string) VerifyCheck {
	check := VerifyCheck{
		Description:    v.requiredStringAt(raw, path, "description"),
		CheckCommand:   v.requiredStringAt(raw, path, "checkCommand"),
		ExpectedResult: v.optionalStringAt(raw, path, "expectedResult"),
		FailureHint:    v.optionalStringAt(raw, path, "failureHint"),
	}

	lower := strings.ToLower(check.CheckCommand)
	for _, verb := range mutatingVerbs {
		if strings.Contains(lower, verb) {
			v.warnf(path+".checkCommand", "check commands should be read-only probes; %q looks like it mutates state", strings.TrimSuffix(verb, "-"))
			break
		}
	}

	return check
}

// requiredString reads a top-level required string field.
func (v *validator) requiredString(raw map[string]any, key string) string {
	return v.requiredStringAt(raw, "", key)
}

func (v *validator) optionalString(raw map[string]any, key string) string {
	return v.optionalStringAt(raw, "", key)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func (v *validator) requiredStringAt(raw map[string]any, path, key string) string {
	val, ok := raw[key]
	if !ok {
		v.errorf(join(path, key), "required field is missing")
		return ""
	}
	s, ok := val.(string)
	if !ok {
		v.errorf(join(path, key), "must be a string, got %T", val)
		return ""
	}
	if strings.TrimSpace(s) == "" {
		v.errorf(join(path, key), "must not be blank")
		return ""
	}
	return s
}

func (v *validator) optionalStringAt(raw map[string]any, path, key string) string {
	val, ok := raw[key]
	if !ok {
		return ""
	}
	s, ok := val.(string)
	if !ok {
		v.errorf(join(path, key), "must be a string, got %T", val)
		return ""
	}
	return s
}

// enumAt reads a string field constrained to allowed values. Missing
// optional fields take def; missing required fields are an error.
func (v *validator) enumAt(raw map[string]any, path, key string, required bool, def string, allowed ...string) string {
	val, ok := raw[key]
	if !ok {
		if required {
			v.errorf(join(path, key), "required field is missing, expected one of %s", strings.Join(allowed, ", "))
		}
		return def
	}
	s, ok := val.(string)
	if !ok {
		v.errorf(join(path, key), "must be a string, got %T", val)
		return def
	}
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	v.errorf(join(path, key), "invalid value %q, expected one of %s", s, strings.Join(allowed, ", "))
	return def
}

func (v *validator) boolAt(raw map[string]any, path, key string, def bool) bool {
	val, ok := raw[key]
	if !ok {
		return def
	}
	b, ok := val.(bool)
	if !ok {
		v.errorf(join(path, key), "must be a boolean, got %T", val)
		return def
	}
	return b
}

// stringSliceAt reads an optional array-of-strings field. Returns nil when
// absent so callers can distinguish "not set" from "empty".
func (v *validator) stringSliceAt(raw map[string]any, path, key string) []string {
	val, ok := raw[key]
	if !ok {
		return nil
	}
	list, ok := val.([]any)
	if !ok {
		v.errorf(join(path, key), "must be an array of strings, got %T", val)
		return nil
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			v.errorf(fmt.Sprintf("%s[%d]", join(path, key), i), "must be a string, got %T", item)
			continue
		}
		out = append(out, s)
	}
	return out
}

// numberAt reads an optional numeric field. JSON decodes numbers as
// float64 while TOML and YAML may produce int or int64.
func (v *validator) numberAt(raw map[string]any, path, key string) *float64 {
	val, ok := raw[key]
	if !ok {
		return nil
	}
	var f float64
	switch n := val.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		v.errorf(join(path, key), "must be a number, got %T", val)
		return nil
	}
	return &f
}
