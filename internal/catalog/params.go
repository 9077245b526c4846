// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_-]+)\}\}`)

// ResolveParams merges provided values with parameter defaults and checks
// them against the declarations: required presence, value type, select
// options, pattern and range constraints. All violations are reported at
// once through a joined error.
func ResolveParams(cmd *Command, values map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(cmd.Params))
	var errs []error

	declared := map[string]bool{}
	for i := range cmd.Params {
		param := &cmd.Params[i]
		declared[param.Name] = true

		value, provided := values[param.Name]
		if !provided {
			if param.Default != nil {
				value = defaultString(param.Default)
			} else if !param.Optional {
				errs = append(errs, fmt.Errorf("parameter %q is required", param.Name))
				continue
			} else {
				continue
			}
		}

		if err := checkParamValue(param, value); err != nil {
			errs = append(errs, err)
			continue
		}
		resolved[param.Name] = value
	}

	for name := range values {
		if !declared[name] {
			errs = append(errs, fmt.Errorf("unknown parameter %q", name))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return resolved, nil
}

func defaultString(def any) string {
	switch v := def.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func checkParamValue(param *Parameter, value string) error {
	switch param.Type {
	case ParamNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("parameter %q must be a number, got %q", param.Name, value)
		}
		if v := param.Validation; v != nil {
			if v.Min != nil && n < *v.Min {
				return fmt.Errorf("parameter %q must be >= %v, got %v", param.Name, *v.Min, n)
			}
			if v.Max != nil && n > *v.Max {
				return fmt.Errorf("parameter %q must be <= %v, got %v", param.Name, *v.Max, n)
			}
		}
	case ParamBoolean:
		if value != "true" && value != "false" {
			return fmt.Errorf("parameter %q must be true or false, got %q", param.Name, value)
		}
	case ParamSelect:
		for _, opt := range param.Options {
			if value == opt {
				return nil
			}
		}
		return fmt.Errorf("parameter %q must be one of %s, got %q",
			param.Name, strings.Join(param.Options, ", "), value)
	case ParamString:
		if v := param.Validation; v != nil && v.Pattern != "" {
			re, err := regexp.Compile(v.Pattern)
			if err != nil {
				return fmt.Errorf("parameter %q has an invalid pattern: %w", param.Name, err)
			}
			if !re.MatchString(value) {
				return fmt.Errorf("parameter %q must match %s, got %q", param.Name, v.Pattern, value)
			}
		}
	}
	return nil
}

// RenderText substitutes {{name}} placeholders with resolved values.
// Placeholders with no resolved value are left untouched so the problem
// is visible in previews.
func RenderText(text string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := values[name]; ok {
			return value
		}
		return match
	})
}

// RenderCommand resolves parameters and renders the command's inline text.
// Script-backed commands are returned unchanged; their parameters are
// passed through the script's own argument handling.
func RenderCommand(cmd *Command, values map[string]string) (Command, error) {
	resolved, err := ResolveParams(cmd, values)
	if err != nil {
		return Command{}, err
	}
	rendered := *cmd
	if rendered.CommandText != "" {
		rendered.CommandText = RenderText(rendered.CommandText, resolved)
	}
	return rendered, nil
}
