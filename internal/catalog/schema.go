// SPDX-License-Identifier: MPL-2.0

package catalog

import "fmt"

const (
	// SeverityError marks a problem that rejects the pack or command.
	SeverityError Severity = "error"
	// SeverityWarning marks an advisory finding that does not reject anything.
	SeverityWarning Severity = "warning"
)

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamSelect  ParamType = "select"
)

const (
	RiskInfo        RiskLevel = "info"
	RiskModerate    RiskLevel = "moderate"
	RiskDestructive RiskLevel = "destructive"
)

const (
	CategoryInventory  Category = "Inventory"
	CategoryNetworking Category = "Networking"
	CategoryStartup    Category = "Startup"
	CategoryPrivacy    Category = "Privacy"
	CategorySecurity   Category = "Security"
)

const (
	OSWin10 OSTag = "win10"
	OSWin11 OSTag = "win11"
)

const (
	ShellTagPwsh       ShellTag = "pwsh"
	ShellTagPowershell ShellTag = "powershell"
)

type (
	// Severity classifies a ValidationError.
	Severity string

	// ParamType is the value type of a command parameter.
	ParamType string

	// RiskLevel grades how disruptive a command is.
	RiskLevel string

	// Category is the dashboard grouping a command belongs to.
	Category string

	// OSTag names a supported Windows release.
	OSTag string

	// ShellTag names a PowerShell flavor a command is compatible with.
	ShellTag string

	// ParamValidation holds optional constraints on a parameter value.
	// Pattern applies to string parameters, Min and Max to numbers.
	ParamValidation struct {
		Pattern string   `json:"pattern,omitempty"`
		Min     *float64 `json:"min,omitempty"`
		Max     *float64 `json:"max,omitempty"`
	}

	// Parameter describes one placeholder in a command's text.
	Parameter struct {
		Name        string           `json:"name"`
		Type        ParamType        `json:"type"`
		Optional    bool             `json:"optional"`
		Default     any              `json:"default,omitempty"`
		Description string           `json:"description,omitempty"`
		Options     []string         `json:"options,omitempty"`
		Validation  *ParamValidation `json:"validation,omitempty"`
	}

	// VerifyCheck is a read-only probe run after a command to confirm its
	// effect took hold.
	VerifyCheck struct {
		Description    string `json:"description"`
		CheckCommand   string `json:"checkCommand"`
		ExpectedResult string `json:"expectedResult,omitempty"`
		FailureHint    string `json:"failureHint,omitempty"`
	}

	// Command is one catalog entry. Exactly one of CommandText and
	// ScriptPath is set; the validator enforces the exclusivity.
	// VerifyAfterRun is authored as a single check object (an array form
	// is also accepted); it is normalized to a slice here.
	Command struct {
		ID             string        `json:"id"`
		Label          string        `json:"label"`
		Category       Category      `json:"category"`
		Description    string        `json:"description"`
		CommandText    string        `json:"commandText,omitempty"`
		ScriptPath     string        `json:"scriptPath,omitempty"`
		RequiresAdmin  bool          `json:"requiresAdmin"`
		RiskLevel      RiskLevel     `json:"riskLevel"`
		OS             []OSTag       `json:"os"`
		Shells         []ShellTag    `json:"shell"`
		Params         []Parameter   `json:"params"`
		Tags           []string      `json:"tags"`
		Preview        string        `json:"preview,omitempty"`
		Deps           []string      `json:"deps"`
		VerifyAfterRun []VerifyCheck `json:"verifyAfterRun,omitempty"`
		SupportsWhatIf bool          `json:"supportsWhatIf"`
	}

	// Pack is a versioned bundle of commands from a single file.
	Pack struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Version     string    `json:"version"`
		Author      string    `json:"author,omitempty"`
		Commands    []Command `json:"commands"`
	}

	// ValidationError is one finding from validation, loading or merging.
	// PackID identifies the source pack or file; Path is a dotted path into
	// the document (empty for file-level problems).
	ValidationError struct {
		PackID   string   `json:"packId,omitempty"`
		Path     string   `json:"path,omitempty"`
		Message  string   `json:"message"`
		Severity Severity `json:"severity"`
	}

	// Catalog is the merged view over every loaded pack: the surviving
	// packs, the flattened last-wins command list, and every finding
	// accumulated along the way.
	Catalog struct {
		Packs    []Pack
		Commands []Command
		Errors   []ValidationError
	}
)

// Error implements the error interface.
func (e ValidationError) Error() string {
	where := e.PackID
	if e.Path != "" {
		if where != "" {
			where += ": "
		}
		where += e.Path
	}
	if where == "" {
		return fmt.Sprintf("%s: %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Severity, where, e.Message)
}

// HasErrors reports whether any finding has error severity; warnings alone
// do not count.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// SupportsShell reports whether the command can run under the given shell.
func (c *Command) SupportsShell(tag ShellTag) bool {
	for _, s := range c.Shells {
		if s == tag {
			return true
		}
	}
	return false
}
