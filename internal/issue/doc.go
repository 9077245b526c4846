// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error types for psdash.
//
// Two layers live here: ActionableError carries structured operation/resource/
// suggestion context for error chains, and Issue holds pre-written markdown
// cards (rendered with glamour) for the handful of terminal faults that abort
// a run outright, such as a missing PowerShell executable.
package issue
