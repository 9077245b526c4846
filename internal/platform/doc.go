// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// This package centralizes platform-specific concerns such as GOOS string
// constants and the resolution of per-user data directories, so the rest of
// the codebase never hard-codes OS-dependent paths.
package platform
