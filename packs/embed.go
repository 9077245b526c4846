// SPDX-License-Identifier: MPL-2.0

// Package packs carries the built-in command packs, embedded so the
// binary works without any files on disk.
package packs

import "embed"

// Root is the directory inside FS holding the pack files.
const Root = "builtin"

//go:embed builtin/*.json
var FS embed.FS
