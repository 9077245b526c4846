// SPDX-License-Identifier: MPL-2.0

// Package catalog implements the command catalog: pack schema types, an
// explicit recursive validator, pack file loaders, last-wins merging and
// query filtering.
//
// Packs are parsed from JSON, TOML or YAML into generic maps and then
// validated field by field. Validation never panics and never stops at the
// first problem; every issue is reported as a ValidationError carrying a
// dotted path into the document, so a pack author can fix a whole file in
// one pass.
package catalog
