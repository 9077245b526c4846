// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// packExtensions lists the file extensions recognized as pack files.
var packExtensions = map[string]bool{
	".json": true,
	".toml": true,
	".yaml": true,
	".yml":  true,
}

// decodePack parses raw pack bytes into a generic document based on the
// file extension.
func decodePack(data []byte, ext string) (map[string]any, error) {
	raw := map[string]any{}
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported pack file extension %q", ext)
	}
	return raw, nil
}

// parsePack decodes and validates a single pack document. fileID labels
// findings when the document has no usable id of its own.
func parsePack(data []byte, ext, fileID string) (*Pack, []ValidationError) {
	raw, err := decodePack(data, ext)
	if err != nil {
		return nil, []ValidationError{{
			PackID:   fileID,
			Message:  err.Error(),
			Severity: SeverityError,
		}}
	}
	return ValidatePack(raw, fileID)
}

// LoadPackFile loads one pack from disk. A missing or unreadable file is
// reported as a finding, not a hard error.
func LoadPackFile(path string) (*Pack, []ValidationError) {
	fileID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []ValidationError{{
			PackID:   fileID,
			Message:  fmt.Sprintf("failed to read pack file %s: %v", path, err),
			Severity: SeverityError,
		}}
	}
	return parsePack(data, filepath.Ext(path), fileID)
}

// LoadPacksDir scans a directory (non-recursively) for pack files and
// loads every one of them. Invalid files are skipped; their findings are
// accumulated so one broken pack never hides the others. A missing
// directory yields a single error finding.
func LoadPacksDir(dir string) ([]Pack, []ValidationError) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []ValidationError{{
			Message:  fmt.Sprintf("pack directory not found: %s", dir),
			Severity: SeverityError,
		}}
	}

	var (
		packs []Pack
		errs  []ValidationError
	)
	for _, entry := range sortedPackEntries(entries) {
		pack, findings := LoadPackFile(filepath.Join(dir, entry))
		errs = append(errs, findings...)
		if pack != nil {
			packs = append(packs, *pack)
		}
	}
	return packs, errs
}

// LoadPacksFS loads every pack file under root in an fs.FS. Used for the
// built-in packs embedded in the binary.
func LoadPacksFS(fsys fs.FS, root string) ([]Pack, []ValidationError) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, []ValidationError{{
			Message:  fmt.Sprintf("pack directory not found: %s", root),
			Severity: SeverityError,
		}}
	}

	var (
		packs []Pack
		errs  []ValidationError
	)
	for _, name := range sortedPackEntries(entries) {
		fileID := strings.TrimSuffix(name, filepath.Ext(name))
		data, err := fs.ReadFile(fsys, root+"/"+name)
		if err != nil {
			errs = append(errs, ValidationError{
				PackID:   fileID,
				Message:  fmt.Sprintf("failed to read pack file %s: %v", name, err),
				Severity: SeverityError,
			})
			continue
		}
		pack, findings := parsePack(data, filepath.Ext(name), fileID)
		errs = append(errs, findings...)
		if pack != nil {
			packs = append(packs, *pack)
		}
	}
	return packs, errs
}

// LoadPackPaths loads packs from explicit file paths, in order. Blank
// entries are skipped; relative paths are resolved against the working
// directory. A missing file is a finding, not a hard error.
func LoadPackPaths(paths []string) ([]Pack, []ValidationError) {
	var (
		packs []Pack
		errs  []ValidationError
	)
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if _, err := os.Stat(abs); err != nil {
			errs = append(errs, ValidationError{
				PackID:   strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
				Message:  fmt.Sprintf("custom pack file not found: %s", abs),
				Severity: SeverityError,
			})
			continue
		}
		pack, findings := LoadPackFile(abs)
		errs = append(errs, findings...)
		if pack != nil {
			packs = append(packs, *pack)
		}
	}
	return packs, errs
}

// sortedPackEntries filters directory entries down to recognized pack
// files and returns their names in a stable order.
func sortedPackEntries(entries []fs.DirEntry) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if packExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}
