// SPDX-License-Identifier: MPL-2.0

// Package artifacts persists per-run records on disk. Every batch gets a
// ULID-named directory holding the batch manifest, a JSONL stream of
// results, and a free-form log. ULIDs sort by creation time, so a plain
// directory listing doubles as run history.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"psdash-cli/internal/platform"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"
)

const (
	appDirName  = "psdash"
	runsDirName = "runs"

	batchFileName   = "batch.json"
	resultsFileName = "results.jsonl"
	logFileName     = "log.txt"
)

type (
	// Store manages the runs directory.
	Store struct {
		baseDir string
		logger  *log.Logger
	}

	// Run is one run's artifact directory.
	Run struct {
		ID  string
		Dir string
	}

	// BatchManifest describes what a run executed.
	BatchManifest struct {
		RunID      string    `json:"runId"`
		StartedAt  time.Time `json:"startedAt"`
		Mode       string    `json:"mode"`
		Shell      string    `json:"shell"`
		ShellPath  string    `json:"shellPath,omitempty"`
		CommandIDs []string  `json:"commandIds"`
	}

	// ResultRecord is one line of results.jsonl.
	ResultRecord struct {
		RunID      string    `json:"runId"`
		FinishedAt time.Time `json:"finishedAt"`
		ExitCode   int       `json:"exitCode"`
		Success    bool      `json:"success"`
		Cancelled  bool      `json:"cancelled,omitempty"`
		Message    string    `json:"message,omitempty"`
	}
)

// DefaultBaseDir returns the platform-conventional runs directory.
func DefaultBaseDir() (string, error) {
	base, err := platform.LocalDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName, runsDirName), nil
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string, logger *log.Logger) *Store {
	return &Store{baseDir: baseDir, logger: logger}
}

// NewRunID mints a sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// CreateRun makes the artifact directory for a run id.
func (s *Store) CreateRun(id string) (*Run, error) {
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	return &Run{ID: id, Dir: dir}, nil
}

// BatchPath returns the manifest file path.
func (r *Run) BatchPath() string { return filepath.Join(r.Dir, batchFileName) }

// ResultsPath returns the results stream path.
func (r *Run) ResultsPath() string { return filepath.Join(r.Dir, resultsFileName) }

// LogPath returns the log file path.
func (r *Run) LogPath() string { return filepath.Join(r.Dir, logFileName) }

// WriteManifest writes the batch manifest.
func (r *Run) WriteManifest(m BatchManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode batch manifest: %w", err)
	}
	return os.WriteFile(r.BatchPath(), append(data, '\n'), 0o644)
}

// AppendResult appends one record to results.jsonl.
func (r *Run) AppendResult(rec ResultRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode result record: %w", err)
	}
	return appendLine(r.ResultsPath(), data)
}

// AppendLog appends free-form text to the run log.
func (r *Run) AppendLog(text string) error {
	return appendLine(r.LogPath(), []byte(text))
}

func appendLine(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Sweep removes run directories older than the retention window. The run
// id encodes its creation time; directories whose names do not parse fall
// back to filesystem modification time. Returns how many were removed.
func (s *Store) Sweep(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil // retention disabled
	}

	entries, err := os.ReadDir(s.baseDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list runs directory: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		created, ok := runTime(entry)
		if !ok {
			continue
		}
		if created.After(cutoff) {
			continue
		}

		dir := filepath.Join(s.baseDir, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Warn("failed to remove expired run", "run", entry.Name(), "err", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Debug("swept expired runs", "removed", removed, "retention_days", retentionDays)
	}
	return removed, nil
}

func runTime(entry os.DirEntry) (time.Time, bool) {
	if id, err := ulid.ParseStrict(entry.Name()); err == nil {
		return ulid.Time(id.Time()), true
	}
	info, err := entry.Info()
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
