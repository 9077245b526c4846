// SPDX-License-Identifier: MPL-2.0

package artifacts

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), log.New(io.Discard))
}

func TestNewRunIDIsSortable(t *testing.T) {
	a := NewRunID()
	time.Sleep(2 * time.Millisecond)
	b := NewRunID()

	if _, err := ulid.ParseStrict(a); err != nil {
		t.Fatalf("run id %q is not a ULID: %v", a, err)
	}
	if a >= b {
		t.Errorf("later run ids should sort after earlier ones: %q >= %q", a, b)
	}
}

func TestRunArtifactLayout(t *testing.T) {
	store := newTestStore(t)

	id := NewRunID()
	run, err := store.CreateRun(id)
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}

	if filepath.Base(run.BatchPath()) != "batch.json" {
		t.Errorf("unexpected manifest path: %s", run.BatchPath())
	}
	if filepath.Base(run.ResultsPath()) != "results.jsonl" {
		t.Errorf("unexpected results path: %s", run.ResultsPath())
	}
	if filepath.Base(run.LogPath()) != "log.txt" {
		t.Errorf("unexpected log path: %s", run.LogPath())
	}

	started := time.Now().UTC()
	if err := run.WriteManifest(BatchManifest{
		RunID:      id,
		StartedAt:  started,
		Mode:       "headless",
		Shell:      "pwsh",
		CommandIDs: []string{"flush-dns", "os-info"},
	}); err != nil {
		t.Fatalf("WriteManifest() failed: %v", err)
	}

	data, err := os.ReadFile(run.BatchPath())
	if err != nil {
		t.Fatal(err)
	}
	var m BatchManifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if m.RunID != id || len(m.CommandIDs) != 2 {
		t.Errorf("unexpected manifest content: %+v", m)
	}
}

func TestAppendResultProducesJSONL(t *testing.T) {
	store := newTestStore(t)
	run, err := store.CreateRun(NewRunID())
	if err != nil {
		t.Fatal(err)
	}

	for i, rec := range []ResultRecord{
		{RunID: run.ID, ExitCode: 0, Success: true},
		{RunID: run.ID, ExitCode: 1, Success: false, Message: "engine failure"},
	} {
		rec.FinishedAt = time.Now().UTC()
		if err := run.AppendResult(rec); err != nil {
			t.Fatalf("AppendResult(%d) failed: %v", i, err)
		}
	}

	f, err := os.Open(run.ResultsPath())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec ResultRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 result lines, got %d", lines)
	}
}

func TestSweepRemovesExpiredRuns(t *testing.T) {
	store := newTestStore(t)

	// An old run, timestamped through its ULID.
	oldID := ulid.MustNew(ulid.Timestamp(time.Now().AddDate(0, 0, -30)), ulid.DefaultEntropy()).String()
	if _, err := store.CreateRun(oldID); err != nil {
		t.Fatal(err)
	}

	freshID := NewRunID()
	if _, err := store.CreateRun(freshID); err != nil {
		t.Fatal(err)
	}

	removed, err := store.Sweep(14)
	if err != nil {
		t.Fatalf("Sweep() failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed run, got %d", removed)
	}

	if _, err := os.Stat(filepath.Join(store.baseDir, oldID)); !os.IsNotExist(err) {
		t.Error("the expired run should be gone")
	}
	if _, err := os.Stat(filepath.Join(store.baseDir, freshID)); err != nil {
		t.Errorf("the fresh run should survive: %v", err)
	}
}

func TestSweepDisabledRetention(t *testing.T) {
	store := newTestStore(t)
	oldID := ulid.MustNew(ulid.Timestamp(time.Now().AddDate(0, 0, -365)), ulid.DefaultEntropy()).String()
	if _, err := store.CreateRun(oldID); err != nil {
		t.Fatal(err)
	}

	removed, err := store.Sweep(0)
	if err != nil {
		t.Fatalf("Sweep() failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("retention 0 disables sweeping, removed %d", removed)
	}
}

func TestSweepMissingBaseDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-created"), log.New(io.Discard))
	if _, err := store.Sweep(14); err != nil {
		t.Errorf("sweeping a missing base dir should be a no-op, got: %v", err)
	}
}
