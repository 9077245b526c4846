// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

type stubProvider struct {
	cfg *Config
	err error
}

func (s *stubProvider) Load(context.Context, LoadOptions) (*Config, error) {
	return s.cfg, s.err
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestWatcherNotifiesLiveApplyKey(t *testing.T) {
	baseline := DefaultConfig()
	next := DefaultConfig()
	next.Runner.KillOnCancel = false

	stub := &stubProvider{cfg: next}
	w := NewWatcher(stub, LoadOptions{}, "config.cue", baseline, quietLogger())

	var got *Config
	w.Subscribe(KeyRunnerKillOnCancel, func(cfg *Config) { got = cfg })

	w.reload(context.Background())

	if got == nil {
		t.Fatal("expected live-apply subscriber to fire")
	}
	if got.Runner.KillOnCancel {
		t.Error("subscriber should receive the updated config")
	}
}

func TestWatcherSkipsNextRunKey(t *testing.T) {
	baseline := DefaultConfig()
	next := DefaultConfig()
	next.Shell.Preferred = ShellPwsh

	stub := &stubProvider{cfg: next}
	w := NewWatcher(stub, LoadOptions{}, "config.cue", baseline, quietLogger())

	fired := false
	w.Subscribe(KeyShellPreferred, func(*Config) { fired = true })

	w.reload(context.Background())

	if fired {
		t.Error("next-run key subscriber should never fire on reload")
	}
}

func TestWatcherIgnoresUnchangedKeys(t *testing.T) {
	baseline := DefaultConfig()
	next := DefaultConfig()
	next.History.MaxEntries = 50

	stub := &stubProvider{cfg: next}
	w := NewWatcher(stub, LoadOptions{}, "config.cue", baseline, quietLogger())

	killFired := false
	historyFired := false
	w.Subscribe(KeyRunnerKillOnCancel, func(*Config) { killFired = true })
	w.Subscribe(KeyHistoryMaxEntries, func(*Config) { historyFired = true })

	w.reload(context.Background())

	if killFired {
		t.Error("unchanged key subscriber should not fire")
	}
	if !historyFired {
		t.Error("changed key subscriber should fire")
	}
}

func TestWatcherKeepsPreviousConfigOnLoadError(t *testing.T) {
	baseline := DefaultConfig()
	stub := &stubProvider{err: context.DeadlineExceeded}
	w := NewWatcher(stub, LoadOptions{}, "config.cue", baseline, quietLogger())

	fired := false
	w.Subscribe(KeyRunnerKillOnCancel, func(*Config) { fired = true })

	w.reload(context.Background())

	if fired {
		t.Error("no subscriber should fire when reload fails")
	}
	w.mu.Lock()
	current := w.current
	w.mu.Unlock()
	if current != baseline {
		t.Error("current config should be unchanged after a failed reload")
	}
}

func TestWatcherUnsubscribe(t *testing.T) {
	baseline := DefaultConfig()
	next := DefaultConfig()
	next.Runner.KillOnCancel = false

	stub := &stubProvider{cfg: next}
	w := NewWatcher(stub, LoadOptions{}, "config.cue", baseline, quietLogger())

	fired := false
	unsub := w.Subscribe(KeyRunnerKillOnCancel, func(*Config) { fired = true })
	unsub()

	w.reload(context.Background())

	if fired {
		t.Error("unsubscribed callback should not fire")
	}
}

func TestWatcherUnsubscribeInAnyOrder(t *testing.T) {
	baseline := DefaultConfig()
	next := DefaultConfig()
	next.Runner.KillOnCancel = false

	stub := &stubProvider{cfg: next}
	w := NewWatcher(stub, LoadOptions{}, "config.cue", baseline, quietLogger())

	firstFired := false
	secondFired := false
	unsubFirst := w.Subscribe(KeyRunnerKillOnCancel, func(*Config) { firstFired = true })
	unsubSecond := w.Subscribe(KeyRunnerKillOnCancel, func(*Config) { secondFired = true })

	// Removing the earlier subscription must not invalidate the later one.
	unsubFirst()
	unsubSecond()

	w.reload(context.Background())

	if firstFired || secondFired {
		t.Errorf("no unsubscribed callback should fire, got first=%v second=%v",
			firstFired, secondFired)
	}
}

func TestWatcherUnsubscribeKeepsOtherSubscribers(t *testing.T) {
	baseline := DefaultConfig()
	next := DefaultConfig()
	next.Runner.KillOnCancel = false

	stub := &stubProvider{cfg: next}
	w := NewWatcher(stub, LoadOptions{}, "config.cue", baseline, quietLogger())

	firstFired := false
	secondFired := false
	unsubFirst := w.Subscribe(KeyRunnerKillOnCancel, func(*Config) { firstFired = true })
	w.Subscribe(KeyRunnerKillOnCancel, func(*Config) { secondFired = true })

	unsubFirst()
	unsubFirst() // unsubscribing twice is harmless

	w.reload(context.Background())

	if firstFired {
		t.Error("unsubscribed callback should not fire")
	}
	if !secondFired {
		t.Error("remaining subscriber should still fire")
	}
}
