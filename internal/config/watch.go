// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Keys identifying individual settings for change subscriptions.
const (
	KeyShellPreferred     = "shell.preferred"
	KeyExecutionMode      = "execution.mode"
	KeyPacksCustomDir     = "packs.custom_dir"
	KeyPacksCustomPaths   = "packs.custom_paths"
	KeyRunnerKillOnCancel = "runner.kill_on_cancel"
	KeyElevationWaitMs    = "elevation.wait_timeout_ms"
	KeyArtifactsRetention = "artifacts.retention_days"
	KeyHistoryMaxEntries  = "history.max_entries"
)

// LiveApplyKeys are observed immediately by already-constructed components
// through Watcher subscriptions.
var LiveApplyKeys = []string{
	KeyPacksCustomDir,
	KeyPacksCustomPaths,
	KeyRunnerKillOnCancel,
	KeyHistoryMaxEntries,
}

// NextRunKeys only take effect on the next loader/runner invocation; the
// watcher logs a notice instead of notifying subscribers.
var NextRunKeys = []string{
	KeyShellPreferred,
	KeyExecutionMode,
	KeyElevationWaitMs,
	KeyArtifactsRetention,
}

// keyValue extracts the comparable value of a single settings key. Slices
// are compared rendered, which is fine for change detection.
func keyValue(cfg *Config, key string) any {
	switch key {
	case KeyShellPreferred:
		return cfg.Shell.Preferred
	case KeyExecutionMode:
		return cfg.Execution.Mode
	case KeyPacksCustomDir:
		return cfg.Packs.CustomDir
	case KeyPacksCustomPaths:
		joined := ""
		for _, p := range cfg.Packs.CustomPaths {
			joined += p + "\x00"
		}
		return joined
	case KeyRunnerKillOnCancel:
		return cfg.Runner.KillOnCancel
	case KeyElevationWaitMs:
		return cfg.Elevation.WaitTimeoutMs
	case KeyArtifactsRetention:
		return cfg.Artifacts.RetentionDays
	case KeyHistoryMaxEntries:
		return cfg.History.MaxEntries
	}
	return nil
}

type (
	// ChangeCallback receives the freshly loaded configuration after a
	// live-apply key changed on disk.
	ChangeCallback func(cfg *Config)

	// subscription ties a callback to a token so unsubscribing removes
	// exactly the right entry.
	subscription struct {
		id int
		cb ChangeCallback
	}

	// Watcher monitors the config file and dispatches change notifications.
	// Live-apply keys notify subscribers; next-run keys are logged only.
	Watcher struct {
		provider Provider
		opts     LoadOptions
		path     string
		logger   *log.Logger

		mu        sync.Mutex
		current   *Config
		subs      map[string][]subscription
		nextSubID int
		done      chan struct{}
	}
)

// NewWatcher creates a watcher for the config file backing the given
// options. The current config is the baseline for change detection.
func NewWatcher(provider Provider, opts LoadOptions, path string, current *Config, logger *log.Logger) *Watcher {
	return &Watcher{
		provider: provider,
		opts:     opts,
		path:     path,
		logger:   logger,
		current:  current,
		subs:     make(map[string][]subscription),
	}
}

// Subscribe registers a callback for a live-apply key and returns its
// unsubscribe function. Subscribing to a next-run key is allowed but the
// callback will never fire.
func (w *Watcher) Subscribe(key string, cb ChangeCallback) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextSubID
	w.nextSubID++
	w.subs[key] = append(w.subs[key], subscription{id: id, cb: cb})

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		subs := w.subs[key]
		for i := range subs {
			if subs[i].id == id {
				w.subs[key] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Start begins watching the config file's directory until ctx is done.
// Watching the directory rather than the file survives editors that
// replace-on-save.
func (w *Watcher) Start(ctx context.Context) error {
	if w.path == "" {
		// Defaults in use, nothing on disk to watch.
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}

	w.mu.Lock()
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.loop(ctx, fsw)
	return nil
}

// Done returns a channel closed when the watch loop exits. Nil before Start.
func (w *Watcher) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.done)
	defer fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload(ctx)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", "err", err)
		}
	}
}

// reload loads the config file again and dispatches per-key notifications.
func (w *Watcher) reload(ctx context.Context) {
	cfg, err := w.provider.Load(ctx, w.opts)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous settings", "path", w.path, "err", err)
		return
	}

	w.mu.Lock()
	prev := w.current
	w.current = cfg
	subs := make(map[string][]subscription, len(w.subs))
	for k, entries := range w.subs {
		subs[k] = append([]subscription(nil), entries...)
	}
	w.mu.Unlock()

	for _, key := range LiveApplyKeys {
		if keyValue(prev, key) == keyValue(cfg, key) {
			continue
		}
		w.logger.Info("applying setting change", "key", key)
		for _, s := range subs[key] {
			s.cb(cfg)
		}
	}

	for _, key := range NextRunKeys {
		if keyValue(prev, key) == keyValue(cfg, key) {
			continue
		}
		w.logger.Info("setting will apply on next command execution", "key", key)
	}
}
