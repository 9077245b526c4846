// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"psdash-cli/internal/artifacts"
	"psdash-cli/internal/catalog"
	"psdash-cli/internal/config"
	"psdash-cli/internal/issue"
	"psdash-cli/internal/runner"
	"psdash-cli/internal/shell"

	"github.com/spf13/cobra"
)

var (
	runParams   []string
	runMode     string
	runShell    string
	runElevated bool
	runCwd      string
	runEnv      []string

	runCmd = &cobra.Command{
		Use:   "run <command-id>...",
		Short: "Run catalog commands as a batch",
		Long: `Run one or more catalog commands as a single batch.

Headless mode (the default) spawns PowerShell with captured output and a
trustworthy exit code; terminal mode types the script into an interactive
session instead. Every run leaves artifacts under the local data
directory: the batch manifest, a results stream and a log.

Press Ctrl-C to cancel; with runner.kill_on_cancel disabled the batch
keeps running to completion.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatch,
	}
)

func init() {
	runCmd.Flags().StringArrayVarP(&runParams, "param", "p", nil, "parameter value as name=value (repeatable)")
	runCmd.Flags().StringVar(&runMode, "mode", "", "execution mode (headless or terminal; default from config)")
	runCmd.Flags().StringVar(&runShell, "shell", "", "exact shell to use (pwsh or powershell; no fallback)")
	runCmd.Flags().BoolVar(&runElevated, "elevated", false, "request elevated execution (advisory)")
	runCmd.Flags().StringVar(&runCwd, "cwd", "", "working directory for the batch")
	runCmd.Flags().StringArrayVar(&runEnv, "env", nil, "extra environment variable as name=value (repeatable)")
}

func runBatch(c *cobra.Command, args []string) error {
	app := newAppContext(c.Context())
	cat := app.manager.Catalog()
	printFindings(cat.Errors, false)

	values, err := parseKeyValueFlags("param", runParams)
	if err != nil {
		return err
	}
	extraEnv, err := parseKeyValueFlags("env", runEnv)
	if err != nil {
		return err
	}

	batch := make([]catalog.Command, 0, len(args))
	for _, id := range args {
		cmd, ok := catalog.CommandByID(cat.Commands, id)
		if !ok {
			renderIssue(issue.CommandNotFoundId)
			return fmt.Errorf("command %q not found in the catalog", id)
		}
		rendered, err := catalog.RenderCommand(cmd, values)
		if err != nil {
			return fmt.Errorf("command %q: %w", id, err)
		}
		batch = append(batch, rendered)
	}

	mode := app.cfg.Execution.Mode
	if runMode != "" {
		mode = config.ExecutionMode(runMode)
		if !mode.IsValid() {
			return fmt.Errorf("invalid --mode %q, expected headless or terminal", runMode)
		}
	}

	detector := shell.NewDetector(app.logger)
	sh, err := resolveShell(c.Context(), detector, app.cfg.Shell.Preferred)
	if err != nil {
		switch {
		case errors.Is(err, shell.ErrShellUnavailable):
			renderIssue(issue.ShellUnavailableId)
		case errors.Is(err, shell.ErrNoShellFound):
			renderIssue(issue.NoShellFoundId)
		}
		return err
	}
	app.logger.Debug("resolved shell", "name", sh.Name, "version", sh.Version)

	r := runner.New(runner.NewTerminalHost(), app.cfg.Runner.KillOnCancel, app.logger)

	// Live-apply settings while the batch runs: kill_on_cancel affects the
	// in-flight batch, pack source changes rebuild the catalog for the
	// next command resolution.
	watcher := config.NewWatcher(app.provider, app.cfgOpts, app.cfgPath, app.cfg, app.logger)
	watcher.Subscribe(config.KeyRunnerKillOnCancel, func(cfg *config.Config) {
		r.SetKillOnCancel(cfg.Runner.KillOnCancel)
	})
	watcher.Subscribe(config.KeyPacksCustomDir, func(cfg *config.Config) {
		app.manager.SetCustomSources(cfg.Packs.CustomDir, cfg.Packs.CustomPaths)
	})
	watcher.Subscribe(config.KeyPacksCustomPaths, func(cfg *config.Config) {
		app.manager.SetCustomSources(cfg.Packs.CustomDir, cfg.Packs.CustomPaths)
	})
	if err := watcher.Start(c.Context()); err != nil {
		app.logger.Warn("config watcher unavailable", "err", err)
	}

	// Ctrl-C cancels through the runner so kill_on_cancel is honored; the
	// batch itself runs on an uncancellable context.
	go func() {
		<-c.Context().Done()
		r.Cancel()
	}()

	run, store := prepareArtifacts(app, batch, sh, mode)

	started := time.Now()
	res, err := r.Run(context.WithoutCancel(c.Context()), batch, sh, runner.Options{
		Mode:                   mode,
		Elevated:               runElevated,
		Cwd:                    runCwd,
		Env:                    extraEnv,
		ElevationWaitTimeoutMs: app.cfg.Elevation.WaitTimeoutMs,
	})
	if err != nil {
		if errors.Is(err, runner.ErrBusy) {
			renderIssue(issue.RunnerBusyId)
		}
		return err
	}

	recordResult(app, run, res, started)
	if store != nil {
		if _, err := store.Sweep(app.cfg.Artifacts.RetentionDays); err != nil {
			app.logger.Warn("artifact sweep failed", "err", err)
		}
	}

	printResult(res)
	if !res.Success() {
		if res.Cancelled {
			return errors.New("batch cancelled")
		}
		return fmt.Errorf("batch failed with exit code %d", res.ExitCode)
	}
	return nil
}

// prepareArtifacts creates the run directory and writes the manifest.
// Artifact failures never block execution; they degrade to log warnings.
func prepareArtifacts(app *appContext, batch []catalog.Command, sh shell.Info, mode config.ExecutionMode) (*artifacts.Run, *artifacts.Store) {
	baseDir, err := artifacts.DefaultBaseDir()
	if err != nil {
		app.logger.Warn("run artifacts disabled", "err", err)
		return nil, nil
	}

	store := artifacts.NewStore(baseDir, app.logger)
	run, err := store.CreateRun(artifacts.NewRunID())
	if err != nil {
		app.logger.Warn("run artifacts disabled", "err", err)
		return nil, store
	}

	ids := make([]string, len(batch))
	for i := range batch {
		ids[i] = batch[i].ID
	}
	if err := run.WriteManifest(artifacts.BatchManifest{
		RunID:      run.ID,
		StartedAt:  time.Now().UTC(),
		Mode:       string(mode),
		Shell:      sh.Name,
		ShellPath:  sh.Path,
		CommandIDs: ids,
	}); err != nil {
		app.logger.Warn("failed to write batch manifest", "err", err)
	}
	app.logger.Debug("run artifacts", "dir", run.Dir)
	return run, store
}

// recordResult persists the outcome, best effort.
func recordResult(app *appContext, run *artifacts.Run, res *runner.Result, started time.Time) {
	if run == nil {
		return
	}
	if err := run.AppendResult(artifacts.ResultRecord{
		RunID:      run.ID,
		FinishedAt: time.Now().UTC(),
		ExitCode:   res.ExitCode,
		Success:    res.Success(),
		Cancelled:  res.Cancelled,
		Message:    res.Message,
	}); err != nil {
		app.logger.Warn("failed to append result record", "err", err)
	}
	logText := fmt.Sprintf("duration=%s exit=%d cancelled=%v", time.Since(started).Round(time.Millisecond), res.ExitCode, res.Cancelled)
	if res.Output != "" {
		logText += "\n--- stdout ---\n" + res.Output
	}
	if res.ErrOutput != "" {
		logText += "\n--- stderr ---\n" + res.ErrOutput
	}
	if err := run.AppendLog(logText); err != nil {
		app.logger.Warn("failed to append run log", "err", err)
	}
}

func printResult(res *runner.Result) {
	if res.Output != "" {
		fmt.Print(res.Output)
		if !strings.HasSuffix(res.Output, "\n") {
			fmt.Println()
		}
	}
	if res.ErrOutput != "" {
		fmt.Print(ErrorStyle.Render(res.ErrOutput))
		if !strings.HasSuffix(res.ErrOutput, "\n") {
			fmt.Println()
		}
	}
	if res.Message != "" {
		fmt.Println(SubtitleStyle.Render(res.Message))
	}

	switch {
	case res.Cancelled:
		fmt.Println(WarningStyle.Render("Cancelled."))
	case res.Success():
		fmt.Println(SuccessStyle.Render("Done."))
	default:
		fmt.Println(ErrorStyle.Render(fmt.Sprintf("Failed (exit code %d).", res.ExitCode)))
	}
}

// resolveShell picks the executable for the batch. An explicit --shell is
// honored exactly, with no fallback; otherwise the configured preference
// resolves as usual.
func resolveShell(ctx context.Context, detector *shell.Detector, pref config.ShellPreference) (shell.Info, error) {
	if runShell == "" {
		return detector.Preferred(ctx, pref)
	}
	if runShell != shell.ExePwsh && runShell != shell.ExePowershell {
		return shell.Info{}, fmt.Errorf("invalid --shell %q, expected pwsh or powershell", runShell)
	}
	return detector.Require(ctx, runShell)
}

// parseKeyValueFlags turns repeated name=value flags into a value map.
func parseKeyValueFlags(flagName string, flags []string) (map[string]string, error) {
	values := make(map[string]string, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --%s %q, expected name=value", flagName, f)
		}
		values[name] = value
	}
	return values, nil
}
