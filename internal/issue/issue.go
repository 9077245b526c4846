// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	NoShellFoundId Id = iota + 1
	ShellUnavailableId
	PackDirNotFoundId
	PackParseErrorId
	CommandNotFoundId
	RunnerBusyId
)

type MarkdownMsg string

// Issue is a pre-written markdown card for a terminal fault. Cards are
// rendered with glamour right before the CLI exits, so they can afford to be
// wordier than inline error strings.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	noShellFoundIssue = &Issue{
		id: NoShellFoundId,
		mdMsg: `
# No PowerShell executable found!

Neither ` + "`pwsh`" + ` (PowerShell 7+) nor ` + "`powershell`" + ` (Windows PowerShell)
could be located on your PATH.

## Things you can try:
- Install PowerShell 7+: https://aka.ms/powershell
- On Windows, verify that Windows PowerShell has not been removed from PATH
- Pin an explicit executable in your config:
~~~cue
shell: {
  preferred: "pwsh"
}
~~~`,
	}

	shellUnavailableIssue = &Issue{
		id: ShellUnavailableId,
		mdMsg: `
# Requested shell is not available!

The shell you insisted on cannot be located on this system, and fallback is
disabled when a shell is explicitly required.

## Things you can try:
- List what psdash can see:
~~~
$ psdash shells
~~~
- Install the missing shell, or switch the preference:
~~~cue
shell: {
  preferred: "auto"
}
~~~`,
	}

	packDirNotFoundIssue = &Issue{
		id: PackDirNotFoundId,
		mdMsg: `
# Pack directory not found!

The directory given to the catalog loader does not exist. This is not fatal
for custom packs (you may simply have none), but nothing was loaded from it.

## Things you can try:
- Check the path in your config:
~~~cue
packs: {
  custom_dir: "/path/to/packs"
}
~~~
- Validate a single pack file directly:
~~~
$ psdash validate ./my-pack.json
~~~`,
	}

	packParseErrorIssue = &Issue{
		id: PackParseErrorId,
		mdMsg: `
# Failed to parse a command pack!

A pack file contains malformed JSON/TOML/YAML or does not match the pack
schema. The offending pack was skipped; the rest of the catalog loaded.

## Common issues:
- Command ids that are not lowercase kebab-case (` + "`my-command-1`" + `)
- Versions that are not strict semver (` + "`1.2.3`" + `)
- Commands with both ` + "`commandText`" + ` and ` + "`scriptPath`" + ` (or neither)

## Things you can try:
~~~
$ psdash validate ./my-pack.json
~~~`,
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found!

The command id you specified is not present in the merged catalog.

## Things you can try:
- List all available commands:
~~~
$ psdash list
~~~
- Check for typos in the command id
- Verify your custom pack loaded without validation errors:
~~~
$ psdash list --errors
~~~`,
	}

	runnerBusyIssue = &Issue{
		id: RunnerBusyId,
		mdMsg: `
# A batch is already running!

psdash executes at most one headless batch at a time.

## Things you can try:
- Wait for the current batch to finish
- Cancel it (takes effect only when ` + "`runner.kill_on_cancel`" + ` is true)`,
	}

	issues = map[Id]*Issue{
		noShellFoundIssue.Id():     noShellFoundIssue,
		shellUnavailableIssue.Id(): shellUnavailableIssue,
		packDirNotFoundIssue.Id():  packDirNotFoundIssue,
		packParseErrorIssue.Id():   packParseErrorIssue,
		commandNotFoundIssue.Id():  commandNotFoundIssue,
		runnerBusyIssue.Id():       runnerBusyIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
