// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	ConfigLoadFailedId Id = iota + 1
	DatabaseOpenFailedId
	SnapshotExportFailedId
	SnapshotImportFailedId
	ServerStartFailedId
	ResetNotConfirmedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// Issue is a Markdown guide for one class of failure.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
		// Commands worth running to recover. Rendered under "See also".
		related []string
	}
)

// Id returns the catalog id.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the unrendered body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// Related returns a copy of the related commands.
func (i *Issue) Related() []string { return slices.Clone(i.related) }

// Render renders the issue with the glamour style at stylePath ("dark",
// "light", "notty", "auto" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.related) > 0 {
		var b strings.Builder
		b.WriteString("\n\n## See also\n")
		for _, cmd := range i.related {
			b.WriteString("- `" + cmd + "`\n")
		}
		md += b.String()
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The tos configuration file could not be read or did not match the schema.

## Configuration file locations:
- Linux: ~/.config/tos/config.cue
- macOS: ~/Library/Application Support/tos/config.cue
- Windows: %APPDATA%\tos\config.cue

## Things you can try:
- Write a fresh default configuration:
~~~
$ tos config init
~~~

- Check the field names and types against the schema:
~~~
$ tos config dump
~~~

## Example configuration:
~~~cue
database: path: "/var/lib/tos/tos.db"
shell: {
  prompt: "Tasnuva TOS"
  banner: true
}
~~~`,
		related: []string{"tos config path", "tos config show"},
	}

	databaseOpenFailedIssue = &Issue{
		id: DatabaseOpenFailedId,
		mdMsg: `
# Could not open the filesystem database!

tos keeps its virtual filesystem in a SQLite database file.

## Common causes:
- The directory of the database does not exist or is not writable
- The file is not a SQLite database
- Another program holds an exclusive lock on it

## Things you can try:
- Point tos at another file:
~~~
$ tos --db /tmp/tos.db
~~~

- Use a throwaway in-memory filesystem:
~~~
$ tos --db :memory:
~~~`,
		related: []string{"tos config show"},
	}

	snapshotExportFailedIssue = &Issue{
		id: SnapshotExportFailedId,
		mdMsg: `
# Snapshot export failed!

The filesystem could not be written to the snapshot file.

## Things you can try:
- Check that the target directory exists and is writable
- Pick the format explicitly:
~~~
$ tos fs export --format yaml backup.yaml
~~~`,
	}

	snapshotImportFailedIssue = &Issue{
		id: SnapshotImportFailedId,
		mdMsg: `
# Snapshot import failed!

The snapshot was rejected and the filesystem was left unchanged.

## Common causes:
- A file content does not match its recorded checksum
- A node is missing its parent directory
- The snapshot was written by a newer version of tos
- The file extension does not match the encoding (json, yaml, toml)`,
		related: []string{"tos fs export"},
	}

	serverStartFailedIssue = &Issue{
		id: ServerStartFailedId,
		mdMsg: `
# Could not start the SSH server!

## Things you can try:
- Choose a free port:
~~~
$ tos serve --port 2223
~~~

- Make sure the host key path is writable so a key can be generated`,
	}

	resetNotConfirmedIssue = &Issue{
		id: ResetNotConfirmedId,
		mdMsg: `
# Reset needs confirmation!

Resetting deletes every file and directory and restores the initial tree.

~~~
$ tos reset --confirm
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		databaseOpenFailedIssue.Id():   databaseOpenFailedIssue,
		snapshotExportFailedIssue.Id(): snapshotExportFailedIssue,
		snapshotImportFailedIssue.Id(): snapshotImportFailedIssue,
		serverStartFailedIssue.Id():    serverStartFailedIssue,
		resetNotConfirmedIssue.Id():    resetNotConfirmedIssue,
	}
)

// Values returns all issues ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id - b.id) })
	return out
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
