// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/tasnuva/tos/internal/issue"
	"github.com/tasnuva/tos/internal/snapshot"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const stdioPath = "-"

func newFSCommand(app *App) *cobra.Command {
	fsCmd := &cobra.Command{
		Use:   "fs",
		Short: "Back up and restore the virtual filesystem",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	fsCmd.AddCommand(newFSExportCommand(app), newFSImportCommand(app))
	return fsCmd
}

func formatNames() string {
	names := make([]string, 0, len(snapshot.Formats()))
	for _, f := range snapshot.Formats() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}

// resolveFormat prefers the --format flag and falls back to the extension
// of path.
func resolveFormat(flag, path string) (snapshot.Format, error) {
	if flag != "" {
		return snapshot.ParseFormat(flag)
	}
	if path == "" || path == stdioPath {
		return snapshot.FormatJSON, nil
	}
	return snapshot.FormatFromPath(path)
}

func newFSExportCommand(app *App) *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of the filesystem",
		Example: `  tos fs export > backup.json
  tos fs export -o backup.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := resolveFormat(format, output)
			if err != nil {
				return err
			}

			store, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer app.closeStore(store)

			var w io.Writer = app.stdout
			if output != "" && output != stdioPath {
				file, err := os.Create(output)
				if err != nil {
					return withIssue(issue.WrapWithContext(err, "export snapshot", output), issue.SnapshotExportFailedId)
				}
				defer file.Close()
				w = file
			}

			snap, err := snapshot.Export(cmd.Context(), store, w, f, time.Now())
			if err != nil {
				return withIssue(issue.WrapWithContext(err, "export snapshot", output), issue.SnapshotExportFailedId)
			}
			if w != app.stdout {
				app.printf("%s Exported %d nodes (%s of file content) to %s\n",
					SuccessStyle.Render("✓"), len(snap.Nodes), humanize.Bytes(contentSize(snap)), output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "snapshot format: "+formatNames()+" (default from extension, else json)")
	return cmd
}

func newFSImportCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the filesystem with a snapshot",
		Long: `Replace the whole filesystem with a snapshot written by 'tos fs export'.
The snapshot is checked before anything changes: file checksums, paths and
parent directories must all be valid. Use - to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := resolveFormat(format, path)
			if err != nil {
				return err
			}

			var r io.Reader = app.stdin
			if path != stdioPath {
				file, err := os.Open(path)
				if err != nil {
					return withIssue(issue.WrapWithContext(err, "import snapshot", path), issue.SnapshotImportFailedId)
				}
				defer file.Close()
				r = file
			}

			store, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer app.closeStore(store)

			snap, err := snapshot.Import(cmd.Context(), store, r, f)
			if err != nil {
				return withIssue(issue.WrapWithContext(err, "import snapshot", path), issue.SnapshotImportFailedId)
			}
			app.printf("%s Imported %d nodes from %s\n", SuccessStyle.Render("✓"), len(snap.Nodes), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "snapshot format: "+formatNames()+" (default from extension)")
	return cmd
}

func contentSize(snap *snapshot.Snapshot) uint64 {
	var total uint64
	for _, n := range snap.Nodes {
		total += uint64(len(n.Content))
	}
	return total
}
