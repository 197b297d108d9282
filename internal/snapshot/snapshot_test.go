// SPDX-License-Identifier: MPL-2.0

package snapshot

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasnuva/tos/internal/testutil/vfstest"
	"github.com/tasnuva/tos/internal/vfs"
)

var exportTime = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

func TestChecksum(t *testing.T) {
	t.Parallel()

	sum := Checksum("hello")
	assert.True(t, strings.HasPrefix(sum, "blake3:"))
	assert.Len(t, sum, len("blake3:")+64)
	assert.Equal(t, sum, Checksum("hello"))
	assert.NotEqual(t, sum, Checksum("hello!"))
}

func TestNew_ChecksumsFilesOnly(t *testing.T) {
	t.Parallel()

	snap := New([]vfs.Node{
		{Path: "/", Kind: vfs.KindDirectory},
		{Path: "/a.txt", Kind: vfs.KindFile, Content: "a"},
	}, exportTime)

	require.Len(t, snap.Nodes, 2)
	assert.Equal(t, Version, snap.Version)
	assert.Empty(t, snap.Nodes[0].Checksum)
	assert.Equal(t, Checksum("a"), snap.Nodes[1].Checksum)
	assert.True(t, snap.CreatedAt.Equal(exportTime))
}

func TestExportImport_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, format := range Formats() {
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			src := vfstest.NewStore(t,
				vfstest.WithFile("/home/user/notes.md", "# Notes\n\n- one\n- two\n"),
				vfstest.WithFile("/tmp/empty", ""),
				vfstest.WithDir("/var/log"),
			)
			dst := vfstest.NewStore(t)

			var buf bytes.Buffer
			_, err := Export(ctx, src, &buf, format, exportTime)
			require.NoError(t, err)

			snap, err := Import(ctx, dst, &buf, format)
			require.NoError(t, err)
			assert.True(t, snap.CreatedAt.Equal(exportTime))

			want, err := src.Snapshot(ctx)
			require.NoError(t, err)
			got, err := dst.Snapshot(ctx)
			require.NoError(t, err)
			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].Path, got[i].Path)
				assert.Equal(t, want[i].Kind, got[i].Kind)
				assert.Equal(t, want[i].Content, got[i].Content, want[i].Path)
				assert.True(t, want[i].ModifiedAt.Equal(got[i].ModifiedAt), want[i].Path)
			}
		})
	}
}

func TestImport_RejectsTamperedContent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := vfstest.NewStore(t)

	var buf bytes.Buffer
	_, err := Export(ctx, store, &buf, FormatJSON, exportTime)
	require.NoError(t, err)

	tampered := strings.Replace(buf.String(), "Welcome to Tasnuva TOS!", "Welcome to Somewhere Else", 1)
	require.NotEqual(t, buf.String(), tampered)

	require.NoError(t, store.WriteFile(ctx, "/tmp/marker", "m", false))
	_, err = Import(ctx, store, strings.NewReader(tampered), FormatJSON)
	require.ErrorIs(t, err, ErrChecksumMismatch)

	marker, err := store.Lookup(ctx, "/tmp/marker")
	require.NoError(t, err, "failed import must leave the store untouched")
	assert.Equal(t, "m", marker.Content)
}

func TestImport_RejectsInvalidTree(t *testing.T) {
	t.Parallel()

	doc := `{"version": 1, "created_at": "2024-06-01T10:30:00Z", "nodes": [
		{"path": "/orphan/file", "kind": "file", "created_at": "2024-06-01T10:30:00Z", "modified_at": "2024-06-01T10:30:00Z"}
	]}`
	_, err := Import(context.Background(), vfstest.NewStore(t), strings.NewReader(doc), FormatJSON)
	require.ErrorIs(t, err, vfs.ErrInvalidTree)
}

func TestVFSNodes_Version(t *testing.T) {
	t.Parallel()

	for _, v := range []int{0, Version + 1} {
		_, err := (&Snapshot{Version: v}).VFSNodes()
		require.ErrorIs(t, err, ErrUnsupportedVersion)
	}
}

func TestVFSNodes_ContentWithoutChecksum(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{Version: Version, Nodes: []Node{
		{Path: "/", Kind: vfs.KindDirectory},
		{Path: "/a", Kind: vfs.KindFile, Content: "x"},
	}}
	_, err := snap.VFSNodes()
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestDecode_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader(`{"version": 1, "surprise": true}`), FormatJSON)
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"yaml", FormatYAML},
		{"yml", FormatYAML},
		{" toml ", FormatTOML},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("xml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	got, err := FormatFromPath("/backups/tos.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, got)

	got, err = FormatFromPath("dump.TOML")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, got)

	_, err = FormatFromPath("noext")
	require.ErrorIs(t, err, ErrUnknownFormat)

	require.ErrorIs(t, Encode(&bytes.Buffer{}, &Snapshot{}, "xml"), ErrUnknownFormat)
}
