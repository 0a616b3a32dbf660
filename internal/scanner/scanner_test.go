package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vault creates files (slash-separated, relative) under a temp directory.
func vault(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("# note\n"), 0o644))
	}
	return root
}

func relNames(t *testing.T, root string, files []string) []string {
	t.Helper()
	names := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		names = append(names, filepath.ToSlash(rel))
	}
	sort.Strings(names)
	return names
}

func TestFindNotes(t *testing.T) {
	t.Parallel()

	t.Run("AllNoteExtensions", func(t *testing.T) {
		t.Parallel()
		root := vault(t, "a.md", "b.MD", "c.markdown", "d.MARKDOWN", "e.Md", "f.txt", "g.png")
		files, err := FindNotes(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.md", "b.MD", "c.markdown", "d.MARKDOWN"}, relNames(t, root, files))
	})

	t.Run("NestedDirectories", func(t *testing.T) {
		t.Parallel()
		root := vault(t, "root.md", "dir/nested.md", "dir/sub/deep.md")
		files, err := FindNotes(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"dir/nested.md", "dir/sub/deep.md", "root.md"}, relNames(t, root, files))
	})

	t.Run("SkipsHiddenDirectories", func(t *testing.T) {
		t.Parallel()
		root := vault(t, "visible.md", ".obsidian/workspace.md", ".trash/old.md")
		files, err := FindNotes(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"visible.md"}, relNames(t, root, files))
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		t.Parallel()
		files, err := FindNotes(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("InvalidPath", func(t *testing.T) {
		t.Parallel()
		files, err := FindNotes(filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
		assert.Nil(t, files)
	})
}

func TestFindFiles(t *testing.T) {
	t.Parallel()

	t.Run("NoExtensions", func(t *testing.T) {
		t.Parallel()
		files, err := FindFiles(vault(t, "a.md"), nil)
		require.NoError(t, err)
		assert.Nil(t, files)
	})

	t.Run("CaseSensitive", func(t *testing.T) {
		t.Parallel()
		root := vault(t, "a.png", "b.PNG")
		files, err := FindFiles(root, []string{".png"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.png"}, relNames(t, root, files))
	})
}

func TestIsNote(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNote("x.md"))
	assert.True(t, IsNote("dir/x.MARKDOWN"))
	assert.False(t, IsNote("x.mD"))
	assert.False(t, IsNote("x.jpg"))
	assert.False(t, IsNote("md"))
}

func TestFindNotesWithOptions(t *testing.T) {
	t.Parallel()

	files := []string{"index.md", "blog/post.md", "blog/drafts/wip.md", "private/diary.md"}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name: "NoPatterns",
			want: []string{"blog/drafts/wip.md", "blog/post.md", "index.md", "private/diary.md"},
		},
		{
			name:    "Include",
			include: []string{"blog/**"},
			want:    []string{"blog/drafts/wip.md", "blog/post.md"},
		},
		{
			name:    "Exclude",
			exclude: []string{"private/*", "**/drafts/*"},
			want:    []string{"blog/post.md", "index.md"},
		},
		{
			name:    "SingleStarStopsAtSeparator",
			include: []string{"blog/*"},
			want:    []string{"blog/post.md"},
		},
		{
			name:    "IncludeThenExclude",
			include: []string{"blog/**"},
			exclude: []string{"**/wip.md"},
			want:    []string{"blog/post.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := vault(t, files...)
			got, err := FindNotesWithOptions(ScanOptions{Root: root, Include: tt.include, Exclude: tt.exclude})
			require.NoError(t, err)
			assert.Equal(t, tt.want, relNames(t, root, got))
		})
	}

	t.Run("InvalidPattern", func(t *testing.T) {
		t.Parallel()
		_, err := FindNotesWithOptions(ScanOptions{Root: vault(t, "a.md"), Include: []string{"[oops"}})
		assert.Error(t, err)
	})
}
