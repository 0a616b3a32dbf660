package content

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notepress/notepress/internal/resolver"
	"github.com/notepress/notepress/internal/rewrite"
)

func process(t *testing.T, src string, stages ...Stage) string {
	t.Helper()
	p, err := New(Config{}, stages, nil)
	require.NoError(t, err)

	res, err := p.Process("/vault/note.md", []byte(src))
	require.NoError(t, err)
	require.Equal(t, Rendered, res.Status)
	return string(res.Text)
}

// =============================================================================
// Frontmatter Stage Tests
// =============================================================================

func TestCleanupFrontmatter(t *testing.T) {
	t.Parallel()

	t.Run("BlanksExistingBlock", func(t *testing.T) {
		t.Parallel()
		got := process(t, "---\nkey: value\n---\n# X", CleanupFrontmatter())
		assert.Equal(t, "---\n---\n\n# X\n", got)
	})

	t.Run("TwiceSameAsOnce", func(t *testing.T) {
		t.Parallel()
		for _, src := range []string{"---\nkey: value\n---\n# X", "# X\n\ntext"} {
			once := process(t, src, CleanupFrontmatter())
			twice := process(t, src, CleanupFrontmatter(), CleanupFrontmatter())
			assert.Equal(t, once, twice, src)
		}
	})

	t.Run("NoBlockNoChange", func(t *testing.T) {
		t.Parallel()
		got := process(t, "# X\n\ntext", CleanupFrontmatter())
		assert.Equal(t, "# X\n\ntext\n", got)
	})

	t.Run("UnclosedDelimiterIsNotFrontmatter", func(t *testing.T) {
		t.Parallel()
		got := process(t, "---\n\ntext", CleanupFrontmatter())
		assert.Equal(t, "***\n\ntext\n", got)
	})
}

func TestMergeFrontmatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		merge string
		want  string
	}{
		{
			name:  "AppendsToExisting",
			src:   "---\nkey1:value1\n---",
			merge: "key2:value2",
			want:  "---\nkey1:value1\nkey2:value2\n---\n",
		},
		{
			name:  "CreatesMissingBlock",
			src:   "# No FM in source",
			merge: "key:value",
			want:  "---\nkey:value\n---\n\n# No FM in source\n",
		},
		{
			name:  "EmptyIsNoop",
			src:   "# No FM in source",
			merge: "",
			want:  "# No FM in source\n",
		},
		{
			name:  "WhitespaceIsNoop",
			src:   "---\na: b\n---",
			merge: " \n\t",
			want:  "---\na: b\n---\n",
		},
		{
			name:  "DuplicateKeysKept",
			src:   "---\ntitle: a\n---\nbody",
			merge: "title: b",
			want:  "---\ntitle: a\ntitle: b\n---\n\nbody\n",
		},
		{
			name:  "EmptyDocument",
			src:   "",
			merge: "title: x",
			want:  "---\ntitle: x\n---\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, process(t, tt.src, MergeFrontmatter(Static(tt.merge))))
		})
	}
}

func TestCleanupThenMerge(t *testing.T) {
	t.Parallel()

	got := process(t, "---\nsecret: 1\n---\nbody",
		CleanupFrontmatter(),
		MergeFrontmatter(Static("title: note")),
	)
	assert.Equal(t, "---\n\ntitle: note\n---\n\nbody\n", got)
}

func TestNotFoundPage(t *testing.T) {
	t.Parallel()

	got := process(t, "",
		SetupFrontmatter(Static("layout: default\ntitle: \"404\"")),
		AppendHeading("Page Not Found"),
	)
	assert.Equal(t, "---\nlayout: default\ntitle: \"404\"\n---\n\n# Page Not Found\n", got)
}

// =============================================================================
// Pipeline Tests
// =============================================================================

func TestProcess_Filters(t *testing.T) {
	t.Parallel()

	var calls []string
	accept := func(name string, ok bool) Filter {
		return func([]byte) bool {
			calls = append(calls, name)
			return ok
		}
	}
	stage := StageFunc(func(*Document) ([]string, error) {
		t.Fatal("stage must not run for skipped documents")
		return nil, nil
	})

	p, err := New(Config{}, []Stage{stage}, []Filter{accept("first", true), accept("second", false), accept("third", true)})
	require.NoError(t, err)

	res, err := p.Process("/vault/a.md", []byte("# A"))
	require.NoError(t, err)
	assert.Equal(t, Skipped, res.Status)
	assert.Nil(t, res.Text)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestProcess_StageOrderAndMedia(t *testing.T) {
	t.Parallel()

	var order []int
	mk := func(i int, media ...string) Stage {
		return StageFunc(func(*Document) ([]string, error) {
			order = append(order, i)
			return media, nil
		})
	}

	p, err := New(Config{}, []Stage{mk(1, "/a.png"), mk(2), mk(3, "/b.png", "/a.png")}, nil)
	require.NoError(t, err)

	res, err := p.Process("/vault/a.md", []byte("text"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, []string{"/a.png", "/b.png", "/a.png"}, res.Media)
}

func TestProcess_Errors(t *testing.T) {
	t.Parallel()

	t.Run("StageFailure", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		p, err := New(Config{}, []Stage{StageFunc(func(*Document) ([]string, error) {
			return nil, boom
		})}, nil)
		require.NoError(t, err)

		_, err = p.Process("/vault/a.md", []byte("text"))
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "/vault/a.md")
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		t.Parallel()
		p, err := New(Config{}, nil, nil)
		require.NoError(t, err)

		_, err = p.Process("/vault/a.md", []byte{0xff, 0xfe, 'x'})
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("FrontmatterGeneratorFailure", func(t *testing.T) {
		t.Parallel()
		p, err := New(Config{}, []Stage{MergeFrontmatter(func(*Document) (string, error) {
			return "", errors.New("no title")
		})}, nil)
		require.NoError(t, err)

		_, err = p.Process("/vault/a.md", []byte("text"))
		assert.ErrorContains(t, err, "no title")
	})

	t.Run("InvalidDivider", func(t *testing.T) {
		t.Parallel()
		_, err := New(Config{AliasDivider: "]"}, nil, nil)
		assert.Error(t, err)
	})
}

func TestProcess_InputUntouched(t *testing.T) {
	t.Parallel()

	raw := []byte("---\na: b\n---\ntext")
	orig := bytes.Clone(raw)

	p, err := New(Config{}, []Stage{CleanupFrontmatter(), MergeFrontmatter(Static("c: d"))}, nil)
	require.NoError(t, err)
	_, err = p.Process("/vault/a.md", raw)
	require.NoError(t, err)
	assert.Equal(t, orig, raw)
}

func TestProcess_CustomDivider(t *testing.T) {
	t.Parallel()

	p, err := New(Config{AliasDivider: "::"}, nil, nil)
	require.NoError(t, err)

	res, err := p.Process("/vault/a.md", []byte("[[target::alias|x]]"))
	require.NoError(t, err)
	assert.Equal(t, "[[target::alias|x]]\n", string(res.Text))
}

// =============================================================================
// End-to-End Tests
// =============================================================================

func TestProcess_EndToEnd(t *testing.T) {
	t.Parallel()

	vault := fstest.MapFS{
		"single_link.md":     {Data: []byte("# single\n")},
		"image.jpg":          {Data: []byte{0xff}},
		"notes/Deep Note.md": {Data: []byte("# deep\n")},
		"notes/diagram.png":  {Data: []byte{0x89}},
	}
	res := resolver.New(resolver.WithFS(func(string) fs.FS { return vault }))
	rw := rewrite.New(res, "/vault")

	p, err := New(Config{SourceDir: "/vault", RootDir: "/vault"},
		[]Stage{
			CleanupFrontmatter(),
			MergeFrontmatter(Static("title: note\nlayout: default")),
			RewriteLinks(rw),
		}, nil)
	require.NoError(t, err)

	src := "---\ntags: [publish]\n---\n# H\n[Link Alias](single_link)\n\n" +
		"See [[Deep Note|the deep one]] and ![[diagram.png]].\n\n" +
		"![pic](image.jpg) [ext](https://example.com) ![[clip.mp4]]\n"

	out, err := p.Process("/vault/index.md", []byte(src))
	require.NoError(t, err)

	want := "---\n\ntitle: note\nlayout: default\n---\n\n# H\n\n[Link Alias](/single_link)\n\n" +
		"See [the deep one](/notes/Deep%20Note) and ![diagram.png](/notes/diagram.png).\n\n" +
		"![pic](/image.jpg) [ext](https://example.com) ![[clip.mp4]]\n"
	assert.Equal(t, want, string(out.Text))
	assert.Equal(t, []string{"/vault/notes/diagram.png", "/vault/image.jpg"}, out.Media)
}
