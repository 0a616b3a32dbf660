package rewrite

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notepress/notepress/internal/markdown"
	"github.com/notepress/notepress/internal/resolver"
)

// fakeResolver resolves links from a fixed table and records every lookup.
type fakeResolver struct {
	paths map[string]string
	calls []string
}

func (f *fakeResolver) Resolve(link, _, _ string) resolver.Result {
	f.calls = append(f.calls, link)
	if p, ok := f.paths[link]; ok {
		return resolver.Result{Outcome: resolver.Found, Path: p}
	}
	return resolver.Result{Outcome: resolver.Unresolved}
}

func rewrite(t *testing.T, rw *Rewriter, src string) (string, []string) {
	t.Helper()
	engine, err := markdown.NewEngine("")
	require.NoError(t, err)

	source := []byte(src)
	doc := engine.Parse(source)
	media := rw.Rewrite(doc, "/vault")
	out, err := engine.Render(doc, source)
	require.NoError(t, err)
	return string(out), media
}

// =============================================================================
// Wikilink Conversion Tests
// =============================================================================

func TestRewrite_WikiLinksUnresolved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Alias", "[[Link|Alias]]", "[Alias](Link)\n"},
		{"NoAlias", "[[Link without alias]]", "[Link without alias](Link%20without%20alias)\n"},
		{"FirstDividerOnly", "[[Link|Alias1|Alias2]]", "[Alias1|Alias2](Link)\n"},
		{"NonASCII", "[[Ссылка]]", "[Ссылка](%D0%A1%D1%81%D1%8B%D0%BB%D0%BA%D0%B0)\n"},
		{"ImageEmbed", "![[Embeddinglink.jpg]]", "![Embeddinglink.jpg](Embeddinglink.jpg)\n"},
		{"ImageEmbedAlias", "![[Embedding link.jpg|Alias]]", "![Alias](Embedding%20link.jpg)\n"},
		{"PDFEmbedUntouched", "![[doc.pdf]]", "![[doc.pdf]]\n"},
		{"NoteEmbedUntouched", "![[other note.md|x]]", "![[other note.md|x]]\n"},
		{"InsideSentence", "see [[a b]] here", "see [a b](a%20b) here\n"},
		{"BracketsInAliasEscaped", "[[a|b]c]]", "[b\\]c](a)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rw := New(&fakeResolver{}, "/vault")
			got, media := rewrite(t, rw, tt.in)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, media)
		})
	}
}

// =============================================================================
// Resolution Tests
// =============================================================================

func TestRewrite_Resolution(t *testing.T) {
	t.Parallel()

	paths := map[string]string{
		"single_link":   "/vault/single_link.md",
		"image.jpg":     "/vault/image.jpg",
		"Page One":      "/vault/notes/Page One.md",
		"photo one.png": "/vault/assets/photo one.png",
		"my page":       "/vault/my page.md",
		"file.pdf":      "/vault/docs/file.pdf",
		"README":        "/vault/README.MD",
	}

	t.Run("MarkdownLink", func(t *testing.T) {
		t.Parallel()
		got, media := rewrite(t, New(&fakeResolver{paths: paths}, "/vault"), "# H\n[Link Alias](single_link)")
		assert.Equal(t, "# H\n\n[Link Alias](/single_link)\n", got)
		assert.Empty(t, media)
	})

	t.Run("ImageKeepsExtensionAndIsLogged", func(t *testing.T) {
		t.Parallel()
		got, media := rewrite(t, New(&fakeResolver{paths: paths}, "/vault"), "![alt](image.jpg)")
		assert.Equal(t, "![alt](/image.jpg)\n", got)
		assert.Equal(t, []string{"/vault/image.jpg"}, media)
	})

	t.Run("WikiLinkResolved", func(t *testing.T) {
		t.Parallel()
		got, _ := rewrite(t, New(&fakeResolver{paths: paths}, "/vault"), "[[Page One|first]]")
		assert.Equal(t, "[first](/notes/Page%20One)\n", got)
	})

	t.Run("ImageEmbedResolved", func(t *testing.T) {
		t.Parallel()
		got, media := rewrite(t, New(&fakeResolver{paths: paths}, "/vault"), "![[photo one.png]]")
		assert.Equal(t, "![photo one.png](/assets/photo%20one.png)\n", got)
		assert.Equal(t, []string{"/vault/assets/photo one.png"}, media)
	})

	t.Run("PercentDecodedBeforeLookup", func(t *testing.T) {
		t.Parallel()
		fake := &fakeResolver{paths: paths}
		got, _ := rewrite(t, New(fake, "/vault"), "[x](my%20page)")
		assert.Equal(t, "[x](/my%20page)\n", got)
		assert.Contains(t, fake.calls, "my page")
	})

	t.Run("BaseURL", func(t *testing.T) {
		t.Parallel()
		rw := New(&fakeResolver{paths: paths}, "/vault", WithBaseURL("/some_base_url"))
		got, _ := rewrite(t, rw, "[Link Alias](single_link)")
		assert.Equal(t, "[Link Alias](/some_base_url/single_link)\n", got)
	})

	t.Run("BaseURLTrailingSlash", func(t *testing.T) {
		t.Parallel()
		rw := New(&fakeResolver{paths: paths}, "/vault", WithBaseURL("/some_base_url/"))
		got, _ := rewrite(t, rw, "[Link Alias](single_link)")
		assert.Equal(t, "[Link Alias](/some_base_url/single_link)\n", got)
	})

	t.Run("ExternalUntouched", func(t *testing.T) {
		t.Parallel()
		got, media := rewrite(t, New(resolver.New(), "/vault"), "[x](https://example.com/a%20b)")
		assert.Equal(t, "[x](https://example.com/a%20b)\n", got)
		assert.Empty(t, media)
	})

	t.Run("UnresolvedUntouched", func(t *testing.T) {
		t.Parallel()
		got, media := rewrite(t, New(&fakeResolver{paths: paths}, "/vault"), "[x](nowhere) ![y](missing.png)")
		assert.Equal(t, "[x](nowhere) ![y](missing.png)\n", got)
		assert.Empty(t, media)
	})

	t.Run("LinkToBinaryKeepsExtension", func(t *testing.T) {
		t.Parallel()
		got, media := rewrite(t, New(&fakeResolver{paths: paths}, "/vault"), "[doc](file.pdf)")
		assert.Equal(t, "[doc](/docs/file.pdf)\n", got)
		assert.Equal(t, []string{"/vault/docs/file.pdf"}, media)
	})

	t.Run("WikiLinkToBinaryKeepsExtension", func(t *testing.T) {
		t.Parallel()
		got, media := rewrite(t, New(&fakeResolver{paths: paths}, "/vault"), "[[file.pdf|manual]]")
		assert.Equal(t, "[manual](/docs/file.pdf)\n", got)
		assert.Equal(t, []string{"/vault/docs/file.pdf"}, media)
	})

	t.Run("UppercaseNoteExtensionDropped", func(t *testing.T) {
		t.Parallel()
		got, media := rewrite(t, New(&fakeResolver{paths: paths}, "/vault"), "[r](README)")
		assert.Equal(t, "[r](/README)\n", got)
		assert.Empty(t, media)
	})

	t.Run("MediaInDocumentOrder", func(t *testing.T) {
		t.Parallel()
		got, media := rewrite(t, New(&fakeResolver{paths: paths}, "/vault"),
			"![a](image.jpg)\n\n![[photo one.png]]\n\n![b](image.jpg)")
		assert.Contains(t, got, "![b](/image.jpg)")
		assert.Equal(t, []string{"/vault/image.jpg", "/vault/assets/photo one.png", "/vault/image.jpg"}, media)
	})
}

func TestRewrite_Idempotent(t *testing.T) {
	t.Parallel()

	vault := fstest.MapFS{
		"single_link.md":  &fstest.MapFile{Data: []byte("# single\n")},
		"image.jpg":       &fstest.MapFile{Data: []byte("jpg")},
		"notes/nested.md": &fstest.MapFile{Data: []byte("# nested\n")},
	}
	open := func(string) fs.FS { return vault }
	src := "# T\n\n[a](single_link) ![b](image.jpg) [[single_link|c]] [[nested]]"

	t.Run("NoBaseURL", func(t *testing.T) {
		t.Parallel()
		rw := New(resolver.New(resolver.WithFS(open)), "/vault")

		first, media := rewrite(t, rw, src)
		assert.Equal(t, "# T\n\n[a](/single_link) ![b](/image.jpg) [c](/single_link) [nested](/notes/nested)\n", first)
		assert.Equal(t, []string{"/vault/image.jpg"}, media)

		// Rooted links resolve to the same files again.
		second, media := rewrite(t, rw, first)
		assert.Equal(t, first, second)
		assert.Equal(t, []string{"/vault/image.jpg"}, media)
	})

	t.Run("BaseURL", func(t *testing.T) {
		t.Parallel()
		rw := New(resolver.New(resolver.WithFS(open)), "/vault", WithBaseURL("/docs"))

		first, _ := rewrite(t, rw, src)
		assert.Equal(t, "# T\n\n[a](/docs/single_link) ![b](/docs/image.jpg) [c](/docs/single_link) [nested](/docs/notes/nested)\n", first)

		second, media := rewrite(t, rw, first)
		assert.Equal(t, first, second)
		assert.Empty(t, media)
	})
}

// =============================================================================
// URI Helper Tests
// =============================================================================

func TestEncodeURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"with space", "with%20space"},
		{"/dir/page#section?q=1", "/dir/page#section?q=1"},
		{"100%", "100%25"},
		{"é", "%C3%A9"},
		{"a[b]", "a%5Bb%5D"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, encodeURI(tt.in), tt.in)
	}
}

func TestDecodeURI(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "with space", decodeURI("with%20space"))
	assert.Equal(t, "a+b", decodeURI("a+b"))
	assert.Equal(t, "bad%zz", decodeURI("bad%zz"))
	assert.Equal(t, "trailing%2", decodeURI("trailing%2"))
	assert.Equal(t, "é", decodeURI("%C3%A9"))
	assert.Equal(t, "%C3", decodeURI("%C3"))

	// Reserved characters stay escaped.
	assert.Equal(t, "page%23x", decodeURI("page%23x"))
	assert.Equal(t, "a%2Fb %3F", decodeURI("a%2Fb%20%3F"))
	assert.Equal(t, "a%2fb", decodeURI("a%2fb"))
}
