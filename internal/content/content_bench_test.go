package content

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/notepress/notepress/internal/resolver"
	"github.com/notepress/notepress/internal/rewrite"
)

// benchNote builds a note with sections sections of prose, links and embeds.
func benchNote(sections int) []byte {
	var b strings.Builder
	b.WriteString("---\ntags: [publish]\ntitle: Bench\n---\n")
	for i := range sections {
		fmt.Fprintf(&b, "## Section %d\n\n", i)
		fmt.Fprintf(&b, "Some *prose* with [[note%d|an alias]] and [a link](note%d).\n\n", i%20, (i+1)%20)
		fmt.Fprintf(&b, "- item one\n- item ![[img%d.png]]\n\n", i%5)
		b.WriteString("```go\nfmt.Println(\"x\")\n```\n\n")
	}
	return []byte(b.String())
}

func benchPipeline(b *testing.B, stages []Stage) *Pipeline {
	b.Helper()
	p, err := New(Config{SourceDir: "/vault", RootDir: "/vault"}, stages, nil)
	if err != nil {
		b.Fatal(err)
	}
	return p
}

// BenchmarkProcess_ParseAndRender measures a pipeline without stages.
func BenchmarkProcess_ParseAndRender(b *testing.B) {
	p := benchPipeline(b, nil)
	raw := benchNote(50)

	b.ResetTimer()
	for b.Loop() {
		if _, err := p.Process("/vault/bench.md", raw); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkProcess_PublishStages measures the stages a published note runs.
func BenchmarkProcess_PublishStages(b *testing.B) {
	vault := fstest.MapFS{}
	for i := range 20 {
		vault[fmt.Sprintf("notes/note%d.md", i)] = &fstest.MapFile{Data: []byte("# n\n")}
	}
	for i := range 5 {
		vault[fmt.Sprintf("img/img%d.png", i)] = &fstest.MapFile{Data: []byte{0x89}}
	}
	res := resolver.New(resolver.WithFS(func(string) fs.FS { return vault }), resolver.WithIndexCache())
	rw := rewrite.New(res, "/vault")

	p := benchPipeline(b, []Stage{
		CleanupFrontmatter(),
		MergeFrontmatter(Static("title: bench\nlayout: default")),
		RewriteLinks(rw),
	})
	raw := benchNote(50)

	b.ResetTimer()
	for b.Loop() {
		if _, err := p.Process("/vault/bench.md", raw); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkProcess_Filtered measures a document rejected by a filter.
func BenchmarkProcess_Filtered(b *testing.B) {
	p, err := New(Config{}, nil, []Filter{func([]byte) bool { return false }})
	if err != nil {
		b.Fatal(err)
	}
	raw := benchNote(50)

	b.ResetTimer()
	for b.Loop() {
		if _, err := p.Process("/vault/bench.md", raw); err != nil {
			b.Fatal(err)
		}
	}
}
