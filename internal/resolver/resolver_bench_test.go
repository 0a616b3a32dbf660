package resolver

import (
	"fmt"
	"testing"
)

// benchVault lays out dirs directories of notes notes each, plus one image
// per directory.
func benchVault(dirs, notes int) []string {
	files := make([]string, 0, dirs*(notes+1))
	for d := range dirs {
		for n := range notes {
			files = append(files, fmt.Sprintf("/area%d/topic%d/note%d.md", d%10, d, n))
		}
		files = append(files, fmt.Sprintf("/area%d/topic%d/img/diagram%d.png", d%10, d, d))
	}
	return files
}

var benchLinks = []string{
	"note3",
	"topic42/note7",
	"/area5/topic55/note1",
	"diagram99.png",
	"../topic12/note0",
	"missing note",
}

func benchmarkResolve(b *testing.B, opts ...Option) {
	_, open := disk(benchVault(200, 25)...)
	r := New(append([]Option{WithFS(open)}, opts...)...)

	b.ResetTimer()
	for b.Loop() {
		for _, link := range benchLinks {
			r.Resolve(link, "/area1/topic11", "/")
		}
	}
}

// BenchmarkResolve_Walk measures lookups that walk the vault every time.
func BenchmarkResolve_Walk(b *testing.B) {
	benchmarkResolve(b)
}

// BenchmarkResolve_IndexCache measures the same lookups served from the index.
func BenchmarkResolve_IndexCache(b *testing.B) {
	benchmarkResolve(b, WithIndexCache())
}

// BenchmarkCandidatePattern measures pattern construction for a link.
func BenchmarkCandidatePattern(b *testing.B) {
	b.ResetTimer()
	for b.Loop() {
		for _, link := range benchLinks {
			candidatePattern(link)
		}
	}
}
