package site

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a watch rebuild.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc receives the result of each watch rebuild.
type BuildFunc func(*Report, error)

// Watch rebuilds the site whenever the vault changes, until ctx is
// cancelled. Bursts of events are coalesced into one build after the
// debounce period. New directories are watched as they appear; hidden
// directories and the site directory are ignored.
func (b *Builder) Watch(ctx context.Context, onBuild BuildFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := b.addDirs(w, b.source); err != nil {
		return err
	}
	b.log.Info("watching vault", "source", b.source)

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(b.debounce)
			fire = timer.C
			return
		}
		timer.Reset(b.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case <-fire:
			b.resolver.Invalidate(b.source)
			report, err := b.Build(ctx)
			if ctx.Err() != nil {
				return nil
			}
			if onBuild != nil {
				onBuild(report, err)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if b.ignored(ev.Name) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := b.addDirs(w, ev.Name); err != nil {
						b.log.Warn("watch: add directory failed", "path", ev.Name, "error", err)
					}
				}
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			b.log.Debug("watch: change", "path", ev.Name, "op", ev.Op.String())
			schedule()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			b.log.Error("watch: error", "error", err)
		}
	}
}

// addDirs watches root and its subdirectories.
func (b *Builder) addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != b.source && b.ignored(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// ignored reports whether a change at path cannot affect the site.
func (b *Builder) ignored(path string) bool {
	if b.inSite(path) {
		return true
	}
	rel, err := filepath.Rel(b.source, path)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
