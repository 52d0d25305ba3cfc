// Package assets maintains the list of background media files advertised to
// clients in snapshots. The directory is scanned once at startup and
// re-scanned when the filesystem watcher reports a change, so snapshot
// building never touches the disk.
package assets

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

var backgroundExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".mp4":  true,
	".mov":  true,
	".webm": true,
}

// Catalog watches one directory of background assets and caches its listing.
type Catalog struct {
	dir string
	log *slog.Logger

	mu    sync.RWMutex
	files []string

	// onChange, if set, is called with the fresh listing after each rescan
	// triggered by a filesystem event.
	onChange func([]string)
}

// NewCatalog returns a catalog for dir. An empty dir disables the catalog;
// List then always returns nil and Watch is a no-op.
func NewCatalog(dir string, log *slog.Logger) *Catalog {
	return &Catalog{dir: dir, log: log}
}

// OnChange registers a callback invoked after every watcher-triggered rescan.
// Must be called before Watch.
func (c *Catalog) OnChange(fn func([]string)) {
	c.onChange = fn
}

// List returns the cached background file names, sorted.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.files == nil {
		return nil
	}
	out := make([]string, len(c.files))
	copy(out, c.files)
	return out
}

// Scan reads the directory and replaces the cached listing.
func (c *Catalog) Scan() error {
	if c.dir == "" {
		return nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if backgroundExts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	c.mu.Lock()
	c.files = files
	c.mu.Unlock()
	return nil
}

// Watch re-scans on filesystem changes until ctx is cancelled. Watcher
// errors are logged; the cached listing simply goes stale until the next
// successful scan.
func (c *Catalog) Watch(ctx context.Context) {
	if c.dir == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.log.Warn("background watcher unavailable", slog.String("error", err.Error()))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(c.dir); err != nil {
		c.log.Warn("background watcher add failed",
			slog.String("dir", c.dir),
			slog.String("error", err.Error()))
		return
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := c.Scan(); err != nil {
				c.log.Warn("background rescan failed", slog.String("error", err.Error()))
				continue
			}
			if c.onChange != nil {
				c.onChange(c.List())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.log.Warn("background watcher error", slog.String("error", err.Error()))
		case <-ctx.Done():
			return
		}
	}
}
